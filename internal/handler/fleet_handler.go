package handler

import (
	"net/http"

	"transitflow/internal/middleware"
	"transitflow/internal/service"
	"transitflow/pkg/pagination"
	"transitflow/pkg/response"

	"github.com/gin-gonic/gin"
)

type FleetHandler struct {
	fleetService service.FleetService
}

func NewFleetHandler(fleetService service.FleetService) *FleetHandler {
	return &FleetHandler{fleetService: fleetService}
}

func (h *FleetHandler) RegisterRoutes(router *gin.RouterGroup) {
	trucks := router.Group("/api/trucks", middleware.RequireAuth())
	{
		trucks.GET("", h.ListTrucks)
		trucks.GET("/:id", h.GetTruck)
		trucks.POST("", h.CreateTruck)
		trucks.PUT("/:id", h.UpdateTruck)
		trucks.DELETE("/:id", middleware.RequireRole("admin"), h.DeleteTruck)
	}

	drivers := router.Group("/api/drivers", middleware.RequireAuth())
	{
		drivers.GET("", h.ListDrivers)
		drivers.GET("/:id", h.GetDriver)
		drivers.POST("", h.CreateDriver)
		drivers.PUT("/:id", h.UpdateDriver)
		drivers.DELETE("/:id", middleware.RequireRole("admin"), h.DeleteDriver)
	}
}

func (h *FleetHandler) ListTrucks(c *gin.Context) {
	params := pagination.Parse(c)

	trucks, total, err := h.fleetService.ListTrucks(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   trucks,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

func (h *FleetHandler) GetTruck(c *gin.Context) {
	truck, err := h.fleetService.GetTruck(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, truck))
}

func (h *FleetHandler) CreateTruck(c *gin.Context) {
	var req service.CreateTruckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	truck, err := h.fleetService.CreateTruck(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, truck))
}

func (h *FleetHandler) UpdateTruck(c *gin.Context) {
	var req service.UpdateTruckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	truck, err := h.fleetService.UpdateTruck(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, truck))
}

func (h *FleetHandler) DeleteTruck(c *gin.Context) {
	if err := h.fleetService.DeleteTruck(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "truck deleted"}))
}

func (h *FleetHandler) ListDrivers(c *gin.Context) {
	params := pagination.Parse(c)

	drivers, total, err := h.fleetService.ListDrivers(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   drivers,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

func (h *FleetHandler) GetDriver(c *gin.Context) {
	driver, err := h.fleetService.GetDriver(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, driver))
}

func (h *FleetHandler) CreateDriver(c *gin.Context) {
	var req service.CreateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	driver, err := h.fleetService.CreateDriver(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, driver))
}

func (h *FleetHandler) UpdateDriver(c *gin.Context) {
	var req service.UpdateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	driver, err := h.fleetService.UpdateDriver(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, driver))
}

func (h *FleetHandler) DeleteDriver(c *gin.Context) {
	if err := h.fleetService.DeleteDriver(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "driver deleted"}))
}
