package handler

import (
	"net/http"

	"transitflow/internal/middleware"
	"transitflow/internal/service"
	"transitflow/pkg/pagination"
	"transitflow/pkg/response"

	"github.com/gin-gonic/gin"
)

type TransportHandler struct {
	transportService service.TransportService
}

func NewTransportHandler(transportService service.TransportService) *TransportHandler {
	return &TransportHandler{transportService: transportService}
}

func (h *TransportHandler) RegisterRoutes(router *gin.RouterGroup) {
	transports := router.Group("/api/transports", middleware.RequireAuth())
	{
		transports.GET("", h.ListTransports)
		transports.GET("/:id", h.GetTransport)
		transports.POST("", h.CreateTransport)
		transports.PUT("/:id", h.UpdateTransport)
		transports.DELETE("/:id", middleware.RequireRole("admin"), h.DeleteTransport)
	}
}

// ListTransports returns trucking legs, filterable by truck, driver, dossier and status
func (h *TransportHandler) ListTransports(c *gin.Context) {
	params := pagination.Parse(c)

	transports, total, err := h.transportService.ListTransports(
		c.Request.Context(),
		c.Query("truck_id"), c.Query("driver_id"), c.Query("bl_id"), c.Query("status"),
		params.Page, params.Limit,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   transports,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

func (h *TransportHandler) GetTransport(c *gin.Context) {
	transport, err := h.transportService.GetTransport(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, transport))
}

func (h *TransportHandler) CreateTransport(c *gin.Context) {
	var req service.CreateTransportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	transport, err := h.transportService.CreateTransport(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, transport))
}

func (h *TransportHandler) UpdateTransport(c *gin.Context) {
	var req service.UpdateTransportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	transport, err := h.transportService.UpdateTransport(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, transport))
}

func (h *TransportHandler) DeleteTransport(c *gin.Context) {
	if err := h.transportService.DeleteTransport(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "transport deleted"}))
}
