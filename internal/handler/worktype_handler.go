package handler

import (
	"net/http"

	"transitflow/internal/middleware"
	"transitflow/internal/service"
	"transitflow/pkg/response"

	"github.com/gin-gonic/gin"
)

type WorkTypeHandler struct {
	workTypeService service.WorkTypeService
}

func NewWorkTypeHandler(workTypeService service.WorkTypeService) *WorkTypeHandler {
	return &WorkTypeHandler{workTypeService: workTypeService}
}

func (h *WorkTypeHandler) RegisterRoutes(router *gin.RouterGroup) {
	workTypes := router.Group("/api/work-types", middleware.RequireAuth())
	{
		workTypes.GET("", h.ListWorkTypes)
		workTypes.POST("", h.CreateWorkType)
		workTypes.PUT("/:id", h.UpdateWorkType)
		workTypes.DELETE("/:id", middleware.RequireRole("admin"), h.DeleteWorkType)
	}
}

// ListWorkTypes returns the work type catalog
func (h *WorkTypeHandler) ListWorkTypes(c *gin.Context) {
	workTypes, err := h.workTypeService.ListWorkTypes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, workTypes))
}

// CreateWorkType adds a catalog entry
func (h *WorkTypeHandler) CreateWorkType(c *gin.Context) {
	var req service.CreateWorkTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	workType, err := h.workTypeService.CreateWorkType(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, workType))
}

// UpdateWorkType updates a catalog entry
func (h *WorkTypeHandler) UpdateWorkType(c *gin.Context) {
	var req service.UpdateWorkTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	workType, err := h.workTypeService.UpdateWorkType(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, workType))
}

// DeleteWorkType removes a catalog entry (admin only; employees go through approvals)
func (h *WorkTypeHandler) DeleteWorkType(c *gin.Context) {
	if err := h.workTypeService.DeleteWorkType(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "work type deleted"}))
}
