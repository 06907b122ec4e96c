package handler

import (
	"net/http"

	"transitflow/internal/middleware"
	"transitflow/internal/service"
	"transitflow/pkg/pagination"
	"transitflow/pkg/response"

	"github.com/gin-gonic/gin"
)

type BLHandler struct {
	blService        service.BLService
	containerService service.ContainerService
}

func NewBLHandler(blService service.BLService, containerService service.ContainerService) *BLHandler {
	return &BLHandler{blService: blService, containerService: containerService}
}

func (h *BLHandler) RegisterRoutes(router *gin.RouterGroup) {
	bls := router.Group("/api/bls", middleware.RequireAuth())
	{
		bls.GET("", h.ListBLs)
		bls.GET("/:id", h.GetBL)
		bls.POST("", h.CreateBL)
		bls.PUT("/:id", h.UpdateBL)
		bls.DELETE("/:id", middleware.RequireRole("admin"), h.DeleteBL)
		bls.POST("/categorize", h.Categorize)

		bls.GET("/:id/containers", h.ListContainers)
		bls.POST("/:id/containers", h.CreateContainer)
		bls.GET("/:id/containers/:containerId", h.GetContainer)
		bls.PUT("/:id/containers/:containerId", h.UpdateContainer)
		bls.DELETE("/:id/containers/:containerId", middleware.RequireRole("admin"), h.DeleteContainer)
	}
}

// ListBLs returns bills of lading, optionally filtered by client and status
func (h *BLHandler) ListBLs(c *gin.Context) {
	params := pagination.Parse(c)

	bls, total, err := h.blService.ListBLs(c.Request.Context(), c.Query("client_id"), c.Query("status"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   bls,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

// GetBL returns one bill of lading with its budget summary
func (h *BLHandler) GetBL(c *gin.Context) {
	bl, err := h.blService.GetBL(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, bl))
}

// CreateBL opens a new bill of lading dossier
func (h *BLHandler) CreateBL(c *gin.Context) {
	var req service.CreateBLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	bl, err := h.blService.CreateBL(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, bl))
}

// UpdateBL updates dossier fields
func (h *BLHandler) UpdateBL(c *gin.Context) {
	var req service.UpdateBLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	bl, err := h.blService.UpdateBL(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, bl))
}

// DeleteBL removes a dossier (admin only; employees go through approvals)
func (h *BLHandler) DeleteBL(c *gin.Context) {
	if err := h.blService.DeleteBL(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "bill of lading deleted"}))
}

// Categorize suggests categories/sub-categories for a cargo description.
// The suggestion is best-effort: upstream failures yield empty lists.
func (h *BLHandler) Categorize(c *gin.Context) {
	var req struct {
		Description string `json:"description" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	suggestion := h.blService.SuggestCategories(c.Request.Context(), req.Description)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, suggestion))
}

// ListContainers returns the containers of a dossier
func (h *BLHandler) ListContainers(c *gin.Context) {
	containers, err := h.containerService.ListByBL(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, containers))
}

// CreateContainer attaches a container to a dossier
func (h *BLHandler) CreateContainer(c *gin.Context) {
	var req service.CreateContainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	req.BLID = c.Param("id")

	container, err := h.containerService.CreateContainer(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, container))
}

// GetContainer returns a single container
func (h *BLHandler) GetContainer(c *gin.Context) {
	container, err := h.containerService.GetContainer(c.Request.Context(), c.Param("containerId"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, container))
}

// UpdateContainer updates container fields
func (h *BLHandler) UpdateContainer(c *gin.Context) {
	var req service.UpdateContainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	container, err := h.containerService.UpdateContainer(c.Request.Context(), c.Param("containerId"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, container))
}

// DeleteContainer removes a container from its dossier (admin only)
func (h *BLHandler) DeleteContainer(c *gin.Context) {
	if err := h.containerService.DeleteContainer(c.Request.Context(), c.Param("id"), c.Param("containerId")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "container deleted"}))
}
