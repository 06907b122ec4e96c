package handler

import (
	"net/http"

	"transitflow/internal/middleware"
	"transitflow/internal/service"
	"transitflow/pkg/pagination"
	"transitflow/pkg/response"

	"github.com/gin-gonic/gin"
)

type SecretaryHandler struct {
	secretaryService service.SecretaryService
}

func NewSecretaryHandler(secretaryService service.SecretaryService) *SecretaryHandler {
	return &SecretaryHandler{secretaryService: secretaryService}
}

func (h *SecretaryHandler) RegisterRoutes(router *gin.RouterGroup) {
	docs := router.Group("/api/documents", middleware.RequireAuth())
	{
		docs.GET("", h.ListDocuments)
		docs.GET("/:id", h.GetDocument)
		docs.POST("", h.CreateDocument)
		docs.PUT("/:id", h.UpdateDocument)
		docs.DELETE("/:id", middleware.RequireRole("admin"), h.DeleteDocument)
	}
}

// ListDocuments returns filed documents, optionally filtered by client
func (h *SecretaryHandler) ListDocuments(c *gin.Context) {
	params := pagination.Parse(c)

	docs, total, err := h.secretaryService.ListDocuments(c.Request.Context(), c.Query("client_id"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   docs,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

func (h *SecretaryHandler) GetDocument(c *gin.Context) {
	doc, err := h.secretaryService.GetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, doc))
}

func (h *SecretaryHandler) CreateDocument(c *gin.Context) {
	var req service.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	doc, err := h.secretaryService.CreateDocument(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, doc))
}

func (h *SecretaryHandler) UpdateDocument(c *gin.Context) {
	var req service.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	doc, err := h.secretaryService.UpdateDocument(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, doc))
}

func (h *SecretaryHandler) DeleteDocument(c *gin.Context) {
	if err := h.secretaryService.DeleteDocument(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "document deleted"}))
}
