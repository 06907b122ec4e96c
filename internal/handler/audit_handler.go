package handler

import (
	"net/http"

	"transitflow/internal/middleware"
	"transitflow/internal/service"
	"transitflow/pkg/pagination"
	"transitflow/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/session-events", middleware.RequireRole("admin"), h.ListSessionEvents)
}

// ListSessionEvents returns login/logout history, newest first (admin only)
func (h *AuditHandler) ListSessionEvents(c *gin.Context) {
	params := pagination.Parse(c)

	events, total, err := h.auditService.ListSessionEvents(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   events,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}
