package handler

import (
	"errors"
	"net/http"

	"transitflow/internal/middleware"
	"transitflow/internal/service"
	"transitflow/pkg/pagination"
	"transitflow/pkg/response"

	"github.com/gin-gonic/gin"
)

type ApprovalHandler struct {
	approvalService service.ApprovalService
}

func NewApprovalHandler(approvalService service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvalService: approvalService}
}

func (h *ApprovalHandler) RegisterRoutes(router *gin.RouterGroup) {
	approvals := router.Group("/api/approvals")
	{
		approvals.POST("", middleware.RequireAuth(), h.SubmitRequest)
		approvals.GET("", middleware.RequireRole("admin"), h.ListApprovalRequests)
		approvals.PUT("/:id/process", middleware.RequireRole("admin"), h.ProcessRequest)
		approvals.POST("/:id/consume-pin", middleware.RequireAuth(), h.ConsumePin)
	}

	router.GET("/api/my-requests", middleware.RequireAuth(), h.ListMyRequests)
}

// SubmitRequest files a new approval request for a guarded edit or delete
// @Summary      Submit an approval request
// @Description  Files an edit/delete request for a guarded entity; rejected when an active request already targets it
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.SubmitApprovalRequest  true  "Request Payload"
// @Success      201      {object}  response.Response{data=service.ApprovalResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/approvals [post]
func (h *ApprovalHandler) SubmitRequest(c *gin.Context) {
	var req service.SubmitApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.approvalService.Submit(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		if errors.Is(err, service.ErrActiveRequestExists) {
			c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// ListApprovalRequests returns approval requests, optionally filtered by status
func (h *ApprovalHandler) ListApprovalRequests(c *gin.Context) {
	params := pagination.Parse(c)

	approvals, total, err := h.approvalService.ListForAdmin(c.Request.Context(), c.Query("status"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   approvals,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

// ProcessRequest approves or rejects a pending request, optionally issuing a PIN
// @Summary      Process an approval request
// @Description  Admin decision on a pending request. Approve may issue a one-time 6-digit PIN; the PIN appears only in this response.
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                          true  "Request ID"
// @Param        payload  body      service.ProcessApprovalRequest  true  "Decision Payload"
// @Success      200      {object}  response.Response{data=service.ProcessApprovalResult}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/approvals/{id}/process [put]
func (h *ApprovalHandler) ProcessRequest(c *gin.Context) {
	var req service.ProcessApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.approvalService.Process(c.Request.Context(), c.Param("id"), currentUserID(c), req)
	if err != nil {
		if errors.Is(err, service.ErrNotPending) {
			c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	if result.CleanupWarning != "" {
		c.JSON(http.StatusOK, response.SuccessWithWarning(http.StatusOK, result, result.CleanupWarning))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// ConsumePin redeems an issued PIN to carry out the delegated action
func (h *ApprovalHandler) ConsumePin(c *gin.Context) {
	var req struct {
		Pin string `json:"pin" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.approvalService.ConsumePin(c.Request.Context(), c.Param("id"), currentUserID(c), req.Pin)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotRequester):
			c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, err.Error()))
		case errors.Is(err, service.ErrPinExpired):
			c.JSON(http.StatusGone, response.Error(http.StatusGone, err.Error()))
		case errors.Is(err, service.ErrPinMismatch), errors.Is(err, service.ErrNoPinIssued):
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		default:
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// ListMyRequests returns the requests filed by the authenticated user
func (h *ApprovalHandler) ListMyRequests(c *gin.Context) {
	params := pagination.Parse(c)

	approvals, total, err := h.approvalService.ListForUser(c.Request.Context(), currentUserID(c), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   approvals,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}
