package handler

import (
	"net/http"

	"transitflow/internal/middleware"
	"transitflow/internal/service"
	"transitflow/pkg/pagination"
	"transitflow/pkg/response"

	"github.com/gin-gonic/gin"
)

type AccountingHandler struct {
	accountingService service.AccountingService
}

func NewAccountingHandler(accountingService service.AccountingService) *AccountingHandler {
	return &AccountingHandler{accountingService: accountingService}
}

func (h *AccountingHandler) RegisterRoutes(router *gin.RouterGroup) {
	entries := router.Group("/api/accounting", middleware.RequireAuth())
	{
		entries.GET("", h.ListEntries)
		entries.GET("/:id", h.GetEntry)
		entries.POST("", h.CreateEntry)
		entries.PUT("/:id", h.UpdateEntry)
		entries.DELETE("/:id", middleware.RequireRole("admin"), h.DeleteEntry)
	}
}

// ListEntries returns journal lines, filterable by dossier, client and date range
func (h *AccountingHandler) ListEntries(c *gin.Context) {
	params := pagination.Parse(c)

	entries, total, err := h.accountingService.ListEntries(
		c.Request.Context(),
		c.Query("bl_id"), c.Query("client_id"), c.Query("from"), c.Query("to"),
		params.Page, params.Limit,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   entries,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

func (h *AccountingHandler) GetEntry(c *gin.Context) {
	entry, err := h.accountingService.GetEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, entry))
}

func (h *AccountingHandler) CreateEntry(c *gin.Context) {
	var req service.CreateAccountingEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	entry, err := h.accountingService.CreateEntry(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, entry))
}

func (h *AccountingHandler) UpdateEntry(c *gin.Context) {
	var req service.UpdateAccountingEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	entry, err := h.accountingService.UpdateEntry(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, entry))
}

func (h *AccountingHandler) DeleteEntry(c *gin.Context) {
	if err := h.accountingService.DeleteEntry(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "accounting entry deleted"}))
}
