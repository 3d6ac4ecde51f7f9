package handler

import (
	"net/http"

	"tradedocs/internal/middleware"
	"tradedocs/internal/service"
	"tradedocs/pkg/pagination"
	"tradedocs/pkg/response"

	"github.com/gin-gonic/gin"
)

type HistoryHandler struct {
	historyService service.HistoryService
}

func NewHistoryHandler(historyService service.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

func (h *HistoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/invoices/:id/history", middleware.RequireRole("admin", "manager", "staff"), h.ListInvoiceHistory)
}

// ListInvoiceHistory returns an invoice's audit trail, newest first
// @Summary      List invoice history
// @Description  Retrieves the append-only change history of an invoice
// @Tags         history
// @Security     BearerAuth
// @Produce      json
// @Param        id     path      string  true   "Invoice ID"
// @Param        page   query     int     false  "Page number (default 1)"
// @Param        limit  query     int     false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      404    {object}  response.Response
// @Router       /api/invoices/{id}/history [get]
func (h *HistoryHandler) ListInvoiceHistory(c *gin.Context) {
	params := pagination.Parse(c)

	companyID, ok := middleware.CompanyIDFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Company not resolved"))
		return
	}

	entries, total, err := h.historyService.ListInvoiceHistory(c.Request.Context(), c.Param("id"), companyID, params.Page, params.Limit)
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, "history", entries, total, params.Page, params.Limit))
}
