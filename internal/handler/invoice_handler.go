package handler

import (
	"errors"
	"net/http"

	"tradedocs/internal/middleware"
	"tradedocs/internal/service"
	"tradedocs/pkg/pagination"
	"tradedocs/pkg/response"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	invoiceService      service.InvoiceService
	confirmationService service.ConfirmationService
}

func NewInvoiceHandler(invoiceService service.InvoiceService, confirmationService service.ConfirmationService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService:      invoiceService,
		confirmationService: confirmationService,
	}
}

func (h *InvoiceHandler) RegisterRoutes(router *gin.RouterGroup) {
	invoices := router.Group("/api/invoices")
	{
		invoices.POST("", middleware.RequireRole("admin", "manager", "staff"), h.CreateInvoice)
		invoices.GET("", middleware.RequireRole("admin", "manager", "staff"), h.ListInvoices)
		invoices.GET("/:id", middleware.RequireRole("admin", "manager", "staff"), h.GetInvoice)
		invoices.PUT("/:id", middleware.RequireRole("admin", "manager", "staff"), h.UpdateInvoice)
		invoices.DELETE("/:id", middleware.RequireRole("admin", "manager"), h.DeleteInvoice)
		invoices.PUT("/:id/status", middleware.RequireRole("admin", "manager"), h.TransitionStatus)
	}
}

// CreateInvoice creates a new invoice with computed packing breakdowns
// @Summary      Create invoice
// @Description  Creates a pending invoice; line breakdowns and totals are computed server-side
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.InvoiceMutationRequest  true  "Create Invoice Payload"
// @Success      201      {object}  response.Response{data=model.Invoice}
// @Failure      400      {object}  response.Response
// @Router       /api/invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req service.InvoiceMutationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	companyID, ok := middleware.CompanyIDFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Company not resolved"))
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), companyID, middleware.UserIDFromContext(c), req)
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, invoice))
}

// ListInvoices returns a paginated list of invoices, optionally filtered by status
// @Summary      List invoices
// @Description  Retrieves a paginated list of the company's invoices
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "Filter by status (pending, confirmed, cancelled)"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /api/invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	params := pagination.Parse(c)

	companyID, ok := middleware.CompanyIDFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Company not resolved"))
		return
	}

	invoices, total, err := h.invoiceService.ListInvoices(c.Request.Context(), companyID, c.Query("status"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, "invoices", invoices, total, params.Page, params.Limit))
}

// GetInvoice returns one invoice with its line items
// @Summary      Get invoice
// @Description  Retrieves an invoice by ID, including line items and their breakdowns
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=model.Invoice}
// @Failure      404  {object}  response.Response
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	companyID, ok := middleware.CompanyIDFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Company not resolved"))
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), c.Param("id"), companyID)
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// UpdateInvoice replaces a pending invoice's content and recomputes all totals
// @Summary      Update invoice
// @Description  Updates a pending invoice; confirmed and cancelled invoices are immutable
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                          true  "Invoice ID"
// @Param        payload  body      service.InvoiceMutationRequest  true  "Update Invoice Payload"
// @Success      200      {object}  response.Response{data=model.Invoice}
// @Failure      400      {object}  response.Response
// @Router       /api/invoices/{id} [put]
func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	var req service.InvoiceMutationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	companyID, ok := middleware.CompanyIDFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Company not resolved"))
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), c.Param("id"), companyID, middleware.UserIDFromContext(c), req)
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// DeleteInvoice removes a pending invoice; its history remains
// @Summary      Delete invoice
// @Description  Deletes a pending invoice and its line items; the audit trail survives
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/invoices/{id} [delete]
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	companyID, ok := middleware.CompanyIDFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Company not resolved"))
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), c.Param("id"), companyID, middleware.UserIDFromContext(c)); err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]string{"message": "invoice deleted"}))
}

// TransitionStatus confirms or cancels a pending invoice
// @Summary      Transition invoice status
// @Description  Confirms (spawning payment and order) or cancels a pending invoice
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                           true  "Invoice ID"
// @Param        payload  body      service.StatusTransitionRequest  true  "Target status"
// @Success      200      {object}  response.Response{data=service.StatusTransitionResult}
// @Failure      409      {object}  response.Response
// @Router       /api/invoices/{id}/status [put]
func (h *InvoiceHandler) TransitionStatus(c *gin.Context) {
	var req service.StatusTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	companyID, ok := middleware.CompanyIDFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Company not resolved"))
		return
	}

	result, err := h.confirmationService.TransitionStatus(c.Request.Context(), c.Param("id"), companyID, middleware.UserIDFromContext(c), req)
	if err != nil {
		var dup *service.DuplicateConfirmationError
		if errors.As(err, &dup) {
			c.JSON(http.StatusConflict, response.Response{
				Status:     "error",
				StatusCode: http.StatusConflict,
				Data:       map[string]interface{}{"order": dup.Order},
				Error:      err.Error(),
			})
			return
		}
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
