package handler

import (
	"github.com/gin-gonic/gin"
	appbilling "github.com/invoicing/backend/internal/application/billing"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/invoicing/backend/internal/interfaces/http/dto"
	"github.com/invoicing/backend/internal/interfaces/http/middleware"
)

// invoiceFilterKeys are the query parameters recognized by the invoice listing.
// Anything else is ignored.
var invoiceFilterKeys = []string{
	"dateFrom",
	"dateTo",
	"minPrice",
	"maxPrice",
	"sellerId",
	"buyerId",
	"sellerIdentificationNumber",
	"buyerIdentificationNumber",
	"product",
}

// InvoiceHandler handles invoice API endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *appbilling.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *appbilling.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// RegisterRoutes registers invoice routes
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.CreateInvoice)
		invoices.GET("", h.ListInvoices)
		invoices.GET("/statistics", h.GetStatistics)
		invoices.GET("/next-number", h.GetNextNumber)
		invoices.GET("/products", h.GetProducts)
		invoices.GET("/:id", h.GetInvoice)
		invoices.PUT("/:id", h.UpdateInvoice)
		invoices.DELETE("/:id", h.DeleteInvoice)
	}
}

// CreateInvoice godoc
// @ID           createInvoice
// @Summary      Create an invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        invoice body billing.InvoiceDTO true "Invoice"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req appbilling.InvoiceDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, invoice)
}

// ListInvoices godoc
// @ID           listInvoices
// @Summary      List invoices
// @Description  Supports filtering by issue date range, price band, counterparty
// @Description  and product fragment. Values that fail to parse are skipped.
// @Tags         invoices
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        dateFrom query string false "Issue date lower bound (YYYY-MM-DD)"
// @Param        dateTo query string false "Issue date upper bound (YYYY-MM-DD)"
// @Param        minPrice query int false "Minimum price"
// @Param        maxPrice query int false "Maximum price"
// @Param        sellerId query int false "Seller ID"
// @Param        buyerId query int false "Buyer ID"
// @Param        sellerIdentificationNumber query string false "Seller identification number"
// @Param        buyerIdentificationNumber query string false "Buyer identification number"
// @Param        product query string false "Product name fragment"
// @Success      200 {object} dto.Response
// @Router       /invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	params := make(map[string]string, len(invoiceFilterKeys))
	for _, key := range invoiceFilterKeys {
		if value := c.Query(key); value != "" {
			params[key] = value
		}
	}

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
	}
	page, err := h.invoiceService.ListInvoices(c.Request.Context(), params, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetInvoice godoc
// @ID           getInvoice
// @Summary      Get an invoice by ID
// @Tags         invoices
// @Produce      json
// @Param        id path int true "Invoice ID"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), req.ID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, invoice)
}

// UpdateInvoice godoc
// @ID           updateInvoice
// @Summary      Replace all fields of an invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path int true "Invoice ID"
// @Param        invoice body billing.InvoiceDTO true "Invoice"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /invoices/{id} [put]
func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	var body appbilling.InvoiceDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), req.ID, body)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, invoice)
}

// DeleteInvoice godoc
// @ID           deleteInvoice
// @Summary      Soft-delete an invoice
// @Description  The invoice disappears from listings but its number stays reserved.
// @Tags         invoices
// @Param        id path int true "Invoice ID"
// @Success      204
// @Failure      404 {object} dto.Response
// @Router       /invoices/{id} [delete]
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), req.ID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// GetStatistics godoc
// @ID           getInvoiceStatistics
// @Summary      Aggregate invoice statistics
// @Description  Current year sum, all-time sum and count of visible invoices.
// @Tags         invoices
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /invoices/statistics [get]
func (h *InvoiceHandler) GetStatistics(c *gin.Context) {
	stats, err := h.invoiceService.GetInvoiceStatistics(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, stats)
}

// GetNextNumber godoc
// @ID           getNextInvoiceNumber
// @Summary      Suggest the next invoice number for the current month
// @Tags         invoices
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /invoices/next-number [get]
func (h *InvoiceHandler) GetNextNumber(c *gin.Context) {
	h.Success(c, h.invoiceService.GetNextInvoiceNumber(c.Request.Context()))
}

// GetProducts godoc
// @ID           getInvoiceProducts
// @Summary      Distinct product names across visible invoices
// @Tags         invoices
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /invoices/products [get]
func (h *InvoiceHandler) GetProducts(c *gin.Context) {
	products, err := h.invoiceService.GetProducts(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, products)
}
