package billing

import (
	"context"
	"time"

	"github.com/invoicing/backend/internal/domain/billing"
	"github.com/invoicing/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// NextNumberFailure is returned by GetNextInvoiceNumber when the store
// cannot be read. The endpoint reports a value, never an error.
const NextNumberFailure = "ERROR"

// InvoiceService implements invoicing use cases
type InvoiceService struct {
	invoiceRepo billing.InvoiceRepository
	personRepo  billing.PersonRepository
	logger      *zap.Logger
	now         func() time.Time
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoiceRepo billing.InvoiceRepository, personRepo billing.PersonRepository, logger *zap.Logger) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		personRepo:  personRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateInvoice creates a new invoice. Seller and buyer must reference
// existing persons; if either lookup fails nothing is persisted.
func (s *InvoiceService) CreateInvoice(ctx context.Context, dto InvoiceDTO) (*InvoiceDTO, error) {
	seller, buyer, err := s.resolveCounterparties(ctx, dto)
	if err != nil {
		return nil, err
	}

	invoice, err := billing.NewInvoice(invoiceAttributesFromDTO(dto, seller.ID, buyer.ID))
	if err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	s.logger.Info("invoice created",
		zap.Int64("invoice_id", invoice.ID),
		zap.String("invoice_number", invoice.InvoiceNumber))

	invoice.Seller = seller
	invoice.Buyer = buyer
	result := InvoiceToDTO(invoice)
	return &result, nil
}

// GetInvoice returns a non-deleted invoice with its counterparties
func (s *InvoiceService) GetInvoice(ctx context.Context, id int64) (*InvoiceDTO, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := InvoiceToDTO(invoice)
	return &result, nil
}

// ListInvoices returns non-deleted invoices matching the query parameters.
// Unparseable filter values are logged and skipped, never an error.
func (s *InvoiceService) ListInvoices(ctx context.Context, params map[string]string, filter shared.Filter) (*shared.Paginated[InvoiceDTO], error) {
	invoiceFilter, invalid := billing.ParseInvoiceFilter(params)
	for _, v := range invalid {
		s.logger.Warn("skipping unparseable invoice filter value",
			zap.String("key", v.Key),
			zap.String("value", v.Value),
			zap.String("reason", v.Reason))
	}

	invoices, err := s.invoiceRepo.FindAll(ctx, invoiceFilter, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.invoiceRepo.Count(ctx, invoiceFilter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(InvoicesToDTO(invoices), total, filter.Page, filter.PageSize)
	return &page, nil
}

// UpdateInvoice replaces all mutable fields of an invoice, re-resolving
// seller and buyer
func (s *InvoiceService) UpdateInvoice(ctx context.Context, id int64, dto InvoiceDTO) (*InvoiceDTO, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	seller, buyer, err := s.resolveCounterparties(ctx, dto)
	if err != nil {
		return nil, err
	}

	if err := invoice.Update(invoiceAttributesFromDTO(dto, seller.ID, buyer.ID)); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	invoice.Seller = seller
	invoice.Buyer = buyer
	result := InvoiceToDTO(invoice)
	return &result, nil
}

// DeleteInvoice soft-deletes an invoice
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id int64) error {
	if err := s.invoiceRepo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("invoice deleted", zap.Int64("invoice_id", id))
	return nil
}

// GetInvoiceStatistics aggregates non-deleted invoices. The current-year
// window is the server-local calendar year at call time.
func (s *InvoiceService) GetInvoiceStatistics(ctx context.Context) (*InvoiceStatisticsDTO, error) {
	now := s.now()
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	yearEnd := time.Date(now.Year(), 12, 31, 0, 0, 0, 0, now.Location())

	stats, err := s.invoiceRepo.Statistics(ctx, yearStart, yearEnd)
	if err != nil {
		s.logger.Error("invoice statistics query failed", zap.Error(err))
		return nil, err
	}

	result := InvoiceStatisticsToDTO(stats)
	s.logger.Info("invoice statistics computed",
		zap.Int64("all_time_sum", result.AllTimeSum),
		zap.Int64("invoices_count", result.InvoicesCount))
	return &result, nil
}

// GetNextInvoiceNumber returns the next free number of the current month
// sequence. Deleted invoices keep their numbers reserved. A store failure
// yields the sentinel value instead of an error.
func (s *InvoiceService) GetNextInvoiceNumber(ctx context.Context) string {
	prefix := billing.InvoiceNumberPrefix(s.now())
	numbers, err := s.invoiceRepo.FindNumbersByPrefix(ctx, prefix)
	if err != nil {
		s.logger.Error("next invoice number lookup failed", zap.Error(err))
		return NextNumberFailure
	}
	return billing.NextInvoiceNumber(prefix, numbers)
}

// GetProducts returns sorted distinct product names
func (s *InvoiceService) GetProducts(ctx context.Context) ([]string, error) {
	return s.invoiceRepo.DistinctProducts(ctx)
}

// resolveCounterparties loads seller and buyer referenced by the DTO.
// A missing reference is a validation error, an unresolvable one not-found.
func (s *InvoiceService) resolveCounterparties(ctx context.Context, dto InvoiceDTO) (*billing.Person, *billing.Person, error) {
	if dto.Seller == nil || dto.Seller.ID <= 0 {
		return nil, nil, shared.NewDomainError("INVALID_SELLER", "Invoice seller is required")
	}
	if dto.Buyer == nil || dto.Buyer.ID <= 0 {
		return nil, nil, shared.NewDomainError("INVALID_BUYER", "Invoice buyer is required")
	}

	seller, err := s.personRepo.FindByID(ctx, dto.Seller.ID)
	if err != nil {
		return nil, nil, err
	}
	buyer, err := s.personRepo.FindByID(ctx, dto.Buyer.ID)
	if err != nil {
		return nil, nil, err
	}
	return seller, buyer, nil
}

func invoiceAttributesFromDTO(dto InvoiceDTO, sellerID, buyerID int64) billing.InvoiceAttributes {
	return billing.InvoiceAttributes{
		InvoiceNumber: dto.InvoiceNumber,
		SellerID:      sellerID,
		BuyerID:       buyerID,
		Issued:        dto.Issued.Time,
		DueDate:       dto.DueDate.Time,
		Product:       dto.Product,
		Price:         dto.Price,
		VAT:           dto.VAT,
		Note:          dto.Note,
	}
}
