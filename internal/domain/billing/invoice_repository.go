package billing

import (
	"context"
	"time"

	"github.com/invoicing/backend/internal/domain/shared"
)

// InvoiceRepository defines the interface for invoice persistence.
// Unless stated otherwise, operations ignore soft-deleted invoices.
type InvoiceRepository interface {
	// FindByID finds a non-deleted invoice with seller and buyer loaded
	FindByID(ctx context.Context, id int64) (*Invoice, error)

	// FindAll finds non-deleted invoices matching both filters, with seller
	// and buyer loaded
	FindAll(ctx context.Context, invoiceFilter InvoiceFilter, filter shared.Filter) ([]Invoice, error)

	// Count counts non-deleted invoices matching the filter
	Count(ctx context.Context, invoiceFilter InvoiceFilter) (int64, error)

	// Save creates or updates an invoice
	Save(ctx context.Context, invoice *Invoice) error

	// SoftDelete marks an invoice deleted, shared.ErrNotFound if absent
	SoftDelete(ctx context.Context, id int64) error

	// FindNumbersByPrefix returns invoice numbers starting with the prefix.
	// Deleted invoices are included so their numbers are never reissued.
	FindNumbersByPrefix(ctx context.Context, prefix string) ([]string, error)

	// FindBySellerID finds non-deleted invoices sold by the person
	FindBySellerID(ctx context.Context, sellerID int64) ([]Invoice, error)

	// FindByBuyerID finds non-deleted invoices bought by the person
	FindByBuyerID(ctx context.Context, buyerID int64) ([]Invoice, error)

	// Statistics aggregates non-deleted invoices; the current-year sum covers
	// issued dates in [yearStart, yearEnd]
	Statistics(ctx context.Context, yearStart, yearEnd time.Time) (*InvoiceStatistics, error)

	// DistinctProducts returns sorted distinct product names of non-deleted
	// invoices
	DistinctProducts(ctx context.Context) ([]string, error)
}
