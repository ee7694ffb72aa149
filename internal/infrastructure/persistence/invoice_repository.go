package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/invoicing/backend/internal/domain/billing"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds a non-deleted invoice with seller and buyer loaded
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id int64) (*billing.Invoice, error) {
	var invoice billing.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Seller").
		Preload("Buyer").
		Where("id = ? AND deleted = ?", id, false).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindAll finds non-deleted invoices matching both filters
func (r *GormInvoiceRepository) FindAll(ctx context.Context, invoiceFilter billing.InvoiceFilter, filter shared.Filter) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	query := r.applyInvoiceFilter(r.active(ctx), invoiceFilter)
	query = r.applyPagination(query, filter)

	if err := query.Preload("Seller").Preload("Buyer").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Count counts non-deleted invoices matching the filter
func (r *GormInvoiceRepository) Count(ctx context.Context, invoiceFilter billing.InvoiceFilter) (int64, error) {
	var count int64
	query := r.applyInvoiceFilter(r.active(ctx), invoiceFilter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	// Omit associations so stale seller/buyer snapshots never write back
	return r.db.WithContext(ctx).Omit("Seller", "Buyer").Save(invoice).Error
}

// SoftDelete marks an invoice deleted
func (r *GormInvoiceRepository) SoftDelete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Where("id = ? AND deleted = ?", id, false).
		Updates(map[string]interface{}{"deleted": true, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindNumbersByPrefix returns invoice numbers starting with the prefix,
// deleted invoices included
func (r *GormInvoiceRepository) FindNumbersByPrefix(ctx context.Context, prefix string) ([]string, error) {
	var numbers []string
	if err := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Where("invoice_number LIKE ?", prefix+"%").
		Pluck("invoice_number", &numbers).Error; err != nil {
		return nil, err
	}
	return numbers, nil
}

// FindBySellerID finds non-deleted invoices sold by the person
func (r *GormInvoiceRepository) FindBySellerID(ctx context.Context, sellerID int64) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	if err := r.active(ctx).
		Where("seller_id = ?", sellerID).
		Order("id ASC").
		Preload("Seller").
		Preload("Buyer").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindByBuyerID finds non-deleted invoices bought by the person
func (r *GormInvoiceRepository) FindByBuyerID(ctx context.Context, buyerID int64) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	if err := r.active(ctx).
		Where("buyer_id = ?", buyerID).
		Order("id ASC").
		Preload("Seller").
		Preload("Buyer").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Statistics aggregates non-deleted invoices
func (r *GormInvoiceRepository) Statistics(ctx context.Context, yearStart, yearEnd time.Time) (*billing.InvoiceStatistics, error) {
	var allTimeSum decimal.Decimal
	if err := r.active(ctx).
		Select("COALESCE(SUM(price), 0)").
		Row().Scan(&allTimeSum); err != nil {
		return nil, err
	}

	var currentYearSum decimal.Decimal
	if err := r.active(ctx).
		Where("issued >= ? AND issued <= ?", yearStart, yearEnd).
		Select("COALESCE(SUM(price), 0)").
		Row().Scan(&currentYearSum); err != nil {
		return nil, err
	}

	var count int64
	if err := r.active(ctx).Count(&count).Error; err != nil {
		return nil, err
	}

	return &billing.InvoiceStatistics{
		CurrentYearSum: currentYearSum,
		AllTimeSum:     allTimeSum,
		InvoicesCount:  count,
	}, nil
}

// DistinctProducts returns sorted distinct product names of non-deleted invoices
func (r *GormInvoiceRepository) DistinctProducts(ctx context.Context) ([]string, error) {
	var products []string
	if err := r.active(ctx).
		Distinct().
		Order("product ASC").
		Pluck("product", &products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *GormInvoiceRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&billing.Invoice{}).Where("invoices.deleted = ?", false)
}

// applyInvoiceFilter translates the typed filter into SQL predicates.
// Counterparty identification numbers go through a person subquery so the
// lookup also matches hidden persons.
func (r *GormInvoiceRepository) applyInvoiceFilter(query *gorm.DB, f billing.InvoiceFilter) *gorm.DB {
	if f.IssuedFrom != nil {
		query = query.Where("issued >= ?", *f.IssuedFrom)
	}
	if f.IssuedTo != nil {
		query = query.Where("issued <= ?", *f.IssuedTo)
	}
	if f.MinPrice != nil {
		query = query.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		query = query.Where("price <= ?", *f.MaxPrice)
	}
	if f.SellerID != nil {
		query = query.Where("seller_id = ?", *f.SellerID)
	}
	if f.BuyerID != nil {
		query = query.Where("buyer_id = ?", *f.BuyerID)
	}
	if f.SellerIdentificationNumber != "" {
		query = query.Where("seller_id IN (SELECT id FROM persons WHERE identification_number = ?)",
			f.SellerIdentificationNumber)
	}
	if f.BuyerIdentificationNumber != "" {
		query = query.Where("buyer_id IN (SELECT id FROM persons WHERE identification_number = ?)",
			f.BuyerIdentificationNumber)
	}
	if f.Product != "" {
		query = query.Where("LOWER(product) LIKE ?", "%"+strings.ToLower(f.Product)+"%")
	}
	return query
}

// applyPagination applies pagination and whitelisted ordering
func (r *GormInvoiceRepository) applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, InvoiceSortFields, "id")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
