package billing

import (
	"time"

	"github.com/invoicing/backend/internal/domain/shared"
)

// Invoice represents an issued invoice between two persons.
// It is the aggregate root for invoicing operations.
type Invoice struct {
	shared.BaseEntity
	InvoiceNumber string    `gorm:"type:varchar(50);not null;index"`
	SellerID      int64     `gorm:"not null;index"`
	BuyerID       int64     `gorm:"not null;index"`
	Seller        *Person   `gorm:"foreignKey:SellerID"`
	Buyer         *Person   `gorm:"foreignKey:BuyerID"`
	Issued        time.Time `gorm:"type:date;not null"`
	DueDate       time.Time `gorm:"type:date;not null"`
	Product       string    `gorm:"type:varchar(200);not null"`
	Price         int64     `gorm:"not null"`
	VAT           int       `gorm:"column:vat;not null"`
	Note          string    `gorm:"type:text"`
	Deleted       bool      `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceAttributes carries the mutable fields of an invoice. Seller and
// buyer are referenced by ID; resolving them against the person store is
// the service's job.
type InvoiceAttributes struct {
	InvoiceNumber string
	SellerID      int64
	BuyerID       int64
	Issued        time.Time
	DueDate       time.Time
	Product       string
	Price         int64
	VAT           int
	Note          string
}

// NewInvoice creates a new invoice with the given attributes
func NewInvoice(attrs InvoiceAttributes) (*Invoice, error) {
	if err := validateInvoiceAttributes(attrs); err != nil {
		return nil, err
	}

	now := time.Now()
	inv := &Invoice{
		BaseEntity: shared.BaseEntity{CreatedAt: now, UpdatedAt: now},
		Deleted:    false,
	}
	inv.apply(attrs)

	return inv, nil
}

// Update replaces all mutable fields of the invoice
func (i *Invoice) Update(attrs InvoiceAttributes) error {
	if err := validateInvoiceAttributes(attrs); err != nil {
		return err
	}

	i.apply(attrs)
	i.UpdatedAt = time.Now()

	return nil
}

// MarkDeleted soft-deletes the invoice. Deleted invoices drop out of
// listings and statistics but keep their number reserved.
func (i *Invoice) MarkDeleted() {
	i.Deleted = true
	i.UpdatedAt = time.Now()
}

func (i *Invoice) apply(attrs InvoiceAttributes) {
	i.InvoiceNumber = attrs.InvoiceNumber
	i.SellerID = attrs.SellerID
	i.BuyerID = attrs.BuyerID
	i.Issued = attrs.Issued
	i.DueDate = attrs.DueDate
	i.Product = attrs.Product
	i.Price = attrs.Price
	i.VAT = attrs.VAT
	i.Note = attrs.Note
}

// Validation functions

func validateInvoiceAttributes(attrs InvoiceAttributes) error {
	if attrs.InvoiceNumber == "" {
		return shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if len(attrs.InvoiceNumber) > 50 {
		return shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot exceed 50 characters")
	}
	if attrs.SellerID <= 0 {
		return shared.NewDomainError("INVALID_SELLER", "Invoice seller is required")
	}
	if attrs.BuyerID <= 0 {
		return shared.NewDomainError("INVALID_BUYER", "Invoice buyer is required")
	}
	if attrs.Issued.IsZero() {
		return shared.NewDomainError("INVALID_ISSUED", "Issued date is required")
	}
	if attrs.DueDate.IsZero() {
		return shared.NewDomainError("INVALID_DUE_DATE", "Due date is required")
	}
	if attrs.Product == "" {
		return shared.NewDomainError("INVALID_PRODUCT", "Product cannot be empty")
	}
	if len(attrs.Product) > 200 {
		return shared.NewDomainError("INVALID_PRODUCT", "Product cannot exceed 200 characters")
	}
	if attrs.Price < 0 {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if attrs.VAT < 0 || attrs.VAT > 100 {
		return shared.NewDomainError("INVALID_VAT", "VAT must be between 0 and 100")
	}
	return nil
}
