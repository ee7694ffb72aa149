package billing

import (
	"regexp"
	"time"

	"github.com/invoicing/backend/internal/domain/shared"
)

// Person represents an invoicing counterparty. The same entity serves as
// seller and buyer; which role it plays is decided per invoice.
// It is the aggregate root for counterparty operations.
type Person struct {
	shared.BaseEntity
	Name                 string `gorm:"type:varchar(200);not null"`
	IdentificationNumber string `gorm:"type:varchar(50);not null;index"`
	TaxNumber            string `gorm:"type:varchar(50)"`
	AccountNumber        string `gorm:"type:varchar(50)"`
	BankCode             string `gorm:"type:varchar(20)"`
	IBAN                 string `gorm:"type:varchar(50);column:iban"`
	Telephone            string `gorm:"type:varchar(50)"`
	Mail                 string `gorm:"type:varchar(200)"`
	Street               string `gorm:"type:varchar(200)"`
	Zip                  string `gorm:"type:varchar(20)"`
	City                 string `gorm:"type:varchar(100)"`
	Country              string `gorm:"type:varchar(100)"`
	Note                 string `gorm:"type:text"`
	Hidden               bool   `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (Person) TableName() string {
	return "persons"
}

// PersonAttributes carries the mutable fields of a person
type PersonAttributes struct {
	Name                 string
	IdentificationNumber string
	TaxNumber            string
	AccountNumber        string
	BankCode             string
	IBAN                 string
	Telephone            string
	Mail                 string
	Street               string
	Zip                  string
	City                 string
	Country              string
	Note                 string
}

// NewPerson creates a new visible person with the given attributes
func NewPerson(attrs PersonAttributes) (*Person, error) {
	if err := validatePersonAttributes(attrs); err != nil {
		return nil, err
	}

	now := time.Now()
	p := &Person{
		BaseEntity: shared.BaseEntity{CreatedAt: now, UpdatedAt: now},
		Hidden:     false,
	}
	p.apply(attrs)

	return p, nil
}

// Update replaces all mutable fields of the person
func (p *Person) Update(attrs PersonAttributes) error {
	if err := validatePersonAttributes(attrs); err != nil {
		return err
	}

	p.apply(attrs)
	p.UpdatedAt = time.Now()

	return nil
}

// Hide marks the person as hidden. Hidden persons stay referenced by their
// invoices and stay resolvable by identification number, but disappear from
// listings. Hiding an already hidden person is a no-op.
func (p *Person) Hide() {
	p.Hidden = true
	p.UpdatedAt = time.Now()
}

// IsHidden returns true if the person is hidden
func (p *Person) IsHidden() bool {
	return p.Hidden
}

func (p *Person) apply(attrs PersonAttributes) {
	p.Name = attrs.Name
	p.IdentificationNumber = attrs.IdentificationNumber
	p.TaxNumber = attrs.TaxNumber
	p.AccountNumber = attrs.AccountNumber
	p.BankCode = attrs.BankCode
	p.IBAN = attrs.IBAN
	p.Telephone = attrs.Telephone
	p.Mail = attrs.Mail
	p.Street = attrs.Street
	p.Zip = attrs.Zip
	p.City = attrs.City
	p.Country = attrs.Country
	p.Note = attrs.Note
}

// Validation functions

func validatePersonAttributes(attrs PersonAttributes) error {
	if attrs.Name == "" {
		return shared.NewDomainError("INVALID_NAME", "Person name cannot be empty")
	}
	if len(attrs.Name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Person name cannot exceed 200 characters")
	}
	if attrs.IdentificationNumber == "" {
		return shared.NewDomainError("INVALID_IDENTIFICATION_NUMBER", "Identification number cannot be empty")
	}
	if len(attrs.IdentificationNumber) > 50 {
		return shared.NewDomainError("INVALID_IDENTIFICATION_NUMBER", "Identification number cannot exceed 50 characters")
	}
	if attrs.Mail != "" {
		if err := validateMail(attrs.Mail); err != nil {
			return err
		}
	}
	if attrs.Telephone != "" {
		if err := validateTelephone(attrs.Telephone); err != nil {
			return err
		}
	}
	return nil
}

func validateMail(mail string) error {
	if len(mail) > 200 {
		return shared.NewDomainError("INVALID_MAIL", "Mail cannot exceed 200 characters")
	}
	mailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !mailRegex.MatchString(mail) {
		return shared.NewDomainError("INVALID_MAIL", "Invalid mail format")
	}
	return nil
}

func validateTelephone(telephone string) error {
	if len(telephone) > 50 {
		return shared.NewDomainError("INVALID_TELEPHONE", "Telephone cannot exceed 50 characters")
	}
	validTelephone := regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
	if !validTelephone.MatchString(telephone) {
		return shared.NewDomainError("INVALID_TELEPHONE", "Invalid telephone format")
	}
	return nil
}
