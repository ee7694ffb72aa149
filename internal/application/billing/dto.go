package billing

import (
	"strings"
	"time"

	"github.com/invoicing/backend/internal/domain/billing"
)

// Date is a calendar date that serializes as 2006-01-02
type Date struct {
	time.Time
}

// NewDate truncates a time to its calendar date in UTC
func NewDate(t time.Time) Date {
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// MarshalJSON implements json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(billing.DateLayout) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := time.Parse(billing.DateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// PersonDTO is the wire representation of a person
type PersonDTO struct {
	ID                   int64  `json:"id"`
	Name                 string `json:"name" binding:"required"`
	IdentificationNumber string `json:"identificationNumber" binding:"required"`
	TaxNumber            string `json:"taxNumber"`
	AccountNumber        string `json:"accountNumber"`
	BankCode             string `json:"bankCode"`
	IBAN                 string `json:"iban"`
	Telephone            string `json:"telephone"`
	Mail                 string `json:"mail"`
	Street               string `json:"street"`
	Zip                  string `json:"zip"`
	City                 string `json:"city"`
	Country              string `json:"country"`
	Note                 string `json:"note"`
}

// InvoiceDTO is the wire representation of an invoice. Seller and buyer are
// embedded person documents; on input only their IDs matter.
type InvoiceDTO struct {
	ID            int64      `json:"id"`
	InvoiceNumber string     `json:"invoiceNumber" binding:"required"`
	Seller        *PersonDTO `json:"seller"`
	Buyer         *PersonDTO `json:"buyer"`
	Issued        Date       `json:"issued"`
	DueDate       Date       `json:"dueDate"`
	Product       string     `json:"product" binding:"required"`
	Price         int64      `json:"price"`
	VAT           int        `json:"vat"`
	Note          string     `json:"note"`
	Deleted       bool       `json:"deleted"`
}

// InvoiceStatisticsDTO is the aggregate invoice report
type InvoiceStatisticsDTO struct {
	CurrentYearSum int64 `json:"currentYearSum"`
	AllTimeSum     int64 `json:"allTimeSum"`
	InvoicesCount  int64 `json:"invoicesCount"`
}

// PersonStatisticsDTO is one row of the person revenue/expenses report
type PersonStatisticsDTO struct {
	PersonID int64  `json:"personId"`
	Name     string `json:"name"`
	Revenue  int64  `json:"revenue"`
	Expenses int64  `json:"expenses"`
}

// PersonToDTO converts a person entity to its wire form
func PersonToDTO(p *billing.Person) PersonDTO {
	return PersonDTO{
		ID:                   p.ID,
		Name:                 p.Name,
		IdentificationNumber: p.IdentificationNumber,
		TaxNumber:            p.TaxNumber,
		AccountNumber:        p.AccountNumber,
		BankCode:             p.BankCode,
		IBAN:                 p.IBAN,
		Telephone:            p.Telephone,
		Mail:                 p.Mail,
		Street:               p.Street,
		Zip:                  p.Zip,
		City:                 p.City,
		Country:              p.Country,
		Note:                 p.Note,
	}
}

// PersonAttributesFromDTO extracts domain attributes from the wire form
func PersonAttributesFromDTO(dto PersonDTO) billing.PersonAttributes {
	return billing.PersonAttributes{
		Name:                 dto.Name,
		IdentificationNumber: dto.IdentificationNumber,
		TaxNumber:            dto.TaxNumber,
		AccountNumber:        dto.AccountNumber,
		BankCode:             dto.BankCode,
		IBAN:                 dto.IBAN,
		Telephone:            dto.Telephone,
		Mail:                 dto.Mail,
		Street:               dto.Street,
		Zip:                  dto.Zip,
		City:                 dto.City,
		Country:              dto.Country,
		Note:                 dto.Note,
	}
}

// InvoiceToDTO converts an invoice entity to its wire form. Seller and buyer
// are included when loaded.
func InvoiceToDTO(inv *billing.Invoice) InvoiceDTO {
	dto := InvoiceDTO{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		Issued:        NewDate(inv.Issued),
		DueDate:       NewDate(inv.DueDate),
		Product:       inv.Product,
		Price:         inv.Price,
		VAT:           inv.VAT,
		Note:          inv.Note,
		Deleted:       inv.Deleted,
	}
	if inv.Seller != nil {
		seller := PersonToDTO(inv.Seller)
		dto.Seller = &seller
	}
	if inv.Buyer != nil {
		buyer := PersonToDTO(inv.Buyer)
		dto.Buyer = &buyer
	}
	return dto
}

// InvoicesToDTO converts a slice of invoices
func InvoicesToDTO(invoices []billing.Invoice) []InvoiceDTO {
	dtos := make([]InvoiceDTO, len(invoices))
	for i := range invoices {
		dtos[i] = InvoiceToDTO(&invoices[i])
	}
	return dtos
}

// PersonsToDTO converts a slice of persons
func PersonsToDTO(persons []billing.Person) []PersonDTO {
	dtos := make([]PersonDTO, len(persons))
	for i := range persons {
		dtos[i] = PersonToDTO(&persons[i])
	}
	return dtos
}

// InvoiceStatisticsToDTO converts the aggregate report. Sums are integral
// because prices are whole currency units.
func InvoiceStatisticsToDTO(stats *billing.InvoiceStatistics) InvoiceStatisticsDTO {
	return InvoiceStatisticsDTO{
		CurrentYearSum: stats.CurrentYearSum.IntPart(),
		AllTimeSum:     stats.AllTimeSum.IntPart(),
		InvoicesCount:  stats.InvoicesCount,
	}
}

// PersonStatisticsToDTO converts the person report rows
func PersonStatisticsToDTO(rows []billing.PersonStatistics) []PersonStatisticsDTO {
	dtos := make([]PersonStatisticsDTO, len(rows))
	for i, row := range rows {
		dtos[i] = PersonStatisticsDTO{
			PersonID: row.PersonID,
			Name:     row.Name,
			Revenue:  row.Revenue.IntPart(),
			Expenses: row.Expenses.IntPart(),
		}
	}
	return dtos
}
