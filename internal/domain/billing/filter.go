package billing

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// InvoiceFilter is the typed conjunction of invoice list predicates.
// Nil/empty fields add no predicate.
type InvoiceFilter struct {
	IssuedFrom                 *time.Time
	IssuedTo                   *time.Time
	MinPrice                   *int64
	MaxPrice                   *int64
	SellerID                   *int64
	BuyerID                    *int64
	SellerIdentificationNumber string
	BuyerIdentificationNumber  string
	Product                    string
}

// InvalidFilterValue records a query parameter whose value could not be
// parsed. The filter stays lenient: the predicate is skipped and the
// request continues.
type InvalidFilterValue struct {
	Key    string
	Value  string
	Reason string
}

// ParseInvoiceFilter builds an InvoiceFilter from raw query parameters.
// Unknown keys and empty values are ignored; unparseable values are
// reported back instead of failing the request.
func ParseInvoiceFilter(params map[string]string) (InvoiceFilter, []InvalidFilterValue) {
	var f InvoiceFilter
	var invalid []InvalidFilterValue

	for key, value := range params {
		if value == "" {
			continue
		}
		switch key {
		case "dateFrom":
			if t, err := time.Parse(DateLayout, value); err == nil {
				f.IssuedFrom = &t
			} else {
				invalid = append(invalid, InvalidFilterValue{key, value, "expected date " + DateLayout})
			}
		case "dateTo":
			if t, err := time.Parse(DateLayout, value); err == nil {
				f.IssuedTo = &t
			} else {
				invalid = append(invalid, InvalidFilterValue{key, value, "expected date " + DateLayout})
			}
		case "minPrice":
			if n, err := strconv.ParseInt(value, 10, 64); err == nil {
				f.MinPrice = &n
			} else {
				invalid = append(invalid, InvalidFilterValue{key, value, "expected integer"})
			}
		case "maxPrice":
			if n, err := strconv.ParseInt(value, 10, 64); err == nil {
				f.MaxPrice = &n
			} else {
				invalid = append(invalid, InvalidFilterValue{key, value, "expected integer"})
			}
		case "sellerId":
			if n, err := strconv.ParseInt(value, 10, 64); err == nil {
				f.SellerID = &n
			} else {
				invalid = append(invalid, InvalidFilterValue{key, value, "expected integer"})
			}
		case "buyerId":
			if n, err := strconv.ParseInt(value, 10, 64); err == nil {
				f.BuyerID = &n
			} else {
				invalid = append(invalid, InvalidFilterValue{key, value, "expected integer"})
			}
		case "sellerIdentificationNumber":
			f.SellerIdentificationNumber = value
		case "buyerIdentificationNumber":
			f.BuyerIdentificationNumber = value
		case "product":
			f.Product = strings.TrimSpace(value)
		}
	}

	return f, invalid
}

// IsEmpty returns true if the filter adds no predicate
func (f InvoiceFilter) IsEmpty() bool {
	return f.IssuedFrom == nil && f.IssuedTo == nil &&
		f.MinPrice == nil && f.MaxPrice == nil &&
		f.SellerID == nil && f.BuyerID == nil &&
		f.SellerIdentificationNumber == "" && f.BuyerIdentificationNumber == "" &&
		f.Product == ""
}
