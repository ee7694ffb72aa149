package billing

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// InvoiceStatistics aggregates non-deleted invoices
type InvoiceStatistics struct {
	CurrentYearSum decimal.Decimal
	AllTimeSum     decimal.Decimal
	InvoicesCount  int64
}

// PersonStatistics is one revenue/expenses row of the person report.
// Revenue sums invoices sold, expenses sums invoices bought.
type PersonStatistics struct {
	PersonID int64
	Name     string
	Revenue  decimal.Decimal
	Expenses decimal.Decimal
}

// Person statistics sort columns
const (
	PersonSortID       = "id"
	PersonSortName     = "name"
	PersonSortRevenue  = "revenue"
	PersonSortExpenses = "expenses"
)

// SortDirectionDesc reverses the order; any other direction sorts ascending
const SortDirectionDesc = "desc"

// SortPersonStatistics orders the rows in place. Unknown columns fall back
// to id. Name compares case-insensitively. The sort is stable so ties keep
// their relative order.
func SortPersonStatistics(rows []PersonStatistics, sortColumn, sortDirection string) {
	var less func(a, b PersonStatistics) bool
	switch sortColumn {
	case PersonSortName:
		less = func(a, b PersonStatistics) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	case PersonSortRevenue:
		less = func(a, b PersonStatistics) bool {
			return a.Revenue.LessThan(b.Revenue)
		}
	case PersonSortExpenses:
		less = func(a, b PersonStatistics) bool {
			return a.Expenses.LessThan(b.Expenses)
		}
	default:
		less = func(a, b PersonStatistics) bool {
			return a.PersonID < b.PersonID
		}
	}

	descending := sortDirection == SortDirectionDesc
	sort.SliceStable(rows, func(i, j int) bool {
		if descending {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}
