package billing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// InvoiceNumberPrefix returns the YYYYMM number prefix for the given day
func InvoiceNumberPrefix(day time.Time) string {
	return fmt.Sprintf("%d%02d", day.Year(), int(day.Month()))
}

// NextInvoiceNumber computes the next number in a month sequence. It takes
// the highest numeric suffix among the existing numbers carrying the prefix
// and appends max+1, unpadded. Numbers with a non-numeric or missing suffix
// are skipped. An empty month yields prefix + "1".
//
// Two concurrent callers can receive the same number; uniqueness is not
// enforced here.
func NextInvoiceNumber(prefix string, existing []string) string {
	last := 0
	for _, number := range existing {
		if !strings.HasPrefix(number, prefix) || len(number) <= len(prefix) {
			continue
		}
		seq, err := strconv.Atoi(number[len(prefix):])
		if err != nil {
			continue
		}
		if seq > last {
			last = seq
		}
	}
	return prefix + strconv.Itoa(last+1)
}
