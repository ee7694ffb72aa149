// Package billing provides the domain model for invoice and counterparty management.
//
// This package implements the billing bounded context, which is responsible for:
//   - Managing persons (counterparties that appear on invoices as seller or buyer)
//   - Managing invoices, including soft deletion and filtered listings
//   - Generating sequential invoice numbers scoped to the current year and month
//   - Aggregating revenue statistics per person and across all invoices
//
// Key Aggregates:
//   - Person: A counterparty identified by name and identification number.
//     Edits preserve history by hiding the old record and inserting a new one.
//   - Invoice: A billing document linking a seller and a buyer with a product,
//     price, and VAT rate.
//
// Value Objects:
//   - InvoiceFilter: Parsed listing criteria (date range, price range, parties, product)
//   - PersonStatistic / InvoiceStatistics: Aggregated revenue figures
package billing
