package shared

import "time"

// BaseEntity holds the column set every table shares. Persons and invoices
// embed it and add their own soft-delete flags on top.
type BaseEntity struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
