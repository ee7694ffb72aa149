package billing

import (
	"context"

	"github.com/invoicing/backend/internal/domain/shared"
)

// PersonRepository defines the interface for person persistence
type PersonRepository interface {
	// FindByID finds a person by its ID, hidden or not
	FindByID(ctx context.Context, id int64) (*Person, error)

	// FindByIdentificationNumber finds a person by its business identification
	// number, hidden or not
	FindByIdentificationNumber(ctx context.Context, identificationNumber string) (*Person, error)

	// FindAll finds all visible persons matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Person, error)

	// Save creates or updates a person
	Save(ctx context.Context, person *Person) error

	// Count counts visible persons matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Statistics returns one revenue/expenses row per visible person
	Statistics(ctx context.Context) ([]PersonStatistics, error)
}
