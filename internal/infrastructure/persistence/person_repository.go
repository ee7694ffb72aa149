package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/invoicing/backend/internal/domain/billing"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormPersonRepository implements PersonRepository using GORM
type GormPersonRepository struct {
	db *gorm.DB
}

// NewGormPersonRepository creates a new GormPersonRepository
func NewGormPersonRepository(db *gorm.DB) *GormPersonRepository {
	return &GormPersonRepository{db: db}
}

// FindByID finds a person by its ID, hidden or not
func (r *GormPersonRepository) FindByID(ctx context.Context, id int64) (*billing.Person, error) {
	var person billing.Person
	if err := r.db.WithContext(ctx).First(&person, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &person, nil
}

// FindByIdentificationNumber finds a person by its business identification
// number. A hidden person may share the number with a later visible record;
// the visible one wins, the newest hidden one otherwise.
func (r *GormPersonRepository) FindByIdentificationNumber(ctx context.Context, identificationNumber string) (*billing.Person, error) {
	var person billing.Person
	if err := r.db.WithContext(ctx).
		Where("identification_number = ?", identificationNumber).
		Order("hidden ASC, id DESC").
		First(&person).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &person, nil
}

// FindAll finds all visible persons matching the filter
func (r *GormPersonRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Person, error) {
	var persons []billing.Person
	query := r.applyFilter(r.visible(ctx), filter)

	if err := query.Find(&persons).Error; err != nil {
		return nil, err
	}
	return persons, nil
}

// Save creates or updates a person
func (r *GormPersonRepository) Save(ctx context.Context, person *billing.Person) error {
	return r.db.WithContext(ctx).Save(person).Error
}

// Count counts visible persons matching the filter
func (r *GormPersonRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.visible(ctx), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// personStatisticsRow is the scan target for the statistics query
type personStatisticsRow struct {
	PersonID int64           `gorm:"column:person_id"`
	Name     string          `gorm:"column:name"`
	Revenue  decimal.Decimal `gorm:"column:revenue"`
	Expenses decimal.Decimal `gorm:"column:expenses"`
}

// Statistics returns one revenue/expenses row per visible person. NULL sums
// of persons without invoices collapse to zero in the query.
func (r *GormPersonRepository) Statistics(ctx context.Context) ([]billing.PersonStatistics, error) {
	var rows []personStatisticsRow
	err := r.db.WithContext(ctx).
		Model(&billing.Person{}).
		Select(`persons.id AS person_id, persons.name AS name,
			COALESCE((SELECT SUM(price) FROM invoices WHERE invoices.seller_id = persons.id AND invoices.deleted = ?), 0) AS revenue,
			COALESCE((SELECT SUM(price) FROM invoices WHERE invoices.buyer_id = persons.id AND invoices.deleted = ?), 0) AS expenses`,
			false, false).
		Where("persons.hidden = ?", false).
		Order("persons.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := make([]billing.PersonStatistics, len(rows))
	for i, row := range rows {
		stats[i] = billing.PersonStatistics{
			PersonID: row.PersonID,
			Name:     row.Name,
			Revenue:  row.Revenue,
			Expenses: row.Expenses,
		}
	}
	return stats, nil
}

func (r *GormPersonRepository) visible(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&billing.Person{}).Where("hidden = ?", false)
}

// applyFilter applies filter options to the query
func (r *GormPersonRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, PersonSortFields, "id")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPersonRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(identification_number) LIKE ?",
			searchPattern, searchPattern)
	}
	return query
}

// Ensure GormPersonRepository implements PersonRepository
var _ billing.PersonRepository = (*GormPersonRepository)(nil)
