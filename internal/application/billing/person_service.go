package billing

import (
	"context"
	"errors"

	"github.com/invoicing/backend/internal/domain/billing"
	"github.com/invoicing/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PersonService implements counterparty use cases
type PersonService struct {
	personRepo  billing.PersonRepository
	invoiceRepo billing.InvoiceRepository
	logger      *zap.Logger
}

// NewPersonService creates a new PersonService
func NewPersonService(personRepo billing.PersonRepository, invoiceRepo billing.InvoiceRepository, logger *zap.Logger) *PersonService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PersonService{
		personRepo:  personRepo,
		invoiceRepo: invoiceRepo,
		logger:      logger,
	}
}

// CreatePerson creates a new person
func (s *PersonService) CreatePerson(ctx context.Context, dto PersonDTO) (*PersonDTO, error) {
	person, err := billing.NewPerson(PersonAttributesFromDTO(dto))
	if err != nil {
		return nil, err
	}
	if err := s.personRepo.Save(ctx, person); err != nil {
		return nil, err
	}

	s.logger.Info("person created",
		zap.Int64("person_id", person.ID),
		zap.String("identification_number", person.IdentificationNumber))

	result := PersonToDTO(person)
	return &result, nil
}

// GetPerson returns a person by ID, hidden or not
func (s *PersonService) GetPerson(ctx context.Context, id int64) (*PersonDTO, error) {
	person, err := s.personRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := PersonToDTO(person)
	return &result, nil
}

// ListPersons returns visible persons matching the filter
func (s *PersonService) ListPersons(ctx context.Context, filter shared.Filter) (*shared.Paginated[PersonDTO], error) {
	persons, err := s.personRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.personRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(PersonsToDTO(persons), total, filter.Page, filter.PageSize)
	return &page, nil
}

// UpdatePerson replaces all mutable fields of a person
func (s *PersonService) UpdatePerson(ctx context.Context, id int64, dto PersonDTO) (*PersonDTO, error) {
	person, err := s.personRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := person.Update(PersonAttributesFromDTO(dto)); err != nil {
		return nil, err
	}
	if err := s.personRepo.Save(ctx, person); err != nil {
		return nil, err
	}

	result := PersonToDTO(person)
	return &result, nil
}

// DeletePerson hides a person. Its invoices stay untouched and the person
// stays resolvable by identification number. Deleting an absent person is
// not an error.
func (s *PersonService) DeletePerson(ctx context.Context, id int64) error {
	person, err := s.personRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	person.Hide()
	if err := s.personRepo.Save(ctx, person); err != nil {
		return err
	}

	s.logger.Info("person hidden", zap.Int64("person_id", person.ID))
	return nil
}

// GetSalesByPerson returns invoices the person issued as seller. The person
// is resolved by identification number, hidden or not.
func (s *PersonService) GetSalesByPerson(ctx context.Context, identificationNumber string) ([]InvoiceDTO, error) {
	person, err := s.personRepo.FindByIdentificationNumber(ctx, identificationNumber)
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoiceRepo.FindBySellerID(ctx, person.ID)
	if err != nil {
		return nil, err
	}
	return InvoicesToDTO(invoices), nil
}

// GetPurchasesByPerson returns invoices the person received as buyer
func (s *PersonService) GetPurchasesByPerson(ctx context.Context, identificationNumber string) ([]InvoiceDTO, error) {
	person, err := s.personRepo.FindByIdentificationNumber(ctx, identificationNumber)
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoiceRepo.FindByBuyerID(ctx, person.ID)
	if err != nil {
		return nil, err
	}
	return InvoicesToDTO(invoices), nil
}

// GetPersonStatistics returns one revenue/expenses row per visible person,
// sorted by the requested column
func (s *PersonService) GetPersonStatistics(ctx context.Context, sortColumn, sortDirection string) ([]PersonStatisticsDTO, error) {
	rows, err := s.personRepo.Statistics(ctx)
	if err != nil {
		s.logger.Error("person statistics query failed", zap.Error(err))
		return nil, err
	}
	billing.SortPersonStatistics(rows, sortColumn, sortDirection)
	return PersonStatisticsToDTO(rows), nil
}
