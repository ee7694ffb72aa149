package billing

import (
	"context"
	"testing"
	"time"

	"github.com/invoicing/backend/internal/domain/billing"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testInvoiceDTO(sellerID, buyerID int64) InvoiceDTO {
	return InvoiceDTO{
		InvoiceNumber: "20250801",
		Seller:        &PersonDTO{ID: sellerID},
		Buyer:         &PersonDTO{ID: buyerID},
		Issued:        NewDate(time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)),
		DueDate:       NewDate(time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)),
		Product:       "Consulting",
		Price:         500,
		VAT:           21,
	}
}

func TestInvoiceServiceCreateInvoice(t *testing.T) {
	t.Run("creates invoice with resolved counterparties", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		personRepo := new(MockPersonRepository)
		service := NewInvoiceService(invoiceRepo, personRepo, nil)

		personRepo.On("FindByID", mock.Anything, int64(1)).Return(testPerson(1, "Seller", "11111111"), nil)
		personRepo.On("FindByID", mock.Anything, int64(2)).Return(testPerson(2, "Buyer", "22222222"), nil)
		invoiceRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.Invoice")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*billing.Invoice).ID = 10
			}).Return(nil)

		dto, err := service.CreateInvoice(context.Background(), testInvoiceDTO(1, 2))
		require.NoError(t, err)
		assert.Equal(t, int64(10), dto.ID)
		require.NotNil(t, dto.Seller)
		assert.Equal(t, "Seller", dto.Seller.Name)
		require.NotNil(t, dto.Buyer)
		assert.Equal(t, "Buyer", dto.Buyer.Name)
		invoiceRepo.AssertExpectations(t)
	})

	t.Run("missing seller reference is a validation error", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		personRepo := new(MockPersonRepository)
		service := NewInvoiceService(invoiceRepo, personRepo, nil)

		dto := testInvoiceDTO(1, 2)
		dto.Seller = nil

		_, err := service.CreateInvoice(context.Background(), dto)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_SELLER", derr.Code)
		invoiceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unresolvable seller persists nothing", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		personRepo := new(MockPersonRepository)
		service := NewInvoiceService(invoiceRepo, personRepo, nil)

		personRepo.On("FindByID", mock.Anything, int64(1)).Return(nil, shared.ErrNotFound)

		_, err := service.CreateInvoice(context.Background(), testInvoiceDTO(1, 2))
		assert.ErrorIs(t, err, shared.ErrNotFound)
		invoiceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestInvoiceServiceListInvoices(t *testing.T) {
	t.Run("passes parsed filter to the store", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		personRepo := new(MockPersonRepository)
		service := NewInvoiceService(invoiceRepo, personRepo, nil)

		matchBand := mock.MatchedBy(func(f billing.InvoiceFilter) bool {
			return f.MinPrice != nil && *f.MinPrice == 150 &&
				f.MaxPrice != nil && *f.MaxPrice == 250
		})
		invoiceRepo.On("FindAll", mock.Anything, matchBand, mock.Anything).Return([]billing.Invoice{
			{InvoiceNumber: "20250802", Price: 200},
		}, nil)
		invoiceRepo.On("Count", mock.Anything, matchBand).Return(int64(1), nil)

		params := map[string]string{"minPrice": "150", "maxPrice": "250"}
		page, err := service.ListInvoices(context.Background(), params, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
		require.Len(t, page.Items, 1)
		assert.Equal(t, int64(200), page.Items[0].Price)
	})

	t.Run("unparseable filter values do not fail the request", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		personRepo := new(MockPersonRepository)
		service := NewInvoiceService(invoiceRepo, personRepo, nil)

		matchEmpty := mock.MatchedBy(func(f billing.InvoiceFilter) bool {
			return f.IsEmpty()
		})
		invoiceRepo.On("FindAll", mock.Anything, matchEmpty, mock.Anything).Return([]billing.Invoice{}, nil)
		invoiceRepo.On("Count", mock.Anything, matchEmpty).Return(int64(0), nil)

		params := map[string]string{"minPrice": "abc", "dateFrom": "01/02/2025"}
		_, err := service.ListInvoices(context.Background(), params, shared.DefaultFilter())
		assert.NoError(t, err)
	})
}

func TestInvoiceServiceUpdateInvoice(t *testing.T) {
	t.Run("replaces fields and re-resolves counterparties", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		personRepo := new(MockPersonRepository)
		service := NewInvoiceService(invoiceRepo, personRepo, nil)

		existing, err := billing.NewInvoice(billing.InvoiceAttributes{
			InvoiceNumber: "20250801",
			SellerID:      1,
			BuyerID:       2,
			Issued:        time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
			DueDate:       time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC),
			Product:       "Consulting",
			Price:         500,
			VAT:           21,
		})
		require.NoError(t, err)
		existing.ID = 10

		invoiceRepo.On("FindByID", mock.Anything, int64(10)).Return(existing, nil)
		personRepo.On("FindByID", mock.Anything, int64(1)).Return(testPerson(1, "Seller", "11111111"), nil)
		personRepo.On("FindByID", mock.Anything, int64(3)).Return(testPerson(3, "New buyer", "33333333"), nil)
		invoiceRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.Invoice")).Return(nil)

		dto := testInvoiceDTO(1, 3)
		dto.Price = 900
		updated, err := service.UpdateInvoice(context.Background(), 10, dto)
		require.NoError(t, err)
		assert.Equal(t, int64(900), updated.Price)
		assert.Equal(t, int64(3), updated.Buyer.ID)
	})

	t.Run("absent invoice is not found", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		personRepo := new(MockPersonRepository)
		service := NewInvoiceService(invoiceRepo, personRepo, nil)

		invoiceRepo.On("FindByID", mock.Anything, int64(10)).Return(nil, shared.ErrNotFound)

		_, err := service.UpdateInvoice(context.Background(), 10, testInvoiceDTO(1, 2))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestInvoiceServiceDeleteInvoice(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	personRepo := new(MockPersonRepository)
	service := NewInvoiceService(invoiceRepo, personRepo, nil)

	invoiceRepo.On("SoftDelete", mock.Anything, int64(10)).Return(shared.ErrNotFound)

	err := service.DeleteInvoice(context.Background(), 10)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestInvoiceServiceStatistics(t *testing.T) {
	t.Run("converts sums to whole units", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		personRepo := new(MockPersonRepository)
		service := NewInvoiceService(invoiceRepo, personRepo, nil)
		service.now = func() time.Time {
			return time.Date(2025, 8, 31, 12, 0, 0, 0, time.UTC)
		}

		yearStart := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		yearEnd := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
		invoiceRepo.On("Statistics", mock.Anything, yearStart, yearEnd).Return(&billing.InvoiceStatistics{
			CurrentYearSum: decimal.NewFromInt(500),
			AllTimeSum:     decimal.NewFromInt(500),
			InvoicesCount:  1,
		}, nil)

		stats, err := service.GetInvoiceStatistics(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(500), stats.CurrentYearSum)
		assert.Equal(t, int64(500), stats.AllTimeSum)
		assert.Equal(t, int64(1), stats.InvoicesCount)
	})

	t.Run("propagates store errors", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		personRepo := new(MockPersonRepository)
		service := NewInvoiceService(invoiceRepo, personRepo, nil)

		invoiceRepo.On("Statistics", mock.Anything, mock.Anything, mock.Anything).Return(nil, assert.AnError)

		_, err := service.GetInvoiceStatistics(context.Background())
		assert.Error(t, err)
	})
}

func TestInvoiceServiceGetNextInvoiceNumber(t *testing.T) {
	august := func() time.Time {
		return time.Date(2025, 8, 31, 12, 0, 0, 0, time.UTC)
	}

	t.Run("continues the month sequence", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		personRepo := new(MockPersonRepository)
		service := NewInvoiceService(invoiceRepo, personRepo, nil)
		service.now = august

		invoiceRepo.On("FindNumbersByPrefix", mock.Anything, "202508").
			Return([]string{"20250801", "20250803"}, nil)

		assert.Equal(t, "2025084", service.GetNextInvoiceNumber(context.Background()))
	})

	t.Run("empty month starts at 1", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		personRepo := new(MockPersonRepository)
		service := NewInvoiceService(invoiceRepo, personRepo, nil)
		service.now = august

		invoiceRepo.On("FindNumbersByPrefix", mock.Anything, "202508").Return([]string{}, nil)

		assert.Equal(t, "2025081", service.GetNextInvoiceNumber(context.Background()))
	})

	t.Run("store failure yields the sentinel value", func(t *testing.T) {
		invoiceRepo := new(MockInvoiceRepository)
		personRepo := new(MockPersonRepository)
		service := NewInvoiceService(invoiceRepo, personRepo, nil)
		service.now = august

		invoiceRepo.On("FindNumbersByPrefix", mock.Anything, "202508").Return(nil, assert.AnError)

		assert.Equal(t, NextNumberFailure, service.GetNextInvoiceNumber(context.Background()))
	})
}

func TestInvoiceServiceGetProducts(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	personRepo := new(MockPersonRepository)
	service := NewInvoiceService(invoiceRepo, personRepo, nil)

	invoiceRepo.On("DistinctProducts", mock.Anything).Return([]string{"Consulting", "Hosting"}, nil)

	products, err := service.GetProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Consulting", "Hosting"}, products)
}
