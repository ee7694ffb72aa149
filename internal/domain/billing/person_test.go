package billing

import (
	"testing"

	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPersonAttributes() PersonAttributes {
	return PersonAttributes{
		Name:                 "Alfa a.s.",
		IdentificationNumber: "12345678",
		TaxNumber:            "CZ12345678",
		AccountNumber:        "123456789",
		BankCode:             "0800",
		IBAN:                 "CZ6508000000192000145399",
		Telephone:            "+420 777 123 456",
		Mail:                 "info@alfa.cz",
		Street:               "Dlouha 1",
		Zip:                  "11000",
		City:                 "Praha",
		Country:              "CZECHIA",
	}
}

func TestNewPerson(t *testing.T) {
	t.Run("creates visible person", func(t *testing.T) {
		p, err := NewPerson(validPersonAttributes())
		require.NoError(t, err)
		assert.Equal(t, "Alfa a.s.", p.Name)
		assert.Equal(t, "12345678", p.IdentificationNumber)
		assert.False(t, p.IsHidden())
		assert.False(t, p.CreatedAt.IsZero())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		attrs := validPersonAttributes()
		attrs.Name = ""
		_, err := NewPerson(attrs)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_NAME", derr.Code)
	})

	t.Run("rejects empty identification number", func(t *testing.T) {
		attrs := validPersonAttributes()
		attrs.IdentificationNumber = ""
		_, err := NewPerson(attrs)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_IDENTIFICATION_NUMBER", derr.Code)
	})

	t.Run("rejects malformed mail", func(t *testing.T) {
		attrs := validPersonAttributes()
		attrs.Mail = "not-a-mail"
		_, err := NewPerson(attrs)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_MAIL", derr.Code)
	})

	t.Run("rejects malformed telephone", func(t *testing.T) {
		attrs := validPersonAttributes()
		attrs.Telephone = "call me"
		_, err := NewPerson(attrs)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_TELEPHONE", derr.Code)
	})
}

func TestPersonUpdate(t *testing.T) {
	t.Run("replaces all fields", func(t *testing.T) {
		p, err := NewPerson(validPersonAttributes())
		require.NoError(t, err)

		attrs := validPersonAttributes()
		attrs.Name = "Beta s.r.o."
		attrs.Note = "renamed"
		require.NoError(t, p.Update(attrs))

		assert.Equal(t, "Beta s.r.o.", p.Name)
		assert.Equal(t, "renamed", p.Note)
	})

	t.Run("invalid update leaves person unchanged", func(t *testing.T) {
		p, err := NewPerson(validPersonAttributes())
		require.NoError(t, err)

		attrs := validPersonAttributes()
		attrs.Name = ""
		require.Error(t, p.Update(attrs))
		assert.Equal(t, "Alfa a.s.", p.Name)
	})
}

func TestPersonHide(t *testing.T) {
	p, err := NewPerson(validPersonAttributes())
	require.NoError(t, err)

	p.Hide()
	assert.True(t, p.IsHidden())

	// hiding twice is a no-op
	p.Hide()
	assert.True(t, p.IsHidden())
}
