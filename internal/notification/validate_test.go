package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joao-fontenele/order-notifier/internal/domain"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"jane@example.com", true},
		{"a@b.co", true},
		{"First.Last+tag@sub.Example.ORG", true},
		{"user_1%x@mail-server.museum", true},
		{"a@b.corporate", false},
		{"a@b", false},
		{"not-an-email", false},
		{"user@domain", false},
		{"user@domain.c", false},
		{"user@domain.c0m", false},
		{"@example.com", false},
		{"jane doe@example.com", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidEmail(tt.email))
		})
	}
}

func TestValidateEvent(t *testing.T) {
	valid := domain.OrderPlacedEvent{
		Email:       "jane@example.com",
		FirstName:   "Jane",
		LastName:    "Doe",
		OrderNumber: "ORD-1001",
	}

	t.Run("accepts complete event", func(t *testing.T) {
		got, err := ValidateEvent(&valid)
		require.NoError(t, err)
		assert.Equal(t, valid, got)
	})

	t.Run("trims whitespace", func(t *testing.T) {
		event := domain.OrderPlacedEvent{
			Email:       "  jane@example.com\n",
			FirstName:   " Jane",
			LastName:    "Doe ",
			OrderNumber: "\tORD-1001",
		}
		got, err := ValidateEvent(&event)
		require.NoError(t, err)
		assert.Equal(t, valid, got)
	})

	t.Run("rejects nil event", func(t *testing.T) {
		_, err := ValidateEvent(nil)
		assert.ErrorIs(t, err, ErrInvalidEvent)
	})

	t.Run("reports missing fields by json name", func(t *testing.T) {
		event := valid
		event.FirstName = ""
		event.OrderNumber = "   "

		_, err := ValidateEvent(&event)
		require.ErrorIs(t, err, ErrInvalidEvent)
		assert.Contains(t, err.Error(), "firstName")
		assert.Contains(t, err.Error(), "orderNumber")
	})

	t.Run("rejects bad email syntax", func(t *testing.T) {
		event := valid
		event.Email = "user@.com"

		_, err := ValidateEvent(&event)
		assert.ErrorIs(t, err, ErrInvalidEmail)
		assert.NotErrorIs(t, err, ErrInvalidEvent)
	})

	t.Run("missing email is structural", func(t *testing.T) {
		event := valid
		event.Email = ""

		_, err := ValidateEvent(&event)
		assert.ErrorIs(t, err, ErrInvalidEvent)
	})
}
