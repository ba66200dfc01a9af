package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joao-fontenele/order-notifier/internal/domain"
)

func TestTemplate_Render(t *testing.T) {
	tmpl := Template{From: "springshop@email.com", Brand: "Spring Shop"}

	msg := tmpl.Render(domain.OrderPlacedEvent{
		Email:       "jane@example.com",
		FirstName:   "Jane",
		LastName:    "Doe",
		OrderNumber: "ORD-1001",
	})

	assert.Equal(t, "springshop@email.com", msg.From)
	assert.Equal(t, "jane@example.com", msg.To)
	assert.Equal(t, "Your Order with OrderNumber ORD-1001 is placed successfully", msg.Subject)
	assert.Contains(t, msg.Body, "Hi Jane Doe,")
	assert.Contains(t, msg.Body, "order number ORD-1001")
	assert.Contains(t, msg.Body, "Spring Shop")
}
