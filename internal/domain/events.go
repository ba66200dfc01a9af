package domain

import (
	"log/slog"
	"strings"
)

// OrderPlacedEvent is published on the order-placed topic once an order has
// been accepted. Consumers treat it as read-only.
type OrderPlacedEvent struct {
	Email       string `json:"email" validate:"required"`
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	OrderNumber string `json:"orderNumber" validate:"required"`
}

// Normalize returns a copy of the event with surrounding whitespace removed
// from every field.
func (e OrderPlacedEvent) Normalize() OrderPlacedEvent {
	return OrderPlacedEvent{
		Email:       strings.TrimSpace(e.Email),
		FirstName:   strings.TrimSpace(e.FirstName),
		LastName:    strings.TrimSpace(e.LastName),
		OrderNumber: strings.TrimSpace(e.OrderNumber),
	}
}

func (e OrderPlacedEvent) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("order_number", e.OrderNumber),
		slog.String("email", e.Email),
		slog.String("first_name", e.FirstName),
		slog.String("last_name", e.LastName),
	)
}
