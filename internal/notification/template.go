package notification

import (
	"fmt"

	"github.com/joao-fontenele/order-notifier/internal/domain"
	"github.com/joao-fontenele/order-notifier/internal/mail"
)

const bodyFormat = `Hi %s %s,

Your order with order number %s is now placed successfully.

Best Regards,
%s
`

// Template renders order confirmation emails.
type Template struct {
	From  string
	Brand string
}

// Render builds the confirmation message. The event must already have passed
// ValidateEvent.
func (t Template) Render(event domain.OrderPlacedEvent) mail.Message {
	return mail.Message{
		From:    t.From,
		To:      event.Email,
		Subject: fmt.Sprintf("Your Order with OrderNumber %s is placed successfully", event.OrderNumber),
		Body:    fmt.Sprintf(bodyFormat, event.FirstName, event.LastName, event.OrderNumber, t.Brand),
	}
}
