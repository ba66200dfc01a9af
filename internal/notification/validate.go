package notification

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/joao-fontenele/order-notifier/internal/domain"
)

var (
	ErrInvalidEvent = errors.New("invalid order placed event")
	ErrInvalidEmail = errors.New("invalid email address")
)

// Conservative syntactic filter, not RFC 5322.
var emailPattern = regexp.MustCompile(`(?i)^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,6}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// IsValidEmail reports whether address looks like local-part@domain.tld.
func IsValidEmail(address string) bool {
	return emailPattern.MatchString(address)
}

// ValidateEvent checks that every required field is present and that the
// email address is syntactically acceptable. It returns the normalized event
// on success; errors wrap ErrInvalidEvent or ErrInvalidEmail.
func ValidateEvent(event *domain.OrderPlacedEvent) (domain.OrderPlacedEvent, error) {
	if event == nil {
		return domain.OrderPlacedEvent{}, fmt.Errorf("%w: event is empty", ErrInvalidEvent)
	}

	normalized := event.Normalize()
	if err := validate.Struct(normalized); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			return domain.OrderPlacedEvent{}, fmt.Errorf("%w: missing %s", ErrInvalidEvent, strings.Join(fields, ", "))
		}
		return domain.OrderPlacedEvent{}, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}

	if !IsValidEmail(normalized.Email) {
		return domain.OrderPlacedEvent{}, fmt.Errorf("%w: %q", ErrInvalidEmail, normalized.Email)
	}

	return normalized, nil
}
