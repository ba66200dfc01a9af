package notification

import (
	"errors"
	"fmt"
)

// ErrDeliveryFailed matches every error returned for a failed send.
var ErrDeliveryFailed = errors.New("failed to send email notification")

// DeliveryError is returned by Dispatch when the transport rejects a message.
// It unwraps to the transport error and also matches ErrDeliveryFailed.
type DeliveryError struct {
	OrderNumber string
	Err         error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s for order %s: %v", ErrDeliveryFailed, e.OrderNumber, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

func (e *DeliveryError) Is(target error) bool {
	return target == ErrDeliveryFailed
}
