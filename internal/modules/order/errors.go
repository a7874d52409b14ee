package order

import "errors"

var (
	ErrNotFound           = errors.New("order not found")
	ErrEmptyOrder         = errors.New("order must contain at least one item")
	ErrInvalidMethod      = errors.New("payment method must be upi or cod")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrTrackingRequired   = errors.New("tracking number is required when marking an order as shipped")
	ErrPaymentNotVerified = errors.New("payment must be verified before this order can be fulfilled")

	// ErrGatewayUnavailable means the order-creation backend provably did not
	// process the request, so another backend may be tried.
	ErrGatewayUnavailable = errors.New("order service unavailable")
)

// RejectedError is a business rule rejection from order creation. Reason
// is safe to show to the customer verbatim.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string { return e.Reason }

func Reject(reason string) error { return &RejectedError{Reason: reason} }

// IsRejected reports whether err is a business rejection.
func IsRejected(err error) bool {
	var r *RejectedError
	return errors.As(err, &r)
}
