package events

import (
	"context"
	"errors"
	"time"
)

// Type names an order lifecycle event.
type Type string

const (
	OrderCreated          Type = "order.created"
	OrderStatusChanged    Type = "order.status_changed"
	PaymentProofSubmitted Type = "order.payment_submitted"
	PaymentVerified       Type = "order.payment_verified"
	PaymentRejected       Type = "order.payment_rejected"
)

// Event is the payload published to the broker and the admin live feed.
type Event struct {
	Type           Type      `json:"type"`
	OrderID        string    `json:"order_id"`
	OrderNumber    string    `json:"order_number,omitempty"`
	Status         string    `json:"status,omitempty"`
	PaymentMethod  string    `json:"payment_method,omitempty"`
	PaymentStatus  string    `json:"payment_status,omitempty"`
	TotalAmount    string    `json:"total_amount,omitempty"`
	TrackingNumber string    `json:"tracking_number,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// Publisher delivers events. Callers treat failures as best effort.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type nop struct{}

// Nop discards every event.
func Nop() Publisher { return nop{} }

func (nop) Publish(context.Context, Event) error { return nil }

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
