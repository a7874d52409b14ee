package order

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for orders.
type Repository interface {
	// CreateOrder prices lines from live variant rows, decrements stock and
	// persists the order with its items in one transaction. It fills
	// o.Items and o.TotalAmount.
	CreateOrder(ctx context.Context, o *Order, lines []LineRequest) error

	// GetOrderByID retrieves an order with its items.
	GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// ListOrders returns orders newest first.
	ListOrders(ctx context.Context, f ListFilter) ([]*Order, error)

	// Update applies a partial update as a single statement.
	Update(ctx context.Context, id uuid.UUID, p Patch) error

	// VerifyPayment marks payment verified and moves a pending order to
	// processing in the same statement. It returns the resulting status.
	VerifyPayment(ctx context.Context, id uuid.UUID) (Status, error)
}
