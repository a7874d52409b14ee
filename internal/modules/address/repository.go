package address

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for addresses.
type Repository interface {
	Create(ctx context.Context, a *Address) error
	GetByID(ctx context.Context, id uuid.UUID) (*Address, error)
	// ListByUser returns the user's addresses, default first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Address, error)
	Update(ctx context.Context, a *Address) error
}
