package payment

import "context"

// Repository stores the payment settings row.
type Repository interface {
	// GetSettings returns nil, nil when no settings have been saved.
	GetSettings(ctx context.Context) (*Settings, error)
	SaveSettings(ctx context.Context, s *Settings) error
}
