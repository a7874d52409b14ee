package catalog

import "context"

// Repository defines read access to the product catalog.
type Repository interface {
	// GetProduct returns a product with its images and variants.
	GetProduct(ctx context.Context, id string) (*Product, error)

	// GetVariant returns a variant joined with its product title.
	GetVariant(ctx context.Context, id string) (*VariantDetail, error)
}
