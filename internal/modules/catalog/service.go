package catalog

import "context"

// Service defines catalog read operations used by the storefront.
type Service interface {
	GetProduct(ctx context.Context, id string) (*Product, error)
	GetVariant(ctx context.Context, id string) (*VariantDetail, error)
}

type service struct{ repo Repository }

func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *service) GetVariant(ctx context.Context, id string) (*VariantDetail, error) {
	return s.repo.GetVariant(ctx, id)
}
