package cart

import (
	"context"
	"errors"
	"strings"

	"github.com/georgemunganga/kidswear-store/internal/modules/catalog"
)

// VariantLookup resolves the catalog data a cart line is built from.
type VariantLookup interface {
	GetVariant(ctx context.Context, id string) (*catalog.VariantDetail, error)
}

// Service exposes cart operations keyed by owner (the user id).
type Service interface {
	View(ctx context.Context, owner string) (Summary, error)
	AddItem(ctx context.Context, owner string, req AddItemRequest) (Summary, error)
	UpdateQuantity(ctx context.Context, owner, lineID string, quantity int) (Summary, error)
	RemoveItem(ctx context.Context, owner, lineID string) (Summary, error)
	Clear(ctx context.Context, owner string) error
}

// AddItemRequest adds a variant to the cart.
type AddItemRequest struct {
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

type service struct {
	store    *Store
	variants VariantLookup
}

func NewService(store *Store, variants VariantLookup) Service {
	return &service{store: store, variants: variants}
}

func (s *service) View(ctx context.Context, owner string) (Summary, error) {
	c, err := s.store.Open(ctx, owner)
	if err != nil {
		return Summary{}, err
	}
	return c.Summary(), nil
}

func (s *service) AddItem(ctx context.Context, owner string, req AddItemRequest) (Summary, error) {
	if req.Quantity < 1 {
		return Summary{}, ErrInvalidAmount
	}
	v, err := s.variants.GetVariant(ctx, req.VariantID)
	if errors.Is(err, catalog.ErrNotFound) {
		return Summary{}, ErrNotAvailable
	}
	if err != nil {
		return Summary{}, err
	}
	if !v.Purchasable() {
		return Summary{}, ErrNotAvailable
	}
	if v.StockQuantity < 1 {
		return Summary{}, ErrOutOfStock
	}

	c, err := s.store.Open(ctx, owner)
	if err != nil {
		return Summary{}, err
	}
	err = c.Add(ctx, Line{
		LineID:           v.ID.String(),
		ProductID:        v.ProductID.String(),
		ProductVariantID: v.ID.String(),
		DisplayName:      displayName(v),
		UnitPrice:        v.Price,
		Quantity:         req.Quantity,
		ImageRef:         v.Image(),
		ColorLabel:       v.Color,
		SizeLabel:        v.Size,
		MaxQuantity:      v.StockQuantity,
	})
	if err != nil {
		return Summary{}, err
	}
	return c.Summary(), nil
}

func (s *service) UpdateQuantity(ctx context.Context, owner, lineID string, quantity int) (Summary, error) {
	c, err := s.store.Open(ctx, owner)
	if err != nil {
		return Summary{}, err
	}
	if err := c.UpdateQuantity(ctx, lineID, quantity); err != nil {
		return Summary{}, err
	}
	return c.Summary(), nil
}

func (s *service) RemoveItem(ctx context.Context, owner, lineID string) (Summary, error) {
	c, err := s.store.Open(ctx, owner)
	if err != nil {
		return Summary{}, err
	}
	if err := c.Remove(ctx, lineID); err != nil {
		return Summary{}, err
	}
	return c.Summary(), nil
}

func (s *service) Clear(ctx context.Context, owner string) error {
	c, err := s.store.Open(ctx, owner)
	if err != nil {
		return err
	}
	return c.Clear(ctx)
}

func displayName(v *catalog.VariantDetail) string {
	var labels []string
	for _, l := range []string{v.Color, v.Size} {
		if l != "" {
			labels = append(labels, l)
		}
	}
	if len(labels) == 0 {
		return v.ProductTitle
	}
	return v.ProductTitle + " (" + strings.Join(labels, " / ") + ")"
}
