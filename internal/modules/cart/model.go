package cart

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrLineNotFound  = errors.New("item is not in your cart")
	ErrOutOfStock    = errors.New("this item is out of stock")
	ErrNotAvailable  = errors.New("this item is no longer available")
	ErrInvalidAmount = errors.New("quantity must be at least 1")
)

// Line is one cart entry. LineID is the variant id, so adding the same
// variant twice merges into one line.
type Line struct {
	LineID           string          `json:"id"`
	ProductID        string          `json:"productId"`
	ProductVariantID string          `json:"variantId"`
	DisplayName      string          `json:"name"`
	UnitPrice        decimal.Decimal `json:"price"`
	Quantity         int             `json:"quantity"`
	ImageRef         string          `json:"image,omitempty"`
	ColorLabel       string          `json:"color,omitempty"`
	SizeLabel        string          `json:"size,omitempty"`
	// MaxQuantity mirrors the stock seen when the line was added. Advisory only.
	MaxQuantity int `json:"maxQuantity"`
}

// Subtotal is the UI hint price for the line. Orders are priced server side.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Summary is the JSON view of a cart.
type Summary struct {
	Lines      []Line          `json:"items"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// clamp keeps q within [1, max]. A non-positive max means unknown stock.
func clamp(q, max int) int {
	if q < 1 {
		q = 1
	}
	if max > 0 && q > max {
		q = max
	}
	return q
}
