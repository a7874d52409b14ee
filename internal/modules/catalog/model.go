package catalog

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("product not found")

// Product is a storefront product with its purchasable variants.
type Product struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category,omitempty"`
	IsActive    bool       `json:"is_active"`
	Images      []*Image   `json:"images,omitempty"`
	Variants    []*Variant `json:"variants,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Image is a product gallery image.
type Image struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"image_url"`
	AltText   string    `json:"alt_text,omitempty"`
	IsPrimary bool      `json:"is_primary"`
	SortOrder int       `json:"sort_order"`
}

// Variant is one color/size combination with its own price and stock.
type Variant struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	Color         string          `json:"color,omitempty"`
	Size          string          `json:"size,omitempty"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	ImageURL      string          `json:"image_url,omitempty"`
	IsActive      bool            `json:"is_active"`
}

// VariantDetail is a variant joined with the product fields a cart line needs.
type VariantDetail struct {
	Variant
	ProductTitle  string `json:"product_title"`
	ProductActive bool   `json:"product_active"`
	// PrimaryImage is the product's primary image, used when the variant has none.
	PrimaryImage string `json:"primary_image,omitempty"`
}

// Purchasable reports whether both the variant and its product are on sale.
func (v *VariantDetail) Purchasable() bool { return v.IsActive && v.ProductActive }

// Image returns the best image for the variant.
func (v *VariantDetail) Image() string {
	if v.ImageURL != "" {
		return v.ImageURL
	}
	return v.PrimaryImage
}

// CheapestActiveVariant returns the lowest priced active variant, or nil.
func (p *Product) CheapestActiveVariant() *Variant {
	var best *Variant
	for _, v := range p.Variants {
		if !v.IsActive {
			continue
		}
		if best == nil || v.Price.LessThan(best.Price) {
			best = v
		}
	}
	return best
}

// PrimaryImage returns the primary image url, else the first image url.
func (p *Product) PrimaryImage() string {
	for _, img := range p.Images {
		if img.IsPrimary {
			return img.URL
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0].URL
	}
	return ""
}
