package catalog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) GetProduct(ctx context.Context, id string) (*Product, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	p := &Product{}
	var description, category sql.NullString
	err = r.db.QueryRowContext(ctx, `
		SELECT id, title, description, category, is_active, created_at, updated_at
		FROM products WHERE id=$1`, uid).
		Scan(&p.ID, &p.Title, &description, &category, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Description = description.String
	p.Category = category.String

	if p.Images, err = r.listImages(ctx, p.ID); err != nil {
		return nil, err
	}
	if p.Variants, err = r.listVariants(ctx, p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) GetVariant(ctx context.Context, id string) (*VariantDetail, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	v := &VariantDetail{}
	var color, size, image, primary sql.NullString
	err = r.db.QueryRowContext(ctx, `
		SELECT v.id, v.product_id, v.color, v.size, v.price, v.stock_quantity, v.image_url, v.is_active,
		       p.title, p.is_active,
		       (SELECT i.image_url FROM product_images i WHERE i.product_id = p.id
		         ORDER BY i.is_primary DESC, i.sort_order ASC LIMIT 1)
		FROM product_variants v
		JOIN products p ON p.id = v.product_id
		WHERE v.id=$1`, uid).
		Scan(&v.ID, &v.ProductID, &color, &size, &v.Price, &v.StockQuantity, &image, &v.IsActive,
			&v.ProductTitle, &v.ProductActive, &primary)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	v.Color = color.String
	v.Size = size.String
	v.ImageURL = image.String
	v.PrimaryImage = primary.String
	return v, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (r *postgresRepo) listImages(ctx context.Context, productID uuid.UUID) ([]*Image, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, image_url, alt_text, is_primary, sort_order
		FROM product_images WHERE product_id=$1 ORDER BY sort_order ASC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []*Image
	for rows.Next() {
		img := &Image{}
		var alt sql.NullString
		if err := rows.Scan(&img.ID, &img.URL, &alt, &img.IsPrimary, &img.SortOrder); err != nil {
			return nil, err
		}
		img.AltText = alt.String
		images = append(images, img)
	}
	return images, rows.Err()
}

func (r *postgresRepo) listVariants(ctx context.Context, productID uuid.UUID) ([]*Variant, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, color, size, price, stock_quantity, image_url, is_active
		FROM product_variants WHERE product_id=$1 ORDER BY price ASC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var variants []*Variant
	for rows.Next() {
		v := &Variant{}
		var color, size, image sql.NullString
		if err := rows.Scan(&v.ID, &v.ProductID, &color, &size, &v.Price, &v.StockQuantity, &image, &v.IsActive); err != nil {
			return nil, err
		}
		v.Color, v.Size, v.ImageURL = color.String, size.String, image.String
		variants = append(variants, v)
	}
	return variants, rows.Err()
}
