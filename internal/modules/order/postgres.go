package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const orderColumns = `id, order_number, user_id, shipping_address_id, total_amount, status,
	payment_method, payment_status, payment_proof_url, tracking_number, notes, created_at, updated_at`

// lockedVariant is a variant row read under FOR UPDATE.
type lockedVariant struct {
	productID uuid.UUID
	title     string
	price     decimal.Decimal
	stock     int
	color     string
	size      string
	image     string
	active    bool
}

// CreateOrder is the authoritative order placement. Each variant row is
// locked before its stock is checked, so concurrent orders for the same
// variant serialise on that row.
func (r *postgresRepo) CreateOrder(ctx context.Context, o *Order, lines []LineRequest) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if o.ShippingAddressID != nil {
		var owner uuid.UUID
		err := tx.QueryRowContext(ctx,
			`SELECT user_id FROM addresses WHERE id=$1`, *o.ShippingAddressID).Scan(&owner)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && owner != o.UserID) {
			return Reject("shipping address not found")
		}
		if err != nil {
			return fmt.Errorf("check address: %w", err)
		}
	}

	total := decimal.Zero
	items := make([]*OrderItem, 0, len(lines))
	for _, line := range lines {
		variantID, err := uuid.Parse(line.VariantID)
		if err != nil {
			return Reject("invalid product in cart")
		}
		v, err := lockVariant(ctx, tx, variantID)
		if errors.Is(err, sql.ErrNoRows) {
			return Reject("a product in your cart is no longer available")
		}
		if err != nil {
			return fmt.Errorf("lock variant: %w", err)
		}
		name := itemName(v.title, v.color, v.size)
		if line.ProductID != "" && line.ProductID != v.productID.String() {
			return Reject("invalid product in cart: " + name)
		}
		if !v.active {
			return Reject(name + " is no longer available")
		}
		if v.stock < line.Quantity {
			return Reject("insufficient stock for " + name)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE product_variants SET stock_quantity = stock_quantity - $1, updated_at = now() WHERE id=$2`,
			line.Quantity, variantID); err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}

		lineTotal := v.price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(lineTotal)
		productID := v.productID
		vid := variantID
		items = append(items, &OrderItem{
			ID:           uuid.New(),
			OrderID:      o.ID,
			ProductID:    &productID,
			VariantID:    &vid,
			ProductName:  v.title,
			UnitPrice:    v.price,
			Quantity:     line.Quantity,
			TotalPrice:   lineTotal,
			VariantColor: v.color,
			VariantSize:  v.size,
			ProductImage: v.image,
		})
	}
	o.TotalAmount = total
	o.Items = items

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders
		  (id, order_number, user_id, shipping_address_id, total_amount, status,
		   payment_method, payment_status, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at, updated_at`,
		o.ID, o.OrderNumber, o.UserID, nullableUUID(o.ShippingAddressID), o.TotalAmount, o.Status,
		o.PaymentMethod, o.PaymentStatus, nullableString(o.Notes)).
		Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items
			  (id, order_id, product_id, variant_id, product_name, unit_price, quantity,
			   total_price, variant_color, variant_size, product_image)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
			item.ID, o.ID, nullableUUID(item.ProductID), nullableUUID(item.VariantID), item.ProductName,
			item.UnitPrice, item.Quantity, item.TotalPrice,
			nullableString(item.VariantColor), nullableString(item.VariantSize), nullableString(item.ProductImage))
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}

	return tx.Commit()
}

func (r *postgresRepo) GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id=$1`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if o.Items, err = r.listItems(ctx, o.ID); err != nil {
		return nil, err
	}
	o.ItemCount = len(o.Items)
	return o, nil
}

func (r *postgresRepo) ListOrders(ctx context.Context, f ListFilter) ([]*Order, error) {
	query := `SELECT ` + orderColumns + `,
	          (SELECT count(*) FROM order_items oi WHERE oi.order_id = orders.id)
	          FROM orders WHERE 1=1`
	args := []interface{}{}
	n := 1
	if f.UserID != nil {
		query += fmt.Sprintf(` AND user_id=$%d`, n)
		args = append(args, *f.UserID)
		n++
	}
	if f.Status != "" {
		query += fmt.Sprintf(` AND status=$%d`, n)
		args = append(args, f.Status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		var count int
		o, err := scanOrder(func(dest ...interface{}) error {
			return rows.Scan(append(dest, &count)...)
		})
		if err != nil {
			return nil, err
		}
		o.ItemCount = count
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, id uuid.UUID, p Patch) error {
	var sets []string
	var args []interface{}
	add := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s=$%d", col, len(args)))
	}
	if p.Status != nil {
		add("status", *p.Status)
	}
	if p.PaymentStatus != nil {
		add("payment_status", *p.PaymentStatus)
	}
	if p.PaymentProofURL != nil {
		add("payment_proof_url", *p.PaymentProofURL)
	}
	if p.TrackingNumber != nil {
		add("tracking_number", nullableString(*p.TrackingNumber))
	}
	if p.ShippingAddressID != nil {
		add("shipping_address_id", *p.ShippingAddressID)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE orders SET %s, updated_at=now() WHERE id=$%d`,
		strings.Join(sets, ", "), len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresRepo) VerifyPayment(ctx context.Context, id uuid.UUID) (Status, error) {
	var status Status
	err := r.db.QueryRowContext(ctx, `
		UPDATE orders
		SET payment_status='verified',
		    status = CASE WHEN status='pending' THEN 'processing' ELSE status END,
		    updated_at = now()
		WHERE id=$1
		RETURNING status`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return status, err
}

// ── helpers ──────────────────────────────────────────────────────────────────

func lockVariant(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*lockedVariant, error) {
	v := &lockedVariant{}
	var color, size, image sql.NullString
	err := tx.QueryRowContext(ctx, `
		SELECT v.product_id, p.title, v.price, v.stock_quantity, v.color, v.size,
		       COALESCE(v.image_url,
		         (SELECT i.image_url FROM product_images i WHERE i.product_id = p.id
		           ORDER BY i.is_primary DESC, i.sort_order ASC LIMIT 1)),
		       v.is_active AND p.is_active
		FROM product_variants v
		JOIN products p ON p.id = v.product_id
		WHERE v.id=$1
		FOR UPDATE OF v`, id).
		Scan(&v.productID, &v.title, &v.price, &v.stock, &color, &size, &image, &v.active)
	if err != nil {
		return nil, err
	}
	v.color, v.size, v.image = color.String, size.String, image.String
	return v, nil
}

func scanOrder(scan func(...interface{}) error) (*Order, error) {
	o := &Order{}
	var addressID uuid.NullUUID
	var proof, tracking, notes sql.NullString
	err := scan(&o.ID, &o.OrderNumber, &o.UserID, &addressID, &o.TotalAmount, &o.Status,
		&o.PaymentMethod, &o.PaymentStatus, &proof, &tracking, &notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if addressID.Valid {
		id := addressID.UUID
		o.ShippingAddressID = &id
	}
	o.PaymentProofURL = proof.String
	o.TrackingNumber = tracking.String
	o.Notes = notes.String
	return o, nil
}

func (r *postgresRepo) listItems(ctx context.Context, orderID uuid.UUID) ([]*OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, variant_id, product_name, unit_price, quantity, total_price,
		       variant_color, variant_size, product_image, created_at
		FROM order_items WHERE order_id=$1 ORDER BY created_at ASC, id ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*OrderItem
	for rows.Next() {
		item := &OrderItem{}
		var productID, variantID uuid.NullUUID
		var color, size, image sql.NullString
		if err := rows.Scan(&item.ID, &item.OrderID, &productID, &variantID, &item.ProductName,
			&item.UnitPrice, &item.Quantity, &item.TotalPrice,
			&color, &size, &image, &item.CreatedAt); err != nil {
			return nil, err
		}
		if productID.Valid {
			id := productID.UUID
			item.ProductID = &id
		}
		if variantID.Valid {
			id := variantID.UUID
			item.VariantID = &id
		}
		item.VariantColor, item.VariantSize, item.ProductImage = color.String, size.String, image.String
		items = append(items, item)
	}
	return items, rows.Err()
}

func itemName(title, color, size string) string {
	var labels []string
	for _, l := range []string{color, size} {
		if l != "" {
			labels = append(labels, l)
		}
	}
	if len(labels) == 0 {
		return title
	}
	return title + " (" + strings.Join(labels, " / ") + ")"
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullableUUID(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return *id
}
