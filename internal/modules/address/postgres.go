package address

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const selectColumns = `id, user_id, label, full_name, phone, address_line_1, address_line_2,
	city, state, postal_code, country, is_default, created_at, updated_at`

// Create inserts a; a default address clears the user's previous default in the same tx.
func (r *postgresRepo) Create(ctx context.Context, a *Address) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if a.IsDefault {
		if _, err := tx.ExecContext(ctx,
			`UPDATE addresses SET is_default=false WHERE user_id=$1 AND is_default`, a.UserID); err != nil {
			return fmt.Errorf("clear default address: %w", err)
		}
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO addresses
		  (id, user_id, label, full_name, phone, address_line_1, address_line_2,
		   city, state, postal_code, country, is_default)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING created_at, updated_at`,
		a.ID, a.UserID, a.Label, a.FullName, a.Phone, a.AddressLine1, nullable(a.AddressLine2),
		a.City, a.State, a.PostalCode, a.Country, a.IsDefault).
		Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert address: %w", err)
	}
	return tx.Commit()
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Address, error) {
	a, err := scanAddress(r.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM addresses WHERE id=$1`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Address, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM addresses WHERE user_id=$1
		 ORDER BY is_default DESC, created_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Address
	for rows.Next() {
		a, err := scanAddress(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, a *Address) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE addresses
		SET label=$1, full_name=$2, phone=$3, address_line_1=$4, address_line_2=$5,
		    city=$6, state=$7, postal_code=$8, country=$9, updated_at=now()
		WHERE id=$10`,
		a.Label, a.FullName, a.Phone, a.AddressLine1, nullable(a.AddressLine2),
		a.City, a.State, a.PostalCode, a.Country, a.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func scanAddress(scan func(...interface{}) error) (*Address, error) {
	a := &Address{}
	var line2 sql.NullString
	err := scan(&a.ID, &a.UserID, &a.Label, &a.FullName, &a.Phone, &a.AddressLine1, &line2,
		&a.City, &a.State, &a.PostalCode, &a.Country, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.AddressLine2 = line2.String
	return a, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
