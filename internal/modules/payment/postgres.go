package payment

import (
	"context"
	"database/sql"
	"errors"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) GetSettings(ctx context.Context) (*Settings, error) {
	s := &Settings{}
	var number, qr sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT upi_id, upi_number, upi_qr_code_url, updated_at
		FROM payment_settings LIMIT 1`).
		Scan(&s.UPIID, &number, &qr, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.UPINumber, s.UPIQRCodeURL = number.String, qr.String
	return s, nil
}

func (r *postgresRepo) SaveSettings(ctx context.Context, s *Settings) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO payment_settings (singleton, upi_id, upi_number, upi_qr_code_url)
		VALUES (true, $1, $2, $3)
		ON CONFLICT (singleton) DO UPDATE
		SET upi_id = EXCLUDED.upi_id,
		    upi_number = EXCLUDED.upi_number,
		    upi_qr_code_url = EXCLUDED.upi_qr_code_url,
		    updated_at = now()
		RETURNING updated_at`,
		s.UPIID, nullable(s.UPINumber), nullable(s.UPIQRCodeURL)).Scan(&s.UpdatedAt)
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
