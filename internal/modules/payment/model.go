package payment

import (
	"errors"
	"time"
)

var (
	ErrNotUPI          = errors.New("payment proof only applies to UPI orders")
	ErrAlreadyReviewed = errors.New("payment for this order has already been reviewed")
	ErrNoProof         = errors.New("no payment proof has been submitted for this order")
	ErrInvalidProof    = errors.New("please attach a valid payment screenshot (JPG, PNG or GIF)")
	ErrProofTooLarge   = errors.New("payment screenshot must be under 10MB")
	ErrUPIIDRequired   = errors.New("upi_id is required")
)

// Settings holds the shop's UPI collection details. A single row exists.
type Settings struct {
	UPIID        string    `json:"upi_id"`
	UPINumber    string    `json:"upi_number,omitempty"`
	UPIQRCodeURL string    `json:"upi_qr_code_url,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UPIAvailable reports whether customers can be shown UPI instructions.
// It is safe to call on a nil *Settings.
func (s *Settings) UPIAvailable() bool { return s != nil && s.UPIID != "" }

// UpdateSettingsRequest is the admin payload for the UPI details.
type UpdateSettingsRequest struct {
	UPIID        string `json:"upi_id"`
	UPINumber    string `json:"upi_number"`
	UPIQRCodeURL string `json:"upi_qr_code_url"`
}

// Proof is an uploaded payment screenshot.
type Proof struct {
	Filename    string
	ContentType string
	Data        []byte
}
