package address

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultCountry = "India"
	CheckoutLabel  = "Checkout Address"
)

var ErrNotFound = errors.New("address not found")

// Address is a saved shipping address owned by one user.
type Address struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Label        string    `json:"label"`
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone"`
	AddressLine1 string    `json:"address_line_1"`
	AddressLine2 string    `json:"address_line_2,omitempty"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	PostalCode   string    `json:"postal_code"`
	Country      string    `json:"country"`
	IsDefault    bool      `json:"is_default"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateAddressRequest is the new-address form.
type CreateAddressRequest struct {
	Label        string `json:"label,omitempty"`
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country,omitempty"`
	IsDefault    bool   `json:"is_default,omitempty"`
}

// ValidationError carries one message per invalid field.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the form locally. Phone and postal code are checked by
// length only.
func Validate(req CreateAddressRequest) error {
	fields := map[string]string{}
	if strings.TrimSpace(req.FullName) == "" {
		fields["full_name"] = "Full name is required"
	}
	if len(strings.TrimSpace(req.Phone)) < 10 {
		fields["phone"] = "Valid phone number is required"
	}
	if len(strings.TrimSpace(req.AddressLine1)) < 5 {
		fields["address_line_1"] = "Address is required"
	}
	if strings.TrimSpace(req.City) == "" {
		fields["city"] = "City is required"
	}
	if strings.TrimSpace(req.State) == "" {
		fields["state"] = "State is required"
	}
	if len(strings.TrimSpace(req.PostalCode)) < 6 {
		fields["postal_code"] = "Valid postal code is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// normalize trims the form and fills defaults.
func (req CreateAddressRequest) normalize() CreateAddressRequest {
	req.Label = strings.TrimSpace(req.Label)
	if req.Label == "" {
		req.Label = CheckoutLabel
	}
	req.FullName = strings.TrimSpace(req.FullName)
	req.Phone = strings.TrimSpace(req.Phone)
	req.AddressLine1 = strings.TrimSpace(req.AddressLine1)
	req.AddressLine2 = strings.TrimSpace(req.AddressLine2)
	req.City = strings.TrimSpace(req.City)
	req.State = strings.TrimSpace(req.State)
	req.PostalCode = strings.TrimSpace(req.PostalCode)
	req.Country = strings.TrimSpace(req.Country)
	if req.Country == "" {
		req.Country = DefaultCountry
	}
	return req
}
