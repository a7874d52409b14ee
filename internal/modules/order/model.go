package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the fulfillment state of an order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// PaymentMethod is how the customer pays.
type PaymentMethod string

const (
	PaymentUPI PaymentMethod = "upi"
	PaymentCOD PaymentMethod = "cod"
)

// PaymentStatus tracks manual payment verification.
type PaymentStatus string

const (
	PaymentPending              PaymentStatus = "pending"
	PaymentAwaitingVerification PaymentStatus = "awaiting_verification"
	PaymentSubmitted            PaymentStatus = "submitted"
	PaymentVerified             PaymentStatus = "verified"
	PaymentRejected             PaymentStatus = "rejected"
)

func (m PaymentMethod) Valid() bool { return m == PaymentUPI || m == PaymentCOD }

// InitialPaymentStatus is the payment state a new order starts in.
func (m PaymentMethod) InitialPaymentStatus() PaymentStatus {
	if m == PaymentUPI {
		return PaymentAwaitingVerification
	}
	return PaymentPending
}

// Label is the customer facing name of the method.
func (m PaymentMethod) Label() string {
	if m == PaymentCOD {
		return "Cash on Delivery"
	}
	return "UPI Payment"
}

func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return st, true
	}
	return "", false
}

// Order is a placed order. ShippingAddressID references a saved address;
// the address is not copied.
type Order struct {
	ID                uuid.UUID       `json:"id"`
	OrderNumber       string          `json:"order_number"`
	UserID            uuid.UUID       `json:"user_id"`
	ShippingAddressID *uuid.UUID      `json:"shipping_address_id,omitempty"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	Status            Status          `json:"status"`
	PaymentMethod     PaymentMethod   `json:"payment_method"`
	PaymentStatus     PaymentStatus   `json:"payment_status"`
	PaymentProofURL   string          `json:"payment_proof_url,omitempty"`
	TrackingNumber    string          `json:"tracking_number,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	Items             []*OrderItem    `json:"items,omitempty"`
	ItemCount         int             `json:"item_count"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// OrderItem is an immutable snapshot of a purchased line.
type OrderItem struct {
	ID           uuid.UUID       `json:"id"`
	OrderID      uuid.UUID       `json:"order_id"`
	ProductID    *uuid.UUID      `json:"product_id,omitempty"`
	VariantID    *uuid.UUID      `json:"variant_id,omitempty"`
	ProductName  string          `json:"product_name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	VariantColor string          `json:"variant_color,omitempty"`
	VariantSize  string          `json:"variant_size,omitempty"`
	ProductImage string          `json:"product_image,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// LineRequest asks for a quantity of one variant. It deliberately carries no price.
type LineRequest struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
	Color     string `json:"color,omitempty"`
	Size      string `json:"size,omitempty"`
}

// PlaceOrderRequest is the order-creation call shared by every gateway.
type PlaceOrderRequest struct {
	Items             []LineRequest `json:"items"`
	ShippingAddressID string        `json:"shippingAddressId"`
	PaymentMethod     PaymentMethod `json:"paymentMethod"`
	Notes             string        `json:"notes,omitempty"`
}

// PlaceOrderResult is returned once the order is persisted.
type PlaceOrderResult struct {
	OrderID     uuid.UUID       `json:"orderId"`
	OrderNumber string          `json:"orderNumber"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// UpdateStatusRequest is the admin shipment status update.
type UpdateStatusRequest struct {
	Status         string `json:"status"`
	TrackingNumber string `json:"tracking_number,omitempty"`
}

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	Status            *Status
	PaymentStatus     *PaymentStatus
	PaymentProofURL   *string
	TrackingNumber    *string
	ShippingAddressID *uuid.UUID
}

// ListFilter narrows ListOrders. Zero values match everything.
type ListFilter struct {
	UserID *uuid.UUID
	Status Status
}
