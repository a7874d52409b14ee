package checkout

import (
	"errors"
	"time"

	"github.com/georgemunganga/kidswear-store/internal/modules/address"
	"github.com/georgemunganga/kidswear-store/internal/modules/cart"
	"github.com/georgemunganga/kidswear-store/internal/modules/order"
	"github.com/georgemunganga/kidswear-store/internal/modules/payment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Step is a checkout state.
type Step string

const (
	StepAddressSelect    Step = "ADDRESS_SELECT"
	StepPaymentAndReview Step = "PAYMENT_AND_REVIEW"
	StepProofUpload      Step = "PROOF_UPLOAD"
	StepComplete         Step = "COMPLETE"
	// StepCartRedirect is returned, never stored, when checkout is entered
	// with an empty cart.
	StepCartRedirect Step = "CART_REDIRECT"
)

const (
	cartPath   = "/cart"
	ordersPath = "/orders"
)

var (
	ErrEmptyCart       = errors.New("your cart is empty")
	ErrNoAddress       = errors.New("please select a shipping address")
	ErrUnknownAddress  = errors.New("address not found")
	ErrWrongStep       = errors.New("this action is not available at the current checkout step")
	ErrUPIUnavailable  = errors.New("UPI payment is currently unavailable, please choose cash on delivery")
	ErrOrderInProgress = errors.New("your order is already being placed")
	ErrFlowNotStarted  = errors.New("checkout has not been started")
	ErrProofRequired   = errors.New("please attach your payment screenshot")
	// ErrProgressNotSaved means the order exists but the flow could not record
	// it; the proof must then be uploaded against the order directly.
	ErrProgressNotSaved = errors.New("your order was placed but checkout could not continue, please upload the payment screenshot from your orders")
)

// OrderRef is what the flow remembers about the order it created.
type OrderRef struct {
	OrderID       uuid.UUID           `json:"orderId"`
	OrderNumber   string              `json:"orderNumber"`
	TotalAmount   decimal.Decimal     `json:"totalAmount"`
	PaymentMethod order.PaymentMethod `json:"paymentMethod"`
	PaymentStatus order.PaymentStatus `json:"paymentStatus"`
}

// Flow is one customer's checkout progress. AddressIDs are the addresses
// the customer may pick from, so selecting one needs no lookup.
type Flow struct {
	UserID            uuid.UUID   `json:"userId"`
	Step              Step        `json:"step"`
	AddressIDs        []uuid.UUID `json:"addressIds"`
	SelectedAddressID *uuid.UUID  `json:"selectedAddressId,omitempty"`
	Order             *OrderRef   `json:"order,omitempty"`
	StartedAt         time.Time   `json:"startedAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

func (f *Flow) clone() *Flow {
	cp := *f
	cp.AddressIDs = append([]uuid.UUID(nil), f.AddressIDs...)
	if f.SelectedAddressID != nil {
		id := *f.SelectedAddressID
		cp.SelectedAddressID = &id
	}
	if f.Order != nil {
		o := *f.Order
		cp.Order = &o
	}
	return &cp
}

func (f *Flow) knows(id uuid.UUID) bool {
	for _, a := range f.AddressIDs {
		if a == id {
			return true
		}
	}
	return false
}

// View is the checkout page state returned to the storefront.
type View struct {
	Step              Step               `json:"step"`
	Redirect          string             `json:"redirect,omitempty"`
	Cart              *cart.Summary      `json:"cart,omitempty"`
	Addresses         []*address.Address `json:"addresses,omitempty"`
	SelectedAddressID *uuid.UUID         `json:"selectedAddressId,omitempty"`
	PaymentSettings   *payment.Settings  `json:"paymentSettings"`
	UPIAvailable      bool               `json:"upiAvailable"`
	Order             *OrderRef          `json:"order,omitempty"`
}

// PlaceOrderRequest is the review step's "Place Order" action.
type PlaceOrderRequest struct {
	PaymentMethod order.PaymentMethod `json:"paymentMethod"`
	Notes         string              `json:"notes,omitempty"`
}

type SelectAddressRequest struct {
	AddressID string `json:"addressId"`
}
