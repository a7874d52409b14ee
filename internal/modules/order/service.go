package order

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/georgemunganga/kidswear-store/internal/modules/events"
	"github.com/google/uuid"
)

// Service defines the order management business logic.
type Service interface {
	// PlaceOrder validates the request and persists the order atomically
	// with server side pricing.
	PlaceOrder(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest) (*PlaceOrderResult, error)

	// GetOrder retrieves a full order with its items.
	GetOrder(ctx context.Context, id string) (*Order, error)

	// GetCustomerOrder retrieves an order only if userID placed it.
	GetCustomerOrder(ctx context.Context, userID uuid.UUID, id string) (*Order, error)

	// ListCustomerOrders returns the customer's order history.
	ListCustomerOrders(ctx context.Context, userID uuid.UUID) ([]*Order, error)

	// ListOrders returns all orders, optionally filtered by status ("" or "all" for every status).
	ListOrders(ctx context.Context, status string) ([]*Order, error)

	// UpdateStatus sets any shipment status, so admins can skip steps or
	// correct mistakes. It never advances an unverified UPI order into
	// fulfillment, and shipped needs a tracking number.
	UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (*Order, error)

	// AttachAddress sets or replaces the order's shipping address.
	AttachAddress(ctx context.Context, id string, addressID uuid.UUID) (*Order, error)
}

type service struct {
	repo   Repository
	events events.Publisher
	log    *slog.Logger
}

// NewService creates a new order service.
func NewService(repo Repository, publisher events.Publisher, log *slog.Logger) Service {
	return &service{repo: repo, events: publisher, log: log}
}

// fulfillmentStatuses require verified payment on UPI orders.
var fulfillmentStatuses = map[Status]bool{
	StatusProcessing: true,
	StatusShipped:    true,
	StatusDelivered:  true,
}

func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	if !req.PaymentMethod.Valid() {
		return nil, ErrInvalidMethod
	}
	addressID, err := uuid.Parse(req.ShippingAddressID)
	if err != nil {
		return nil, Reject("please select a shipping address")
	}
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return nil, Reject("quantity must be at least 1")
		}
		if _, err := uuid.Parse(line.VariantID); err != nil {
			return nil, Reject("invalid product in cart")
		}
	}

	o := &Order{
		ID:                uuid.New(),
		OrderNumber:       generateOrderNumber(),
		UserID:            userID,
		ShippingAddressID: &addressID,
		Status:            StatusPending,
		PaymentMethod:     req.PaymentMethod,
		PaymentStatus:     req.PaymentMethod.InitialPaymentStatus(),
		Notes:             strings.TrimSpace(req.Notes),
	}
	if err := s.repo.CreateOrder(ctx, o, req.Items); err != nil {
		if IsRejected(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	s.log.Info("order placed",
		"order_id", o.ID, "order_number", o.OrderNumber,
		"payment_method", o.PaymentMethod, "total", o.TotalAmount.StringFixed(2))
	s.publish(ctx, events.OrderCreated, o)

	return &PlaceOrderResult{OrderID: o.ID, OrderNumber: o.OrderNumber, TotalAmount: o.TotalAmount}, nil
}

func (s *service) GetOrder(ctx context.Context, id string) (*Order, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.repo.GetOrderByID(ctx, uid)
}

func (s *service) GetCustomerOrder(ctx context.Context, userID uuid.UUID, id string) (*Order, error) {
	o, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, ErrNotFound
	}
	return o, nil
}

func (s *service) ListCustomerOrders(ctx context.Context, userID uuid.UUID) ([]*Order, error) {
	return s.repo.ListOrders(ctx, ListFilter{UserID: &userID})
}

func (s *service) ListOrders(ctx context.Context, status string) ([]*Order, error) {
	f := ListFilter{}
	if status != "" && status != "all" {
		st, ok := ParseStatus(status)
		if !ok {
			return nil, ErrInvalidStatus
		}
		f.Status = st
	}
	return s.repo.ListOrders(ctx, f)
}

func (s *service) UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (*Order, error) {
	next, ok := ParseStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if !ok {
		return nil, ErrInvalidStatus
	}
	o, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if o.PaymentMethod == PaymentUPI && o.PaymentStatus != PaymentVerified && fulfillmentStatuses[next] {
		return nil, ErrPaymentNotVerified
	}

	patch := Patch{Status: &next}
	if next == StatusShipped {
		tracking := strings.TrimSpace(req.TrackingNumber)
		if tracking == "" {
			tracking = o.TrackingNumber
		}
		if tracking == "" {
			return nil, ErrTrackingRequired
		}
		patch.TrackingNumber = &tracking
		o.TrackingNumber = tracking
	}

	if err := s.repo.Update(ctx, o.ID, patch); err != nil {
		return nil, err
	}
	o.Status = next

	s.publish(ctx, events.OrderStatusChanged, o)
	return o, nil
}

func (s *service) AttachAddress(ctx context.Context, id string, addressID uuid.UUID) (*Order, error) {
	o, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, o.ID, Patch{ShippingAddressID: &addressID}); err != nil {
		return nil, err
	}
	o.ShippingAddressID = &addressID
	return o, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (s *service) publish(ctx context.Context, t events.Type, o *Order) {
	err := s.events.Publish(ctx, EventFor(t, o))
	if err != nil {
		s.log.Warn("publish order event failed", "type", t, "order_id", o.ID, "error", err)
	}
}

// EventFor builds the lifecycle event for o.
func EventFor(t events.Type, o *Order) events.Event {
	return events.Event{
		Type:           t,
		OrderID:        o.ID.String(),
		OrderNumber:    o.OrderNumber,
		Status:         string(o.Status),
		PaymentMethod:  string(o.PaymentMethod),
		PaymentStatus:  string(o.PaymentStatus),
		TotalAmount:    o.TotalAmount.StringFixed(2),
		TrackingNumber: o.TrackingNumber,
		OccurredAt:     time.Now().UTC(),
	}
}

// generateOrderNumber creates a human-readable order number: ORD-YYYYMMDD-XXXXXX.
// Uniqueness is enforced by the orders.order_number constraint.
func generateOrderNumber() string {
	date := time.Now().UTC().Format("20060102")
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("ORD-%s-%s", date, suffix)
}

// errUnavailable wraps cause so callers can match ErrGatewayUnavailable.
func errUnavailable(cause error) error {
	return fmt.Errorf("%w: %v", ErrGatewayUnavailable, cause)
}
