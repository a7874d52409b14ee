package payment

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/georgemunganga/kidswear-store/internal/modules/events"
	"github.com/georgemunganga/kidswear-store/internal/modules/order"
	"github.com/georgemunganga/kidswear-store/internal/modules/storage"
	"github.com/google/uuid"
)

// OrderStore is the slice of the order repository payments need.
type OrderStore interface {
	GetOrderByID(ctx context.Context, id uuid.UUID) (*order.Order, error)
	Update(ctx context.Context, id uuid.UUID, p order.Patch) error
	VerifyPayment(ctx context.Context, id uuid.UUID) (order.Status, error)
}

// Service defines UPI settings and payment proof handling.
type Service interface {
	// LookupSettings is best effort: any failure is logged and reported
	// as no settings.
	LookupSettings(ctx context.Context) *Settings
	UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (*Settings, error)

	// SubmitProof stores a screenshot for the customer's UPI order and
	// marks its payment submitted. Resubmitting replaces the stored proof.
	SubmitProof(ctx context.Context, userID uuid.UUID, orderID string, p Proof) (*order.Order, error)

	Verify(ctx context.Context, orderID string) (*order.Order, error)
	Reject(ctx context.Context, orderID string) (*order.Order, error)
}

type service struct {
	repo    Repository
	orders  OrderStore
	objects storage.ObjectStore
	events  events.Publisher
	log     *slog.Logger
}

func NewService(repo Repository, orders OrderStore, objects storage.ObjectStore, publisher events.Publisher, log *slog.Logger) Service {
	return &service{repo: repo, orders: orders, objects: objects, events: publisher, log: log}
}

func (s *service) LookupSettings(ctx context.Context) *Settings {
	st, err := s.repo.GetSettings(ctx)
	if err != nil {
		s.log.Warn("load payment settings failed", "error", err)
		return nil
	}
	return st
}

func (s *service) UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (*Settings, error) {
	st := &Settings{
		UPIID:        strings.TrimSpace(req.UPIID),
		UPINumber:    strings.TrimSpace(req.UPINumber),
		UPIQRCodeURL: strings.TrimSpace(req.UPIQRCodeURL),
	}
	if st.UPIID == "" {
		return nil, ErrUPIIDRequired
	}
	if err := s.repo.SaveSettings(ctx, st); err != nil {
		return nil, fmt.Errorf("save payment settings: %w", err)
	}
	return st, nil
}

func (s *service) SubmitProof(ctx context.Context, userID uuid.UUID, orderID string, p Proof) (*order.Order, error) {
	o, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, order.ErrNotFound
	}
	if o.PaymentMethod != order.PaymentUPI {
		return nil, ErrNotUPI
	}
	if o.PaymentStatus == order.PaymentVerified || o.PaymentStatus == order.PaymentRejected {
		return nil, ErrAlreadyReviewed
	}

	clean, ext, err := NormalizeProof(p)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("%s/%s.%s", userID, o.ID, ext)
	if err := s.objects.Put(ctx, key, clean.ContentType, bytes.NewReader(clean.Data), int64(len(clean.Data))); err != nil {
		return nil, fmt.Errorf("store payment proof: %w", err)
	}

	url := s.objects.PublicURL(key)
	status := order.PaymentSubmitted
	if err := s.orders.Update(ctx, o.ID, order.Patch{PaymentProofURL: &url, PaymentStatus: &status}); err != nil {
		return nil, fmt.Errorf("record payment proof: %w", err)
	}
	o.PaymentProofURL, o.PaymentStatus = url, status
	s.publish(ctx, events.PaymentProofSubmitted, o)
	return o, nil
}

func (s *service) Verify(ctx context.Context, orderID string) (*order.Order, error) {
	o, err := s.reviewable(ctx, orderID)
	if err != nil {
		return nil, err
	}
	status, err := s.orders.VerifyPayment(ctx, o.ID)
	if err != nil {
		return nil, fmt.Errorf("verify payment: %w", err)
	}
	o.PaymentStatus, o.Status = order.PaymentVerified, status
	s.publish(ctx, events.PaymentVerified, o)
	return o, nil
}

func (s *service) Reject(ctx context.Context, orderID string) (*order.Order, error) {
	o, err := s.reviewable(ctx, orderID)
	if err != nil {
		return nil, err
	}
	status := order.PaymentRejected
	if err := s.orders.Update(ctx, o.ID, order.Patch{PaymentStatus: &status}); err != nil {
		return nil, fmt.Errorf("reject payment: %w", err)
	}
	o.PaymentStatus = status
	s.publish(ctx, events.PaymentRejected, o)
	return o, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (s *service) load(ctx context.Context, orderID string) (*order.Order, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, order.ErrNotFound
	}
	return s.orders.GetOrderByID(ctx, id)
}

func (s *service) reviewable(ctx context.Context, orderID string) (*order.Order, error) {
	o, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.PaymentMethod != order.PaymentUPI {
		return nil, ErrNotUPI
	}
	if o.PaymentProofURL == "" {
		return nil, ErrNoProof
	}
	return o, nil
}

func (s *service) publish(ctx context.Context, t events.Type, o *order.Order) {
	if err := s.events.Publish(ctx, order.EventFor(t, o)); err != nil {
		s.log.Warn("publish payment event failed", "type", t, "order_id", o.ID, "error", err)
	}
}

// isClientError reports whether err should surface to the caller as a 4xx.
func isClientError(err error) bool {
	for _, target := range []error{ErrUPIIDRequired, ErrNotUPI, ErrAlreadyReviewed, ErrNoProof, ErrInvalidProof, ErrProofTooLarge} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
