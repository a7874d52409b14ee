package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/georgemunganga/kidswear-store/internal/modules/address"
	"github.com/georgemunganga/kidswear-store/internal/modules/auth"
	"github.com/georgemunganga/kidswear-store/internal/modules/cart"
	"github.com/georgemunganga/kidswear-store/internal/modules/notify"
	"github.com/georgemunganga/kidswear-store/internal/modules/order"
	"github.com/georgemunganga/kidswear-store/internal/modules/payment"
	"github.com/georgemunganga/kidswear-store/internal/modules/user"
	"github.com/google/uuid"
)

type Carts interface {
	Open(ctx context.Context, owner string) (*cart.Cart, error)
}

type Addresses interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*address.Address, error)
	Create(ctx context.Context, userID uuid.UUID, req address.CreateAddressRequest) (*address.Address, error)
	GetForUser(ctx context.Context, userID uuid.UUID, id string) (*address.Address, error)
}

type PaymentSettings interface {
	LookupSettings(ctx context.Context) *payment.Settings
}

type Proofs interface {
	SubmitProof(ctx context.Context, userID uuid.UUID, orderID string, p payment.Proof) (*order.Order, error)
}

type Orders interface {
	GetOrder(ctx context.Context, id string) (*order.Order, error)
}

type Customers interface {
	GetUser(ctx context.Context, id string) (*user.User, error)
}

type Notifier interface {
	Dispatch(ctx context.Context, data notify.OrderEmailData)
}

// Deps are the collaborators of the checkout service.
type Deps struct {
	Carts     Carts
	Addresses Addresses
	Settings  PaymentSettings
	Gateway   order.Gateway
	Orders    Orders
	Proofs    Proofs
	Customers Customers
	Notifier  Notifier
	Flows     FlowStore
	Log       *slog.Logger
}

// Service drives a customer from cart to placed order. Every operation acts
// for the session carried in ctx.
type Service interface {
	// Start enters checkout. An empty cart yields a CART_REDIRECT view and
	// touches nothing else. A flow waiting for payment proof is resumed.
	Start(ctx context.Context) (*View, error)
	View(ctx context.Context) (*View, error)
	SelectAddress(ctx context.Context, addressID string) (*View, error)
	AddAddress(ctx context.Context, req address.CreateAddressRequest) (*View, error)

	// PlaceOrder creates the order exactly once. A UPI order with proof
	// attached goes straight through the proof step; without proof it
	// stops at PROOF_UPLOAD. When the order exists but the proof step
	// fails, the returned view is at PROOF_UPLOAD alongside the error.
	PlaceOrder(ctx context.Context, req PlaceOrderRequest, proof *payment.Proof) (*View, error)

	// SubmitProof uploads payment proof for the flow's UPI order. It may
	// be retried until it succeeds.
	SubmitProof(ctx context.Context, proof payment.Proof) (*View, error)
}

type service struct {
	Deps
	busy inflight
}

func NewService(d Deps) Service {
	return &service{Deps: d, busy: inflight{users: map[uuid.UUID]struct{}{}}}
}

func (s *service) Start(ctx context.Context) (*View, error) {
	sess, err := session(ctx)
	if err != nil {
		return nil, err
	}
	c, err := s.Carts.Open(ctx, sess.UserID.String())
	if err != nil {
		return nil, fmt.Errorf("open cart: %w", err)
	}
	if c.IsEmpty() {
		return &View{Step: StepCartRedirect, Redirect: cartPath}, nil
	}

	f, err := s.Flows.Load(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if f != nil && f.Step == StepProofUpload {
		return s.view(ctx, f, c)
	}

	addrs, err := s.Addresses.ListForUser(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("load addresses: %w", err)
	}
	now := time.Now().UTC()
	f = &Flow{UserID: sess.UserID, Step: StepAddressSelect, StartedAt: now, UpdatedAt: now}
	for _, a := range addrs {
		f.AddressIDs = append(f.AddressIDs, a.ID)
	}
	// Addresses arrive default first.
	if len(addrs) > 0 {
		id := addrs[0].ID
		f.SelectedAddressID = &id
	}
	if err := s.save(ctx, f); err != nil {
		return nil, err
	}
	return s.render(ctx, f, c, addrs), nil
}

func (s *service) View(ctx context.Context) (*View, error) {
	sess, f, err := s.flow(ctx)
	if err != nil {
		return nil, err
	}
	c, err := s.Carts.Open(ctx, sess.UserID.String())
	if err != nil {
		return nil, fmt.Errorf("open cart: %w", err)
	}
	return s.view(ctx, f, c)
}

func (s *service) SelectAddress(ctx context.Context, addressID string) (*View, error) {
	sess, f, err := s.flow(ctx)
	if err != nil {
		return nil, err
	}
	if f.Step != StepAddressSelect && f.Step != StepPaymentAndReview {
		return nil, ErrWrongStep
	}
	id, err := uuid.Parse(addressID)
	if err != nil || !f.knows(id) {
		return nil, ErrUnknownAddress
	}
	f.SelectedAddressID = &id
	f.Step = StepPaymentAndReview
	if err := s.save(ctx, f); err != nil {
		return nil, err
	}
	return s.reload(ctx, sess, f)
}

func (s *service) AddAddress(ctx context.Context, req address.CreateAddressRequest) (*View, error) {
	sess, f, err := s.flow(ctx)
	if err != nil {
		return nil, err
	}
	if f.Step != StepAddressSelect && f.Step != StepPaymentAndReview {
		return nil, ErrWrongStep
	}
	a, err := s.Addresses.Create(ctx, sess.UserID, req)
	if err != nil {
		return nil, err
	}
	f.AddressIDs = append(f.AddressIDs, a.ID)
	f.SelectedAddressID = &a.ID
	f.Step = StepPaymentAndReview
	if err := s.save(ctx, f); err != nil {
		return nil, err
	}
	return s.reload(ctx, sess, f)
}

func (s *service) PlaceOrder(ctx context.Context, req PlaceOrderRequest, proof *payment.Proof) (*View, error) {
	sess, err := session(ctx)
	if err != nil {
		return nil, err
	}
	if !s.busy.acquire(sess.UserID) {
		return nil, ErrOrderInProgress
	}
	defer s.busy.release(sess.UserID)

	f, err := s.Flows.Load(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrFlowNotStarted
	}
	if f.Step != StepPaymentAndReview || f.Order != nil {
		return nil, ErrWrongStep
	}
	if f.SelectedAddressID == nil {
		return nil, ErrNoAddress
	}
	if !req.PaymentMethod.Valid() {
		return nil, order.ErrInvalidMethod
	}
	if req.PaymentMethod == order.PaymentUPI && !s.Settings.LookupSettings(ctx).UPIAvailable() {
		return nil, ErrUPIUnavailable
	}

	c, err := s.Carts.Open(ctx, sess.UserID.String())
	if err != nil {
		return nil, fmt.Errorf("open cart: %w", err)
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	// Prices are left out on purpose; the server prices every line.
	lines := c.Lines()
	items := make([]order.LineRequest, 0, len(lines))
	for _, l := range lines {
		items = append(items, order.LineRequest{
			ProductID: l.ProductID,
			VariantID: l.ProductVariantID,
			Quantity:  l.Quantity,
			Color:     l.ColorLabel,
			Size:      l.SizeLabel,
		})
	}

	res, err := s.Gateway.CreateOrder(ctx, sess.UserID, order.PlaceOrderRequest{
		Items:             items,
		ShippingAddressID: f.SelectedAddressID.String(),
		PaymentMethod:     req.PaymentMethod,
		Notes:             req.Notes,
	})
	if err != nil {
		return nil, err
	}
	s.Log.Info("order placed", "user_id", sess.UserID, "order_id", res.OrderID,
		"order_number", res.OrderNumber, "payment_method", req.PaymentMethod)

	f.Order = &OrderRef{
		OrderID:       res.OrderID,
		OrderNumber:   res.OrderNumber,
		TotalAmount:   res.TotalAmount,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: req.PaymentMethod.InitialPaymentStatus(),
	}

	// The persisted order, not the request, is the source for emails.
	o, err := s.Orders.GetOrder(ctx, res.OrderID.String())
	if err != nil {
		s.Log.Error("reload placed order", "order_id", res.OrderID, "error", err)
		o = nil
	}

	if req.PaymentMethod == order.PaymentCOD {
		return s.complete(ctx, f, c, o)
	}

	f.Step = StepProofUpload
	if err := s.saveOrdered(ctx, f); err != nil {
		// The stored flow still has no order, so it must not carry on as if
		// it did. The view carries the order id for the direct proof upload.
		v, verr := s.view(ctx, f, c)
		if verr != nil {
			return nil, err
		}
		return v, err
	}
	if proof == nil {
		return s.view(ctx, f, c)
	}
	return s.submitProof(ctx, sess, f, c, *proof)
}

func (s *service) SubmitProof(ctx context.Context, proof payment.Proof) (*View, error) {
	sess, err := session(ctx)
	if err != nil {
		return nil, err
	}
	if !s.busy.acquire(sess.UserID) {
		return nil, ErrOrderInProgress
	}
	defer s.busy.release(sess.UserID)

	f, err := s.Flows.Load(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrFlowNotStarted
	}
	if f.Step != StepProofUpload || f.Order == nil {
		return nil, ErrWrongStep
	}
	c, err := s.Carts.Open(ctx, sess.UserID.String())
	if err != nil {
		return nil, fmt.Errorf("open cart: %w", err)
	}
	return s.submitProof(ctx, sess, f, c, proof)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// submitProof runs the proof step. On failure the flow stays at
// PROOF_UPLOAD and the cart is untouched.
func (s *service) submitProof(ctx context.Context, sess auth.Session, f *Flow, c *cart.Cart, proof payment.Proof) (*View, error) {
	o, err := s.Proofs.SubmitProof(ctx, sess.UserID, f.Order.OrderID.String(), proof)
	if err != nil {
		v, verr := s.view(ctx, f, c)
		if verr != nil {
			return nil, err
		}
		return v, err
	}
	f.Order.PaymentStatus = o.PaymentStatus
	return s.complete(ctx, f, c, o)
}

// complete finishes the flow. Notification is detached and the cart is
// cleared last.
func (s *service) complete(ctx context.Context, f *Flow, c *cart.Cart, o *order.Order) (*View, error) {
	f.Step = StepComplete
	if err := s.save(ctx, f); err != nil {
		s.Log.Error("save completed checkout", "order_id", f.Order.OrderID, "error", err)
	}
	s.notify(ctx, f.UserID, o)
	if err := c.Clear(ctx); err != nil {
		s.Log.Error("clear cart after checkout", "user_id", f.UserID, "error", err)
	}
	return &View{Step: StepComplete, Redirect: ordersPath, Order: f.Order, SelectedAddressID: f.SelectedAddressID}, nil
}

func (s *service) notify(ctx context.Context, userID uuid.UUID, o *order.Order) {
	if o == nil {
		s.Log.Warn("order emails skipped: order could not be reloaded", "user_id", userID)
		return
	}
	u, err := s.Customers.GetUser(ctx, userID.String())
	if err != nil {
		s.Log.Warn("order emails skipped: customer lookup failed", "order_id", o.ID, "error", err)
		return
	}
	var a *address.Address
	if o.ShippingAddressID != nil {
		a, err = s.Addresses.GetForUser(ctx, userID, o.ShippingAddressID.String())
		if err != nil {
			s.Log.Warn("order emails without address", "order_id", o.ID, "error", err)
		}
	}
	s.Notifier.Dispatch(ctx, emailData(o, u, a))
}

func (s *service) flow(ctx context.Context) (auth.Session, *Flow, error) {
	sess, err := session(ctx)
	if err != nil {
		return sess, nil, err
	}
	f, err := s.Flows.Load(ctx, sess.UserID)
	if err != nil {
		return sess, nil, err
	}
	if f == nil {
		return sess, nil, ErrFlowNotStarted
	}
	return sess, f, nil
}

func (s *service) save(ctx context.Context, f *Flow) error {
	f.UpdatedAt = time.Now().UTC()
	return s.Flows.Save(ctx, f)
}

// saveOrdered records a freshly placed order on the flow, retrying once.
func (s *service) saveOrdered(ctx context.Context, f *Flow) error {
	err := s.save(ctx, f)
	if err == nil {
		return nil
	}
	s.Log.Warn("save checkout after order, retrying", "order_id", f.Order.OrderID, "error", err)
	if err = s.save(ctx, f); err != nil {
		s.Log.Error("save checkout after order", "order_id", f.Order.OrderID, "error", err)
		return fmt.Errorf("%w: %v", ErrProgressNotSaved, err)
	}
	return nil
}

func (s *service) reload(ctx context.Context, sess auth.Session, f *Flow) (*View, error) {
	c, err := s.Carts.Open(ctx, sess.UserID.String())
	if err != nil {
		return nil, fmt.Errorf("open cart: %w", err)
	}
	return s.view(ctx, f, c)
}

func (s *service) view(ctx context.Context, f *Flow, c *cart.Cart) (*View, error) {
	if f.Step == StepComplete {
		return &View{Step: StepComplete, Redirect: ordersPath, Order: f.Order, SelectedAddressID: f.SelectedAddressID}, nil
	}
	addrs, err := s.Addresses.ListForUser(ctx, f.UserID)
	if err != nil {
		return nil, fmt.Errorf("load addresses: %w", err)
	}
	return s.render(ctx, f, c, addrs), nil
}

func (s *service) render(ctx context.Context, f *Flow, c *cart.Cart, addrs []*address.Address) *View {
	sum := c.Summary()
	settings := s.Settings.LookupSettings(ctx)
	return &View{
		Step:              f.Step,
		Cart:              &sum,
		Addresses:         addrs,
		SelectedAddressID: f.SelectedAddressID,
		PaymentSettings:   settings,
		UPIAvailable:      settings.UPIAvailable(),
		Order:             f.Order,
	}
}

func session(ctx context.Context) (auth.Session, error) {
	sess, ok := auth.SessionFromContext(ctx)
	if !ok {
		return auth.Session{}, auth.ErrNotAuthenticated
	}
	return sess, nil
}

// inflight rejects a second concurrent order action for the same user.
type inflight struct {
	mu    sync.Mutex
	users map[uuid.UUID]struct{}
}

func (l *inflight) acquire(id uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.users[id]; ok {
		return false
	}
	l.users[id] = struct{}{}
	return true
}

func (l *inflight) release(id uuid.UUID) {
	l.mu.Lock()
	delete(l.users, id)
	l.mu.Unlock()
}

// IsUserError reports whether err is safe to show the customer verbatim.
func IsUserError(err error) bool {
	var verr *address.ValidationError
	if errors.As(err, &verr) || order.IsRejected(err) {
		return true
	}
	for _, target := range []error{
		ErrEmptyCart, ErrNoAddress, ErrUnknownAddress, ErrWrongStep, ErrUPIUnavailable,
		ErrOrderInProgress, ErrFlowNotStarted, ErrProofRequired, order.ErrInvalidMethod,
		payment.ErrInvalidProof, payment.ErrProofTooLarge, payment.ErrNotUPI, payment.ErrAlreadyReviewed,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
