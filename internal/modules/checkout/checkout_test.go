package checkout

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/georgemunganga/kidswear-store/internal/modules/address"
	"github.com/georgemunganga/kidswear-store/internal/modules/auth"
	"github.com/georgemunganga/kidswear-store/internal/modules/cart"
	"github.com/georgemunganga/kidswear-store/internal/modules/notify"
	"github.com/georgemunganga/kidswear-store/internal/modules/order"
	"github.com/georgemunganga/kidswear-store/internal/modules/payment"
	"github.com/georgemunganga/kidswear-store/internal/modules/user"
	"github.com/georgemunganga/kidswear-store/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ── fakes ─────────────────────────────────────────────────────────────────────

type fakeAddresses struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]*address.Address
	lists int
}

func (f *fakeAddresses) ListForUser(_ context.Context, userID uuid.UUID) ([]*address.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	var out []*address.Address
	for _, a := range f.byID {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAddresses) Create(_ context.Context, userID uuid.UUID, req address.CreateAddressRequest) (*address.Address, error) {
	if err := address.Validate(req); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a := &address.Address{ID: uuid.New(), UserID: userID, FullName: req.FullName, Phone: req.Phone,
		AddressLine1: req.AddressLine1, City: req.City, State: req.State, PostalCode: req.PostalCode, Country: "India"}
	f.byID[a.ID] = a
	return a, nil
}

func (f *fakeAddresses) GetForUser(_ context.Context, userID uuid.UUID, id string) (*address.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[uuid.MustParse(id)]
	if !ok || a.UserID != userID {
		return nil, address.ErrNotFound
	}
	return a, nil
}

type fakeSettings struct{ s *payment.Settings }

func (f fakeSettings) LookupSettings(context.Context) *payment.Settings { return f.s }

// fakeBackend prices orders from a fixed table and serves them back.
type fakeBackend struct {
	mu       sync.Mutex
	prices   map[string]decimal.Decimal
	orders   map[uuid.UUID]*order.Order
	requests []order.PlaceOrderRequest
	reject   string
	entered  chan struct{}
	release  chan struct{}
}

func (b *fakeBackend) CreateOrder(_ context.Context, userID uuid.UUID, req order.PlaceOrderRequest) (*order.PlaceOrderResult, error) {
	if b.entered != nil {
		b.entered <- struct{}{}
		<-b.release
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, req)
	if b.reject != "" {
		return nil, order.Reject(b.reject)
	}
	addrID := uuid.MustParse(req.ShippingAddressID)
	o := &order.Order{
		ID: uuid.New(), OrderNumber: "ORD-20260101-" + uuid.NewString()[:6], UserID: userID,
		ShippingAddressID: &addrID, Status: order.StatusPending, PaymentMethod: req.PaymentMethod,
		PaymentStatus: req.PaymentMethod.InitialPaymentStatus(), TotalAmount: decimal.Zero, CreatedAt: time.Now(),
	}
	for _, l := range req.Items {
		price := b.prices[l.VariantID]
		line := price.Mul(decimal.NewFromInt(int64(l.Quantity)))
		o.Items = append(o.Items, &order.OrderItem{ProductName: l.VariantID, UnitPrice: price, Quantity: l.Quantity, TotalPrice: line, VariantColor: l.Color, VariantSize: l.Size})
		o.TotalAmount = o.TotalAmount.Add(line)
	}
	b.orders[o.ID] = o
	return &order.PlaceOrderResult{OrderID: o.ID, OrderNumber: o.OrderNumber, TotalAmount: o.TotalAmount}, nil
}

func (b *fakeBackend) GetOrder(_ context.Context, id string) (*order.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.orders[uuid.MustParse(id)]
	if !ok {
		return nil, order.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (b *fakeBackend) calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

// fakeProofs fails the first `failures` submissions.
type fakeProofs struct {
	backend  *fakeBackend
	failures int
	calls    int
}

func (p *fakeProofs) SubmitProof(ctx context.Context, userID uuid.UUID, orderID string, proof payment.Proof) (*order.Order, error) {
	p.calls++
	if p.calls <= p.failures {
		return nil, errors.New("storage unavailable")
	}
	if len(proof.Data) == 0 {
		return nil, payment.ErrInvalidProof
	}
	p.backend.mu.Lock()
	defer p.backend.mu.Unlock()
	o := p.backend.orders[uuid.MustParse(orderID)]
	o.PaymentStatus = order.PaymentSubmitted
	o.PaymentProofURL = "https://cdn.test/" + userID.String() + "/" + orderID + ".jpg"
	cp := *o
	return &cp, nil
}

type fakeCustomers struct{}

func (fakeCustomers) GetUser(_ context.Context, id string) (*user.User, error) {
	return &user.User{ID: uuid.MustParse(id), Email: "asha@example.com", FullName: "Asha"}, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.OrderEmailData
}

func (n *recordingNotifier) Dispatch(_ context.Context, d notify.OrderEmailData) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, d)
}

// ── fixture ───────────────────────────────────────────────────────────────────

type fixture struct {
	svc       Service
	ctx       context.Context
	userID    uuid.UUID
	addrID    uuid.UUID
	carts     *cart.Store
	addresses *fakeAddresses
	backend   *fakeBackend
	proofs    *fakeProofs
	notifier  *recordingNotifier
	flows     *MemoryFlowStore
}

type option func(*Deps)

func newFixture(t *testing.T, opts ...option) *fixture {
	t.Helper()
	f := &fixture{
		userID:    uuid.New(),
		carts:     cart.NewStore(cart.NewMemoryPersister()),
		addresses: &fakeAddresses{byID: map[uuid.UUID]*address.Address{}},
		backend:   &fakeBackend{prices: map[string]decimal.Decimal{}, orders: map[uuid.UUID]*order.Order{}},
		notifier:  &recordingNotifier{},
		flows:     NewMemoryFlowStore(),
	}
	f.proofs = &fakeProofs{backend: f.backend}
	f.ctx = auth.WithSession(context.Background(), auth.Session{UserID: f.userID, Role: "customer"})

	a := &address.Address{ID: uuid.New(), UserID: f.userID, FullName: "Asha K", Phone: "9876543210",
		AddressLine1: "12 MG Road", City: "Pune", State: "MH", PostalCode: "411001", Country: "India", IsDefault: true}
	f.addresses.byID[a.ID] = a
	f.addrID = a.ID

	d := Deps{
		Carts:     f.carts,
		Addresses: f.addresses,
		Settings:  fakeSettings{s: &payment.Settings{UPIID: "shop@upi"}},
		Gateway:   f.backend,
		Orders:    f.backend,
		Proofs:    f.proofs,
		Customers: fakeCustomers{},
		Notifier:  f.notifier,
		Flows:     f.flows,
		Log:       logger.Discard(),
	}
	for _, o := range opts {
		o(&d)
	}
	f.svc = NewService(d)
	return f
}

// fillCart loads scenario B's cart: 1 × ₹500 and 2 × ₹250.
func (f *fixture) fillCart(t *testing.T) {
	t.Helper()
	c, err := f.carts.Open(f.ctx, f.userID.String())
	if err != nil {
		t.Fatal(err)
	}
	a, b := uuid.NewString(), uuid.NewString()
	f.backend.prices[a] = decimal.NewFromInt(500)
	f.backend.prices[b] = decimal.NewFromInt(250)
	// Stale client prices must not leak into the order.
	for _, l := range []cart.Line{
		{LineID: a, ProductVariantID: a, ProductID: uuid.NewString(), DisplayName: "Tee (Red / M)", UnitPrice: decimal.NewFromInt(1), Quantity: 1, ColorLabel: "Red", SizeLabel: "M", MaxQuantity: 5},
		{LineID: b, ProductVariantID: b, ProductID: uuid.NewString(), DisplayName: "Shorts", UnitPrice: decimal.NewFromInt(1), Quantity: 2, MaxQuantity: 5},
	} {
		if err := c.Add(f.ctx, l); err != nil {
			t.Fatal(err)
		}
	}
}

func (f *fixture) cartLines(t *testing.T) int {
	t.Helper()
	c, err := f.carts.Open(f.ctx, f.userID.String())
	if err != nil {
		t.Fatal(err)
	}
	return len(c.Lines())
}

// toReview starts checkout and picks the saved address.
func (f *fixture) toReview(t *testing.T) {
	t.Helper()
	v, err := f.svc.Start(f.ctx)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if v.Step != StepAddressSelect || v.SelectedAddressID == nil || *v.SelectedAddressID != f.addrID {
		t.Fatalf("unexpected start view %+v", v)
	}
	if v, err = f.svc.SelectAddress(f.ctx, f.addrID.String()); err != nil || v.Step != StepPaymentAndReview {
		t.Fatalf("select address: %v %+v", err, v)
	}
}

func jpeg() payment.Proof { return payment.Proof{Filename: "upi.jpg", Data: []byte{0xff, 0xd8}} }

// ── scenarios ─────────────────────────────────────────────────────────────────

func TestEmptyCartRedirects(t *testing.T) {
	f := newFixture(t)
	v, err := f.svc.Start(f.ctx)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if v.Step != StepCartRedirect || v.Redirect != "/cart" {
		t.Fatalf("expected cart redirect, got %+v", v)
	}
	if f.addresses.lists != 0 || f.backend.calls() != 0 {
		t.Fatal("empty cart must not load addresses or create orders")
	}
	if fl, _ := f.flows.Load(f.ctx, f.userID); fl != nil {
		t.Fatal("no flow should be stored")
	}
}

func TestCashOnDeliveryCompletes(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)
	f.toReview(t)

	v, err := f.svc.PlaceOrder(f.ctx, PlaceOrderRequest{PaymentMethod: order.PaymentCOD}, nil)
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if v.Step != StepComplete || v.Redirect != "/orders" {
		t.Fatalf("expected completion, got %+v", v)
	}
	if !v.Order.TotalAmount.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected total 1000, got %s", v.Order.TotalAmount)
	}
	if f.backend.calls() != 1 {
		t.Fatalf("expected one order call, got %d", f.backend.calls())
	}
	req := f.backend.requests[0]
	if req.ShippingAddressID != f.addrID.String() || len(req.Items) != 2 || req.Items[0].Color != "Red" {
		t.Fatalf("unexpected order request %+v", req)
	}
	if f.cartLines(t) != 0 {
		t.Fatal("cart should be cleared")
	}
	o := f.backend.orders[v.Order.OrderID]
	if o.Status != order.StatusPending {
		t.Fatalf("status should stay pending, got %s", o.Status)
	}

	if len(f.notifier.sent) != 1 {
		t.Fatalf("expected one notification, got %d", len(f.notifier.sent))
	}
	n := f.notifier.sent[0]
	if n.PaymentStatus != "pending" || !n.TotalAmount.Equal(decimal.NewFromInt(1000)) || n.ShippingAddress.City != "Pune" || n.CustomerEmail != "asha@example.com" {
		t.Fatalf("unexpected email payload %+v", n)
	}
	if !n.Items[0].UnitPrice.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("email must use server prices, got %s", n.Items[0].UnitPrice)
	}

	if _, err := f.svc.PlaceOrder(f.ctx, PlaceOrderRequest{PaymentMethod: order.PaymentCOD}, nil); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("a completed flow must not place another order, got %v", err)
	}
}

func TestUPIWaitsForProofThenCompletes(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)
	f.toReview(t)

	v, err := f.svc.PlaceOrder(f.ctx, PlaceOrderRequest{PaymentMethod: order.PaymentUPI}, nil)
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if v.Step != StepProofUpload || v.Order.PaymentStatus != order.PaymentAwaitingVerification {
		t.Fatalf("expected proof upload, got %+v", v)
	}
	if f.cartLines(t) != 2 || len(f.notifier.sent) != 0 {
		t.Fatal("cart must be kept and no email sent before proof")
	}
	if !v.UPIAvailable || v.PaymentSettings.UPIID != "shop@upi" {
		t.Fatalf("expected UPI instructions, got %+v", v.PaymentSettings)
	}

	// Re-entering checkout resumes the proof step.
	if v, err = f.svc.Start(f.ctx); err != nil || v.Step != StepProofUpload {
		t.Fatalf("expected resume at proof upload, got %v %+v", err, v)
	}

	v, err = f.svc.SubmitProof(f.ctx, jpeg())
	if err != nil {
		t.Fatalf("submit proof: %v", err)
	}
	if v.Step != StepComplete || v.Order.PaymentStatus != order.PaymentSubmitted {
		t.Fatalf("expected completion, got %+v", v)
	}
	if f.cartLines(t) != 0 {
		t.Fatal("cart should be cleared")
	}
	if len(f.notifier.sent) != 1 || f.notifier.sent[0].PaymentStatus != "submitted" {
		t.Fatalf("expected submitted notification, got %+v", f.notifier.sent)
	}
}

// flakyFlows fails the first `failures` saves of a flow at step.
type flakyFlows struct {
	*MemoryFlowStore
	step     Step
	failures int
	attempts int
}

func (f *flakyFlows) Save(ctx context.Context, fl *Flow) error {
	if fl.Step == f.step {
		f.attempts++
		if f.attempts <= f.failures {
			return errors.New("redis: connection reset")
		}
	}
	return f.MemoryFlowStore.Save(ctx, fl)
}

func TestSaveAfterUPIOrder(t *testing.T) {
	t.Run("one failure is retried", func(t *testing.T) {
		flows := &flakyFlows{MemoryFlowStore: NewMemoryFlowStore(), step: StepProofUpload, failures: 1}
		f := newFixture(t, func(d *Deps) { d.Flows = flows })
		f.fillCart(t)
		f.toReview(t)

		v, err := f.svc.PlaceOrder(f.ctx, PlaceOrderRequest{PaymentMethod: order.PaymentUPI}, nil)
		if err != nil || v.Step != StepProofUpload {
			t.Fatalf("expected proof upload, got %v %+v", err, v)
		}
		if stored, _ := flows.Load(f.ctx, f.userID); stored == nil || stored.Order == nil || stored.Step != StepProofUpload {
			t.Fatalf("flow not recorded: %+v", stored)
		}
	})

	t.Run("persistent failure is reported with the order", func(t *testing.T) {
		flows := &flakyFlows{MemoryFlowStore: NewMemoryFlowStore(), step: StepProofUpload, failures: 2}
		f := newFixture(t, func(d *Deps) { d.Flows = flows })
		f.fillCart(t)
		f.toReview(t)

		v, err := f.svc.PlaceOrder(f.ctx, PlaceOrderRequest{PaymentMethod: order.PaymentUPI}, &payment.Proof{Filename: "upi.jpg", Data: []byte{0xff, 0xd8}})
		if !errors.Is(err, ErrProgressNotSaved) {
			t.Fatalf("expected ErrProgressNotSaved, got %v", err)
		}
		if v == nil || v.Order == nil || v.Order.OrderID == uuid.Nil {
			t.Fatalf("view must carry the placed order, got %+v", v)
		}
		if f.backend.calls() != 1 || f.proofs.calls != 0 {
			t.Fatalf("expected one order and no proof attempt, got %d orders %d proofs", f.backend.calls(), f.proofs.calls)
		}
		if f.cartLines(t) != 2 || len(f.notifier.sent) != 0 {
			t.Fatal("cart must be kept and no email sent")
		}
	})
}

func TestProofRetryKeepsSingleOrder(t *testing.T) {
	f := newFixture(t)
	f.proofs.failures = 1
	f.fillCart(t)
	f.toReview(t)

	v, err := f.svc.PlaceOrder(f.ctx, PlaceOrderRequest{PaymentMethod: order.PaymentUPI}, ptr(jpeg()))
	if err == nil {
		t.Fatal("expected the first upload to fail")
	}
	if v == nil || v.Step != StepProofUpload {
		t.Fatalf("failed upload must leave the flow at proof upload, got %+v", v)
	}
	if f.cartLines(t) != 2 {
		t.Fatal("cart must survive a failed upload")
	}

	v, err = f.svc.SubmitProof(f.ctx, jpeg())
	if err != nil || v.Step != StepComplete {
		t.Fatalf("retry: %v %+v", err, v)
	}
	if f.backend.calls() != 1 || len(f.backend.orders) != 1 {
		t.Fatalf("expected exactly one order, got %d calls", f.backend.calls())
	}
	for _, o := range f.backend.orders {
		if o.PaymentStatus != order.PaymentSubmitted || o.PaymentProofURL == "" {
			t.Fatalf("unexpected order state %+v", o)
		}
	}
}

func TestInlineProofCompletesInOneStep(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)
	f.toReview(t)

	v, err := f.svc.PlaceOrder(f.ctx, PlaceOrderRequest{PaymentMethod: order.PaymentUPI}, ptr(jpeg()))
	if err != nil || v.Step != StepComplete {
		t.Fatalf("expected completion, got %v %+v", err, v)
	}
	if f.proofs.calls != 1 || f.cartLines(t) != 0 {
		t.Fatal("expected one proof upload and a cleared cart")
	}
}

func TestRejectionKeepsReviewAndCart(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)
	f.toReview(t)
	f.backend.reject = "insufficient stock for Tee (Red / M)"

	_, err := f.svc.PlaceOrder(f.ctx, PlaceOrderRequest{PaymentMethod: order.PaymentCOD}, nil)
	if !order.IsRejected(err) || err.Error() != "insufficient stock for Tee (Red / M)" {
		t.Fatalf("expected verbatim rejection, got %v", err)
	}
	v, err := f.svc.View(f.ctx)
	if err != nil || v.Step != StepPaymentAndReview {
		t.Fatalf("expected to stay on review, got %v %+v", err, v)
	}
	if f.cartLines(t) != 2 || len(f.notifier.sent) != 0 {
		t.Fatal("cart must be unchanged and nothing sent")
	}
}

func TestFailedNotificationDoesNotBlock(t *testing.T) {
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer relay.Close()
	d := notify.NewDispatcher(notify.NewHTTPClient(relay.URL, relay.Client()), time.Second, logger.Discard())

	f := newFixture(t, func(deps *Deps) { deps.Notifier = d })
	f.fillCart(t)
	f.toReview(t)

	v, err := f.svc.PlaceOrder(f.ctx, PlaceOrderRequest{PaymentMethod: order.PaymentCOD}, nil)
	if err != nil || v.Step != StepComplete || v.Redirect != "/orders" {
		t.Fatalf("expected completion despite email failure, got %v %+v", err, v)
	}
	if f.cartLines(t) != 0 {
		t.Fatal("cart should be cleared")
	}
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("close dispatcher: %v", err)
	}
}

func TestPlaceOrderGuards(t *testing.T) {
	t.Run("upi unavailable", func(t *testing.T) {
		f := newFixture(t, func(d *Deps) { d.Settings = fakeSettings{} })
		f.fillCart(t)
		f.toReview(t)
		if _, err := f.svc.PlaceOrder(f.ctx, PlaceOrderRequest{PaymentMethod: order.PaymentUPI}, nil); !errors.Is(err, ErrUPIUnavailable) {
			t.Fatalf("expected ErrUPIUnavailable, got %v", err)
		}
		if _, err := f.svc.PlaceOrder(f.ctx, PlaceOrderRequest{PaymentMethod: order.PaymentCOD}, nil); err != nil {
			t.Fatalf("cash on delivery should still work: %v", err)
		}
	})

	t.Run("invalid method", func(t *testing.T) {
		f := newFixture(t)
		f.fillCart(t)
		f.toReview(t)
		if _, err := f.svc.PlaceOrder(f.ctx, PlaceOrderRequest{PaymentMethod: "card"}, nil); !errors.Is(err, order.ErrInvalidMethod) {
			t.Fatalf("expected ErrInvalidMethod, got %v", err)
		}
	})

	t.Run("address not chosen", func(t *testing.T) {
		f := newFixture(t)
		f.fillCart(t)
		if _, err := f.svc.Start(f.ctx); err != nil {
			t.Fatal(err)
		}
		if _, err := f.svc.PlaceOrder(f.ctx, PlaceOrderRequest{PaymentMethod: order.PaymentCOD}, nil); !errors.Is(err, ErrWrongStep) {
			t.Fatalf("expected ErrWrongStep, got %v", err)
		}
	})

	t.Run("not signed in", func(t *testing.T) {
		f := newFixture(t)
		if _, err := f.svc.PlaceOrder(context.Background(), PlaceOrderRequest{PaymentMethod: order.PaymentCOD}, nil); !errors.Is(err, auth.ErrNotAuthenticated) {
			t.Fatalf("expected ErrNotAuthenticated, got %v", err)
		}
		if f.backend.calls() != 0 {
			t.Fatal("no order should be created")
		}
	})

	t.Run("cart emptied after start", func(t *testing.T) {
		f := newFixture(t)
		f.fillCart(t)
		f.toReview(t)
		c, _ := f.carts.Open(f.ctx, f.userID.String())
		c.Clear(f.ctx)
		if _, err := f.svc.PlaceOrder(f.ctx, PlaceOrderRequest{PaymentMethod: order.PaymentCOD}, nil); !errors.Is(err, ErrEmptyCart) {
			t.Fatalf("expected ErrEmptyCart, got %v", err)
		}
	})
}

func TestConcurrentPlaceOrderRejected(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)
	f.toReview(t)
	f.backend.entered = make(chan struct{})
	f.backend.release = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.PlaceOrder(f.ctx, PlaceOrderRequest{PaymentMethod: order.PaymentCOD}, nil)
		done <- err
	}()
	<-f.backend.entered

	if _, err := f.svc.PlaceOrder(f.ctx, PlaceOrderRequest{PaymentMethod: order.PaymentCOD}, nil); !errors.Is(err, ErrOrderInProgress) {
		t.Fatalf("expected ErrOrderInProgress, got %v", err)
	}
	close(f.backend.release)
	if err := <-done; err != nil {
		t.Fatalf("first order: %v", err)
	}
	if f.backend.calls() != 1 {
		t.Fatalf("expected one order, got %d", f.backend.calls())
	}
}

func TestAddressStep(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)
	if _, err := f.svc.Start(f.ctx); err != nil {
		t.Fatal(err)
	}

	_, err := f.svc.AddAddress(f.ctx, address.CreateAddressRequest{FullName: "Ravi", Phone: "123"})
	var verr *address.ValidationError
	if !errors.As(err, &verr) || verr.Fields["phone"] == "" {
		t.Fatalf("expected field errors, got %v", err)
	}
	if v, _ := f.svc.View(f.ctx); v.Step != StepAddressSelect {
		t.Fatalf("invalid address must keep the step, got %s", v.Step)
	}

	if _, err := f.svc.SelectAddress(f.ctx, uuid.NewString()); !errors.Is(err, ErrUnknownAddress) {
		t.Fatalf("expected ErrUnknownAddress, got %v", err)
	}

	v, err := f.svc.AddAddress(f.ctx, address.CreateAddressRequest{
		FullName: "Ravi", Phone: "9123456780", AddressLine1: "4 Park Street", City: "Kolkata", State: "WB", PostalCode: "700016",
	})
	if err != nil {
		t.Fatalf("add address: %v", err)
	}
	if v.Step != StepPaymentAndReview || v.SelectedAddressID == nil || *v.SelectedAddressID == f.addrID {
		t.Fatalf("new address should be selected, got %+v", v)
	}
	if len(v.Addresses) != 2 {
		t.Fatalf("expected two addresses, got %d", len(v.Addresses))
	}
}

func ptr[T any](v T) *T { return &v }
