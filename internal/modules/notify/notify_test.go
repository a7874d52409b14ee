package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/georgemunganga/kidswear-store/pkg/logger"
	"github.com/shopspring/decimal"
)

func sample() OrderEmailData {
	return OrderEmailData{
		OrderNumber:   "ORD-20260101-AB12CD",
		OrderDate:     time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
		CustomerName:  "Asha",
		CustomerEmail: "asha@example.com",
		PaymentMethod: "cod",
		PaymentStatus: "pending",
		TotalAmount:   decimal.NewFromInt(1000),
		Items: []EmailItem{{
			ProductName: "Tee", Quantity: 2,
			UnitPrice: decimal.NewFromInt(500), TotalPrice: decimal.NewFromInt(1000),
		}},
	}
}

func TestHTTPClientSend(t *testing.T) {
	var got OrderEmailData
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/send-order-emails" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"success":true,"customer":true,"admin":false}`))
	}))
	defer srv.Close()

	res, err := NewHTTPClient(srv.URL+"/", srv.Client()).Send(context.Background(), sample())
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if !res.Customer || res.Admin {
		t.Fatalf("unexpected result %+v", res)
	}
	if got.OrderNumber != "ORD-20260101-AB12CD" || !got.TotalAmount.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("relay received %+v", got)
	}
}

func TestHTTPClientFailuresAreFalse(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer failing.Close()
	closed := httptest.NewServer(http.NotFoundHandler())
	closed.Close()

	cases := []struct {
		name string
		url  string
	}{
		{"server error", failing.URL},
		{"unreachable", closed.URL},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := NewHTTPClient(tc.url, nil).Send(context.Background(), sample())
			if err == nil {
				t.Fatal("expected an error")
			}
			if res.Customer || res.Admin {
				t.Fatalf("expected {false,false}, got %+v", res)
			}
		})
	}
}

type blockingSender struct {
	release chan struct{}
	calls   int
	mu      sync.Mutex
}

func (b *blockingSender) Send(ctx context.Context, _ OrderEmailData) (Result, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	select {
	case <-b.release:
		return Result{Customer: true, Admin: true}, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

type senderFunc func(context.Context, OrderEmailData) (Result, error)

func (f senderFunc) Send(ctx context.Context, d OrderEmailData) (Result, error) { return f(ctx, d) }

func collect(d *Dispatcher) *[]Outcome {
	var out []Outcome
	d.observe = func(o Outcome) { out = append(out, o) }
	return &out
}

func TestDispatchDoesNotBlockCaller(t *testing.T) {
	s := &blockingSender{release: make(chan struct{})}
	d := NewDispatcher(s, time.Minute, logger.Discard())
	got := collect(d)

	done := make(chan struct{})
	go func() {
		d.Dispatch(context.Background(), sample())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on the sender")
	}

	close(s.release)
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	if len(*got) != 1 || !(*got)[0].Result.Customer {
		t.Fatalf("unexpected outcomes %+v", *got)
	}
}

func TestDispatchSurvivesFailures(t *testing.T) {
	cases := []struct {
		name   string
		sender Sender
	}{
		{"error", senderFunc(func(context.Context, OrderEmailData) (Result, error) {
			return Result{}, errors.New("relay returned 500")
		})},
		{"panic", senderFunc(func(context.Context, OrderEmailData) (Result, error) {
			panic("nil map")
		})},
		{"timeout", &blockingSender{release: make(chan struct{})}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := NewDispatcher(tc.sender, 20*time.Millisecond, logger.Discard())
			got := collect(d)
			d.Dispatch(context.Background(), sample())

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := d.Close(ctx); err != nil {
				t.Fatalf("close: %v", err)
			}
			if len(*got) != 1 || (*got)[0].Err == nil {
				t.Fatalf("expected one failed outcome, got %+v", *got)
			}
		})
	}
}

func TestDispatchIgnoresCallerCancellation(t *testing.T) {
	var seen error
	d := NewDispatcher(senderFunc(func(ctx context.Context, _ OrderEmailData) (Result, error) {
		time.Sleep(10 * time.Millisecond)
		seen = ctx.Err()
		return Result{Customer: true, Admin: true}, nil
	}), time.Second, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	d.Dispatch(ctx, sample())
	cancel()
	d.Close(context.Background())
	if seen != nil {
		t.Fatalf("send saw cancelled context: %v", seen)
	}
}

func TestDispatchAfterCloseIsDropped(t *testing.T) {
	s := &blockingSender{release: make(chan struct{})}
	close(s.release)
	d := NewDispatcher(s, time.Second, logger.Discard())
	d.Close(context.Background())
	d.Dispatch(context.Background(), sample())
	if s.calls != 0 {
		t.Fatalf("expected no sends after close, got %d", s.calls)
	}
}
