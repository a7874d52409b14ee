package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/georgemunganga/kidswear-store/internal/modules/notify"
	"github.com/georgemunganga/kidswear-store/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

func TestFormatINR(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "₹0.00"},
		{"999", "₹999.00"},
		{"1000", "₹1,000.00"},
		{"123456.5", "₹1,23,456.50"},
		{"1234567.255", "₹12,34,567.26"},
		{"-2500", "-₹2,500.00"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			if got := FormatINR(decimal.RequireFromString(tc.in)); got != tc.want {
				t.Fatalf("FormatINR(%s) = %s, want %s", tc.in, got, tc.want)
			}
		})
	}
}

func TestFormatDateUsesIndianTime(t *testing.T) {
	got := FormatDate(time.Date(2026, 3, 5, 10, 37, 0, 0, time.UTC))
	if got != "5 March 2026 at 04:07 pm" {
		t.Fatalf("unexpected date %q", got)
	}
}

func TestZeptoMailSend(t *testing.T) {
	var gotAuth string
	var gotBody zeptoRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	z := NewZeptoMail(srv.URL, "secret", "noreply@shop.test", "Shop", srv.Client())
	err := z.Send(context.Background(), Message{ToAddress: "a@b.test", ToName: "A", Subject: "Hi", HTML: "<p>x</p>"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotAuth != "Zoho-enczapikey secret" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotBody.From.Address != "noreply@shop.test" || gotBody.To[0].EmailAddress.Address != "a@b.test" || gotBody.HTMLBody != "<p>x</p>" {
		t.Fatalf("unexpected payload %+v", gotBody)
	}

	t.Run("provider error", func(t *testing.T) {
		bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"invalid key"}`, http.StatusUnauthorized)
		}))
		defer bad.Close()
		if err := NewZeptoMail(bad.URL, "k", "f", "n", nil).Send(context.Background(), Message{}); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("missing key", func(t *testing.T) {
		if err := NewZeptoMail(srv.URL, "", "f", "n", nil).Send(context.Background(), Message{}); !errors.Is(err, ErrNotConfigured) {
			t.Fatalf("expected ErrNotConfigured, got %v", err)
		}
	})
}

type fakeProvider struct {
	mu   sync.Mutex
	sent []Message
	fail map[string]bool
}

func (f *fakeProvider) Send(_ context.Context, m Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[m.ToAddress] {
		return errors.New("rejected")
	}
	f.sent = append(f.sent, m)
	return nil
}

func (f *fakeProvider) find(to string) *Message {
	for i := range f.sent {
		if f.sent[i].ToAddress == to {
			return &f.sent[i]
		}
	}
	return nil
}

func orderData() notify.OrderEmailData {
	return notify.OrderEmailData{
		OrderNumber:   "ORD-20260305-9F1A2B",
		OrderDate:     time.Date(2026, 3, 5, 10, 37, 0, 0, time.UTC),
		CustomerName:  "Asha <b>K</b>",
		CustomerEmail: "asha@example.com",
		PaymentMethod: "upi",
		PaymentStatus: "submitted",
		TotalAmount:   decimal.NewFromInt(1000),
		Items: []notify.EmailItem{
			{ProductName: "Tee", Quantity: 1, UnitPrice: decimal.NewFromInt(500), TotalPrice: decimal.NewFromInt(500), VariantColor: "Red", VariantSize: "M"},
			{ProductName: "Shorts", Quantity: 2, UnitPrice: decimal.NewFromInt(250), TotalPrice: decimal.NewFromInt(500)},
		},
		ShippingAddress: notify.EmailAddress{FullName: "Asha K", Phone: "9876543210", AddressLine1: "12 MG Road", City: "Pune", State: "MH", PostalCode: "411001", Country: "India"},
	}
}

func newTestRelay(p Provider) *Relay {
	return NewRelay(p, Options{AdminEmail: "admin@shop.test", Brand: "911 Clothings", SiteURL: "https://shop.test/"}, logger.Discard())
}

func TestRelaySendsBothEmails(t *testing.T) {
	p := &fakeProvider{}
	res, err := newTestRelay(p).Send(context.Background(), orderData())
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if !res.Customer || !res.Admin {
		t.Fatalf("expected both sent, got %+v", res)
	}

	customer := p.find("asha@example.com")
	if customer == nil || customer.Subject != "Order Confirmed - #ORD-20260305-9F1A2B" {
		t.Fatalf("unexpected customer email %+v", customer)
	}
	for _, want := range []string{"₹1,000.00", "5 March 2026 at 04:07 pm", "UPI Payment", "Color: Red", "Asha &lt;b&gt;K&lt;/b&gt;"} {
		if !strings.Contains(customer.HTML, want) {
			t.Errorf("customer email missing %q", want)
		}
	}

	admin := p.find("admin@shop.test")
	if admin == nil || admin.Subject != "🛒 New Order Received - #ORD-20260305-9F1A2B" {
		t.Fatalf("unexpected admin email %+v", admin)
	}
	for _, want := range []string{"SUBMITTED", "#28a745", "- / -", "https://shop.test/admin/orders", "₹250.00"} {
		if !strings.Contains(admin.HTML, want) {
			t.Errorf("admin email missing %q", want)
		}
	}
}

func TestRelayReportsPerRecipientFailure(t *testing.T) {
	p := &fakeProvider{fail: map[string]bool{"admin@shop.test": true}}
	d := orderData()
	d.PaymentMethod, d.PaymentStatus = "cod", "pending"
	res, err := newTestRelay(p).Send(context.Background(), d)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if !res.Customer || res.Admin {
		t.Fatalf("expected customer only, got %+v", res)
	}
	if !strings.Contains(p.find("asha@example.com").HTML, "Cash on Delivery") {
		t.Fatal("expected cash on delivery label")
	}
}

func TestHandler(t *testing.T) {
	r := chi.NewRouter()
	NewHandler(newTestRelay(&fakeProvider{}), logger.Discard()).RegisterRoutes(r)

	t.Run("health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		var body map[string]string
		json.NewDecoder(rec.Body).Decode(&body)
		if rec.Code != http.StatusOK || body["status"] != "ok" || body["service"] != "email-api" {
			t.Fatalf("unexpected health %d %v", rec.Code, body)
		}
	})

	cases := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"missing order number", `{"customerEmail":"a@b.test"}`, http.StatusBadRequest},
		{"missing email", `{"orderNumber":"ORD-1"}`, http.StatusBadRequest},
		{"malformed", `{`, http.StatusBadRequest},
		{"ok", `{"orderNumber":"ORD-1","customerEmail":"a@b.test","totalAmount":1000,"items":[]}`, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/send-order-emails", bytes.NewBufferString(tc.body)))
			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d %s", tc.wantCode, rec.Code, rec.Body)
			}
			var body map[string]interface{}
			json.NewDecoder(rec.Body).Decode(&body)
			if tc.wantCode == http.StatusOK && (body["success"] != true || body["customer"] != true || body["admin"] != true) {
				t.Fatalf("unexpected body %v", body)
			}
			if tc.wantCode == http.StatusBadRequest && body["error"] != "Missing required fields" {
				t.Fatalf("unexpected body %v", body)
			}
		})
	}
}
