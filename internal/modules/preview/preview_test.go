package preview

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/georgemunganga/kidswear-store/internal/modules/catalog"
	"github.com/georgemunganga/kidswear-store/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type products map[string]*catalog.Product

func (p products) GetProduct(_ context.Context, id string) (*catalog.Product, error) {
	if pr, ok := p[id]; ok {
		return pr, nil
	}
	return nil, catalog.ErrNotFound
}

func get(t *testing.T, store products, query string) string {
	t.Helper()
	r := chi.NewRouter()
	NewHandler(store, Options{SiteName: "911 Clothings", SiteURL: "https://shop.test/", ImageBaseURL: "https://cdn.test/storage"}, logger.Discard()).RegisterRoutes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/social-meta"+query, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("unexpected content type %q", ct)
	}
	return rec.Body.String()
}

func TestSocialMetaProduct(t *testing.T) {
	id := uuid.New()
	p := &catalog.Product{
		ID: id, Title: "Dino Tee", IsActive: true,
		Description: strings.Repeat("a", 200),
		Images: []*catalog.Image{
			{URL: "products/side.jpg"},
			{URL: "products/front.jpg", IsPrimary: true},
		},
		Variants: []*catalog.Variant{
			{Price: decimal.NewFromInt(799), ImageURL: "https://img.test/blue.jpg", IsActive: true},
			{Price: decimal.NewFromInt(499), IsActive: true},
			{Price: decimal.NewFromInt(99), ImageURL: "https://img.test/off.jpg"},
		},
	}
	html := get(t, products{id.String(): p}, "?id="+id.String())

	for _, want := range []string{
		`<meta property="og:type" content="product">`,
		`content="https://shop.test/product/` + id.String() + `"`,
		// cheapest active variant has no image, so the primary image wins
		`<meta property="og:image" content="https://cdn.test/storage/products/front.jpg">`,
		strings.Repeat("a", 150) + ` - ₹499"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("missing %q", want)
		}
	}
	if strings.Contains(html, strings.Repeat("a", 151)) {
		t.Error("description not truncated")
	}
}

func TestSocialMetaImagePriority(t *testing.T) {
	id := uuid.New()
	p := &catalog.Product{
		ID: id, Title: "Frock", IsActive: true,
		Images:   []*catalog.Image{{URL: "https://img.test/first.jpg"}},
		Variants: []*catalog.Variant{{Price: decimal.NewFromInt(650), ImageURL: "https://img.test/variant.jpg", IsActive: true}},
	}
	html := get(t, products{id.String(): p}, "?id="+id.String())
	if !strings.Contains(html, `og:image" content="https://img.test/variant.jpg"`) {
		t.Error("expected variant image")
	}
	if !strings.Contains(html, "Shop Frock at 911 Clothings - ₹650") {
		t.Error("expected generated description")
	}
}

func TestSocialMetaFallsBackToDefault(t *testing.T) {
	inactive := uuid.New()
	store := products{inactive.String(): {ID: inactive, Title: "Old", IsActive: false}}

	cases := map[string]string{
		"no id":    "",
		"unknown":  "?id=" + uuid.NewString(),
		"inactive": "?id=" + inactive.String(),
	}
	for name, q := range cases {
		t.Run(name, func(t *testing.T) {
			html := get(t, store, q)
			if !strings.Contains(html, "<title>911 Clothings - Premium Imported Clothing</title>") {
				t.Fatalf("expected default page, got %s", html)
			}
			if strings.Contains(html, "og:image\"") {
				t.Fatal("default page should not carry an image")
			}
		})
	}
}
