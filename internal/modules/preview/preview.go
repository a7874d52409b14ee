package preview

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/georgemunganga/kidswear-store/internal/modules/catalog"
	"github.com/go-chi/chi/v5"
)

// ProductReader loads a product with its images and variants.
type ProductReader interface {
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
}

type Options struct {
	SiteName string
	SiteURL  string
	// ImageBaseURL resolves relative image paths.
	ImageBaseURL string
}

// Handler renders Open Graph and Twitter card markup for product links so
// chat apps and social sites can unfurl them. Browsers are redirected to
// the product page.
type Handler struct {
	products ProductReader
	opts     Options
	log      *slog.Logger
}

func NewHandler(products ProductReader, opts Options, log *slog.Logger) *Handler {
	opts.SiteURL = strings.TrimRight(opts.SiteURL, "/")
	opts.ImageBaseURL = strings.TrimRight(opts.ImageBaseURL, "/")
	return &Handler{products: products, opts: opts, log: log}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Get("/social-meta", h.socialMeta)
}

type meta struct {
	Type        string
	PageTitle   string
	SiteName    string
	Title       string
	Description string
	URL         string
	ImageURL    string
}

const maxDescription = 150

func (h *Handler) socialMeta(w http.ResponseWriter, r *http.Request) {
	m := h.defaults()
	if id := r.URL.Query().Get("id"); id != "" {
		p, err := h.products.GetProduct(r.Context(), id)
		switch {
		case err != nil:
			h.log.Info("social meta: product not found", "product_id", id, "error", err)
		case !p.IsActive:
			h.log.Info("social meta: product inactive", "product_id", id)
		default:
			m = h.productMeta(p)
		}
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, m); err != nil {
		h.log.Error("render social meta", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.Write(buf.Bytes())
}

func (h *Handler) defaults() meta {
	return meta{
		Type:        "website",
		PageTitle:   h.opts.SiteName + " - Premium Imported Clothing",
		SiteName:    h.opts.SiteName,
		Title:       h.opts.SiteName,
		Description: "Shop premium imported clothing at " + h.opts.SiteName,
		URL:         h.opts.SiteURL,
	}
}

func (h *Handler) productMeta(p *catalog.Product) meta {
	title := p.Title
	if title == "" {
		title = h.opts.SiteName
	}

	image := p.PrimaryImage()
	priceText := ""
	if v := p.CheapestActiveVariant(); v != nil {
		if v.ImageURL != "" {
			image = v.ImageURL
		}
		priceText = " - ₹" + v.Price.String()
	}

	desc := "Shop " + title + " at " + h.opts.SiteName + priceText
	if p.Description != "" {
		desc = truncate(p.Description, maxDescription) + priceText
	}

	return meta{
		Type:        "product",
		PageTitle:   title + " | " + h.opts.SiteName,
		SiteName:    h.opts.SiteName,
		Title:       title,
		Description: desc,
		URL:         h.opts.SiteURL + "/product/" + p.ID.String(),
		ImageURL:    h.absolute(image),
	}
}

func (h *Handler) absolute(u string) string {
	if u == "" || strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return h.opts.ImageBaseURL + "/" + strings.TrimLeft(u, "/")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

var page = template.Must(template.New("social").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.PageTitle}}</title>
  <meta name="description" content="{{.Description}}">
  <meta property="og:type" content="{{.Type}}">
  <meta property="og:url" content="{{.URL}}">
  <meta property="og:title" content="{{.Title}}">
  <meta property="og:description" content="{{.Description}}">
  <meta property="og:site_name" content="{{.SiteName}}">
  {{- if .ImageURL}}
  <meta property="og:image" content="{{.ImageURL}}">
  <meta property="og:image:secure_url" content="{{.ImageURL}}">
  <meta property="og:image:type" content="image/jpeg">
  <meta property="og:image:width" content="1200">
  <meta property="og:image:height" content="630">
  <meta property="og:image:alt" content="{{.Title}}">
  <meta name="twitter:card" content="summary_large_image">
  <meta name="twitter:image" content="{{.ImageURL}}">
  {{- else}}
  <meta name="twitter:card" content="summary">
  {{- end}}
  <meta name="twitter:url" content="{{.URL}}">
  <meta name="twitter:title" content="{{.Title}}">
  <meta name="twitter:description" content="{{.Description}}">
  <meta http-equiv="refresh" content="0;url={{.URL}}">
</head>
<body>
  <p>Redirecting to <a href="{{.URL}}">{{.Title}}</a>...</p>
</body>
</html>`))
