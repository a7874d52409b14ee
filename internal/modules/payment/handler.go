package payment

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/georgemunganga/kidswear-store/internal/modules/auth"
	"github.com/georgemunganga/kidswear-store/internal/modules/order"
	"github.com/go-chi/chi/v5"
)

// Handler exposes payment settings and proof review endpoints.
type Handler struct {
	service Service
	log     *slog.Logger
}

func NewHandler(service Service, log *slog.Logger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	// Public: the checkout page renders UPI details from this.
	r.Get("/api/v1/payment-settings", h.getSettings)

	r.With(auth.RequireUser).Post("/api/v1/payments/{orderId}/proof", h.submitProof)

	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(auth.RequireAdmin)
		r.Put("/payment-settings", h.updateSettings)
		r.Post("/payments/{orderId}/verify", h.verify)
		r.Post("/payments/{orderId}/reject", h.reject)
	})
}

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	// Always 200; a null body means UPI is not configured.
	respond(w, http.StatusOK, h.service.LookupSettings(r.Context()))
}

func (h *Handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	st, err := h.service.UpdateSettings(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond(w, http.StatusOK, st)
}

func (h *Handler) submitProof(w http.ResponseWriter, r *http.Request) {
	s, _ := auth.SessionFromContext(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, MaxProofBytes+1<<20)
	p, found, err := ReadProof(r, "proof")
	if err == nil && !found {
		err = ErrInvalidProof
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	o, err := h.service.SubmitProof(r.Context(), s.UserID, chi.URLParam(r, "orderId"), p)
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.Verify(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.Reject(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, order.ErrNotFound):
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrProofTooLarge):
		respond(w, http.StatusRequestEntityTooLarge, map[string]string{"error": err.Error()})
	case isClientError(err):
		respond(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	default:
		h.log.Error("payment request failed", "error", err)
		respond(w, http.StatusInternalServerError, map[string]string{"error": "something went wrong"})
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
