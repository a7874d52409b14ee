package checkout

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/georgemunganga/kidswear-store/internal/modules/address"
	"github.com/georgemunganga/kidswear-store/internal/modules/auth"
	"github.com/georgemunganga/kidswear-store/internal/modules/order"
	"github.com/georgemunganga/kidswear-store/internal/modules/payment"
	"github.com/go-chi/chi/v5"
)

// Handler exposes the checkout flow to the storefront.
type Handler struct {
	service Service
	log     *slog.Logger
}

func NewHandler(service Service, log *slog.Logger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/checkout", func(r chi.Router) {
		r.Use(auth.RequireUser)
		r.Post("/start", h.start)
		r.Get("/", h.view)
		r.Post("/address/select", h.selectAddress)
		r.Post("/address", h.addAddress)
		r.Post("/place-order", h.placeOrder)
		r.Post("/proof", h.submitProof)
	})
}

func (h *Handler) start(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.Start(r.Context())
	h.reply(w, v, err)
}

func (h *Handler) view(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.View(r.Context())
	h.reply(w, v, err)
}

func (h *Handler) selectAddress(w http.ResponseWriter, r *http.Request) {
	var req SelectAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	v, err := h.service.SelectAddress(r.Context(), req.AddressID)
	h.reply(w, v, err)
}

func (h *Handler) addAddress(w http.ResponseWriter, r *http.Request) {
	var req address.CreateAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	v, err := h.service.AddAddress(r.Context(), req)
	h.reply(w, v, err)
}

// placeOrder accepts JSON, or multipart when a proof screenshot is attached
// on the review step.
func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	var proof *payment.Proof

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, payment.MaxProofBytes+1<<20)
		p, found, err := payment.ReadProof(r, "proof")
		if err != nil {
			h.reply(w, nil, err)
			return
		}
		req.PaymentMethod = order.PaymentMethod(r.FormValue("paymentMethod"))
		req.Notes = r.FormValue("notes")
		if found {
			proof = &p
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	v, err := h.service.PlaceOrder(r.Context(), req, proof)
	h.reply(w, v, err)
}

func (h *Handler) submitProof(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, payment.MaxProofBytes+1<<20)
	p, found, err := payment.ReadProof(r, "proof")
	if err == nil && !found {
		err = ErrProofRequired
	}
	if err != nil {
		h.reply(w, nil, err)
		return
	}
	v, err := h.service.SubmitProof(r.Context(), p)
	h.reply(w, v, err)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// reply writes v, or the error with the checkout state it left behind.
func (h *Handler) reply(w http.ResponseWriter, v *View, err error) {
	if err == nil {
		respond(w, http.StatusOK, v)
		return
	}

	body := map[string]interface{}{"error": err.Error()}
	if v != nil {
		body["checkout"] = v
	}
	var verr *address.ValidationError
	switch {
	case errors.Is(err, auth.ErrNotAuthenticated):
		respond(w, http.StatusUnauthorized, body)
	case errors.As(err, &verr):
		body["error"] = "please fix the highlighted fields"
		body["fields"] = verr.Fields
		respond(w, http.StatusBadRequest, body)
	case errors.Is(err, ErrOrderInProgress), errors.Is(err, ErrWrongStep), errors.Is(err, ErrFlowNotStarted):
		respond(w, http.StatusConflict, body)
	case errors.Is(err, ErrProgressNotSaved):
		h.log.Error("checkout step failed after order", "error", err)
		body["error"] = ErrProgressNotSaved.Error()
		respond(w, http.StatusServiceUnavailable, body)
	case errors.Is(err, payment.ErrProofTooLarge):
		respond(w, http.StatusRequestEntityTooLarge, body)
	case IsUserError(err):
		respond(w, http.StatusUnprocessableEntity, body)
	default:
		h.log.Error("checkout step failed", "error", err)
		body["error"] = "something went wrong, please try again"
		respond(w, http.StatusInternalServerError, body)
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
