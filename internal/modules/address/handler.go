package address

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Caller resolves the authenticated user for a request.
type Caller func(r *http.Request) (uuid.UUID, bool)

// Handler exposes the shopper's address book.
type Handler struct {
	service Service
	caller  Caller
	guard   func(http.Handler) http.Handler
}

func NewHandler(service Service, caller Caller, guard func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, caller: caller, guard: guard}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/addresses", func(r chi.Router) {
		r.Use(h.guard)
		r.Get("/", h.list)
		r.Post("/", h.create)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, _ := h.caller(r)
	list, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": "could not load addresses"})
		return
	}
	if list == nil {
		list = []*Address{}
	}
	respond(w, http.StatusOK, list)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, _ := h.caller(r)
	var req CreateAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	a, err := h.service.Create(r.Context(), userID, req)
	var verr *ValidationError
	if errors.As(err, &verr) {
		respond(w, http.StatusBadRequest, map[string]interface{}{"error": "please fix the highlighted fields", "fields": verr.Fields})
		return
	}
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": "failed to save address"})
		return
	}
	respond(w, http.StatusCreated, a)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
