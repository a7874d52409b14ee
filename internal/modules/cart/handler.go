package cart

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Owner resolves the cart owner for a request.
type Owner func(r *http.Request) (string, bool)

// Handler exposes the shopper's cart.
type Handler struct {
	service Service
	owner   Owner
	guard   func(http.Handler) http.Handler
	log     *slog.Logger
}

func NewHandler(service Service, owner Owner, guard func(http.Handler) http.Handler, log *slog.Logger) *Handler {
	return &Handler{service: service, owner: owner, guard: guard, log: log}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(h.guard)
		r.Get("/", h.view)
		r.Post("/items", h.addItem)
		r.Patch("/items/{lineId}", h.updateQuantity)
		r.Delete("/items/{lineId}", h.removeItem)
		r.Delete("/", h.clear)
	})
}

func (h *Handler) view(w http.ResponseWriter, r *http.Request) {
	owner, _ := h.owner(r)
	sum, err := h.service.View(r.Context(), owner)
	h.reply(w, sum, err)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	owner, _ := h.owner(r)
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	sum, err := h.service.AddItem(r.Context(), owner, req)
	h.reply(w, sum, err)
}

func (h *Handler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	owner, _ := h.owner(r)
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	sum, err := h.service.UpdateQuantity(r.Context(), owner, chi.URLParam(r, "lineId"), req.Quantity)
	h.reply(w, sum, err)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	owner, _ := h.owner(r)
	sum, err := h.service.RemoveItem(r.Context(), owner, chi.URLParam(r, "lineId"))
	h.reply(w, sum, err)
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	owner, _ := h.owner(r)
	if err := h.service.Clear(r.Context(), owner); err != nil {
		h.reply(w, Summary{}, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) reply(w http.ResponseWriter, sum Summary, err error) {
	switch {
	case err == nil:
		respond(w, http.StatusOK, sum)
	case errors.Is(err, ErrLineNotFound):
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrOutOfStock), errors.Is(err, ErrNotAvailable), errors.Is(err, ErrInvalidAmount):
		respond(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	default:
		h.log.Error("cart operation failed", "error", err)
		respond(w, http.StatusInternalServerError, map[string]string{"error": "could not update your cart"})
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
