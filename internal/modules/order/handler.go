package order

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/georgemunganga/kidswear-store/internal/modules/auth"
	"github.com/go-chi/chi/v5"
)

// Handler exposes customer order endpoints and the create-order function.
type Handler struct {
	service Service
	log     *slog.Logger
}

func NewHandler(service Service, log *slog.Logger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(auth.RequireUser)
		r.Get("/", h.listMyOrders)   // GET /api/v1/orders
		r.Get("/{id}", h.getMyOrder) // GET /api/v1/orders/{id}
	})
	r.With(auth.RequireUser).Post("/api/v1/functions/create-order", h.createOrderFunction)
}

func (h *Handler) listMyOrders(w http.ResponseWriter, r *http.Request) {
	s, _ := auth.SessionFromContext(r.Context())
	orders, err := h.service.ListCustomerOrders(r.Context(), s.UserID)
	if err != nil {
		h.log.Error("list customer orders", "user_id", s.UserID, "error", err)
		respond(w, http.StatusInternalServerError, map[string]string{"error": "could not load your orders"})
		return
	}
	if orders == nil {
		orders = []*Order{}
	}
	respond(w, http.StatusOK, orders)
}

func (h *Handler) getMyOrder(w http.ResponseWriter, r *http.Request) {
	s, _ := auth.SessionFromContext(r.Context())
	o, err := h.service.GetCustomerOrder(r.Context(), s.UserID, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

// createOrderFunction is the HTTP binding of order creation.
func (h *Handler) createOrderFunction(w http.ResponseWriter, r *http.Request) {
	s, _ := auth.SessionFromContext(r.Context())
	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": "invalid request body"})
		return
	}
	res, err := h.service.PlaceOrder(r.Context(), s.UserID, req)
	if err != nil {
		code := http.StatusInternalServerError
		msg := "failed to create order"
		switch {
		case IsRejected(err):
			code, msg = http.StatusUnprocessableEntity, err.Error()
		case errors.Is(err, ErrEmptyOrder), errors.Is(err, ErrInvalidMethod):
			code, msg = http.StatusBadRequest, err.Error()
		default:
			h.log.Error("create order", "user_id", s.UserID, "error", err)
		}
		respond(w, code, map[string]interface{}{"success": false, "error": msg})
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"orderId":     res.OrderID,
		"orderNumber": res.OrderNumber,
		"totalAmount": res.TotalAmount,
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	msg := "something went wrong"
	switch {
	case errors.Is(err, ErrNotFound):
		code, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, ErrInvalidStatus):
		code, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, ErrTrackingRequired), errors.Is(err, ErrPaymentNotVerified):
		code, msg = http.StatusUnprocessableEntity, err.Error()
	default:
		h.log.Error("order request failed", "error", err)
	}
	respond(w, code, map[string]string{"error": msg})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
