package mailer

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/georgemunganga/kidswear-store/internal/modules/notify"
	"github.com/go-chi/chi/v5"
)

// Handler exposes the relay's HTTP surface.
type Handler struct {
	relay notify.Sender
	log   *slog.Logger
}

func NewHandler(relay notify.Sender, log *slog.Logger) *Handler {
	return &Handler{relay: relay, log: log}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Get("/health", h.health)
	r.Post("/send-order-emails", h.sendOrderEmails)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]string{"status": "ok", "service": "email-api"})
}

func (h *Handler) sendOrderEmails(w http.ResponseWriter, r *http.Request) {
	var data notify.OrderEmailData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil || data.OrderNumber == "" || data.CustomerEmail == "" {
		respond(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": "Missing required fields"})
		return
	}
	res, err := h.relay.Send(r.Context(), data)
	if err != nil {
		h.log.Error("send order emails", "order_number", data.OrderNumber, "error", err)
		respond(w, http.StatusInternalServerError, map[string]interface{}{"success": false, "error": "failed to send order emails"})
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"success": true, "customer": res.Customer, "admin": res.Admin})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
