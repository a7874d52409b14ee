package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// CurrentUserID resolves the authenticated caller. Supplied by the auth module at wiring time.
type CurrentUserID func(r *http.Request) (string, bool)

type Handler struct {
	service Service
	current CurrentUserID
	guard   func(http.Handler) http.Handler
}

// NewHandler builds the user routes. guard protects /me.
func NewHandler(service Service, current CurrentUserID, guard func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, current: current, guard: guard}
}

func (h *Handler) RegisterRoutes(router *chi.Mux) {
	router.Route("/api/v1/users", func(r chi.Router) {
		r.Post("/register", h.registerUser)
		r.With(h.guard).Get("/me", h.me)
	})
}

func (h *Handler) registerUser(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	user, err := h.service.RegisterUser(r.Context(), req)
	switch {
	case errors.Is(err, ErrInvalidSignup):
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	case errors.Is(err, ErrEmailTaken):
		respond(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	case err != nil:
		respond(w, http.StatusInternalServerError, map[string]string{"error": "could not create account"})
		return
	}

	respond(w, http.StatusCreated, user)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	id, ok := h.current(r)
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "please sign in"})
		return
	}

	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": ErrNotFound.Error()})
		return
	}
	respond(w, http.StatusOK, user)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
