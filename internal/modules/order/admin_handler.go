package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/georgemunganga/kidswear-store/internal/modules/address"
	"github.com/georgemunganga/kidswear-store/internal/modules/auth"
	"github.com/georgemunganga/kidswear-store/internal/modules/user"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// AddressBook is the address access the back-office needs.
type AddressBook interface {
	Get(ctx context.Context, id string) (*address.Address, error)
	Create(ctx context.Context, userID uuid.UUID, req address.CreateAddressRequest) (*address.Address, error)
}

// CustomerDirectory resolves the customer behind an order.
type CustomerDirectory interface {
	GetUser(ctx context.Context, id string) (*user.User, error)
}

// AdminHandler exposes the order back-office.
type AdminHandler struct {
	*Handler
	addresses AddressBook
	customers CustomerDirectory
}

func NewAdminHandler(h *Handler, addresses AddressBook, customers CustomerDirectory) *AdminHandler {
	return &AdminHandler{Handler: h, addresses: addresses, customers: customers}
}

// OrderDetail is the admin view of one order.
type OrderDetail struct {
	*Order
	ShippingAddress *address.Address `json:"shipping_address,omitempty"`
	Customer        *Customer        `json:"customer,omitempty"`
}

// Customer is the subset of the account shown to admins.
type Customer struct {
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
}

func (h *AdminHandler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/admin/orders", func(r chi.Router) {
		r.Use(auth.RequireAdmin)
		r.Get("/", h.listOrders)                // GET   /api/v1/admin/orders?status=pending
		r.Get("/export.xlsx", h.exportOrders)   // GET   /api/v1/admin/orders/export.xlsx?status=
		r.Get("/{id}", h.getOrderDetail)        // GET   /api/v1/admin/orders/{id}
		r.Patch("/{id}/status", h.updateStatus) // PATCH /api/v1/admin/orders/{id}/status
		r.Put("/{id}/address", h.attachAddress) // PUT   /api/v1/admin/orders/{id}/address
	})
}

func (h *AdminHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if orders == nil {
		orders = []*Order{}
	}
	respond(w, http.StatusOK, orders)
}

func (h *AdminHandler) getOrderDetail(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	detail := &OrderDetail{Order: o}
	g, ctx := errgroup.WithContext(r.Context())
	if o.ShippingAddressID != nil {
		g.Go(func() error {
			a, err := h.addresses.Get(ctx, o.ShippingAddressID.String())
			if errors.Is(err, address.ErrNotFound) {
				return nil
			}
			detail.ShippingAddress = a
			return err
		})
	}
	g.Go(func() error {
		u, err := h.customers.GetUser(ctx, o.UserID.String())
		if errors.Is(err, user.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		detail.Customer = &Customer{FullName: u.FullName, Email: u.Email, Phone: u.Phone}
		return nil
	})
	if err := g.Wait(); err != nil {
		h.writeError(w, fmt.Errorf("load order detail: %w", err))
		return
	}
	respond(w, http.StatusOK, detail)
}

func (h *AdminHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	o, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

// attachAddress sets an existing address of the order's customer, or creates
// one from the submitted form.
func (h *AdminHandler) attachAddress(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AddressID string                        `json:"address_id,omitempty"`
		Address   *address.CreateAddressRequest `json:"address,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	o, err := h.service.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	var a *address.Address
	switch {
	case req.AddressID != "":
		a, err = h.addresses.Get(r.Context(), req.AddressID)
		if err == nil && a.UserID != o.UserID {
			err = address.ErrNotFound
		}
	case req.Address != nil:
		a, err = h.addresses.Create(r.Context(), o.UserID, *req.Address)
	default:
		respond(w, http.StatusBadRequest, map[string]string{"error": "address_id or address is required"})
		return
	}
	var verr *address.ValidationError
	switch {
	case errors.As(err, &verr):
		respond(w, http.StatusBadRequest, map[string]interface{}{"error": "please fix the highlighted fields", "fields": verr.Fields})
		return
	case errors.Is(err, address.ErrNotFound):
		respond(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	case err != nil:
		h.writeError(w, err)
		return
	}

	updated, err := h.service.AttachAddress(r.Context(), o.ID.String(), a.ID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond(w, http.StatusOK, &OrderDetail{Order: updated, ShippingAddress: a})
}

func (h *AdminHandler) exportOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	file, err := BuildExport(orders)
	if err != nil {
		h.writeError(w, err)
		return
	}
	name := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Disposition", "attachment; filename="+name)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := file.Write(w); err != nil {
		h.log.Error("write order export", "error", err)
	}
}
