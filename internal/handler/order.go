package handler

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/mfcarvalho/orders-api/internal/domain/order"
)

// CreateOrder decodes the external payload, persists the order atomically
// with its items, and echoes the request body back with 201.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "read request body")
		return
	}

	o, err := decodeOrderPayload(body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "malformed order payload: "+err.Error())
		return
	}

	if err := h.orders.Create(r.Context(), o); err != nil {
		h.orderError(w, r, err)
		return
	}

	// The legacy contract echoes the caller's payload verbatim on success.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(body)
}

// ListOrders returns every order with its full item collection. Unpaginated:
// the result is unbounded, a known scalability gap kept on purpose.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		h.orderError(w, r, err)
		return
	}

	views := make([]orderView, len(orders))
	for i, o := range orders {
		views[i] = orderToView(o)
	}
	respondJSON(w, http.StatusOK, views)
}

// GetOrder returns a single order with its items.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.orderError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, orderToView(*o))
}

// ReplaceOrder swaps the order's scalar fields and entire item set for the
// payload's. The route parameter is the authoritative key; there is no upsert.
func (h *Handler) ReplaceOrder(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "read request body")
		return
	}

	o, err := decodeOrderPayload(body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "malformed order payload: "+err.Error())
		return
	}

	orderID := chi.URLParam(r, "id")
	if err := h.orders.Replace(r.Context(), orderID, o); err != nil {
		h.orderError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, orderToView(*o))
}

// DeleteOrder removes the order and, by ownership cascade, all its items.
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.orderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// orderError maps domain errors to HTTP statuses. Unlike the legacy service,
// storage failures are not collapsed into 404: only ErrNotFound is a 404,
// duplicates are 409, validation is 400, everything else is a logged 500.
func (h *Handler) orderError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *order.ValidationError
	switch {
	case errors.As(err, &vErr):
		respondError(w, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, order.ErrNotFound):
		respondError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, order.ErrDuplicate):
		respondError(w, http.StatusConflict, "order already exists")
	default:
		zctx.From(r.Context()).Error("order operation failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
