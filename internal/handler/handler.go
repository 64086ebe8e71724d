// Package handler adapts the HTTP surface onto the order and auth domains.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mfcarvalho/orders-api/internal/domain/auth"
	"github.com/mfcarvalho/orders-api/internal/domain/order"
)

// TokenVerifier validates a bearer token and returns the identity it carries.
type TokenVerifier interface {
	Verify(raw string) (*auth.Identity, error)
}

// TokenIssuer signs a bearer token for an identity.
type TokenIssuer interface {
	Issue(id auth.Identity) (string, error)
}

// Handler holds the domain dependencies for all HTTP endpoints.
type Handler struct {
	orders   *order.Service
	creds    auth.CredentialVerifier
	issuer   TokenIssuer
	verifier TokenVerifier
}

// New constructs a Handler with the required domain dependencies.
func New(
	orders *order.Service,
	creds auth.CredentialVerifier,
	issuer TokenIssuer,
	verifier TokenVerifier,
) *Handler {
	return &Handler{
		orders:   orders,
		creds:    creds,
		issuer:   issuer,
		verifier: verifier,
	}
}

// Routes builds the route tree. /login is open; everything under /order sits
// behind the bearer gate.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/login", h.Login)

	r.Route("/order", func(r chi.Router) {
		r.Use(BearerAuth(h.verifier))
		r.Post("/", h.CreateOrder)
		r.Get("/list", h.ListOrders)
		r.Get("/{id}", h.GetOrder)
		r.Put("/{id}", h.ReplaceOrder)
		r.Delete("/{id}", h.DeleteOrder)
	})

	return r
}

// respondJSON writes v as a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError writes the shared error body shape.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]any{
		"code":    status,
		"message": message,
	})
}
