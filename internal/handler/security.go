package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/mfcarvalho/orders-api/internal/domain/auth"
)

// identityKey is the context key for the authenticated identity.
type identityKey struct{}

// IdentityFromContext extracts the authenticated identity from the context.
// It returns nil when the request did not pass the bearer gate.
func IdentityFromContext(ctx context.Context) *auth.Identity {
	id, _ := ctx.Value(identityKey{}).(*auth.Identity)
	return id
}

// BearerAuth returns a middleware admitting only requests carrying a valid,
// unexpired bearer token. Every failure mode (missing header, malformed
// token, bad signature, expiry) gets the same undifferentiated 401. On
// success the decoded identity is attached to the request context.
func BearerAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				respondError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			id, err := verifier.Verify(raw)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
