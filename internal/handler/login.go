package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/mfcarvalho/orders-api/internal/domain/auth"
)

// loginRequest keeps the legacy external key for the password field.
type loginRequest struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login verifies the credential pair and issues a signed bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	id, err := h.creds.Verify(r.Context(), req.Email, req.Senha)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		zctx.From(r.Context()).Error("verify credentials", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	token, err := h.issuer.Issue(*id)
	if err != nil {
		zctx.From(r.Context()).Error("issue token", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{Token: token})
}
