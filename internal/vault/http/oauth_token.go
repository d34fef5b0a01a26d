package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/authvault/authvault/internal/vault/domain"
	"github.com/authvault/authvault/internal/vault/service"
	"github.com/authvault/authvault/pkg/httpx"
	"github.com/authvault/authvault/pkg/slogx"
)

// TokenHandler serves POST /oauth/token. Only the client_credentials grant
// is supported; the body is JSON rather than form-encoded.
type TokenHandler struct {
	TokenService *service.TokenService
}

type tokenRequest struct {
	GrantType    string `json:"grant_type"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Scope        string `json:"scope"`
}

func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	if req.GrantType != "client_credentials" {
		httpx.WriteError(w, http.StatusBadRequest, "Unsupported grant type")
		return
	}

	clientID := strings.TrimSpace(req.ClientID)
	if clientID == "" || req.ClientSecret == "" {
		httpx.WriteError(w, http.StatusBadRequest, "client_id and client_secret are required")
		return
	}

	scope, err := domain.ParseScope(strings.TrimSpace(req.Scope))
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "Invalid scope for client")
		return
	}

	grant, err := h.TokenService.IssueAccessToken(ctx, clientID, req.ClientSecret, scope)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.WriteError(w, http.StatusUnauthorized, "Invalid client credentials")
		case errors.Is(err, service.ErrClientInactive):
			httpx.WriteError(w, http.StatusUnauthorized, "Client is inactive")
		case errors.Is(err, service.ErrScopeMismatch):
			httpx.WriteError(w, http.StatusUnauthorized, "Invalid scope for client")
		default:
			log.Error("token issuance failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, grant)
}
