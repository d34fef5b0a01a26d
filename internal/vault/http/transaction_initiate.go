package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/authvault/authvault/internal/vault/service"
	"github.com/authvault/authvault/pkg/httpx"
	"github.com/authvault/authvault/pkg/slogx"
)

// InitiateHandler serves POST /transaction/initiate. The bearer token must
// carry the initiate_transaction scope (enforced by middleware); the body
// names the client the transaction token is minted for.
type InitiateHandler struct {
	TransactionService *service.TransactionService
}

type initiateRequest struct {
	ClientID string `json:"client_id"`
}

type initiateResponse struct {
	TransactionToken string `json:"transaction_token"`
}

func (h *InitiateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req initiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	clientID := strings.TrimSpace(req.ClientID)
	if clientID == "" {
		httpx.WriteError(w, http.StatusBadRequest, "client_id is required")
		return
	}

	// The token may only mint transaction tokens for its own client.
	if clientID != httpx.ClientIDFromCtx(ctx) {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid client")
		return
	}

	token, err := h.TransactionService.Initiate(ctx, clientID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownClient):
			httpx.WriteError(w, http.StatusBadRequest, "Invalid client")
		case errors.Is(err, service.ErrClientInactive):
			httpx.WriteError(w, http.StatusBadRequest, "Client is inactive")
		case errors.Is(err, service.ErrNotAuthorizedToInitiate):
			httpx.WriteError(w, http.StatusBadRequest, "Client does not have permission to initiate transactions")
		default:
			log.Error("transaction initiation failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, initiateResponse{TransactionToken: token.Token})
}
