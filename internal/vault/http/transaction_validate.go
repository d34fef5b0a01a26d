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

// ValidateHandler serves POST /transaction/validate. The bearer token must
// carry the execute_transaction scope (enforced by middleware). At most one
// call per transaction token ever succeeds.
type ValidateHandler struct {
	TransactionService *service.TransactionService
}

type validateRequest struct {
	TransactionToken string `json:"transaction_token"`
}

type validateResponse struct {
	Valid            bool   `json:"valid"`
	TransactionToken string `json:"transaction_token"`
	ClientID         string `json:"client_id"`
}

func (h *ValidateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	token := strings.TrimSpace(req.TransactionToken)
	if token == "" {
		httpx.WriteError(w, http.StatusBadRequest, "transaction_token is required")
		return
	}

	executorClientID := httpx.ClientIDFromCtx(ctx)

	result, err := h.TransactionService.Validate(ctx, token, executorClientID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTransactionTokenNotFound):
			httpx.WriteError(w, http.StatusBadRequest, "Invalid transaction token")
		case errors.Is(err, service.ErrTransactionTokenUsed):
			httpx.WriteError(w, http.StatusBadRequest, "Transaction token has already been used")
		case errors.Is(err, service.ErrTransactionTokenExpired):
			httpx.WriteError(w, http.StatusBadRequest, "Transaction token has expired")
		default:
			log.Error("transaction validation failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, validateResponse{
		Valid:            true,
		TransactionToken: result.TransactionToken,
		ClientID:         result.InitiatorClientID,
	})
}
