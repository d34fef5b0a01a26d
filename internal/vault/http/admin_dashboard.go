package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/authvault/authvault/internal/vault/domain"
	"github.com/authvault/authvault/internal/vault/service"
	"github.com/authvault/authvault/pkg/httpx"
	"github.com/authvault/authvault/pkg/slogx"
)

// AdminDashboardHandler serves the dashboard read models: activity stats
// and the recent-transactions listing.
type AdminDashboardHandler struct {
	ClientService *service.ClientService
	OwnerID       string
}

type transactionResponse struct {
	ID                string     `json:"id"`
	TransactionToken  string     `json:"transaction_token"`
	InitiatorClientID string     `json:"initiator_client_id"`
	ExecutorClientID  *string    `json:"executor_client_id,omitempty"`
	Status            string     `json:"status"`
	CreatedAt         time.Time  `json:"created_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}

// HandleStats handles GET /admin/stats.
func (h *AdminDashboardHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	stats, err := h.ClientService.DashboardStats(ctx)
	if err != nil {
		log.Error("failed to compute dashboard stats", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, stats)
}

// HandleTransactions handles GET /admin/transactions. An optional limit
// query parameter caps the listing, bounded by the service default.
func (h *AdminDashboardHandler) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	limit := service.RecentTransactionsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n < limit {
			limit = n
		}
	}

	transactions, err := h.ClientService.RecentTransactions(ctx, h.OwnerID, limit)
	if err != nil {
		log.Error("failed to list recent transactions", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to list transactions")
		return
	}

	out := make([]transactionResponse, 0, len(transactions))
	for _, t := range transactions {
		out = append(out, toTransactionResponse(t))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func toTransactionResponse(t domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:                t.ID,
		TransactionToken:  t.TransactionToken,
		InitiatorClientID: t.InitiatorClientID,
		ExecutorClientID:  t.ExecutorClientID,
		Status:            string(t.Status),
		CreatedAt:         t.CreatedAt,
		CompletedAt:       t.CompletedAt,
	}
}
