package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/authvault/authvault/internal/vault/domain"
	"github.com/authvault/authvault/internal/vault/store"
	"github.com/authvault/authvault/pkg/cryptox"
	"github.com/authvault/authvault/pkg/idx"
	"github.com/authvault/authvault/pkg/slogx"
	"github.com/google/uuid"
)

var ErrClientNotFound = errors.New("client_not_found")

// RecentTransactionsLimit caps the admin recent-transactions listing.
const RecentTransactionsLimit = 10

// ClientService is the admin surface: registering and managing machine
// clients, plus the dashboard read models.
type ClientService struct {
	Store store.Store
}

// CreatedClient carries the one-time plaintext secret back to the caller.
// The secret is not recoverable afterwards; only its hash is stored.
type CreatedClient struct {
	Client       domain.Client
	ClientSecret string
}

// CreateClient registers a new machine client and returns the generated
// credentials. The secret is shown exactly once.
func (s *ClientService) CreateClient(ctx context.Context, ownerID, name string, scope domain.Scope) (*CreatedClient, error) {
	now := time.Now().UTC()
	l := slogx.FromContext(ctx)

	secret, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, err
	}
	secretHash, err := cryptox.HashSecret(secret)
	if err != nil {
		return nil, err
	}

	client := domain.Client{
		ID:         idx.New().String(),
		ClientID:   uuid.NewString(),
		SecretHash: secretHash,
		Name:       name,
		Scope:      scope,
		Active:     true,
		OwnerID:    ownerID,
		CreatedAt:  now,
	}

	if err := s.Store.Clients().CreateClient(ctx, client); err != nil {
		return nil, err
	}

	l.Info("client registered",
		slog.String("client_id", client.ClientID),
		slog.String("scope", client.Scope.String()),
	)

	return &CreatedClient{Client: client, ClientSecret: secret}, nil
}

// ListClients returns the owner's clients, newest first.
func (s *ClientService) ListClients(ctx context.Context, ownerID string) ([]domain.Client, error) {
	return s.Store.Clients().ListClientsByOwner(ctx, ownerID)
}

// UpdateClient changes a client's name, scope, and active flag.
func (s *ClientService) UpdateClient(ctx context.Context, id, name string, scope domain.Scope, active bool) (domain.Client, error) {
	if err := s.Store.Clients().UpdateClient(ctx, id, name, scope, active); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Client{}, ErrClientNotFound
		}
		return domain.Client{}, err
	}
	return s.Store.Clients().GetClientByID(ctx, id)
}

// DeleteClient removes a client owned by ownerID.
func (s *ClientService) DeleteClient(ctx context.Context, id, ownerID string) error {
	if err := s.Store.Clients().DeleteClient(ctx, id, ownerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrClientNotFound
		}
		return err
	}
	return nil
}

// DashboardStats aggregates today's activity for the admin dashboard.
// "Today" means the last 24 hours, not the calendar day.
func (s *ClientService) DashboardStats(ctx context.Context) (domain.DashboardStats, error) {
	since := time.Now().UTC().Add(-24 * time.Hour)

	active, err := s.Store.Clients().CountActiveClients(ctx)
	if err != nil {
		return domain.DashboardStats{}, err
	}

	total, validated, err := s.Store.Transactions().CountTransactionsSince(ctx, since)
	if err != nil {
		return domain.DashboardStats{}, err
	}

	avg, err := s.Store.RequestLogs().AverageResponseTimeSince(ctx, since)
	if err != nil {
		return domain.DashboardStats{}, err
	}

	stats := domain.DashboardStats{
		ActiveClients:     active,
		TransactionsToday: total,
		AvgResponseMS:     avg,
	}
	if total > 0 {
		stats.SuccessRate = float64(validated) / float64(total) * 100
	}
	return stats, nil
}

// RecentTransactions returns the owner's latest ledger entries, capped at
// limit (callers pass RecentTransactionsLimit for the default).
func (s *ClientService) RecentTransactions(ctx context.Context, ownerID string, limit int) ([]domain.Transaction, error) {
	if limit <= 0 || limit > RecentTransactionsLimit {
		limit = RecentTransactionsLimit
	}
	return s.Store.Transactions().ListRecentTransactions(ctx, ownerID, limit)
}
