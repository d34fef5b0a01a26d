package service

import (
	"testing"
	"time"

	"github.com/authvault/authvault/internal/vault/domain"
	"github.com/authvault/authvault/pkg/cryptox"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestCreateClient(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	svc := &ClientService{Store: st}

	created, err := svc.CreateClient(t.Context(), "owner-1", "payments backend", domain.ScopeInitiate)
	require.NoError(t, err)

	// client_id is a UUID, the secret verifies against the stored hash and
	// never appears in it.
	_, err = uuid.Parse(created.Client.ClientID)
	require.NoError(t, err)
	require.NotEmpty(t, created.ClientSecret)
	require.NotContains(t, created.Client.SecretHash, created.ClientSecret)
	require.NoError(t, cryptox.VerifySecret(created.ClientSecret, created.Client.SecretHash))

	got, err := st.Clients().GetClientByClientID(t.Context(), created.Client.ClientID)
	require.NoError(t, err)
	require.True(t, got.Active)
	require.Equal(t, domain.ScopeInitiate, got.Scope)
	require.Equal(t, "owner-1", got.OwnerID)
}

func TestUpdateAndDeleteClient(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	svc := &ClientService{Store: st}

	created, err := svc.CreateClient(t.Context(), "owner-1", "old name", domain.ScopeInitiate)
	require.NoError(t, err)

	updated, err := svc.UpdateClient(t.Context(), created.Client.ID, "new name", domain.ScopeExecute, false)
	require.NoError(t, err)
	require.Equal(t, "new name", updated.Name)
	require.Equal(t, domain.ScopeExecute, updated.Scope)
	require.False(t, updated.Active)

	_, err = svc.UpdateClient(t.Context(), "missing", "x", domain.ScopeInitiate, true)
	require.ErrorIs(t, err, ErrClientNotFound)

	require.NoError(t, svc.DeleteClient(t.Context(), created.Client.ID, "owner-1"))
	require.ErrorIs(t, svc.DeleteClient(t.Context(), created.Client.ID, "owner-1"), ErrClientNotFound)
}

func TestDashboardStats(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	clientSvc := &ClientService{Store: st}
	txSvc := &TransactionService{Store: st}

	initiator := seedClient(t, st, domain.ScopeInitiate, true)
	seedClient(t, st, domain.ScopeExecute, false)

	// Two transactions, one validated.
	first, err := txSvc.Initiate(t.Context(), initiator.ClientID)
	require.NoError(t, err)
	_, err = txSvc.Initiate(t.Context(), initiator.ClientID)
	require.NoError(t, err)
	_, err = txSvc.Validate(t.Context(), first.Token, "executor-1")
	require.NoError(t, err)

	require.NoError(t, st.RequestLogs().CreateRequestLog(t.Context(), domain.RequestLog{
		ID:             "log-1",
		Endpoint:       "/oauth/token",
		Method:         "POST",
		StatusCode:     200,
		ResponseTimeMS: 40,
		CreatedAt:      time.Now().UTC(),
	}))

	stats, err := clientSvc.DashboardStats(t.Context())
	require.NoError(t, err)
	require.Equal(t, 1, stats.ActiveClients)
	require.Equal(t, 2, stats.TransactionsToday)
	require.InDelta(t, 50.0, stats.SuccessRate, 0.01)
	require.InDelta(t, 40.0, stats.AvgResponseMS, 0.01)
}

func TestRecentTransactions(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	clientSvc := &ClientService{Store: st}
	txSvc := &TransactionService{Store: st}

	initiator := seedClient(t, st, domain.ScopeInitiate, true)
	for i := 0; i < 3; i++ {
		_, err := txSvc.Initiate(t.Context(), initiator.ClientID)
		require.NoError(t, err)
	}

	listed, err := clientSvc.RecentTransactions(t.Context(), initiator.OwnerID, RecentTransactionsLimit)
	require.NoError(t, err)
	require.Len(t, listed, 3)

	capped, err := clientSvc.RecentTransactions(t.Context(), initiator.OwnerID, 2)
	require.NoError(t, err)
	require.Len(t, capped, 2)

	other, err := clientSvc.RecentTransactions(t.Context(), "other-owner", RecentTransactionsLimit)
	require.NoError(t, err)
	require.Empty(t, other)
}
