package service

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/authvault/authvault/internal/vault/domain"
	"github.com/authvault/authvault/pkg/idx"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingCleanup(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	client := seedClient(t, st, domain.ScopeInitiate, true)

	require.NoError(t, st.AccessTokens().CreateAccessToken(t.Context(), domain.AccessTokenRecord{
		ID:          idx.New().String(),
		Fingerprint: uuid.NewString(),
		ClientID:    client.ClientID,
		Scope:       client.Scope,
		ExpiresAt:   time.Now().UTC().Add(-time.Hour),
		CreatedAt:   time.Now().UTC().Add(-2 * time.Hour),
	}))
	require.NoError(t, st.RequestLogs().CreateRequestLog(t.Context(), domain.RequestLog{
		ID:        idx.New().String(),
		Endpoint:  "/oauth/token",
		Method:    "POST",
		CreatedAt: time.Now().UTC().Add(-RequestLogRetention - time.Hour),
	}))

	// An expired but unused transaction token must survive cleanup.
	expiredToken := domain.TransactionToken{
		ID:        idx.New().String(),
		Token:     uuid.NewString(),
		ClientID:  client.ClientID,
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
		CreatedAt: time.Now().UTC().Add(-2 * time.Hour),
	}
	require.NoError(t, st.TransactionTokens().CreateTransactionToken(t.Context(), expiredToken))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewHousekeepingService(st, logger, time.Hour)
	svc.cleanup()

	avg, err := st.RequestLogs().AverageResponseTimeSince(t.Context(), time.Time{})
	require.NoError(t, err)
	require.Zero(t, avg)

	_, err = st.TransactionTokens().GetTransactionToken(t.Context(), expiredToken.Token)
	require.NoError(t, err)
}

func TestHousekeepingStartStop(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewHousekeepingService(st, logger, time.Hour)

	svc.Start()
	svc.Stop() // must not hang
}
