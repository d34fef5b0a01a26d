package service

import (
	"testing"
	"time"

	"github.com/authvault/authvault/internal/vault/domain"
	"github.com/authvault/authvault/pkg/idx"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestInitiate(t *testing.T) {
	t.Parallel()

	t.Run("mints a token and ledger entry", func(t *testing.T) {
		st := newTestStore(t)
		svc := &TransactionService{Store: st}
		client := seedClient(t, st, domain.ScopeInitiate, true)

		token, err := svc.Initiate(t.Context(), client.ClientID)
		require.NoError(t, err)
		require.NotEmpty(t, token.Token)
		require.False(t, token.Used)
		require.WithinDuration(t, time.Now().Add(TransactionTTL), token.ExpiresAt, time.Minute)

		// Token parses as a UUID.
		_, err = uuid.Parse(token.Token)
		require.NoError(t, err)

		ledger, err := st.Transactions().GetTransactionByToken(t.Context(), token.Token)
		require.NoError(t, err)
		require.Equal(t, domain.StatusInitiated, ledger.Status)
		require.Equal(t, client.ClientID, ledger.InitiatorClientID)
		require.Nil(t, ledger.ExecutorClientID)
	})

	t.Run("unknown client", func(t *testing.T) {
		st := newTestStore(t)
		svc := &TransactionService{Store: st}

		_, err := svc.Initiate(t.Context(), "no-such-client")
		require.ErrorIs(t, err, ErrUnknownClient)
	})

	t.Run("inactive client", func(t *testing.T) {
		st := newTestStore(t)
		svc := &TransactionService{Store: st}
		client := seedClient(t, st, domain.ScopeInitiate, false)

		_, err := svc.Initiate(t.Context(), client.ClientID)
		require.ErrorIs(t, err, ErrClientInactive)
	})

	t.Run("executor scope cannot initiate", func(t *testing.T) {
		st := newTestStore(t)
		svc := &TransactionService{Store: st}
		client := seedClient(t, st, domain.ScopeExecute, true)

		_, err := svc.Initiate(t.Context(), client.ClientID)
		require.ErrorIs(t, err, ErrNotAuthorizedToInitiate)
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("consumes the token and updates the ledger", func(t *testing.T) {
		st := newTestStore(t)
		svc := &TransactionService{Store: st}
		initiator := seedClient(t, st, domain.ScopeInitiate, true)
		executor := seedClient(t, st, domain.ScopeExecute, true)

		token, err := svc.Initiate(t.Context(), initiator.ClientID)
		require.NoError(t, err)

		result, err := svc.Validate(t.Context(), token.Token, executor.ClientID)
		require.NoError(t, err)
		require.Equal(t, token.Token, result.TransactionToken)
		require.Equal(t, initiator.ClientID, result.InitiatorClientID)

		ledger, err := st.Transactions().GetTransactionByToken(t.Context(), token.Token)
		require.NoError(t, err)
		require.Equal(t, domain.StatusValidated, ledger.Status)
		require.NotNil(t, ledger.ExecutorClientID)
		require.Equal(t, executor.ClientID, *ledger.ExecutorClientID)
		require.NotNil(t, ledger.CompletedAt)
	})

	t.Run("second validation reports already used", func(t *testing.T) {
		st := newTestStore(t)
		svc := &TransactionService{Store: st}
		initiator := seedClient(t, st, domain.ScopeInitiate, true)

		token, err := svc.Initiate(t.Context(), initiator.ClientID)
		require.NoError(t, err)

		_, err = svc.Validate(t.Context(), token.Token, "executor-1")
		require.NoError(t, err)

		_, err = svc.Validate(t.Context(), token.Token, "executor-2")
		require.ErrorIs(t, err, ErrTransactionTokenUsed)

		// The ledger keeps the first executor.
		ledger, err := st.Transactions().GetTransactionByToken(t.Context(), token.Token)
		require.NoError(t, err)
		require.Equal(t, "executor-1", *ledger.ExecutorClientID)
	})

	t.Run("expired token stays unused and ledger stays initiated", func(t *testing.T) {
		st := newTestStore(t)
		svc := &TransactionService{Store: st}
		initiator := seedClient(t, st, domain.ScopeInitiate, true)

		expired := domain.TransactionToken{
			ID:        idx.New().String(),
			Token:     uuid.NewString(),
			ClientID:  initiator.ClientID,
			ExpiresAt: time.Now().UTC().Add(-time.Minute),
			CreatedAt: time.Now().UTC().Add(-11 * time.Minute),
		}
		require.NoError(t, st.TransactionTokens().CreateTransactionToken(t.Context(), expired))
		require.NoError(t, st.Transactions().CreateTransaction(t.Context(), domain.Transaction{
			ID:                idx.New().String(),
			TransactionToken:  expired.Token,
			InitiatorClientID: initiator.ClientID,
			Status:            domain.StatusInitiated,
			CreatedAt:         expired.CreatedAt,
		}))

		_, err := svc.Validate(t.Context(), expired.Token, "executor-1")
		require.ErrorIs(t, err, ErrTransactionTokenExpired)

		got, err := st.TransactionTokens().GetTransactionToken(t.Context(), expired.Token)
		require.NoError(t, err)
		require.False(t, got.Used)

		ledger, err := st.Transactions().GetTransactionByToken(t.Context(), expired.Token)
		require.NoError(t, err)
		require.Equal(t, domain.StatusInitiated, ledger.Status)
	})

	t.Run("unknown token", func(t *testing.T) {
		st := newTestStore(t)
		svc := &TransactionService{Store: st}

		_, err := svc.Validate(t.Context(), uuid.NewString(), "executor-1")
		require.ErrorIs(t, err, ErrTransactionTokenNotFound)
	})

	t.Run("tokens are never deleted after use", func(t *testing.T) {
		st := newTestStore(t)
		svc := &TransactionService{Store: st}
		initiator := seedClient(t, st, domain.ScopeInitiate, true)

		token, err := svc.Initiate(t.Context(), initiator.ClientID)
		require.NoError(t, err)
		_, err = svc.Validate(t.Context(), token.Token, "executor-1")
		require.NoError(t, err)

		// A replay long after use still classifies as used, proving the
		// row survived.
		_, err = svc.Validate(t.Context(), token.Token, "executor-1")
		require.ErrorIs(t, err, ErrTransactionTokenUsed)

		_, err = st.TransactionTokens().GetTransactionToken(t.Context(), token.Token)
		require.NoError(t, err)
	})
}
