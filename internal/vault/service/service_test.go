package service

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/authvault/authvault/internal/vault/domain"
	"github.com/authvault/authvault/internal/vault/store"
	"github.com/authvault/authvault/internal/vault/store/drivers/sqlite"
	"github.com/authvault/authvault/pkg/cryptox"
	"github.com/authvault/authvault/pkg/idx"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testSecret = "correct-horse-battery-staple"

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", filepath.Join(t.TempDir(), "test.db"))
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

// seedClient registers a client whose plaintext secret is testSecret.
func seedClient(t *testing.T, st store.Store, scope domain.Scope, active bool) domain.Client {
	t.Helper()

	hash, err := cryptox.HashSecret(testSecret)
	require.NoError(t, err)

	c := domain.Client{
		ID:         idx.New().String(),
		ClientID:   uuid.NewString(),
		SecretHash: hash,
		Name:       "test client",
		Scope:      scope,
		Active:     active,
		OwnerID:    "owner-1",
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, st.Clients().CreateClient(t.Context(), c))
	return c
}
