package service

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/authvault/authvault/internal/vault/domain"
	"github.com/stretchr/testify/require"
)

func TestAuditRecord(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	svc := &AuditService{
		Store:  st,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	svc.Record(domain.RequestLog{
		Endpoint:       "/oauth/token",
		Method:         "POST",
		StatusCode:     200,
		ResponseTimeMS: 12,
	})

	// The write is asynchronous; poll until it lands.
	require.Eventually(t, func() bool {
		avg, err := st.RequestLogs().AverageResponseTimeSince(t.Context(), time.Time{})
		return err == nil && avg > 0
	}, 2*time.Second, 10*time.Millisecond)
}
