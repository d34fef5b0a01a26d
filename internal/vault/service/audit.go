package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/authvault/authvault/internal/vault/domain"
	"github.com/authvault/authvault/internal/vault/store"
	"github.com/authvault/authvault/pkg/idx"
)

// AuditService records per-request audit entries. Writes are
// fire-and-forget: a failed insert is logged and dropped, never surfaced to
// the request that triggered it.
type AuditService struct {
	Store  store.Store
	Logger *slog.Logger

	// WriteTimeout bounds each background insert. Zero means 5 seconds.
	WriteTimeout time.Duration
}

// Record queues one audit entry for background insertion. The entry's ID
// and CreatedAt are filled in here.
func (s *AuditService) Record(l domain.RequestLog) {
	l.ID = idx.New().String()
	l.CreatedAt = time.Now().UTC()

	go func() {
		timeout := s.WriteTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := s.Store.RequestLogs().CreateRequestLog(ctx, l); err != nil {
			s.Logger.Error("failed to write request audit entry",
				"endpoint", l.Endpoint, "error", err)
		}
	}()
}
