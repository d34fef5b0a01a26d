package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/authvault/authvault/internal/vault/store"
)

// RequestLogRetention is how long request audit entries are kept before
// housekeeping prunes them.
const RequestLogRetention = 30 * 24 * time.Hour

// HousekeepingService periodically prunes expired access-token audit rows
// and aged request logs. Transaction tokens are deliberately never pruned:
// keeping used and expired rows forever is what lets a replayed token be
// told apart from an unknown one.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service with the given
// interval. If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    st,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop() to shut it
// down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop shuts down the worker, blocking until any in-progress cleanup has
// finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup performs the actual pruning. Each deletion is independent;
// failures in one won't stop the others.
func (s *HousekeepingService) cleanup() {
	ctx := context.Background()
	now := time.Now().UTC()

	if n, err := s.Store.AccessTokens().DeleteExpiredAccessTokens(ctx, now); err != nil {
		s.Logger.Error("failed to prune expired access token records", "error", err)
	} else if n > 0 {
		s.Logger.Info("pruned expired access token records", "count", n)
	}

	if n, err := s.Store.RequestLogs().DeleteRequestLogsBefore(ctx, now.Add(-RequestLogRetention)); err != nil {
		s.Logger.Error("failed to prune aged request logs", "error", err)
	} else if n > 0 {
		s.Logger.Info("pruned aged request logs", "count", n)
	}
}
