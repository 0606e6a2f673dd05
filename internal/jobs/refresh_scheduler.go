// Package jobs runs background work inside the API process.
package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	portssvc "github.com/SscSPs/multicurrency_tracker/internal/core/ports/services"
)

// RefreshScheduler triggers the rate refresh on a fixed interval. An external scheduler
// hitting the HTTP trigger is the primary path; this one covers single-instance setups.
type RefreshScheduler struct {
	svc      portssvc.RateRefreshSvc
	secret   string
	interval time.Duration
	logger   *slog.Logger
}

// NewRefreshScheduler returns nil when svc is nil or interval is not positive.
func NewRefreshScheduler(svc portssvc.RateRefreshSvc, secret string, interval time.Duration, logger *slog.Logger) *RefreshScheduler {
	if svc == nil || interval <= 0 {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RefreshScheduler{svc: svc, secret: secret, interval: interval, logger: logger.With(slog.String("job", "rate_refresh"))}
}

// Start runs the scheduler in its own goroutine until ctx is cancelled.
func (s *RefreshScheduler) Start(ctx context.Context) {
	if s == nil {
		return
	}
	go s.Run(ctx)
}

// Run refreshes once immediately and then on every tick. It returns when ctx is done.
func (s *RefreshScheduler) Run(ctx context.Context) {
	s.logger.Info("Rate refresh scheduler started", slog.Duration("interval", s.interval))
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Rate refresh scheduler stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *RefreshScheduler) runOnce(ctx context.Context) {
	result, err := s.svc.RefreshAll(ctx, s.secret)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		s.logger.Error("Scheduled rate refresh failed", slog.String("error", err.Error()))
		return
	}
	s.logger.Info("Scheduled rate refresh finished",
		slog.String("run_id", result.RunID),
		slog.String("status", string(result.Status)),
		slog.Int("succeeded", result.Succeeded),
		slog.Int("failed", len(result.Failed)),
	)
}
