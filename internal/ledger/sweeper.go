package ledger

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper periodically closes stale open executions and fails their parent
// sessions. One sweep runs immediately on start so that sessions interrupted
// by a crash surface as failed without waiting a full interval.
type Sweeper struct {
	sys       System
	interval  time.Duration
	threshold time.Duration
	logger    *slog.Logger
}

// NewSweeper creates a Sweeper over the given ledger system.
func NewSweeper(sys System, interval, threshold time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		sys:       sys,
		interval:  interval,
		threshold: threshold,
		logger:    logger.With("system", "ledger.sweeper"),
	}
}

// Start runs the sweep loop until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	count, err := s.sys.RecoverStale(ctx, s.threshold)
	if err != nil {
		s.logger.Error("stale execution sweep failed", "error", err)
		return
	}
	if count > 0 {
		s.logger.Info("stale execution sweep", "recovered", count)
	}
}
