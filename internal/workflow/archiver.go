package workflow

import (
	"context"
	"log/slog"
	"time"
)

// Archiver periodically archives reviewed sessions whose retention window
// has elapsed.
type Archiver struct {
	sys       System
	interval  time.Duration
	retention time.Duration
	logger    *slog.Logger
}

// NewArchiver creates an Archiver over the given workflow system.
func NewArchiver(sys System, interval, retention time.Duration, logger *slog.Logger) *Archiver {
	return &Archiver{
		sys:       sys,
		interval:  interval,
		retention: retention,
		logger:    logger.With("system", "workflow.archiver"),
	}
}

// Start runs the archive loop until ctx is cancelled.
func (a *Archiver) Start(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := a.sys.ArchiveExpired(ctx, a.retention); err != nil {
				a.logger.Error("archive sweep failed", "error", err)
			}
		}
	}
}
