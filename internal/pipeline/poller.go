package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/inboundflow/courier/internal/capabilities"
	"github.com/inboundflow/courier/internal/metrics"
	"github.com/inboundflow/courier/internal/sessions"
)

// PollerConfig holds the ingestion loop settings.
type PollerConfig struct {
	Interval              time.Duration
	MaxConcurrentSessions int
	// MarkConsumed controls whether processed items are acknowledged at the
	// source. Leaving it off keeps items visible for human audit.
	MarkConsumed bool
}

// Poller drives the ingestion loop: fetch unseen items at a bounded interval
// and hand each to the orchestrator on its own goroutine, capped at
// MaxConcurrentSessions in flight.
type Poller struct {
	source   capabilities.Source
	orch     *Orchestrator
	sessions sessions.System
	cfg      PollerConfig
	logger   *slog.Logger
}

// NewPoller creates a Poller over the given source and orchestrator.
func NewPoller(
	source capabilities.Source,
	orch *Orchestrator,
	sess sessions.System,
	cfg PollerConfig,
	logger *slog.Logger,
) *Poller {
	return &Poller{
		source:   source,
		orch:     orch,
		sessions: sess,
		cfg:      cfg,
		logger:   logger.With("system", "pipeline.poller"),
	}
}

// Start runs the poll loop until ctx is cancelled.
func (p *Poller) Start(ctx context.Context) {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		p.poll(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	items, err := p.source.FetchUnseen(ctx)
	if err != nil {
		p.logger.Error("fetch unseen items failed", "error", err)
		return
	}

	if len(items) > 0 {
		p.logger.Info("poll cycle", "items", len(items))
	}

	g := new(errgroup.Group)
	if p.cfg.MaxConcurrentSessions > 0 {
		g.SetLimit(p.cfg.MaxConcurrentSessions)
	}

	for _, item := range items {
		g.Go(func() error {
			p.handle(ctx, item)
			return nil
		})
	}

	// handle never returns an error; one session's failure must not abort
	// its siblings
	_ = g.Wait()

	count, err := p.sessions.CountByStatus(ctx, sessions.StatusProcessing)
	if err != nil {
		p.logger.Error("count processing sessions failed", "error", err)
		return
	}
	metrics.SetActiveSessions(count)
}

func (p *Poller) handle(ctx context.Context, item capabilities.InboundItem) {
	p.orch.Process(ctx, item)

	if p.cfg.MarkConsumed {
		if err := p.source.MarkConsumed(ctx, item.ExternalID); err != nil {
			p.logger.Warn("mark consumed failed", "external_id", item.ExternalID, "error", err)
		}
	}
}
