package main

import (
	"github.com/inboundflow/courier/internal/api"
	"github.com/inboundflow/courier/internal/capabilities"
	"github.com/inboundflow/courier/internal/config"
	"github.com/inboundflow/courier/internal/infrastructure"
	"github.com/inboundflow/courier/internal/ledger"
	"github.com/inboundflow/courier/internal/pipeline"
	"github.com/inboundflow/courier/internal/workflow"
	"github.com/inboundflow/courier/pkg/lifecycle"
)

// Engine bundles the background loops: the ingestion poller, the stale
// execution sweeper, and the retention archiver.
type Engine struct {
	poller   *pipeline.Poller
	sweeper  *ledger.Sweeper
	archiver *workflow.Archiver
}

func NewEngine(
	cfg *config.Config,
	infra *infrastructure.Infrastructure,
	domain *api.Domain,
	orch *pipeline.Orchestrator,
	source capabilities.Source,
) *Engine {
	poller := pipeline.NewPoller(
		source,
		orch,
		domain.Sessions,
		pipeline.PollerConfig{
			Interval:              cfg.Engine.PollIntervalDuration(),
			MaxConcurrentSessions: cfg.Engine.MaxConcurrentSessions,
			MarkConsumed:          cfg.Engine.MarkConsumed,
		},
		infra.Logger,
	)

	sweeper := ledger.NewSweeper(
		domain.Ledger,
		cfg.Engine.SweepIntervalDuration(),
		cfg.Engine.StaleThresholdDuration(),
		infra.Logger,
	)

	archiver := workflow.NewArchiver(
		domain.Workflow,
		cfg.Engine.ArchiveIntervalDuration(),
		cfg.Engine.RetentionWindowDuration(),
		infra.Logger,
	)

	return &Engine{
		poller:   poller,
		sweeper:  sweeper,
		archiver: archiver,
	}
}

// Start launches the background loops on the lifecycle context. Each loop
// exits when the context is cancelled at shutdown.
func (e *Engine) Start(lc *lifecycle.Coordinator) {
	ctx := lc.Context()
	go e.poller.Start(ctx)
	go e.sweeper.Start(ctx)
	go e.archiver.Start(ctx)
}
