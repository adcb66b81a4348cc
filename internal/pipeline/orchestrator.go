package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/inboundflow/courier/internal/capabilities"
	"github.com/inboundflow/courier/internal/ledger"
	"github.com/inboundflow/courier/internal/metrics"
	"github.com/inboundflow/courier/internal/sessions"
	"github.com/inboundflow/courier/internal/workflow"
	"github.com/inboundflow/courier/pkg/formatting"
)

// Config holds the orchestrator's retry and timeout policy.
type Config struct {
	RetryAttempts  int
	RetryBaseDelay time.Duration
	StageTimeout   time.Duration
}

// Orchestrator walks sessions through the stage sequence. Sessions run in
// parallel with each other, but within one session the stages are strictly
// sequential: no stage begins until the previous stage's ledger entry is
// closed.
type Orchestrator struct {
	sessions   sessions.System
	ledger     ledger.System
	workflow   workflow.System
	classifier capabilities.Classifier
	retriever  capabilities.Retriever
	generator  capabilities.Generator
	notifier   capabilities.Notifier
	cfg        Config
	logger     *slog.Logger

	// root outlives individual requests; requeued runs detach onto it so an
	// HTTP response does not cancel the pipeline it started
	root context.Context
}

// NewOrchestrator creates an Orchestrator. root bounds the lifetime of
// detached runs (requeues); it should be the process lifecycle context.
func NewOrchestrator(
	root context.Context,
	sess sessions.System,
	led ledger.System,
	wf workflow.System,
	classifier capabilities.Classifier,
	retriever capabilities.Retriever,
	generator capabilities.Generator,
	notifier capabilities.Notifier,
	cfg Config,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		sessions:   sess,
		ledger:     led,
		workflow:   wf,
		classifier: classifier,
		retriever:  retriever,
		generator:  generator,
		notifier:   notifier,
		cfg:        cfg,
		logger:     logger.With("system", "pipeline"),
		root:       root,
	}
}

// Process runs one inbound item through the pipeline. Duplicate items are
// short-circuited before a session is created; this is not an error.
func (o *Orchestrator) Process(ctx context.Context, item capabilities.InboundItem) {
	sess, created, err := o.sessions.Begin(ctx, sessions.BeginCommand{
		ExternalID:  item.ExternalID,
		SenderEmail: item.SenderEmail,
		SenderName:  item.SenderName,
		Subject:     item.Subject,
		Body:        item.Body,
	})
	if err != nil {
		o.logger.Error("session begin failed", "external_id", item.ExternalID, "error", err)
		return
	}
	if !created {
		metrics.RecordSession(metrics.OutcomeDuplicate)
		return
	}

	o.run(ctx, sess)
}

// Requeue re-runs a failed session, resuming from its last successfully
// completed stage. The run detaches onto the orchestrator's root context so
// it survives the requesting call.
func (o *Orchestrator) Requeue(ctx context.Context, id uuid.UUID) error {
	sess, err := o.sessions.Find(ctx, id)
	if err != nil {
		return err
	}

	if err := o.sessions.MarkProcessing(ctx, id); err != nil {
		return err
	}

	o.logger.Info("session requeued", "session", id)
	go o.run(o.root, sess)
	return nil
}

// run executes the stage sequence and records the terminal outcome. Stage
// errors never escape: one session's failure must not abort its siblings.
func (o *Orchestrator) run(ctx context.Context, sess *sessions.Session) {
	outcome, err := o.execute(ctx, sess)
	if err != nil {
		// the session must surface as failed even when the run was cancelled
		failCtx := context.WithoutCancel(ctx)
		if failErr := o.sessions.Fail(failCtx, sess.ID, err.Error()); failErr != nil {
			o.logger.Error("mark session failed errored", "session", sess.ID, "error", failErr)
		}
		metrics.RecordSession(metrics.OutcomeFailed)
		o.logger.Error("pipeline run failed", "session", sess.ID, "error", err)
		return
	}

	metrics.RecordSession(outcome)
}

func (o *Orchestrator) execute(ctx context.Context, sess *sessions.Session) (string, error) {
	completed, err := o.ledger.CompletedStages(ctx, sess.ID)
	if err != nil {
		return "", fmt.Errorf("load resume checkpoint: %w", err)
	}

	st := restoreState(sess)

	if err := o.ensure(ctx, sess, completed, StageClassify, nil, func(ctx context.Context) (any, error) {
		return o.classify(ctx, sess, st)
	}); err != nil {
		return "", err
	}

	if err := o.ensure(ctx, sess, completed, StageContinueCheck, st.label, func(ctx context.Context) (any, error) {
		st.decision = Decide(st.label)
		return st.decision, nil
	}); err != nil {
		return "", err
	}

	if !st.decision.Continue {
		o.logger.Info("pipeline stopped by continuation gate",
			"session", sess.ID, "label", st.label, "rationale", st.decision.Rationale)
		if err := o.sessions.Complete(ctx, sess.ID); err != nil {
			return "", err
		}
		return metrics.OutcomeNoAction, nil
	}

	for _, stage := range PlanStages(st.decision.Route) {
		if err := o.ensure(ctx, sess, completed, stage, nil, o.stageFunc(stage, sess, st)); err != nil {
			return "", err
		}
	}

	if err := o.sessions.Complete(ctx, sess.ID); err != nil {
		return "", err
	}
	if err := o.workflow.MarkReviewReady(ctx, sess.ID); err != nil {
		return "", fmt.Errorf("mark review ready: %w", err)
	}

	o.logger.Info("pipeline run completed", "session", sess.ID, "route", st.decision.Route)
	return metrics.OutcomeCompleted, nil
}

// ensure runs a stage unless the resume checkpoint already shows it
// succeeded. Cancellation is honored at stage boundaries only; an in-flight
// stage completes or times out on its own.
func (o *Orchestrator) ensure(
	ctx context.Context,
	sess *sessions.Session,
	completed map[string]bool,
	stage string,
	input any,
	fn func(context.Context) (any, error),
) error {
	if completed[stage] {
		o.logger.Debug("stage already completed, skipping", "session", sess.ID, "stage", stage)
		return nil
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("cancelled before stage %s: %w", stage, err)
	}

	return o.runStage(ctx, sess, stage, input, fn)
}

// runStage wraps one stage invocation in its ledger record. The record is
// closed on every exit path, including panics inside the stage function.
func (o *Orchestrator) runStage(
	ctx context.Context,
	sess *sessions.Session,
	stage string,
	input any,
	fn func(context.Context) (any, error),
) (err error) {
	inputJSON := marshalSummary(input)

	execID, err := o.ledger.Begin(ctx, sess.ID, stage, inputJSON)
	if err != nil {
		// the durability layer itself is unavailable; this is fatal to the
		// run, not swallowed
		return fmt.Errorf("open ledger entry for %s: %w", stage, err)
	}

	start := time.Now()
	var output any

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("stage %s panicked: %v", stage, rec)
		}

		success := err == nil
		detail := ""
		if err != nil {
			detail = err.Error()
		}

		closeCtx := context.WithoutCancel(ctx)
		if closeErr := o.ledger.Complete(closeCtx, execID, success, marshalSummary(output), detail); closeErr != nil {
			o.logger.Error("close ledger entry failed", "execution", execID, "stage", stage, "error", closeErr)
		}
		metrics.ObserveStage(stage, time.Since(start), success)
	}()

	stageCtx := ctx
	if o.cfg.StageTimeout > 0 {
		var cancel context.CancelFunc
		stageCtx, cancel = context.WithTimeout(ctx, o.cfg.StageTimeout)
		defer cancel()
	}

	output, err = fn(stageCtx)
	if err != nil {
		return fmt.Errorf("stage %s: %w", stage, err)
	}

	checkpoint := marshalSummary(output)
	if err = o.sessions.SaveStageResult(ctx, sess.ID, stage, checkpoint); err != nil {
		return fmt.Errorf("checkpoint stage %s: %w", stage, err)
	}

	o.logger.Debug("stage completed",
		"session", sess.ID, "stage", stage,
		"duration", time.Since(start),
		"checkpoint", formatting.FormatBytes(int64(len(checkpoint)), 1))

	return nil
}

func marshalSummary(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return raw
}
