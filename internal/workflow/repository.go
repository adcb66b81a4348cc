package workflow

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/inboundflow/courier/internal/capabilities"
	"github.com/inboundflow/courier/internal/metrics"
	"github.com/inboundflow/courier/pkg/pagination"
	"github.com/inboundflow/courier/pkg/query"
	"github.com/inboundflow/courier/pkg/repository"
)

const stateColumns = `session_id, state, current_step, assigned_to, deadline,
		reviewed_at, archived_at, created_at, updated_at`

type repo struct {
	db         *sql.DB
	sender     capabilities.Sender
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a workflow repository implementing the System interface.
// sender may be nil when no sending collaborator is configured.
func New(
	db *sql.DB,
	sender capabilities.Sender,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		sender:     sender,
		logger:     logger.With("system", "workflow"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[WorkflowState], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(projection, defaultSort)
	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count workflow states: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	states, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanState)
	if err != nil {
		return nil, fmt.Errorf("query workflow states: %w", err)
	}

	result := pagination.NewPageResult(states, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, sessionID uuid.UUID) (*WorkflowState, error) {
	q, args := query.NewBuilder(projection).BuildSingle("SessionID", sessionID)

	w, err := repository.QueryOne(ctx, r.db, q, args, scanState)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &w, nil
}

func (r *repo) MarkReviewReady(ctx context.Context, sessionID uuid.UUID) error {
	// compare-and-set so a recovered or already-reviewed session is never
	// dragged back to pending_review. The deadline is informational only;
	// nothing transitions a session when it lapses.
	q := `
		UPDATE workflow_states
		SET state = 'pending_review',
		    current_step = 'awaiting_review',
		    deadline = now() + interval '24 hours',
		    updated_at = now()
		WHERE session_id = $1 AND state = 'processing'`

	if err := repository.ExecExpectOne(ctx, r.db, q, sessionID); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("session pending review", "session", sessionID)
	return nil
}

func (r *repo) ApplyFeedback(ctx context.Context, cmd FeedbackCommand) (*FeedbackEvent, error) {
	if cmd.Rating != nil && (*cmd.Rating < 1 || *cmd.Rating > 5) {
		return nil, ErrInvalidRating
	}

	ev, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (FeedbackEvent, error) {
		// the row lock serializes concurrent feedback for the same session,
		// so the transition table is never evaluated against a stale state
		var current State
		err := tx.QueryRowContext(
			ctx,
			"SELECT state FROM workflow_states WHERE session_id = $1 FOR UPDATE",
			cmd.SessionID,
		).Scan(&current)
		if err != nil {
			return FeedbackEvent{}, err
		}

		next, applied := Next(current, cmd.Action.Event())
		if applied {
			// approval resolves the review window, so the deadline clears
			_, err = tx.ExecContext(
				ctx,
				`UPDATE workflow_states
				 SET state = $2,
				     current_step = $2,
				     deadline = CASE WHEN $2 = 'approved' THEN NULL ELSE deadline END,
				     reviewed_at = now(), updated_at = now()
				 WHERE session_id = $1`,
				cmd.SessionID, next,
			)
			if err != nil {
				return FeedbackEvent{}, fmt.Errorf("apply transition: %w", err)
			}
		}

		insertQ := `
			INSERT INTO feedback_events(session_id, action, rating, edited_draft, note, reviewer, applied)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING ` + feedbackColumns

		args := []any{cmd.SessionID, cmd.Action, cmd.Rating, cmd.EditedDraft, cmd.Note, cmd.Reviewer, applied}
		return repository.QueryOne(ctx, tx, insertQ, args, scanFeedback)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	metrics.RecordFeedback(string(ev.Action), ev.Applied)

	if ev.Applied {
		r.logger.Info("feedback applied", "session", ev.SessionID, "action", ev.Action)
		if ev.Action == ActionApprove || ev.Action == ActionEdit {
			r.submitDraft(ctx, &ev)
		}
	} else {
		r.logger.Info("feedback recorded without transition", "session", ev.SessionID, "action", ev.Action)
	}

	return &ev, nil
}

// submitDraft hands the reviewed draft to the sending collaborator. Best
// effort: the lifecycle only reaches sent via the collaborator's own
// confirmation, so a submission failure is logged, not propagated.
func (r *repo) submitDraft(ctx context.Context, ev *FeedbackEvent) {
	if r.sender == nil {
		return
	}

	var (
		to      string
		subject string
		draft   *string
	)
	err := r.db.QueryRowContext(
		ctx,
		`SELECT sender_email, subject, stage_results #>> '{draft_editing,draft}'
		 FROM sessions WHERE id = $1`,
		ev.SessionID,
	).Scan(&to, &subject, &draft)
	if err != nil {
		r.logger.Error("load draft for submission failed", "session", ev.SessionID, "error", err)
		return
	}

	body := ""
	if draft != nil {
		body = *draft
	}
	if ev.Action == ActionEdit && ev.EditedDraft != nil {
		body = *ev.EditedDraft
	}
	if body == "" {
		r.logger.Warn("no draft content to submit", "session", ev.SessionID)
		return
	}

	if err := r.sender.SubmitDraft(ctx, ev.SessionID, to, "Re: "+subject, body); err != nil {
		r.logger.Error("draft submission failed", "session", ev.SessionID, "error", err)
	}
}

func (r *repo) ConfirmSent(ctx context.Context, sessionID uuid.UUID) (*WorkflowState, error) {
	q := `
		UPDATE workflow_states
		SET state = 'sent', current_step = 'sent', updated_at = now()
		WHERE session_id = $1 AND state IN ('approved', 'edited')
		RETURNING ` + stateColumns

	w, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (WorkflowState, error) {
		return repository.QueryOne(ctx, tx, q, []any{sessionID}, scanState)
	})

	if err != nil {
		mapped := repository.MapError(err, ErrNotFound, ErrDuplicate)
		if errors.Is(mapped, ErrNotFound) {
			// distinguish a missing session from an illegal confirmation
			if _, findErr := r.Find(ctx, sessionID); findErr == nil {
				return nil, ErrNotSendable
			}
		}
		return nil, mapped
	}

	r.logger.Info("session sent", "session", sessionID)
	return &w, nil
}

func (r *repo) Assign(ctx context.Context, sessionID uuid.UUID, assignee string) (*WorkflowState, error) {
	// an empty assignee releases the session back to the shared queue
	q := `
		UPDATE workflow_states
		SET assigned_to = NULLIF($2, ''), updated_at = now()
		WHERE session_id = $1
		RETURNING ` + stateColumns

	w, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (WorkflowState, error) {
		return repository.QueryOne(ctx, tx, q, []any{sessionID, assignee}, scanState)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("session assigned", "session", sessionID, "assignee", assignee)
	return &w, nil
}

func (r *repo) ListFeedback(ctx context.Context, sessionID uuid.UUID) ([]FeedbackEvent, error) {
	q := `
		SELECT ` + feedbackColumns + `
		FROM feedback_events
		WHERE session_id = $1
		ORDER BY created_at, id`

	events, err := repository.QueryMany(ctx, r.db, q, []any{sessionID}, scanFeedback)
	if err != nil {
		return nil, fmt.Errorf("query feedback events: %w", err)
	}
	return events, nil
}

func (r *repo) ArchiveExpired(ctx context.Context, retention time.Duration) (int, error) {
	// the state list is the archival guard: an unreviewed session is never
	// silently archived
	q := `
		UPDATE workflow_states
		SET state = 'archived', current_step = 'archived',
		    archived_at = now(), updated_at = now()
		WHERE state IN ('approved', 'rejected', 'sent')
		  AND updated_at < now() - make_interval(secs => $1)`

	result, err := r.db.ExecContext(ctx, q, retention.Seconds())
	if err != nil {
		return 0, fmt.Errorf("archive expired sessions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	if rows > 0 {
		r.logger.Info("sessions archived", "count", rows)
	}
	return int(rows), nil
}
