package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/inboundflow/courier/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a ledger repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "ledger"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Begin(ctx context.Context, sessionID uuid.UUID, stage string, input json.RawMessage) (int64, error) {
	q := `
		INSERT INTO node_executions(session_id, stage, input_data)
		VALUES ($1, $2, $3)
		RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, q, sessionID, stage, nullableJSON(input)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("begin execution: %w", err)
	}

	r.logger.Debug("execution opened", "id", id, "session", sessionID, "stage", stage)
	return id, nil
}

func (r *repo) Complete(ctx context.Context, id int64, success bool, output json.RawMessage, errDetail string) error {
	q := `
		UPDATE node_executions
		SET completed_at = now(),
		    duration_ms = (extract(epoch FROM (now() - started_at)) * 1000)::bigint,
		    success = $2,
		    error = $3,
		    output_data = $4
		WHERE id = $1 AND completed_at IS NULL`

	var detail *string
	if !success && errDetail != "" {
		detail = &errDetail
	}

	if err := repository.ExecExpectOne(ctx, r.db, q, id, success, detail, nullableJSON(output)); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Debug("execution closed", "id", id, "success", success)
	return nil
}

func (r *repo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]Execution, error) {
	q := `
		SELECT ` + executionColumns + `
		FROM node_executions
		WHERE session_id = $1
		ORDER BY started_at, id`

	execs, err := repository.QueryMany(ctx, r.db, q, []any{sessionID}, scanExecution)
	if err != nil {
		return nil, fmt.Errorf("query executions: %w", err)
	}
	return execs, nil
}

func (r *repo) CompletedStages(ctx context.Context, sessionID uuid.UUID) (map[string]bool, error) {
	q := `
		SELECT DISTINCT stage
		FROM node_executions
		WHERE session_id = $1 AND success = true`

	rows, err := r.db.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query completed stages: %w", err)
	}
	defer rows.Close()

	stages := make(map[string]bool)
	for rows.Next() {
		var stage string
		if err := rows.Scan(&stage); err != nil {
			return nil, err
		}
		stages[stage] = true
	}

	return stages, rows.Err()
}

func (r *repo) RecoverStale(ctx context.Context, threshold time.Duration) (int, error) {
	recovered, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) ([]uuid.UUID, error) {
		q := `
			UPDATE node_executions
			SET completed_at = now(),
			    duration_ms = (extract(epoch FROM (now() - started_at)) * 1000)::bigint,
			    success = false,
			    error = 'recovered: execution open past staleness threshold'
			WHERE completed_at IS NULL
			  AND started_at < now() - make_interval(secs => $1)
			RETURNING session_id`

		rows, err := tx.QueryContext(ctx, q, threshold.Seconds())
		if err != nil {
			return nil, fmt.Errorf("close stale executions: %w", err)
		}
		defer rows.Close()

		var sessionIDs []uuid.UUID
		for rows.Next() {
			var id uuid.UUID
			if err := rows.Scan(&id); err != nil {
				return nil, err
			}
			sessionIDs = append(sessionIDs, id)
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}

		// a stale execution means the run died mid-stage; the parent session
		// must surface as failed so it can be requeued
		for _, id := range sessionIDs {
			_, err := tx.ExecContext(
				ctx,
				`UPDATE sessions
				 SET status = 'failed',
				     failure_reason = 'recovered: pipeline interrupted mid-stage',
				     processing_completed_at = now(),
				     total_duration_ms = (extract(epoch FROM now() - processing_started_at) * 1000)::bigint,
				     updated_at = now()
				 WHERE id = $1 AND status = 'processing'`,
				id,
			)
			if err != nil {
				return nil, fmt.Errorf("fail interrupted session: %w", err)
			}
		}

		return sessionIDs, nil
	})
	if err != nil {
		return 0, err
	}

	if len(recovered) > 0 {
		r.logger.Warn("recovered stale executions", "count", len(recovered))
	}
	return len(recovered), nil
}

func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
