package sessions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/inboundflow/courier/pkg/pagination"
	"github.com/inboundflow/courier/pkg/query"
	"github.com/inboundflow/courier/pkg/repository"
)

const sessionColumns = `id, fingerprint, external_id, sender_email, sender_name,
		subject, body, label, status, failure_reason, stage_results,
		processing_started_at, processing_completed_at, total_duration_ms,
		created_at, updated_at`

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a session repository implementing the System interface.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "sessions"),
		pagination: pagination,
	}
}

func (r *repo) Handler(requeuer Requeuer) *Handler {
	return NewHandler(r, requeuer, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Session], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "SenderEmail", "SenderName", "Subject")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	sessions, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanSession)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}

	result := pagination.NewPageResult(sessions, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Session, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	s, err := repository.QueryOne(ctx, r.db, q, args, scanSession)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &s, nil
}

func (r *repo) Begin(ctx context.Context, cmd BeginCommand) (*Session, bool, error) {
	fp := Fingerprint(cmd.SenderEmail, cmd.Subject, cmd.Body)

	q := `
		INSERT INTO sessions(fingerprint, external_id, sender_email, sender_name, subject, body)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (fingerprint) DO NOTHING
		RETURNING ` + sessionColumns

	args := []any{fp, cmd.ExternalID, cmd.SenderEmail, cmd.SenderName, cmd.Subject, cmd.Body}

	s, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Session, error) {
		sess, err := repository.QueryOne(ctx, tx, q, args, scanSession)
		if err != nil {
			return Session{}, err
		}

		// the review state row is created with the session so the two
		// are never observed apart
		_, err = tx.ExecContext(
			ctx,
			"INSERT INTO workflow_states(session_id, state) VALUES ($1, 'processing')",
			sess.ID,
		)
		if err != nil {
			return Session{}, fmt.Errorf("init workflow state: %w", err)
		}

		return sess, nil
	})

	if errors.Is(err, sql.ErrNoRows) {
		// fingerprint already recorded by an earlier delivery
		r.logger.Info("duplicate inbound item skipped", "fingerprint", fp, "sender", cmd.SenderEmail)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("begin session: %w", err)
	}

	r.logger.Info("session opened", "id", s.ID, "sender", s.SenderEmail, "subject", s.Subject)
	return &s, true, nil
}

func (r *repo) SaveStageResult(ctx context.Context, id uuid.UUID, stage string, result json.RawMessage) error {
	q := `
		UPDATE sessions
		SET stage_results = stage_results || jsonb_build_object($2::text, $3::jsonb),
		    updated_at = now()
		WHERE id = $1`

	if err := repository.ExecExpectOne(ctx, r.db, q, id, stage, []byte(result)); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

func (r *repo) SetLabel(ctx context.Context, id uuid.UUID, label string) error {
	q := "UPDATE sessions SET label = $2, updated_at = now() WHERE id = $1"

	if err := repository.ExecExpectOne(ctx, r.db, q, id, label); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

func (r *repo) Complete(ctx context.Context, id uuid.UUID) error {
	q := `
		UPDATE sessions
		SET status = 'completed', failure_reason = NULL,
		    processing_completed_at = now(),
		    total_duration_ms = (extract(epoch FROM now() - processing_started_at) * 1000)::bigint,
		    updated_at = now()
		WHERE id = $1`

	if err := repository.ExecExpectOne(ctx, r.db, q, id); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("session completed", "id", id)
	return nil
}

func (r *repo) Fail(ctx context.Context, id uuid.UUID, reason string) error {
	q := `
		UPDATE sessions
		SET status = 'failed', failure_reason = $2,
		    processing_completed_at = now(),
		    total_duration_ms = (extract(epoch FROM now() - processing_started_at) * 1000)::bigint,
		    updated_at = now()
		WHERE id = $1`

	if err := repository.ExecExpectOne(ctx, r.db, q, id, reason); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Warn("session failed", "id", id, "reason", reason)
	return nil
}

func (r *repo) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	// the status guard keeps requeue from racing an active run
	q := `
		UPDATE sessions
		SET status = 'processing', failure_reason = NULL,
		    processing_started_at = now(),
		    processing_completed_at = NULL,
		    total_duration_ms = NULL,
		    updated_at = now()
		WHERE id = $1 AND status = 'failed'`

	err := repository.ExecExpectOne(ctx, r.db, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		if _, findErr := r.Find(ctx, id); findErr != nil {
			return findErr
		}
		return ErrNotRequeueable
	}
	return err
}

func (r *repo) CountByStatus(ctx context.Context, status Status) (int, error) {
	var count int
	err := r.db.QueryRowContext(
		ctx,
		"SELECT count(*) FROM sessions WHERE status = $1",
		status,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count sessions by status: %w", err)
	}
	return count, nil
}
