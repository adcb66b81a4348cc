package sessions

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/inboundflow/courier/pkg/pagination"
)

// BeginCommand carries the inbound email content needed to open a session.
type BeginCommand struct {
	ExternalID  string `json:"external_id"`
	SenderEmail string `json:"sender_email"`
	SenderName  string `json:"sender_name"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
}

// Requeuer re-runs a failed session through the pipeline, resuming from
// its last successfully completed stage.
type Requeuer interface {
	Requeue(ctx context.Context, id uuid.UUID) error
}

// System defines the public contract for session domain operations.
type System interface {
	Handler(requeuer Requeuer) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Session], error)

	Find(ctx context.Context, id uuid.UUID) (*Session, error)

	// Begin atomically records the fingerprint and opens a session for an
	// inbound email, creating its review state row in the same transaction.
	// Returns created=false with a nil session when the fingerprint was
	// already recorded; duplicate delivery is not an error.
	Begin(ctx context.Context, cmd BeginCommand) (*Session, bool, error)

	// SaveStageResult merges one stage's output into the session checkpoint.
	SaveStageResult(ctx context.Context, id uuid.UUID, stage string, result json.RawMessage) error

	// SetLabel records the classification label on the session.
	SetLabel(ctx context.Context, id uuid.UUID, label string) error

	Complete(ctx context.Context, id uuid.UUID) error
	Fail(ctx context.Context, id uuid.UUID, reason string) error

	// MarkProcessing flips a failed session back to processing ahead of a
	// requeue. Returns ErrNotRequeueable when the session is not failed.
	MarkProcessing(ctx context.Context, id uuid.UUID) error

	// CountByStatus reports how many sessions currently hold a status.
	CountByStatus(ctx context.Context, status Status) (int, error)
}
