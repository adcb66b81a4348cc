package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/inboundflow/courier/pkg/pagination"
)

// System defines the public contract for workflow lifecycle operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[WorkflowState], error)

	Find(ctx context.Context, sessionID uuid.UUID) (*WorkflowState, error)

	// MarkReviewReady transitions processing to pending_review after a
	// successful pipeline run. Any other current state is left untouched.
	MarkReviewReady(ctx context.Context, sessionID uuid.UUID) error

	// ApplyFeedback records a reviewer decision and applies the resulting
	// transition when the session is pending review. Events arriving in any
	// other state are persisted for audit with Applied=false; duplicate
	// delivery of the same decision therefore changes state at most once.
	ApplyFeedback(ctx context.Context, cmd FeedbackCommand) (*FeedbackEvent, error)

	// ConfirmSent transitions approved or edited to sent, on confirmation
	// from the sending collaborator.
	ConfirmSent(ctx context.Context, sessionID uuid.UUID) (*WorkflowState, error)

	// Assign records the reviewer a session is routed to. An empty assignee
	// clears the assignment. Informational only: any reviewer may still act.
	Assign(ctx context.Context, sessionID uuid.UUID, assignee string) (*WorkflowState, error)

	// ListFeedback returns a session's feedback events in arrival order.
	ListFeedback(ctx context.Context, sessionID uuid.UUID) ([]FeedbackEvent, error)

	// ArchiveExpired archives reviewed sessions whose retention window has
	// elapsed. Sessions still processing or pending review are never
	// archived. Returns the number of sessions archived.
	ArchiveExpired(ctx context.Context, retention time.Duration) (int, error)
}
