package ledger

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// System defines the public contract for ledger operations.
type System interface {
	Handler() *Handler

	// Begin opens an execution record for a stage invocation.
	Begin(ctx context.Context, sessionID uuid.UUID, stage string, input json.RawMessage) (int64, error)

	// Complete closes an execution record. Duration is computed from the
	// recorded start time. Every Begin must be paired with a Complete on
	// every exit path; errDetail is ignored when success is true.
	Complete(ctx context.Context, id int64, success bool, output json.RawMessage, errDetail string) error

	// ListBySession returns a session's executions in start order.
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]Execution, error)

	// CompletedStages returns the set of stage names that have at least one
	// successful execution for the session. Requeued sessions resume from
	// this checkpoint.
	CompletedStages(ctx context.Context, sessionID uuid.UUID) (map[string]bool, error)

	// RecoverStale closes executions left open past the threshold as failed
	// and marks their parent sessions failed. Returns the number of
	// executions recovered.
	RecoverStale(ctx context.Context, threshold time.Duration) (int, error)
}
