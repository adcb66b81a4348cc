// Package ledger implements the node execution ledger for Courier.
// Every pipeline stage invocation produces exactly one execution record:
// opened before the stage runs and closed on every exit path, including
// panics and process crashes (the latter via the stale recovery sweep).
package ledger

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Execution records one pipeline stage invocation for a session.
// CompletedAt, DurationMS, and Success remain null while the stage is in
// flight; an execution left open past the staleness threshold is closed as
// failed by the recovery sweep.
type Execution struct {
	ID          int64           `json:"id"`
	SessionID   uuid.UUID       `json:"session_id"`
	Stage       string          `json:"stage"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at"`
	DurationMS  *int64          `json:"duration_ms"`
	Success     *bool           `json:"success"`
	Error       *string         `json:"error"`
	Input       json.RawMessage `json:"input"`
	Output      json.RawMessage `json:"output"`
}
