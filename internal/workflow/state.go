// Package workflow implements the review lifecycle state machine for Courier.
// The transition table itself is pure and testable without a database; the
// repository applies transitions with compare-and-set updates so concurrent
// feedback events for the same session serialize correctly.
package workflow

import (
	"time"

	"github.com/google/uuid"
)

// State represents the review lifecycle state of a session.
type State string

// Valid lifecycle states.
const (
	StateProcessing    State = "processing"
	StatePendingReview State = "pending_review"
	StateApproved      State = "approved"
	StateEdited        State = "edited"
	StateRejected      State = "rejected"
	StateSent          State = "sent"
	StateArchived      State = "archived"
)

// WorkflowState is the lifecycle record for a session, created in the same
// transaction as the session itself. CurrentStep is a free-text label for
// dashboards; AssignedTo and Deadline are informational review metadata and
// never gate a transition.
type WorkflowState struct {
	SessionID   uuid.UUID  `json:"session_id"`
	State       State      `json:"state"`
	CurrentStep string     `json:"current_step"`
	NextActions []string   `json:"next_actions"`
	AssignedTo  *string    `json:"assigned_to"`
	Deadline    *time.Time `json:"deadline"`
	ReviewedAt  *time.Time `json:"reviewed_at"`
	ArchivedAt  *time.Time `json:"archived_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
