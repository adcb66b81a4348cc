package workflow

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Action represents a reviewer decision carried by a feedback event.
type Action string

// Valid feedback actions.
const (
	ActionApprove Action = "approve"
	ActionEdit    Action = "edit"
	ActionReject  Action = "reject"
)

var actions = []Action{ActionApprove, ActionEdit, ActionReject}

// Event returns the lifecycle event a feedback action maps to.
func (a Action) Event() Event {
	switch a {
	case ActionApprove:
		return EventApprove
	case ActionEdit:
		return EventEdit
	default:
		return EventReject
	}
}

// UnmarshalJSON validates that the decoded string is a known action.
func (a *Action) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := Action(raw)
	if !slices.Contains(actions, v) {
		return ErrInvalidAction
	}
	*a = v
	return nil
}

// FeedbackEvent records one reviewer decision. Every event is persisted for
// audit; Applied reports whether it actually produced a transition. An event
// arriving while the session is not pending review is recorded with
// Applied=false and ignored for transition purposes.
type FeedbackEvent struct {
	ID          int64     `json:"id"`
	SessionID   uuid.UUID `json:"session_id"`
	Action      Action    `json:"action"`
	Rating      *int      `json:"rating"`
	EditedDraft *string   `json:"edited_draft"`
	Note        *string   `json:"note"`
	Reviewer    string    `json:"reviewer"`
	Applied     bool      `json:"applied"`
	CreatedAt   time.Time `json:"created_at"`
}

// FeedbackCommand carries a reviewer decision arriving from the review channel.
type FeedbackCommand struct {
	SessionID   uuid.UUID `json:"session_id"`
	Action      Action    `json:"action"`
	Rating      *int      `json:"rating"`
	EditedDraft *string   `json:"edited_draft"`
	Note        *string   `json:"note"`
	Reviewer    string    `json:"reviewer"`
}
