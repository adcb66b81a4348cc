package workflow

import (
	"net/url"

	"github.com/inboundflow/courier/pkg/query"
	"github.com/inboundflow/courier/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "workflow_states", "w").
	Project("session_id", "SessionID").
	Project("state", "State").
	Project("current_step", "CurrentStep").
	Project("assigned_to", "AssignedTo").
	Project("deadline", "Deadline").
	Project("reviewed_at", "ReviewedAt").
	Project("archived_at", "ArchivedAt").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field: "created_at",
}

// Filters contains optional filtering criteria for workflow state queries.
type Filters struct {
	State *State `json:"state,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.WhereEquals("State", f.State)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("state"); s != "" {
		state := State(s)
		f.State = &state
	}

	return f
}

func scanState(sc repository.Scanner) (WorkflowState, error) {
	var w WorkflowState
	err := sc.Scan(
		&w.SessionID,
		&w.State,
		&w.CurrentStep,
		&w.AssignedTo,
		&w.Deadline,
		&w.ReviewedAt,
		&w.ArchivedAt,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		return w, err
	}

	// legal actions are derived from state, never stored
	w.NextActions = LegalActions(w.State)
	return w, nil
}

const feedbackColumns = `id, session_id, action, rating, edited_draft,
		note, reviewer, applied, created_at`

func scanFeedback(sc repository.Scanner) (FeedbackEvent, error) {
	var e FeedbackEvent
	err := sc.Scan(
		&e.ID,
		&e.SessionID,
		&e.Action,
		&e.Rating,
		&e.EditedDraft,
		&e.Note,
		&e.Reviewer,
		&e.Applied,
		&e.CreatedAt,
	)
	return e, err
}
