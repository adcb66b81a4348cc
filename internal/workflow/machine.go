package workflow

// Event represents a cause of a lifecycle transition.
type Event string

// Valid lifecycle events.
const (
	EventPipelineSucceeded Event = "pipeline_succeeded"
	EventApprove           Event = "approve"
	EventEdit              Event = "edit"
	EventReject            Event = "reject"
	EventConfirmSent       Event = "confirm_sent"
	EventRetentionElapsed  Event = "retention_elapsed"
)

type transition struct {
	from  State
	event Event
}

// The full transition table. Anything not listed is illegal: the event is
// recorded for audit where applicable but produces no state change.
var transitions = map[transition]State{
	{StateProcessing, EventPipelineSucceeded}: StatePendingReview,

	{StatePendingReview, EventApprove}: StateApproved,
	{StatePendingReview, EventEdit}:    StateEdited,
	{StatePendingReview, EventReject}:  StateRejected,

	{StateApproved, EventConfirmSent}: StateSent,
	{StateEdited, EventConfirmSent}:   StateSent,

	// archival is time-driven and never touches an unreviewed session
	{StateApproved, EventRetentionElapsed}: StateArchived,
	{StateRejected, EventRetentionElapsed}: StateArchived,
	{StateSent, EventRetentionElapsed}:     StateArchived,
}

// Next evaluates the transition table. Returns the resulting state and true
// when the event is legal in the current state, and the current state and
// false otherwise.
func Next(from State, event Event) (State, bool) {
	to, ok := transitions[transition{from, event}]
	if !ok {
		return from, false
	}
	return to, true
}

// LegalActions returns the reviewer-facing actions available in a state.
func LegalActions(state State) []string {
	switch state {
	case StatePendingReview:
		return []string{"approve", "edit", "reject"}
	case StateApproved, StateEdited:
		return []string{"confirm_sent"}
	default:
		return []string{}
	}
}
