package workflow_test

import (
	"slices"
	"testing"

	"github.com/inboundflow/courier/internal/workflow"
)

func TestNextLegalTransitions(t *testing.T) {
	cases := []struct {
		from  workflow.State
		event workflow.Event
		to    workflow.State
	}{
		{workflow.StateProcessing, workflow.EventPipelineSucceeded, workflow.StatePendingReview},
		{workflow.StatePendingReview, workflow.EventApprove, workflow.StateApproved},
		{workflow.StatePendingReview, workflow.EventEdit, workflow.StateEdited},
		{workflow.StatePendingReview, workflow.EventReject, workflow.StateRejected},
		{workflow.StateApproved, workflow.EventConfirmSent, workflow.StateSent},
		{workflow.StateEdited, workflow.EventConfirmSent, workflow.StateSent},
		{workflow.StateApproved, workflow.EventRetentionElapsed, workflow.StateArchived},
		{workflow.StateRejected, workflow.EventRetentionElapsed, workflow.StateArchived},
		{workflow.StateSent, workflow.EventRetentionElapsed, workflow.StateArchived},
	}

	for _, tc := range cases {
		got, ok := workflow.Next(tc.from, tc.event)
		if !ok {
			t.Errorf("%s + %s: expected legal transition", tc.from, tc.event)
			continue
		}
		if got != tc.to {
			t.Errorf("%s + %s: got %s, want %s", tc.from, tc.event, got, tc.to)
		}
	}
}

func TestNextIllegalTransitions(t *testing.T) {
	cases := []struct {
		from  workflow.State
		event workflow.Event
	}{
		// reviewer decisions are only valid while pending review
		{workflow.StateProcessing, workflow.EventApprove},
		{workflow.StateApproved, workflow.EventApprove},
		{workflow.StateRejected, workflow.EventEdit},
		{workflow.StateSent, workflow.EventReject},
		// rejected drafts are never sent
		{workflow.StateRejected, workflow.EventConfirmSent},
		{workflow.StatePendingReview, workflow.EventConfirmSent},
		// unreviewed sessions are never archived
		{workflow.StateProcessing, workflow.EventRetentionElapsed},
		{workflow.StatePendingReview, workflow.EventRetentionElapsed},
		// terminal state
		{workflow.StateArchived, workflow.EventApprove},
		{workflow.StateArchived, workflow.EventRetentionElapsed},
	}

	for _, tc := range cases {
		got, ok := workflow.Next(tc.from, tc.event)
		if ok {
			t.Errorf("%s + %s: expected illegal transition, got %s", tc.from, tc.event, got)
		}
		if got != tc.from {
			t.Errorf("%s + %s: illegal transition must keep state, got %s", tc.from, tc.event, got)
		}
	}
}

func TestNextIsIdempotentForRepeatedFeedback(t *testing.T) {
	state, ok := workflow.Next(workflow.StatePendingReview, workflow.EventApprove)
	if !ok || state != workflow.StateApproved {
		t.Fatalf("first approve: got %s, ok=%v", state, ok)
	}

	// the same decision delivered again finds the session already approved
	again, ok := workflow.Next(state, workflow.EventApprove)
	if ok {
		t.Errorf("second approve should be illegal, got %s", again)
	}
	if again != workflow.StateApproved {
		t.Errorf("second approve must not move state, got %s", again)
	}
}

func TestLegalActions(t *testing.T) {
	cases := []struct {
		state workflow.State
		want  []string
	}{
		{workflow.StatePendingReview, []string{"approve", "edit", "reject"}},
		{workflow.StateApproved, []string{"confirm_sent"}},
		{workflow.StateEdited, []string{"confirm_sent"}},
		{workflow.StateProcessing, []string{}},
		{workflow.StateRejected, []string{}},
		{workflow.StateSent, []string{}},
		{workflow.StateArchived, []string{}},
	}

	for _, tc := range cases {
		got := workflow.LegalActions(tc.state)
		if !slices.Equal(got, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.state, got, tc.want)
		}
	}
}
