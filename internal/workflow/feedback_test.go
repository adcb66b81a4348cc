package workflow_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/inboundflow/courier/internal/workflow"
)

func TestActionEventMapping(t *testing.T) {
	cases := []struct {
		action workflow.Action
		event  workflow.Event
	}{
		{workflow.ActionApprove, workflow.EventApprove},
		{workflow.ActionEdit, workflow.EventEdit},
		{workflow.ActionReject, workflow.EventReject},
	}

	for _, tc := range cases {
		if got := tc.action.Event(); got != tc.event {
			t.Errorf("%s: got %s, want %s", tc.action, got, tc.event)
		}
	}
}

func TestActionUnmarshalJSON(t *testing.T) {
	var a workflow.Action
	if err := json.Unmarshal([]byte(`"approve"`), &a); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if a != workflow.ActionApprove {
		t.Errorf("got %s, want approve", a)
	}

	err := json.Unmarshal([]byte(`"escalate"`), &a)
	if !errors.Is(err, workflow.ErrInvalidAction) {
		t.Errorf("unknown action: got %v, want ErrInvalidAction", err)
	}
}

func TestFeedbackCommandDecodesRating(t *testing.T) {
	raw := `{"session_id":"6b9f67ad-9d21-4f5b-9d2e-0a4b5c3e2f10","action":"edit","rating":4,"edited_draft":"fixed","reviewer":"sam"}`

	var cmd workflow.FeedbackCommand
	if err := json.Unmarshal([]byte(raw), &cmd); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if cmd.Action != workflow.ActionEdit {
		t.Errorf("action: got %s, want edit", cmd.Action)
	}
	if cmd.Rating == nil || *cmd.Rating != 4 {
		t.Errorf("rating: got %v, want 4", cmd.Rating)
	}
	if cmd.EditedDraft == nil || *cmd.EditedDraft != "fixed" {
		t.Errorf("edited_draft: got %v", cmd.EditedDraft)
	}
}
