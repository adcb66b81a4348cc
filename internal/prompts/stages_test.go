package prompts_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/inboundflow/courier/internal/prompts"
)

func TestParseStage(t *testing.T) {
	for _, stage := range prompts.Stages() {
		parsed, err := prompts.ParseStage(string(stage))
		if err != nil {
			t.Errorf("%s: parse failed: %v", stage, err)
		}
		if parsed != stage {
			t.Errorf("parse: got %s, want %s", parsed, stage)
		}
	}
}

func TestParseStageInvalid(t *testing.T) {
	if _, err := prompts.ParseStage("continue_check"); !errors.Is(err, prompts.ErrInvalidStage) {
		t.Errorf("continue_check has no prompt stage, expected ErrInvalidStage, got %v", err)
	}
	if _, err := prompts.ParseStage(""); !errors.Is(err, prompts.ErrInvalidStage) {
		t.Errorf("empty stage: expected ErrInvalidStage, got %v", err)
	}
}

func TestStageUnmarshalJSON(t *testing.T) {
	var s prompts.Stage
	if err := json.Unmarshal([]byte(`"classify"`), &s); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if s != prompts.StageClassify {
		t.Errorf("got %s, want %s", s, prompts.StageClassify)
	}

	if err := json.Unmarshal([]byte(`"bogus"`), &s); err == nil {
		t.Error("expected error for unknown stage")
	}
}

func TestDefaultInstructionsCoverAllStages(t *testing.T) {
	for _, stage := range prompts.Stages() {
		text, err := prompts.Instructions(stage)
		if err != nil {
			t.Errorf("%s: instructions: %v", stage, err)
		}
		if text == "" {
			t.Errorf("%s: empty default instructions", stage)
		}
	}
}

func TestOutputSpecsCoverAllStages(t *testing.T) {
	for _, stage := range prompts.Stages() {
		spec, err := prompts.Spec(stage)
		if err != nil {
			t.Errorf("%s: spec: %v", stage, err)
		}
		if spec == "" {
			t.Errorf("%s: empty output spec", stage)
		}
	}
}
