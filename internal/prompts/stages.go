package prompts

import (
	"encoding/json"
	"slices"
)

// Stage represents a model-backed pipeline stage that a prompt override
// targets. Policy stages that make no model call (the continuation gate)
// have no prompt and are not listed here.
type Stage string

// Valid prompt stages.
const (
	StageClassify          Stage = "classify"
	StageQueryGeneration   Stage = "query_generation"
	StageDraftGeneration   Stage = "draft_generation"
	StageRejectionAnalysis Stage = "rejection_analysis"
	StageRejectionDraft    Stage = "rejection_draft"
	StageDraftEditing      Stage = "draft_editing"
	StageNotification      Stage = "review_notification"
)

var stages = []Stage{
	StageClassify,
	StageQueryGeneration,
	StageDraftGeneration,
	StageRejectionAnalysis,
	StageRejectionDraft,
	StageDraftEditing,
	StageNotification,
}

// Stages returns the list of valid prompt stages.
func Stages() []Stage {
	return stages
}

// ParseStage validates a raw string against the known stage values.
func ParseStage(raw string) (Stage, error) {
	s := Stage(raw)
	if !slices.Contains(stages, s) {
		return "", ErrInvalidStage
	}
	return s, nil
}

// UnmarshalJSON validates that the decoded string is a known stage value.
func (s *Stage) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseStage(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
