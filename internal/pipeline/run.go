package pipeline

import (
	"encoding/json"

	"github.com/inboundflow/courier/internal/sessions"
)

// Stage result shapes persisted into the session checkpoint. The checkpoint
// is the resume source for requeued sessions, so these are stable contracts,
// not internal scratch types.
type classifyResult struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

type queryResult struct {
	Query string `json:"query"`
}

type retrieveResult struct {
	Threads []string `json:"threads"`
}

type extractResult struct {
	Matched bool   `json:"matched"`
	Content string `json:"content"`
	Ref     string `json:"ref"`
}

type strategyResult struct {
	Kind   string   `json:"kind"`
	Angles []string `json:"angles"`
}

type draftResult struct {
	Draft string `json:"draft"`
}

type notifyResult struct {
	Summary string `json:"summary"`
	Ref     string `json:"ref"`
}

// runState is the working memory of one pipeline run. Each stage reads only
// fields populated by earlier stages of the same session and writes its own.
type runState struct {
	label      string
	confidence float64
	decision   Decision
	query      string
	threads    []string
	doc        extractResult
	strategy   strategyResult
	draft      string
	edited     string
}

// restoreState rebuilds working memory from the session checkpoint so a
// requeued session resumes from its last successfully completed stage.
func restoreState(s *sessions.Session) *runState {
	st := &runState{}

	decode := func(stage string, v any) bool {
		raw, ok := s.StageResults[stage]
		if !ok {
			return false
		}
		return json.Unmarshal(raw, v) == nil
	}

	var cr classifyResult
	if decode(StageClassify, &cr) {
		st.label = cr.Label
		st.confidence = cr.Confidence
	}

	decode(StageContinueCheck, &st.decision)

	var qr queryResult
	if decode(StageQueryGeneration, &qr) {
		st.query = qr.Query
	}

	var rr retrieveResult
	if decode(StageRetrieve, &rr) {
		st.threads = rr.Threads
	}

	decode(StageExtract, &st.doc)
	decode(StageRejectionAnalysis, &st.strategy)

	var dr draftResult
	if decode(StageDraftGeneration, &dr) {
		st.draft = dr.Draft
	}
	if decode(StageRejectionDraft, &dr) {
		st.draft = dr.Draft
	}
	if decode(StageDraftEditing, &dr) {
		st.edited = dr.Draft
	}

	return st
}
