// Package pipeline implements the orchestration core for Courier: the
// polling loop, the per-session stage sequence, routing between the standard
// and rejection drafting paths, retry policy, and checkpointed resume.
package pipeline

// Stage names. These key the execution ledger and the session checkpoint, so
// they are stable identifiers, not display strings.
const (
	StageClassify          = "classify"
	StageContinueCheck     = "continue_check"
	StageQueryGeneration   = "query_generation"
	StageRetrieve          = "retrieve"
	StageExtract           = "extract"
	StageDraftGeneration   = "draft_generation"
	StageRejectionAnalysis = "rejection_analysis"
	StageRejectionDraft    = "rejection_draft"
	StageDraftEditing      = "draft_editing"
	StageNotification      = "review_notification"
)

// Classification labels produced by the classify capability.
const (
	LabelNoGuests               = "No Guests"
	LabelIdentityRejection      = "Identity-based rejection"
	LabelTopicRejection         = "Topic-based rejection"
	LabelQualificationRejection = "Qualification-based rejection"
	LabelPayToPlay              = "Pay-to-Play"
	LabelAccepted               = "Accepted"
	LabelConditional            = "Conditional"
	LabelOthers                 = "Others"
)

// Routes chosen by the continuation gate.
const (
	RouteStandard  = "standard"
	RouteRejection = "rejection"
	RouteNone      = "none"
)

// Decision is the output of the continuation gate: whether processing
// continues, which drafting path it takes, and why.
type Decision struct {
	Continue  bool   `json:"continue"`
	Route     string `json:"route"`
	Rationale string `json:"rationale"`
}

// Decide evaluates the continuation policy for a classification label.
// A pure decision: no external call, never fails.
func Decide(label string) Decision {
	switch label {
	case LabelNoGuests:
		return Decision{
			Continue:  false,
			Route:     RouteNone,
			Rationale: "show takes no guests; a reply would be a dead end",
		}
	case LabelIdentityRejection, LabelTopicRejection, LabelQualificationRejection:
		return Decision{
			Continue:  true,
			Route:     RouteRejection,
			Rationale: "rejection worth analyzing; a challenge reply may keep the relationship alive",
		}
	case LabelPayToPlay, LabelAccepted, LabelConditional, LabelOthers:
		return Decision{
			Continue:  true,
			Route:     RouteStandard,
			Rationale: "response warrants a drafted reply",
		}
	default:
		// unrecognized or low-confidence labels fall back to the rejection
		// path rather than aborting the run
		return Decision{
			Continue:  true,
			Route:     RouteRejection,
			Rationale: "unrecognized label; routed to rejection analysis as fallback",
		}
	}
}

// PlanStages returns the remaining stage order for a route, after the
// classify and continuation stages shared by every run.
func PlanStages(route string) []string {
	switch route {
	case RouteStandard:
		return []string{
			StageQueryGeneration,
			StageRetrieve,
			StageExtract,
			StageDraftGeneration,
			StageDraftEditing,
			StageNotification,
		}
	case RouteRejection:
		return []string{
			StageRejectionAnalysis,
			StageRejectionDraft,
			StageDraftEditing,
			StageNotification,
		}
	default:
		return nil
	}
}
