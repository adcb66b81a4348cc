package api

import (
	"fmt"

	"github.com/inboundflow/courier/internal/config"
	"github.com/inboundflow/courier/pkg/openapi"
)

// buildSpec generates the OpenAPI document for the API module.
func buildSpec(cfg *config.Config) ([]byte, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"Session": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":                      {Type: "string", Format: "uuid"},
				"fingerprint":             {Type: "string", Description: "Content hash used for deduplication"},
				"external_id":             {Type: "string"},
				"sender_email":            {Type: "string"},
				"sender_name":             {Type: "string"},
				"subject":                 {Type: "string"},
				"body":                    {Type: "string"},
				"label":                   {Type: "string"},
				"status":                  {Type: "string", Enum: []any{"processing", "completed", "failed"}},
				"failure_reason":          {Type: "string"},
				"stage_results":           {Type: "object", Description: "Per-stage checkpoint payloads"},
				"processing_started_at":   {Type: "string", Format: "date-time"},
				"processing_completed_at": {Type: "string", Format: "date-time"},
				"total_duration_ms":       {Type: "integer", Format: "int64"},
				"created_at":              {Type: "string", Format: "date-time"},
				"updated_at":              {Type: "string", Format: "date-time"},
			},
		},
		"Execution": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "integer", Format: "int64"},
				"session_id":   {Type: "string", Format: "uuid"},
				"stage":        {Type: "string"},
				"started_at":   {Type: "string", Format: "date-time"},
				"completed_at": {Type: "string", Format: "date-time"},
				"duration_ms":  {Type: "integer", Format: "int64"},
				"success":      {Type: "boolean"},
				"error":        {Type: "string"},
				"input_data":   {Type: "object"},
				"output_data":  {Type: "object"},
			},
		},
		"WorkflowState": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"session_id":   {Type: "string", Format: "uuid"},
				"state":        {Type: "string", Enum: []any{"processing", "pending_review", "approved", "edited", "rejected", "sent", "archived"}},
				"current_step": {Type: "string", Description: "Informational step label for dashboards"},
				"next_actions": {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"assigned_to":  {Type: "string"},
				"deadline":     {Type: "string", Format: "date-time", Description: "Informational review deadline; never triggers a transition"},
				"reviewed_at":  {Type: "string", Format: "date-time"},
				"archived_at":  {Type: "string", Format: "date-time"},
				"created_at":   {Type: "string", Format: "date-time"},
				"updated_at":   {Type: "string", Format: "date-time"},
			},
		},
		"FeedbackCommand": {
			Type:     "object",
			Required: []string{"session_id", "action"},
			Properties: map[string]*openapi.Schema{
				"session_id":   {Type: "string", Format: "uuid"},
				"action":       {Type: "string", Enum: []any{"approve", "edit", "reject"}},
				"rating":       {Type: "integer", Minimum: floatPtr(1), Maximum: floatPtr(5)},
				"edited_draft": {Type: "string"},
				"note":         {Type: "string"},
				"reviewer":     {Type: "string"},
			},
		},
		"FeedbackEvent": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "integer", Format: "int64"},
				"session_id":   {Type: "string", Format: "uuid"},
				"action":       {Type: "string"},
				"rating":       {Type: "integer"},
				"edited_draft": {Type: "string"},
				"note":         {Type: "string"},
				"reviewer":     {Type: "string"},
				"applied":      {Type: "boolean", Description: "False when the event was recorded but caused no transition"},
				"created_at":   {Type: "string", Format: "date-time"},
			},
		},
		"Prompt": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"name":         {Type: "string"},
				"stage":        {Type: "string"},
				"instructions": {Type: "string"},
				"description":  {Type: "string"},
				"active":       {Type: "boolean"},
			},
		},
	})

	addSessionPaths(spec)
	addWorkflowPaths(spec)
	addPromptPaths(spec)

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, fmt.Errorf("marshal openapi spec: %w", err)
	}
	return data, nil
}

func addSessionPaths(spec *openapi.Spec) {
	spec.Paths["/sessions"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List processing sessions",
			Tags:    []string{"sessions"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("page", "integer", "Page number", false),
				openapi.QueryParam("page_size", "integer", "Results per page", false),
				openapi.QueryParam("status", "string", "Filter by session status", false),
				openapi.QueryParam("label", "string", "Filter by classification label", false),
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Paged session list", "Session"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
		Post: &openapi.Operation{
			Summary:     "Search sessions",
			Description: "Accepts a page request body; the /search suffix distinguishes it from list.",
			Tags:        []string{"sessions"},
			RequestBody: openapi.RequestBodyJSON("PageRequest", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Paged session list", "Session"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}
	spec.Paths["/sessions/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find a session",
			Tags:       []string{"sessions"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Session identifier")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Session", "Session"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
	spec.Paths["/sessions/{id}/requeue"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Requeue a failed session",
			Description: "Resumes processing from the last successful stage. Only failed sessions can be requeued.",
			Tags:        []string{"sessions"},
			Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Session identifier")},
			Responses: map[int]*openapi.Response{
				202: {Description: "Session accepted for reprocessing"},
				404: openapi.ResponseRef("NotFound"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}
	spec.Paths["/sessions/{id}/executions"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "List stage executions for a session",
			Tags:       []string{"ledger"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Session identifier")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Execution list", "Execution"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
}

func addWorkflowPaths(spec *openapi.Spec) {
	spec.Paths["/workflow"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List workflow states",
			Tags:    []string{"workflow"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("state", "string", "Filter by workflow state", false),
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Paged workflow state list", "WorkflowState"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}
	spec.Paths["/workflow/pending"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List sessions awaiting review",
			Tags:    []string{"workflow"},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Paged workflow state list", "WorkflowState"),
			},
		},
	}
	spec.Paths["/workflow/feedback"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Apply reviewer feedback",
			Description: "Records the feedback event and applies the matching transition when the session is pending review. Repeated feedback is recorded but not applied.",
			Tags:        []string{"workflow"},
			RequestBody: openapi.RequestBodyJSON("FeedbackCommand", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Recorded feedback event", "FeedbackEvent"),
				400: openapi.ResponseRef("BadRequest"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
	spec.Paths["/workflow/{sessionId}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find a session's workflow state",
			Tags:       []string{"workflow"},
			Parameters: []*openapi.Parameter{openapi.PathParam("sessionId", "Session identifier")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Workflow state", "WorkflowState"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
	spec.Paths["/workflow/{sessionId}/feedback"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "List feedback events for a session",
			Tags:       []string{"workflow"},
			Parameters: []*openapi.Parameter{openapi.PathParam("sessionId", "Session identifier")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Feedback event list", "FeedbackEvent"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
	spec.Paths["/workflow/{sessionId}/assignment"] = &openapi.PathItem{
		Put: &openapi.Operation{
			Summary:     "Assign a session to a reviewer",
			Description: "An empty assignee clears the assignment. Informational only; any reviewer may still act.",
			Tags:        []string{"workflow"},
			Parameters:  []*openapi.Parameter{openapi.PathParam("sessionId", "Session identifier")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Workflow state", "WorkflowState"),
				400: openapi.ResponseRef("BadRequest"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
	spec.Paths["/workflow/{sessionId}/confirm-sent"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Confirm a released draft was sent",
			Description: "Valid only from the approved or edited states.",
			Tags:        []string{"workflow"},
			Parameters:  []*openapi.Parameter{openapi.PathParam("sessionId", "Session identifier")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Workflow state", "WorkflowState"),
				404: openapi.ResponseRef("NotFound"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}
}

func addPromptPaths(spec *openapi.Spec) {
	spec.Paths["/prompts"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List prompts",
			Tags:    []string{"prompts"},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Paged prompt list", "Prompt"),
			},
		},
		Post: &openapi.Operation{
			Summary:     "Create a prompt",
			Tags:        []string{"prompts"},
			RequestBody: openapi.RequestBodyJSON("Prompt", true),
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Created prompt", "Prompt"),
				400: openapi.ResponseRef("BadRequest"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}
	spec.Paths["/prompts/search"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Search prompts",
			Tags:        []string{"prompts"},
			RequestBody: openapi.RequestBodyJSON("PageRequest", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Paged prompt list", "Prompt"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}
	spec.Paths["/prompts/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find a prompt",
			Tags:       []string{"prompts"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Prompt identifier")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Prompt", "Prompt"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Put: &openapi.Operation{
			Summary:     "Update a prompt",
			Tags:        []string{"prompts"},
			Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Prompt identifier")},
			RequestBody: openapi.RequestBodyJSON("Prompt", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Updated prompt", "Prompt"),
				404: openapi.ResponseRef("NotFound"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
		Delete: &openapi.Operation{
			Summary:    "Delete a prompt",
			Tags:       []string{"prompts"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Prompt identifier")},
			Responses: map[int]*openapi.Response{
				204: {Description: "Deleted"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
	spec.Paths["/prompts/{id}/activate"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Activate a prompt",
			Description: "Deactivates any currently active prompt for the same stage.",
			Tags:        []string{"prompts"},
			Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Prompt identifier")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Activated prompt", "Prompt"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
	spec.Paths["/prompts/{id}/deactivate"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:    "Deactivate a prompt",
			Tags:       []string{"prompts"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Prompt identifier")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Deactivated prompt", "Prompt"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
	spec.Paths["/prompts/stages"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List model-backed pipeline stages",
			Tags:    []string{"prompts"},
			Responses: map[int]*openapi.Response{
				200: {Description: "Stage names"},
			},
		},
	}
	spec.Paths["/prompts/{stage}/instructions"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:     "Resolve the effective instructions for a stage",
			Description: "Returns the active prompt override when one exists, the built-in instructions otherwise.",
			Tags:        []string{"prompts"},
			Parameters:  []*openapi.Parameter{openapi.PathParam("stage", "Pipeline stage name")},
			Responses: map[int]*openapi.Response{
				200: {Description: "Stage instructions"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
	spec.Paths["/prompts/{stage}/spec"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Describe the expected response shape for a stage",
			Tags:       []string{"prompts"},
			Parameters: []*openapi.Parameter{openapi.PathParam("stage", "Pipeline stage name")},
			Responses: map[int]*openapi.Response{
				200: {Description: "Stage response description"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
}

func floatPtr(v float64) *float64 { return &v }
