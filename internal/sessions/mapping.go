package sessions

import (
	"encoding/json"
	"net/url"

	"github.com/inboundflow/courier/pkg/query"
	"github.com/inboundflow/courier/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "sessions", "s").
	Project("id", "ID").
	Project("fingerprint", "Fingerprint").
	Project("external_id", "ExternalID").
	Project("sender_email", "SenderEmail").
	Project("sender_name", "SenderName").
	Project("subject", "Subject").
	Project("body", "Body").
	Project("label", "Label").
	Project("status", "Status").
	Project("failure_reason", "FailureReason").
	Project("stage_results", "StageResults").
	Project("processing_started_at", "ProcessingStartedAt").
	Project("processing_completed_at", "ProcessingCompletedAt").
	Project("total_duration_ms", "TotalDurationMS").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "created_at",
	Descending: true,
}

// Filters contains optional filtering criteria for session queries.
// Nil fields are ignored. Status, Label, and Fingerprint use exact matching.
// SenderEmail uses case-insensitive contains matching.
type Filters struct {
	Status      *Status `json:"status,omitempty"`
	Label       *string `json:"label,omitempty"`
	SenderEmail *string `json:"sender_email,omitempty"`
	Fingerprint *string `json:"fingerprint,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("Label", f.Label).
		WhereContains("SenderEmail", f.SenderEmail).
		WhereEquals("Fingerprint", f.Fingerprint)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		status := Status(s)
		f.Status = &status
	}

	if l := values.Get("label"); l != "" {
		f.Label = &l
	}

	if e := values.Get("sender_email"); e != "" {
		f.SenderEmail = &e
	}

	if fp := values.Get("fingerprint"); fp != "" {
		f.Fingerprint = &fp
	}

	return f
}

func scanSession(sc repository.Scanner) (Session, error) {
	var (
		s       Session
		results []byte
	)

	err := sc.Scan(
		&s.ID,
		&s.Fingerprint,
		&s.ExternalID,
		&s.SenderEmail,
		&s.SenderName,
		&s.Subject,
		&s.Body,
		&s.Label,
		&s.Status,
		&s.FailureReason,
		&results,
		&s.ProcessingStartedAt,
		&s.ProcessingCompletedAt,
		&s.TotalDurationMS,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return s, err
	}

	if len(results) > 0 {
		if err := json.Unmarshal(results, &s.StageResults); err != nil {
			return s, err
		}
	}
	if s.StageResults == nil {
		s.StageResults = map[string]json.RawMessage{}
	}

	return s, nil
}
