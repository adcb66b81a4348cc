// Package sessions implements the email session domain for Courier.
// A session is the unit of pipeline work: one deduplicated inbound email,
// its accumulated stage results, and its processing status.
package sessions

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Status represents the pipeline processing status of a session.
type Status string

// Valid session statuses.
const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Session represents one deduplicated inbound email moving through the pipeline.
// StageResults accumulates the output of each completed stage keyed by stage
// name; a requeued session resumes from this checkpoint rather than re-running
// stages that already succeeded.
type Session struct {
	ID            uuid.UUID                  `json:"id"`
	Fingerprint   string                     `json:"fingerprint"`
	ExternalID    string                     `json:"external_id"`
	SenderEmail   string                     `json:"sender_email"`
	SenderName    string                     `json:"sender_name"`
	Subject       string                     `json:"subject"`
	Body          string                     `json:"body"`
	Label         *string                    `json:"label"`
	Status        Status                     `json:"status"`
	FailureReason *string                    `json:"failure_reason"`
	StageResults  map[string]json.RawMessage `json:"stage_results"`

	// Pipeline timing. ProcessingStartedAt resets on requeue; the other two
	// remain nil until the session reaches a terminal status.
	ProcessingStartedAt   time.Time  `json:"processing_started_at"`
	ProcessingCompletedAt *time.Time `json:"processing_completed_at"`
	TotalDurationMS       *int64     `json:"total_duration_ms"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
