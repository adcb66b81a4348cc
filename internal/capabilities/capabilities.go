// Package capabilities defines the narrow interfaces the workflow engine uses
// to reach its external collaborators: the inbound mail source, the language
// model capabilities (classification, query composition, drafting, editing),
// the context retrieval service, the human review channel, and the draft
// sending collaborator. The engine depends only on these contracts; concrete
// adapters live in the subpackages.
package capabilities

import (
	"context"

	"github.com/google/uuid"
)

// InboundItem is one unprocessed message returned by the source collaborator.
type InboundItem struct {
	ExternalID  string `json:"external_id"`
	SenderEmail string `json:"sender_email"`
	SenderName  string `json:"sender_name"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
}

// Classification is the result of the classification capability.
// Confidence is in [0,1]; a zero value means the capability did not report one.
type Classification struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// ContextResult is the outcome of a context lookup for an inbound item.
type ContextResult struct {
	Matched bool   `json:"matched"`
	Content string `json:"content"`
	Ref     string `json:"ref"`
}

// RejectionStrategy categorizes a rejection and carries angles that could
// challenge a soft rejection.
type RejectionStrategy struct {
	Kind   string   `json:"kind"` // "hard" or "soft"
	Angles []string `json:"angles"`
}

// DraftContext carries everything the generation capability needs to draft a
// standard-path reply.
type DraftContext struct {
	SenderName  string
	SenderEmail string
	Subject     string
	Body        string
	Label       string
	Threads     []string
	DocContext  string
}

// RejectionDraftContext carries everything needed to draft a rejection-path reply.
type RejectionDraftContext struct {
	Body       string
	Label      string
	Strategy   RejectionStrategy
	DocContext string
}

// ReviewRequest is the payload handed to the review/notification collaborator
// when a drafted reply is ready for human review.
type ReviewRequest struct {
	SessionID   uuid.UUID `json:"session_id"`
	SenderEmail string    `json:"sender_email"`
	Subject     string    `json:"subject"`
	Label       string    `json:"label"`
	Summary     string    `json:"summary"`
	Draft       string    `json:"draft"`
}

// Source is the inbound mail collaborator.
type Source interface {
	// FetchUnseen returns messages not yet consumed by the engine. The engine
	// deduplicates independently; FetchUnseen may return the same item repeatedly.
	FetchUnseen(ctx context.Context) ([]InboundItem, error)
	// MarkConsumed acknowledges an item at the source. Policy-controlled; may be a no-op.
	MarkConsumed(ctx context.Context, externalID string) error
}

// Classifier labels an inbound message.
type Classifier interface {
	Classify(ctx context.Context, subject, body string) (Classification, error)
}

// Retriever looks up reference material for drafting.
type Retriever interface {
	// Threads returns prior correspondence relevant to the search query.
	Threads(ctx context.Context, query string) ([]string, error)
	// FindContext locates sender- or label-specific document context.
	FindContext(ctx context.Context, senderEmail, label string) (ContextResult, error)
}

// Generator produces and refines prose via the language model capability.
type Generator interface {
	ComposeQuery(ctx context.Context, body string) (string, error)
	Draft(ctx context.Context, dc DraftContext) (string, error)
	AnalyzeRejection(ctx context.Context, body string) (RejectionStrategy, error)
	DraftRejection(ctx context.Context, rc RejectionDraftContext) (string, error)
	Edit(ctx context.Context, body, draft string) (string, error)
	Summarize(ctx context.Context, body string) (string, error)
}

// Notifier delivers a drafted reply to the human review channel.
// Feedback returns asynchronously through the engine's feedback endpoint.
type Notifier interface {
	Notify(ctx context.Context, req ReviewRequest) (string, error)
}

// Sender is the draft-sending collaborator. Submission is best-effort; the
// collaborator confirms delivery through the engine's confirm-sent endpoint.
type Sender interface {
	SubmitDraft(ctx context.Context, sessionID uuid.UUID, to, subject, body string) error
}
