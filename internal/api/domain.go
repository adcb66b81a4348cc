package api

import (
	"github.com/inboundflow/courier/internal/capabilities"
	"github.com/inboundflow/courier/internal/ledger"
	"github.com/inboundflow/courier/internal/prompts"
	"github.com/inboundflow/courier/internal/sessions"
	"github.com/inboundflow/courier/internal/workflow"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Sessions sessions.System
	Ledger   ledger.System
	Workflow workflow.System
	Prompts  prompts.System
}

// NewDomain creates all domain systems from the API runtime. sender is the
// draft-sending collaborator used when reviewer feedback releases a draft.
func NewDomain(runtime *Runtime, sender capabilities.Sender) *Domain {
	sessionsSystem := sessions.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	ledgerSystem := ledger.New(
		runtime.Database.Connection(),
		runtime.Logger,
	)

	workflowSystem := workflow.New(
		runtime.Database.Connection(),
		sender,
		runtime.Logger,
		runtime.Pagination,
	)

	promptsSystem := prompts.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Sessions: sessionsSystem,
		Ledger:   ledgerSystem,
		Workflow: workflowSystem,
		Prompts:  promptsSystem,
	}
}
