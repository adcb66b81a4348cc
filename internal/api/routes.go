package api

import (
	"net/http"

	"github.com/inboundflow/courier/internal/sessions"
	"github.com/inboundflow/courier/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	requeuer sessions.Requeuer,
) {
	routes.Register(
		mux,
		domain.Sessions.Handler(requeuer).Routes(),
		domain.Ledger.Handler().Routes(),
		domain.Workflow.Handler().Routes(),
		domain.Prompts.Handler().Routes(),
	)
}
