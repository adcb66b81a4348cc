// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/inboundflow/courier/internal/config"
	"github.com/inboundflow/courier/internal/sessions"
	"github.com/inboundflow/courier/pkg/middleware"
	"github.com/inboundflow/courier/pkg/module"
	"github.com/inboundflow/courier/pkg/openapi"
)

// NewModule creates the API module with all domain handlers and middleware.
// requeuer resumes failed sessions; it is the orchestrator in production.
func NewModule(
	cfg *config.Config,
	runtime *Runtime,
	domain *Domain,
	requeuer sessions.Requeuer,
) (*module.Module, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, domain, requeuer)

	specBytes, err := buildSpec(cfg)
	if err != nil {
		return nil, err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
