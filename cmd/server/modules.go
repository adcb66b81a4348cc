package main

import (
	"encoding/json"
	"net/http"

	"github.com/inboundflow/courier/internal/api"
	"github.com/inboundflow/courier/internal/config"
	"github.com/inboundflow/courier/internal/infrastructure"
	"github.com/inboundflow/courier/internal/metrics"
	"github.com/inboundflow/courier/internal/sessions"
	"github.com/inboundflow/courier/pkg/middleware"
	"github.com/inboundflow/courier/pkg/module"
	"github.com/inboundflow/courier/web/scalar"
)

type Modules struct {
	API    *module.Module
	Scalar *module.Module
}

func NewModules(
	cfg *config.Config,
	runtime *api.Runtime,
	domain *api.Domain,
	requeuer sessions.Requeuer,
) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, runtime, domain, requeuer)
	if err != nil {
		return nil, err
	}

	scalarModule := scalar.NewModule("/scalar", cfg.API.BasePath+"/openapi.json")
	scalarModule.Use(middleware.Logger(runtime.Logger))

	return &Modules{
		API:    apiModule,
		Scalar: scalarModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.Mount(m.Scalar)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	router.HandleNative("GET /metrics", metrics.Handler().ServeHTTP)

	return router
}
