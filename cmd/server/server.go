package main

import (
	"time"

	"github.com/inboundflow/courier/internal/api"
	"github.com/inboundflow/courier/internal/capabilities/agentcap"
	"github.com/inboundflow/courier/internal/capabilities/contextstore"
	"github.com/inboundflow/courier/internal/capabilities/mailbox"
	"github.com/inboundflow/courier/internal/capabilities/review"
	"github.com/inboundflow/courier/internal/config"
	"github.com/inboundflow/courier/internal/infrastructure"
	"github.com/inboundflow/courier/internal/pipeline"
)

type Server struct {
	infra   *infrastructure.Infrastructure
	modules *Modules
	engine  *Engine
	http    *httpServer
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	runtime := api.NewRuntime(cfg, infra)

	source := mailbox.New(mailbox.Config{
		BaseURL: cfg.Collaborators.Mailbox.BaseURL,
		Token:   cfg.Collaborators.Mailbox.Token,
		Timeout: cfg.Collaborators.Mailbox.TimeoutDuration(),
	}, infra.Logger)

	retriever := contextstore.New(contextstore.Config{
		BaseURL: cfg.Collaborators.Context.BaseURL,
		Token:   cfg.Collaborators.Context.Token,
		Timeout: cfg.Collaborators.Context.TimeoutDuration(),
	}, infra.Logger)

	notifier := review.New(review.Config{
		WebhookURL: cfg.Collaborators.Review.BaseURL,
		Token:      cfg.Collaborators.Review.Token,
		Timeout:    cfg.Collaborators.Review.TimeoutDuration(),
	}, infra.Logger)

	domain := api.NewDomain(runtime, source)

	agent := agentcap.New(cfg.Agent, domain.Prompts, infra.Logger)

	orch := pipeline.NewOrchestrator(
		infra.Lifecycle.Context(),
		domain.Sessions,
		domain.Ledger,
		domain.Workflow,
		agent,
		retriever,
		agent,
		notifier,
		pipeline.Config{
			RetryAttempts:  cfg.Engine.RetryAttempts,
			RetryBaseDelay: cfg.Engine.RetryBaseDelayDuration(),
			StageTimeout:   cfg.Engine.StageTimeoutDuration(),
		},
		infra.Logger,
	)

	engine := NewEngine(cfg, infra, domain, orch, source)

	modules, err := NewModules(cfg, runtime, domain, orch)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra)
	modules.Mount(router)

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
	)

	return &Server{
		infra:   infra,
		modules: modules,
		engine:  engine,
		http:    newHTTPServer(&cfg.Server, router, infra.Logger),
	}, nil
}

func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready")
		s.engine.Start(s.infra.Lifecycle)
	}()

	return nil
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}
