// Package agentcap adapts a go-agents language model agent to the engine's
// classification and generation capability interfaces. Each call composes a
// stage prompt (tunable instructions plus immutable output spec), runs a
// single chat completion, and parses the structured response.
package agentcap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/inboundflow/courier/internal/capabilities"
	"github.com/inboundflow/courier/internal/prompts"
	"github.com/inboundflow/courier/pkg/formatting"
)

type classifyResponse struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

type queryResponse struct {
	Query string `json:"query"`
}

type draftResponse struct {
	Draft string `json:"draft"`
}

type strategyResponse struct {
	Kind   string   `json:"kind"`
	Angles []string `json:"angles"`
}

type summaryResponse struct {
	Summary string `json:"summary"`
}

// Agent implements the Classifier and Generator capabilities over a
// configured language model. A fresh go-agents agent is created per call;
// the engine's stages are independent completions with no shared chat state.
type Agent struct {
	cfg     gaconfig.AgentConfig
	prompts prompts.System
	logger  *slog.Logger
}

var (
	_ capabilities.Classifier = (*Agent)(nil)
	_ capabilities.Generator  = (*Agent)(nil)
)

// New creates an Agent with the given model config and prompt system.
func New(cfg gaconfig.AgentConfig, ps prompts.System, logger *slog.Logger) *Agent {
	return &Agent{
		cfg:     cfg,
		prompts: ps,
		logger:  logger.With("system", "agentcap"),
	}
}

// section is one labeled input block appended to the stage prompt.
type section struct {
	tag  string
	body string
}

func (a *Agent) complete(ctx context.Context, stage prompts.Stage, sections []section) (string, error) {
	instructions, err := a.prompts.Instructions(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load instructions for %s: %w", stage, err)
	}

	spec, err := a.prompts.Spec(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load spec for %s: %w", stage, err)
	}

	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\n")
	sb.WriteString(spec)

	for _, s := range sections {
		if s.body == "" {
			continue
		}
		fmt.Fprintf(&sb, "\n\n<%s>\n%s\n</%s>", s.tag, s.body, s.tag)
	}

	ag, err := agent.New(&a.cfg)
	if err != nil {
		return "", fmt.Errorf("create agent: %w", err)
	}

	resp, err := ag.Chat(ctx, sb.String())
	if err != nil {
		return "", fmt.Errorf("chat call for %s: %w", stage, err)
	}

	return resp.Content(), nil
}

// Classify labels an inbound email.
func (a *Agent) Classify(ctx context.Context, subject, body string) (capabilities.Classification, error) {
	content, err := a.complete(ctx, prompts.StageClassify, []section{
		{"SUBJECT", subject},
		{"EMAIL", body},
	})
	if err != nil {
		return capabilities.Classification{}, err
	}

	parsed, err := formatting.Parse[classifyResponse](content)
	if err != nil {
		return capabilities.Classification{}, fmt.Errorf("parse classification: %w", err)
	}

	return capabilities.Classification{Label: parsed.Label, Confidence: parsed.Confidence}, nil
}

// ComposeQuery produces the retrieval query description for an email.
func (a *Agent) ComposeQuery(ctx context.Context, body string) (string, error) {
	content, err := a.complete(ctx, prompts.StageQueryGeneration, []section{
		{"EMAIL", body},
	})
	if err != nil {
		return "", err
	}

	parsed, err := formatting.Parse[queryResponse](content)
	if err != nil {
		return "", fmt.Errorf("parse query: %w", err)
	}
	return parsed.Query, nil
}

// Draft writes a standard-path reply.
func (a *Agent) Draft(ctx context.Context, dc capabilities.DraftContext) (string, error) {
	sections := []section{
		{"SENDER", fmt.Sprintf("%s <%s>", dc.SenderName, dc.SenderEmail)},
		{"SUBJECT", dc.Subject},
		{"EMAIL", dc.Body},
		{"CLASSIFICATION", dc.Label},
		{"EXAMPLES", strings.Join(dc.Threads, "\n\n---\n\n")},
		{"CLIENT_CONTEXT", dc.DocContext},
	}

	content, err := a.complete(ctx, prompts.StageDraftGeneration, sections)
	if err != nil {
		return "", err
	}

	parsed, err := formatting.Parse[draftResponse](content)
	if err != nil {
		return "", fmt.Errorf("parse draft: %w", err)
	}
	return parsed.Draft, nil
}

// AnalyzeRejection categorizes a rejection and surfaces challenge angles.
func (a *Agent) AnalyzeRejection(ctx context.Context, body string) (capabilities.RejectionStrategy, error) {
	content, err := a.complete(ctx, prompts.StageRejectionAnalysis, []section{
		{"EMAIL", body},
	})
	if err != nil {
		return capabilities.RejectionStrategy{}, err
	}

	parsed, err := formatting.Parse[strategyResponse](content)
	if err != nil {
		return capabilities.RejectionStrategy{}, fmt.Errorf("parse rejection strategy: %w", err)
	}

	return capabilities.RejectionStrategy{Kind: parsed.Kind, Angles: parsed.Angles}, nil
}

// DraftRejection writes a rejection-path reply.
func (a *Agent) DraftRejection(ctx context.Context, rc capabilities.RejectionDraftContext) (string, error) {
	sections := []section{
		{"EMAIL", rc.Body},
		{"CLASSIFICATION", rc.Label},
		{"REJECTION_KIND", rc.Strategy.Kind},
		{"CHALLENGE_ANGLES", strings.Join(rc.Strategy.Angles, "\n- ")},
		{"CLIENT_CONTEXT", rc.DocContext},
	}

	content, err := a.complete(ctx, prompts.StageRejectionDraft, sections)
	if err != nil {
		return "", err
	}

	parsed, err := formatting.Parse[draftResponse](content)
	if err != nil {
		return "", fmt.Errorf("parse rejection draft: %w", err)
	}
	return parsed.Draft, nil
}

// Edit refines a draft against the original email.
func (a *Agent) Edit(ctx context.Context, body, draft string) (string, error) {
	content, err := a.complete(ctx, prompts.StageDraftEditing, []section{
		{"EMAIL", body},
		{"DRAFT", draft},
	})
	if err != nil {
		return "", err
	}

	parsed, err := formatting.Parse[draftResponse](content)
	if err != nil {
		return "", fmt.Errorf("parse edited draft: %w", err)
	}
	return parsed.Draft, nil
}

// Summarize produces the reviewer notification summary for an email.
func (a *Agent) Summarize(ctx context.Context, body string) (string, error) {
	content, err := a.complete(ctx, prompts.StageNotification, []section{
		{"EMAIL", body},
	})
	if err != nil {
		return "", err
	}

	parsed, err := formatting.Parse[summaryResponse](content)
	if err != nil {
		return "", fmt.Errorf("parse summary: %w", err)
	}
	return parsed.Summary, nil
}
