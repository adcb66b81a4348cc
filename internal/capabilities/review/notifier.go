// Package review is the HTTP client for the review channel collaborator.
// It posts drafted replies for human review; reviewer decisions return
// asynchronously through the engine's feedback endpoint.
package review

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/inboundflow/courier/internal/capabilities"
)

// Config holds the review channel connection settings.
type Config struct {
	WebhookURL string
	Token      string
	Timeout    time.Duration
}

// Notifier posts review requests to the channel webhook.
type Notifier struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

var _ capabilities.Notifier = (*Notifier)(nil)

// New creates a review Notifier.
func New(cfg Config, logger *slog.Logger) *Notifier {
	return &Notifier{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.With("system", "review"),
	}
}

// Notify delivers a review request and returns the channel's reference for
// the posted notification.
func (n *Notifier) Notify(ctx context.Context, req capabilities.ReviewRequest) (string, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode review request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.WebhookURL, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if n.cfg.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+n.cfg.Token)
	}

	resp, err := n.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("notify: unexpected status %d", resp.StatusCode)
	}

	var result struct {
		Ref string `json:"ref"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode notify response: %w", err)
	}

	n.logger.Info("review notification posted", "session", req.SessionID, "ref", result.Ref)
	return result.Ref, nil
}
