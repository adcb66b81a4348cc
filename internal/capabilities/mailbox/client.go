// Package mailbox is the HTTP client for the inbound mail collaborator. It
// implements the Source capability (fetching and acknowledging unseen
// messages) and the Sender capability (submitting reviewed drafts).
package mailbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/inboundflow/courier/internal/capabilities"
)

// Config holds the mailbox collaborator connection settings.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client talks to the mailbox collaborator over HTTP.
type Client struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

var (
	_ capabilities.Source = (*Client)(nil)
	_ capabilities.Sender = (*Client)(nil)
)

// New creates a mailbox client.
func New(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.With("system", "mailbox"),
	}
}

// FetchUnseen returns messages the engine has not yet consumed. The engine
// deduplicates independently, so repeated items are fine.
func (c *Client) FetchUnseen(ctx context.Context) ([]capabilities.InboundItem, error) {
	var items []capabilities.InboundItem
	if err := c.do(ctx, http.MethodGet, "/messages/unseen", nil, &items); err != nil {
		return nil, fmt.Errorf("fetch unseen: %w", err)
	}
	return items, nil
}

// MarkConsumed acknowledges an item at the source.
func (c *Client) MarkConsumed(ctx context.Context, externalID string) error {
	path := fmt.Sprintf("/messages/%s/consume", externalID)
	if err := c.do(ctx, http.MethodPost, path, nil, nil); err != nil {
		return fmt.Errorf("mark consumed: %w", err)
	}
	return nil
}

// SubmitDraft hands a reviewed draft to the collaborator for delivery.
// Delivery is confirmed asynchronously through the engine's confirm-sent
// endpoint.
func (c *Client) SubmitDraft(ctx context.Context, sessionID uuid.UUID, to, subject, body string) error {
	payload := map[string]any{
		"session_id": sessionID,
		"to":         to,
		"subject":    subject,
		"body":       body,
	}
	if err := c.do(ctx, http.MethodPost, "/drafts", payload, nil); err != nil {
		return fmt.Errorf("submit draft: %w", err)
	}

	c.logger.Info("draft submitted", "session", sessionID, "to", to)
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
