// Package contextstore is the HTTP client for the retrieval collaborator:
// the vector store of prior email threads and the client document context
// lookup.
package contextstore

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

// Config holds the retrieval collaborator connection settings.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	// MaxThreads caps how many example threads a search returns.
	MaxThreads int
}

// Client talks to the retrieval collaborator over HTTP.
type Client struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

var _ capabilities.Retriever = (*Client)(nil)

// New creates a contextstore client.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.MaxThreads <= 0 {
		cfg.MaxThreads = 4
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.With("system", "contextstore"),
	}
}

// Threads returns prior correspondence matching the retrieval query.
func (c *Client) Threads(ctx context.Context, query string) ([]string, error) {
	payload := map[string]any{
		"query": query,
		"limit": c.cfg.MaxThreads,
	}

	var result struct {
		Threads []string `json:"threads"`
	}
	if err := c.post(ctx, "/threads/search", payload, &result); err != nil {
		return nil, fmt.Errorf("thread search: %w", err)
	}

	c.logger.Debug("threads retrieved", "count", len(result.Threads))
	return result.Threads, nil
}

// FindContext locates sender- or label-specific document context. A miss is
// a valid result, not an error.
func (c *Client) FindContext(ctx context.Context, senderEmail, label string) (capabilities.ContextResult, error) {
	payload := map[string]any{
		"sender_email": senderEmail,
		"label":        label,
	}

	var result capabilities.ContextResult
	if err := c.post(ctx, "/context/find", payload, &result); err != nil {
		return capabilities.ContextResult{}, fmt.Errorf("context lookup: %w", err)
	}
	return result, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("POST %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
