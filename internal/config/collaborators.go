package config

import (
	"fmt"
	"os"
	"time"
)

// EndpointConfig holds connection settings for one external collaborator.
type EndpointConfig struct {
	BaseURL string `toml:"base_url"`
	Token   string `toml:"token"`
	Timeout string `toml:"timeout"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *EndpointConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

type endpointEnv struct {
	BaseURL string
	Token   string
	Timeout string
}

func (c *EndpointConfig) merge(overlay *EndpointConfig) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *EndpointConfig) finalize(name string, env endpointEnv) error {
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
	if v := os.Getenv(env.BaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(env.Token); v != "" {
		c.Token = v
	}
	if v := os.Getenv(env.Timeout); v != "" {
		c.Timeout = v
	}

	if c.BaseURL == "" {
		return fmt.Errorf("%s: base_url required", name)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("%s: invalid timeout: %w", name, err)
	}
	return nil
}

// CollaboratorsConfig holds the endpoints for the three external
// collaborators: the mailbox source, the context store, and the review
// channel.
type CollaboratorsConfig struct {
	Mailbox EndpointConfig `toml:"mailbox"`
	Context EndpointConfig `toml:"context"`
	Review  EndpointConfig `toml:"review"`
}

// Finalize applies defaults, environment variable overrides, and validation
// to each collaborator endpoint.
func (c *CollaboratorsConfig) Finalize() error {
	if err := c.Mailbox.finalize("mailbox", endpointEnv{
		BaseURL: "COURIER_MAILBOX_BASE_URL",
		Token:   "COURIER_MAILBOX_TOKEN",
		Timeout: "COURIER_MAILBOX_TIMEOUT",
	}); err != nil {
		return err
	}
	if err := c.Context.finalize("context", endpointEnv{
		BaseURL: "COURIER_CONTEXT_BASE_URL",
		Token:   "COURIER_CONTEXT_TOKEN",
		Timeout: "COURIER_CONTEXT_TIMEOUT",
	}); err != nil {
		return err
	}
	return c.Review.finalize("review", endpointEnv{
		BaseURL: "COURIER_REVIEW_WEBHOOK_URL",
		Token:   "COURIER_REVIEW_TOKEN",
		Timeout: "COURIER_REVIEW_TIMEOUT",
	})
}

// Merge overwrites non-zero fields from overlay for each endpoint.
func (c *CollaboratorsConfig) Merge(overlay *CollaboratorsConfig) {
	c.Mailbox.merge(&overlay.Mailbox)
	c.Context.merge(&overlay.Context)
	c.Review.merge(&overlay.Review)
}
