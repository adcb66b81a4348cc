package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvEnginePollInterval   = "COURIER_ENGINE_POLL_INTERVAL"
	EnvEngineMaxConcurrent  = "COURIER_ENGINE_MAX_CONCURRENT_SESSIONS"
	EnvEngineMarkConsumed   = "COURIER_ENGINE_MARK_CONSUMED"
	EnvEngineRetryAttempts  = "COURIER_ENGINE_RETRY_ATTEMPTS"
	EnvEngineRetryBaseDelay = "COURIER_ENGINE_RETRY_BASE_DELAY"
	EnvEngineStageTimeout   = "COURIER_ENGINE_STAGE_TIMEOUT"
	EnvEngineStaleThreshold = "COURIER_ENGINE_STALE_THRESHOLD"
	EnvEngineSweepInterval  = "COURIER_ENGINE_SWEEP_INTERVAL"
	EnvEngineRetention      = "COURIER_ENGINE_RETENTION_WINDOW"
	EnvEngineArchiveEvery   = "COURIER_ENGINE_ARCHIVE_INTERVAL"
)

// EngineConfig holds the processing engine's polling, retry, and
// housekeeping settings.
type EngineConfig struct {
	PollInterval          string `toml:"poll_interval"`
	MaxConcurrentSessions int    `toml:"max_concurrent_sessions"`
	MarkConsumed          bool   `toml:"mark_consumed"`
	RetryAttempts         int    `toml:"retry_attempts"`
	RetryBaseDelay        string `toml:"retry_base_delay"`
	StageTimeout          string `toml:"stage_timeout"`
	StaleThreshold        string `toml:"stale_threshold"`
	SweepInterval         string `toml:"sweep_interval"`
	RetentionWindow       string `toml:"retention_window"`
	ArchiveInterval       string `toml:"archive_interval"`
}

// PollIntervalDuration returns PollInterval as a time.Duration.
func (c *EngineConfig) PollIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.PollInterval)
	return d
}

// RetryBaseDelayDuration returns RetryBaseDelay as a time.Duration.
func (c *EngineConfig) RetryBaseDelayDuration() time.Duration {
	d, _ := time.ParseDuration(c.RetryBaseDelay)
	return d
}

// StageTimeoutDuration returns StageTimeout as a time.Duration.
func (c *EngineConfig) StageTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.StageTimeout)
	return d
}

// StaleThresholdDuration returns StaleThreshold as a time.Duration.
func (c *EngineConfig) StaleThresholdDuration() time.Duration {
	d, _ := time.ParseDuration(c.StaleThreshold)
	return d
}

// SweepIntervalDuration returns SweepInterval as a time.Duration.
func (c *EngineConfig) SweepIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.SweepInterval)
	return d
}

// RetentionWindowDuration returns RetentionWindow as a time.Duration.
func (c *EngineConfig) RetentionWindowDuration() time.Duration {
	d, _ := time.ParseDuration(c.RetentionWindow)
	return d
}

// ArchiveIntervalDuration returns ArchiveInterval as a time.Duration.
func (c *EngineConfig) ArchiveIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.ArchiveInterval)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *EngineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *EngineConfig) Merge(overlay *EngineConfig) {
	if overlay.PollInterval != "" {
		c.PollInterval = overlay.PollInterval
	}
	if overlay.MaxConcurrentSessions != 0 {
		c.MaxConcurrentSessions = overlay.MaxConcurrentSessions
	}
	if overlay.MarkConsumed {
		c.MarkConsumed = true
	}
	if overlay.RetryAttempts != 0 {
		c.RetryAttempts = overlay.RetryAttempts
	}
	if overlay.RetryBaseDelay != "" {
		c.RetryBaseDelay = overlay.RetryBaseDelay
	}
	if overlay.StageTimeout != "" {
		c.StageTimeout = overlay.StageTimeout
	}
	if overlay.StaleThreshold != "" {
		c.StaleThreshold = overlay.StaleThreshold
	}
	if overlay.SweepInterval != "" {
		c.SweepInterval = overlay.SweepInterval
	}
	if overlay.RetentionWindow != "" {
		c.RetentionWindow = overlay.RetentionWindow
	}
	if overlay.ArchiveInterval != "" {
		c.ArchiveInterval = overlay.ArchiveInterval
	}
}

func (c *EngineConfig) loadDefaults() {
	if c.PollInterval == "" {
		c.PollInterval = "1m"
	}
	if c.MaxConcurrentSessions == 0 {
		c.MaxConcurrentSessions = 4
	}
	if c.RetryAttempts == 0 {
		c.RetryAttempts = 3
	}
	if c.RetryBaseDelay == "" {
		c.RetryBaseDelay = "2s"
	}
	if c.StageTimeout == "" {
		c.StageTimeout = "2m"
	}
	if c.StaleThreshold == "" {
		c.StaleThreshold = "10m"
	}
	if c.SweepInterval == "" {
		c.SweepInterval = "1m"
	}
	if c.RetentionWindow == "" {
		c.RetentionWindow = "720h"
	}
	if c.ArchiveInterval == "" {
		c.ArchiveInterval = "1h"
	}
}

func (c *EngineConfig) loadEnv() {
	if v := os.Getenv(EnvEnginePollInterval); v != "" {
		c.PollInterval = v
	}
	if v := os.Getenv(EnvEngineMaxConcurrent); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxConcurrentSessions = n
		}
	}
	if v := os.Getenv(EnvEngineMarkConsumed); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.MarkConsumed = b
		}
	}
	if v := os.Getenv(EnvEngineRetryAttempts); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RetryAttempts = n
		}
	}
	if v := os.Getenv(EnvEngineRetryBaseDelay); v != "" {
		c.RetryBaseDelay = v
	}
	if v := os.Getenv(EnvEngineStageTimeout); v != "" {
		c.StageTimeout = v
	}
	if v := os.Getenv(EnvEngineStaleThreshold); v != "" {
		c.StaleThreshold = v
	}
	if v := os.Getenv(EnvEngineSweepInterval); v != "" {
		c.SweepInterval = v
	}
	if v := os.Getenv(EnvEngineRetention); v != "" {
		c.RetentionWindow = v
	}
	if v := os.Getenv(EnvEngineArchiveEvery); v != "" {
		c.ArchiveInterval = v
	}
}

func (c *EngineConfig) validate() error {
	if c.MaxConcurrentSessions < 1 {
		return fmt.Errorf("invalid max_concurrent_sessions: %d", c.MaxConcurrentSessions)
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("invalid retry_attempts: %d", c.RetryAttempts)
	}

	durations := map[string]string{
		"poll_interval":    c.PollInterval,
		"retry_base_delay": c.RetryBaseDelay,
		"stage_timeout":    c.StageTimeout,
		"stale_threshold":  c.StaleThreshold,
		"sweep_interval":   c.SweepInterval,
		"retention_window": c.RetentionWindow,
		"archive_interval": c.ArchiveInterval,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	return nil
}
