package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable. Vault existence is checked
// by the orchestrator at startup, not here, so commands that only create or
// inspect configuration keep working without a vault.
func (c *Config) Validate() error {
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	if err := c.validateAgent(); err != nil {
		return err
	}
	if err := c.validateWatcher(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.PollInterval <= 0 {
		return errors.New("workflow.poll_interval must be positive (seconds)")
	}
	if c.Workflow.DebounceMS < 0 {
		return errors.New("workflow.debounce_ms must be >= 0")
	}
	if c.Workflow.StopGraceSeconds <= 0 {
		return errors.New("workflow.stop_grace_seconds must be positive")
	}
	return nil
}

func (c *Config) validateAgent() error {
	if c.Agent.AutoInvoke && strings.TrimSpace(c.Agent.Binary) == "" {
		return errors.New("agent.binary must be set when agent.auto_invoke is true")
	}
	return nil
}

func (c *Config) validateWatcher() error {
	if c.Watcher.DedupCacheLimit < 0 {
		return errors.New("watcher.dedup_cache_limit must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must be >= 0")
	}
	return nil
}
