package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains vault location configuration.
type Paths struct {
	// Vault is the root directory holding the stage folders.
	Vault string `toml:"vault"`
	// Drop is the watched drop folder. Defaults to <vault>/Inbox.
	Drop string `toml:"drop"`
}

// Workflow contains orchestration timing configuration.
type Workflow struct {
	// PollInterval is the orchestration cycle interval in seconds.
	PollInterval int `toml:"poll_interval"`
	// DebounceMS is the delay before a dropped file's metadata is read.
	DebounceMS int `toml:"debounce_ms"`
	// StopGraceSeconds bounds the wait for a graceful watcher shutdown
	// before escalating to a forced kill.
	StopGraceSeconds int `toml:"stop_grace_seconds"`
}

// Agent contains configuration for the external autonomous agent.
type Agent struct {
	// Binary is the agent executable name, resolved from PATH.
	Binary string `toml:"binary"`
	// AutoInvoke spawns the agent automatically when pending tasks exist.
	// When false, pending tasks are only journaled for manual processing.
	AutoInvoke bool `toml:"auto_invoke"`
}

// Watcher contains drop-detector tuning.
type Watcher struct {
	// DedupCacheLimit bounds the fingerprint seen-set. 0 keeps every
	// fingerprint for the watcher process lifetime.
	DedupCacheLimit int `toml:"dedup_cache_limit"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// History contains configuration for the SQLite audit ledger.
type History struct {
	Enabled bool `toml:"enabled"`
}

// Config encapsulates all configuration values for steward.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Workflow Workflow `toml:"workflow"`
	Agent    Agent    `toml:"agent"`
	Watcher  Watcher  `toml:"watcher"`
	Logging  Logging  `toml:"logging"`
	History  History  `toml:"history"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/steward/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a config file was found; defaults are used when it was not.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.Normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("steward.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// Normalize expands and absolutizes path fields and derives the drop folder
// from the vault when unset. Safe to call again after flag overrides.
func (c *Config) Normalize() error {
	if strings.TrimSpace(c.Paths.Vault) != "" {
		vault, err := expandPath(c.Paths.Vault)
		if err != nil {
			return err
		}
		c.Paths.Vault = vault
	}
	switch {
	case strings.TrimSpace(c.Paths.Drop) != "":
		drop, err := expandPath(c.Paths.Drop)
		if err != nil {
			return err
		}
		c.Paths.Drop = drop
	case c.Paths.Vault != "":
		c.Paths.Drop = filepath.Join(c.Paths.Vault, "Inbox")
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
