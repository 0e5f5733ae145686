// Package testsupport provides shared helpers for building disposable
// vaults, configs, and stub executables in tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"steward/internal/config"
	"steward/internal/vault"
)

// NewConfig returns a validated config rooted at a fresh temp vault with
// fast timings suitable for tests. The vault layout is created.
func NewConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Paths.Vault = filepath.Join(t.TempDir(), "vault")
	cfg.Workflow.PollInterval = 1
	cfg.Workflow.DebounceMS = 10
	cfg.Workflow.StopGraceSeconds = 2
	cfg.History.Enabled = false

	if err := cfg.Normalize(); err != nil {
		t.Fatalf("normalize config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate config: %v", err)
	}
	if err := vault.New(cfg.Paths.Vault).EnsureLayout(); err != nil {
		t.Fatalf("create vault layout: %v", err)
	}
	return &cfg
}

// WriteConfigFile marshals a config to a TOML file in a temp directory and
// returns its path, for commands that load config from disk.
func WriteConfigFile(t *testing.T, cfg *config.Config) string {
	t.Helper()

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

// StubScript writes an executable shell script and returns its path.
func StubScript(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "stub.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write stub script: %v", err)
	}
	return path
}

// WriteStageFile drops a file into a stage folder and returns its path.
func WriteStageFile(t *testing.T, v *vault.Vault, stage vault.Stage, name, content string) string {
	t.Helper()

	path := filepath.Join(v.Path(stage), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
