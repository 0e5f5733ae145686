// Package config loads, validates, and normalizes steward's TOML
// configuration.
//
// Configuration resolves from an explicit --config path, then
// ~/.config/steward/config.toml, then ./steward.toml, falling back to
// built-in defaults when no file exists. Command-line flags may override
// individual fields after loading; callers re-run Normalize afterwards so
// derived values (like the drop folder) stay consistent.
package config
