// Package main hosts the steward CLI entrypoint and command graph.
//
// The Cobra-based command tree covers the orchestrator (`run`), the
// standalone drop watcher (`watch`), vault inspection (`status`, `history`),
// and scaffolding (`init`, `config`). It centralizes configuration
// resolution and structured logging setup so subcommands can focus on user
// experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
