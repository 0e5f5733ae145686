// Package logging constructs the slog loggers used across steward and
// defines the shared structured-field vocabulary.
//
// Two output formats are supported: a human-oriented console handler that
// renders "timestamp LEVEL component: message key=value ..." lines, and a
// plain JSON handler for machine consumption. Attr helpers mirror the slog
// constructors so call sites stay terse, and field-name constants keep log
// queries stable across packages.
package logging
