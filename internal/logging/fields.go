package logging

// Standardized structured-log field keys. Every package logs through these
// so events can be filtered consistently.
const (
	// FieldComponent identifies the emitting subsystem (watcher, orchestrator, ...).
	FieldComponent = "component"
	// FieldEventType is a stable machine-readable event identifier.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next diagnostic step for a failure.
	FieldErrorHint = "error_hint"
	// FieldImpact describes the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldStage names the lifecycle stage a log line concerns.
	FieldStage = "stage"
	// FieldPath is the filesystem path a log line concerns.
	FieldPath = "path"
	// FieldCount carries an item count for scan and trigger events.
	FieldCount = "count"
	// FieldRunID ties daemon log lines to one orchestrator run.
	FieldRunID = "run_id"
	// FieldPID records a child process id.
	FieldPID = "pid"
)
