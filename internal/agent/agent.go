// Package agent triggers the external autonomous agent when task records
// are waiting, and journals them for manual processing when it cannot.
package agent

import (
	"context"
	"log/slog"
	"os/exec"
	"path/filepath"
	"time"

	"steward/internal/history"
	"steward/internal/journal"
	"steward/internal/logging"
	"steward/internal/supervise"
)

// Trigger spawns the agent binary against a vault. The spawn is
// fire-and-forget: the agent is released immediately and the orchestration
// loop keeps polling while it works.
type Trigger struct {
	binary     string
	vaultRoot  string
	autoInvoke bool
	journal    *journal.Journal
	ledger     *history.Store
	logger     *slog.Logger
	runID      string

	// lookPath is swapped in tests to force the fallback path.
	lookPath func(string) (string, error)
	// spawn is swapped in tests to observe the launch without a real agent.
	spawn func(string, supervise.Options) (int, error)
}

// Options configures a Trigger.
type Options struct {
	Binary     string
	VaultRoot  string
	AutoInvoke bool
	Journal    *journal.Journal
	Ledger     *history.Store
	Logger     *slog.Logger
	RunID      string
}

// New returns a Trigger. The ledger may be nil.
func New(opts Options) *Trigger {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Trigger{
		binary:     opts.Binary,
		vaultRoot:  opts.VaultRoot,
		autoInvoke: opts.AutoInvoke,
		journal:    opts.Journal,
		ledger:     opts.Ledger,
		logger:     logger.With(logging.String(logging.FieldComponent, "agent")),
		runID:      opts.RunID,
		lookPath:   exec.LookPath,
		spawn:      supervise.SpawnDetached,
	}
}

// ProcessPending handles task records waiting in Needs_Action. With
// auto-invoke on and the agent binary resolvable, the agent is spawned in
// the vault directory; otherwise the tasks are journaled for manual
// processing. Task records are never mutated here, so a slow agent simply
// sees the same tasks again next cycle.
func (t *Trigger) ProcessPending(ctx context.Context, taskPaths []string) error {
	if len(taskPaths) == 0 {
		return nil
	}

	names := baseNames(taskPaths)
	t.logger.Info("pending tasks found",
		logging.Int(logging.FieldCount, len(names)))
	for _, name := range names {
		t.logger.Info("pending task", logging.String(logging.FieldPath, name))
	}

	if !t.autoInvoke {
		return t.fallback(ctx, names, "auto-invoke disabled")
	}

	binaryPath, err := t.lookPath(t.binary)
	if err != nil {
		t.logger.Error("agent binary not found",
			logging.String("binary", t.binary),
			logging.String(logging.FieldErrorHint, "install the agent or add it to PATH"))
		return t.fallback(ctx, names, "binary not found")
	}

	pid, err := t.spawn(binaryPath, supervise.Options{
		Dir:  t.vaultRoot,
		Args: []string{"--prompt-interactive", processingPrompt},
	})
	if err != nil {
		t.logger.Error("agent invocation failed", logging.Error(err))
		return t.fallback(ctx, names, err.Error())
	}

	t.logger.Info("agent invoked",
		logging.Int(logging.FieldPID, pid),
		logging.Int(logging.FieldCount, len(names)))
	return t.ledger.RecordEvent(ctx, history.Event{
		RunID:  t.runID,
		Kind:   history.EventAgentInvoked,
		Detail: binaryPath,
		Count:  len(names),
	})
}

func (t *Trigger) fallback(ctx context.Context, names []string, reason string) error {
	if err := t.journal.Append(journal.PendingTasks(time.Now(), names)); err != nil {
		return err
	}
	t.logger.Info("tasks journaled for manual processing",
		logging.String("binary", t.binary))
	return t.ledger.RecordEvent(ctx, history.Event{
		RunID:  t.runID,
		Kind:   history.EventAgentFallback,
		Detail: reason,
		Count:  len(names),
	})
}

// ProcessApproved journals actions that have passed human approval and are
// ready to execute. Execution itself is out of scope; a human or downstream
// integration picks them up from the journal.
func (t *Trigger) ProcessApproved(ctx context.Context, approvedPaths []string) error {
	if len(approvedPaths) == 0 {
		return nil
	}

	names := baseNames(approvedPaths)
	t.logger.Info("approved actions found",
		logging.Int(logging.FieldCount, len(names)))
	for _, name := range names {
		t.logger.Info("approved action", logging.String(logging.FieldPath, name))
	}

	if err := t.journal.Append(journal.ApprovedActions(time.Now(), names)); err != nil {
		return err
	}
	return t.ledger.RecordEvent(ctx, history.Event{
		RunID: t.runID,
		Kind:  history.EventApprovedReady,
		Count: len(names),
	})
}

func baseNames(paths []string) []string {
	names := make([]string, 0, len(paths))
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	return names
}
