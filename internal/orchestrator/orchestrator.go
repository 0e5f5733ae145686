// Package orchestrator drives the task lifecycle: it prepares the vault,
// supervises the drop watcher as a child process, and polls the stage
// folders on a fixed interval, triggering the agent when work is waiting.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"steward/internal/agent"
	"steward/internal/config"
	"steward/internal/history"
	"steward/internal/journal"
	"steward/internal/logging"
	"steward/internal/vault"
)

const (
	lockFileName = "steward.lock"
	pidFileName  = "steward.pid"
	ledgerName   = "history.db"
)

// Orchestrator runs the polling loop over a single vault. One orchestrator
// per vault; a lock file enforces single-instance operation.
type Orchestrator struct {
	cfg        *config.Config
	configPath string
	vault      *vault.Vault
	baseLogger *slog.Logger
	logger     *slog.Logger
	runID      string

	supervisor *Supervisor
	trigger    *agent.Trigger
	ledger     *history.Store
	lock       *flock.Flock

	// watcherExecutable overrides the watcher binary in tests. Empty means
	// the current executable.
	watcherExecutable string
}

// Options configures an Orchestrator.
type Options struct {
	Config *config.Config
	// ConfigPath, when non-empty, is forwarded to the watcher child so both
	// processes read the same file.
	ConfigPath string
	Logger     *slog.Logger
}

// New builds an Orchestrator. Nothing is started until Run.
func New(opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Orchestrator{
		cfg:        opts.Config,
		configPath: opts.ConfigPath,
		vault:      vault.New(opts.Config.Paths.Vault),
		baseLogger: logger,
		logger:     logger.With(logging.String(logging.FieldComponent, "orchestrator")),
		runID:      uuid.NewString(),
	}
}

// RunID identifies this orchestrator run in logs and the history ledger.
func (o *Orchestrator) RunID() string {
	return o.runID
}

// Run executes the orchestration loop until the context is canceled. It
// returns an error for any startup validation failure; a signal-driven
// shutdown returns nil. The in-flight cycle always completes before the
// cancellation is observed.
func (o *Orchestrator) Run(ctx context.Context) error {
	if err := o.startup(ctx); err != nil {
		return err
	}
	defer o.shutdown()

	interval := time.Duration(o.cfg.Workflow.PollInterval) * time.Second
	o.logger.Info("orchestrator running",
		logging.String(logging.FieldRunID, o.runID),
		logging.String(logging.FieldPath, o.vault.Root()),
		logging.Duration("interval", interval))

	watcherAlive := true
	for {
		o.runCycle(ctx)

		if watcherAlive && !o.supervisor.Running() {
			watcherAlive = false
			o.logger.Error("watcher process exited unexpectedly",
				logging.String(logging.FieldErrorHint, "drop detection is offline until restart"))
		}

		select {
		case <-ctx.Done():
			o.logger.Info("shutdown requested")
			return nil
		case <-time.After(interval):
		}
	}
}

func (o *Orchestrator) startup(ctx context.Context) error {
	if err := o.vault.Validate(); err != nil {
		return err
	}
	if err := o.vault.EnsureLayout(); err != nil {
		return err
	}
	if err := o.vault.CheckWritable(vault.StageLogs); err != nil {
		return err
	}

	logsDir := o.vault.Path(vault.StageLogs)

	o.lock = flock.New(filepath.Join(logsDir, lockFileName))
	locked, err := o.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire instance lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another orchestrator is already running for %s", o.vault.Root())
	}

	pidPath := filepath.Join(logsDir, pidFileName)
	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
		o.releaseLock()
		return fmt.Errorf("write pid file: %w", err)
	}

	if o.cfg.History.Enabled {
		ledger, err := history.Open(filepath.Join(logsDir, ledgerName))
		if err != nil {
			// The ledger is advisory; run without it.
			o.logger.Warn("history ledger unavailable", logging.Error(err))
		} else {
			o.ledger = ledger
		}
	}

	logging.CleanupOldLogs(o.logger, o.cfg.Logging.RetentionDays, logging.RetentionTarget{
		Dir:     logsDir,
		Pattern: "*.md",
	})

	o.trigger = agent.New(agent.Options{
		Binary:     o.cfg.Agent.Binary,
		VaultRoot:  o.vault.Root(),
		AutoInvoke: o.cfg.Agent.AutoInvoke,
		Journal:    journal.New(logsDir),
		Ledger:     o.ledger,
		Logger:     o.baseLogger,
		RunID:      o.runID,
	})

	watcherArgs := []string{"watch", o.vault.Root(), o.cfg.Paths.Drop}
	if o.configPath != "" {
		watcherArgs = append(watcherArgs, "--config", o.configPath)
	}
	o.supervisor = NewSupervisor(SupervisorOptions{
		Executable: o.watcherExecutable,
		Args:       watcherArgs,
		Grace:      time.Duration(o.cfg.Workflow.StopGraceSeconds) * time.Second,
		Logger:     o.baseLogger,
	})
	if err := o.supervisor.Start(); err != nil {
		o.removePIDFile()
		o.releaseLock()
		return err
	}

	_ = o.ledger.RecordEvent(ctx, history.Event{
		RunID:   o.runID,
		Kind:    history.EventCycle,
		Subject: "startup",
		Detail:  o.vault.Root(),
	})
	return nil
}

// runCycle scans both actionable stages. The scans are independent: an
// error in one is logged and the other still runs.
func (o *Orchestrator) runCycle(ctx context.Context) {
	pending, err := o.vault.Scan(vault.StageNeedsAction)
	if err != nil {
		o.logger.Error("scan failed",
			logging.String(logging.FieldStage, string(vault.StageNeedsAction)),
			logging.Error(err))
	} else if len(pending) > 0 {
		if err := o.trigger.ProcessPending(ctx, pending); err != nil {
			o.logger.Error("pending task handling failed", logging.Error(err))
		}
	}

	approved, err := o.vault.Scan(vault.StageApproved)
	if err != nil {
		o.logger.Error("scan failed",
			logging.String(logging.FieldStage, string(vault.StageApproved)),
			logging.Error(err))
	} else if len(approved) > 0 {
		if err := o.trigger.ProcessApproved(ctx, approved); err != nil {
			o.logger.Error("approved action handling failed", logging.Error(err))
		}
	}
}

func (o *Orchestrator) shutdown() {
	o.logger.Info("shutting down")

	if o.supervisor != nil {
		o.supervisor.Stop()
	}
	_ = o.ledger.RecordEvent(context.Background(), history.Event{
		RunID:   o.runID,
		Kind:    history.EventCycle,
		Subject: "shutdown",
	})
	if err := o.ledger.Close(); err != nil {
		o.logger.Warn("ledger close failed", logging.Error(err))
	}
	o.removePIDFile()
	o.releaseLock()
	o.logger.Info("shutdown complete")
}

func (o *Orchestrator) removePIDFile() {
	pidPath := filepath.Join(o.vault.Path(vault.StageLogs), pidFileName)
	if err := os.Remove(pidPath); err != nil && !os.IsNotExist(err) {
		o.logger.Warn("remove pid file failed", logging.Error(err))
	}
}

func (o *Orchestrator) releaseLock() {
	if o.lock == nil {
		return
	}
	if err := o.lock.Unlock(); err != nil {
		o.logger.Warn("release instance lock failed", logging.Error(err))
	}
	o.lock = nil
}
