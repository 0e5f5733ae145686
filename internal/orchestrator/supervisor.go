package orchestrator

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"steward/internal/logging"
	"steward/internal/supervise"
)

// Supervisor owns the watcher child process: it spawns the watcher with the
// vault and drop paths, reports on its health, and stops it gracefully with
// a bounded escalation to a forced kill. Keeping the watcher out of process
// lets it be restarted without touching orchestrator state.
type Supervisor struct {
	executable string
	args       []string
	grace      time.Duration
	logger     *slog.Logger

	mu   sync.Mutex
	proc *supervise.Process
}

// SupervisorOptions configures a Supervisor.
type SupervisorOptions struct {
	// Executable is the watcher binary. Empty resolves to the current
	// executable, which serves the watch subcommand.
	Executable string
	// Args are passed to the executable verbatim.
	Args []string
	// Grace bounds the wait for a graceful exit before a forced kill.
	Grace  time.Duration
	Logger *slog.Logger
}

// NewSupervisor returns a Supervisor. The child is not started yet.
func NewSupervisor(opts SupervisorOptions) *Supervisor {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Supervisor{
		executable: opts.Executable,
		args:       opts.Args,
		grace:      opts.Grace,
		logger:     logger.With(logging.String(logging.FieldComponent, "supervisor")),
	}
}

// Start spawns the watcher process with stdio suppressed. It fails when the
// executable cannot be located or a watcher is already running.
func (s *Supervisor) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.proc != nil && s.proc.Running() {
		return errors.New("watcher already running")
	}

	executable := s.executable
	if executable == "" {
		self, err := os.Executable()
		if err != nil {
			return fmt.Errorf("locate watcher executable: %w", err)
		}
		executable = self
	}
	if _, err := os.Stat(executable); err != nil {
		return fmt.Errorf("locate watcher executable: %w", err)
	}

	proc, err := supervise.Spawn(executable, supervise.Options{Args: s.args})
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	s.proc = proc

	s.logger.Info("watcher started", logging.Int(logging.FieldPID, proc.PID()))
	return nil
}

// Running reports whether the watcher child is alive.
func (s *Supervisor) Running() bool {
	s.mu.Lock()
	proc := s.proc
	s.mu.Unlock()
	return proc != nil && proc.Running()
}

// PID returns the watcher's process ID, or 0 when nothing was started.
func (s *Supervisor) PID() int {
	s.mu.Lock()
	proc := s.proc
	s.mu.Unlock()
	if proc == nil {
		return 0
	}
	return proc.PID()
}

// Stop terminates the watcher, waiting up to the grace period before
// escalating to a forced kill. Calling Stop with nothing running is a no-op.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	proc := s.proc
	s.proc = nil
	s.mu.Unlock()

	if proc == nil {
		return
	}
	if !proc.Running() {
		s.logger.Warn("watcher already exited", logging.Error(proc.WaitErr()))
		return
	}

	s.logger.Info("stopping watcher", logging.Int(logging.FieldPID, proc.PID()))
	if err := proc.Stop(s.grace); err != nil {
		s.logger.Error("watcher stop failed", logging.Error(err))
		return
	}
	s.logger.Info("watcher stopped")
}
