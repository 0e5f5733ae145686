// Package supervise launches and stops child processes on behalf of the
// orchestrator. Supervised children are reaped and report exits; detached
// children are released immediately and left to run on their own.
package supervise

import (
	"fmt"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// Process is a supervised child process. It is created by Spawn and must be
// released with Stop or by observing Done.
type Process struct {
	cmd *exec.Cmd

	mu      sync.Mutex
	done    chan struct{}
	waitErr error
	stopped bool
}

// Options configures a child process launch.
type Options struct {
	// Dir is the working directory. Empty inherits the parent's.
	Dir string
	// Args are the command arguments, excluding the executable itself.
	Args []string
}

// Spawn starts a supervised child. Stdio is discarded; the child is not
// expected to interact with a terminal. A goroutine reaps the child so it
// never becomes a zombie, and Done is closed once it exits.
func Spawn(executable string, opts Options) (*Process, error) {
	cmd := exec.Command(executable, opts.Args...)
	cmd.Dir = opts.Dir
	// Stdin, Stdout, Stderr stay nil so the child gets /dev/null.

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", executable, err)
	}

	p := &Process{
		cmd:  cmd,
		done: make(chan struct{}),
	}
	go func() {
		err := cmd.Wait()
		p.mu.Lock()
		p.waitErr = err
		p.mu.Unlock()
		close(p.done)
	}()
	return p, nil
}

// SpawnDetached starts a child and releases it immediately. The caller gets
// back the PID but no handle; the child outlives the parent if it wants to.
func SpawnDetached(executable string, opts Options) (int, error) {
	cmd := exec.Command(executable, opts.Args...)
	cmd.Dir = opts.Dir

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start %s: %w", executable, err)
	}
	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		return pid, fmt.Errorf("release %s: %w", executable, err)
	}
	return pid, nil
}

// PID returns the child's process ID.
func (p *Process) PID() int {
	return p.cmd.Process.Pid
}

// Done is closed once the child has exited and been reaped.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Running reports whether the child is still alive.
func (p *Process) Running() bool {
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

// WaitErr returns the child's exit error once Done is closed. Nil means a
// clean exit.
func (p *Process) WaitErr() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.waitErr
}

// Stop terminates the child: SIGTERM first, then SIGKILL if the child is
// still alive after the grace period. Safe to call more than once and after
// the child has already exited.
func (p *Process) Stop(grace time.Duration) error {
	p.mu.Lock()
	alreadyStopped := p.stopped
	p.stopped = true
	p.mu.Unlock()

	select {
	case <-p.done:
		return nil
	default:
	}
	if alreadyStopped {
		<-p.done
		return nil
	}

	if err := p.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		// The child may have exited between the check and the signal.
		select {
		case <-p.done:
			return nil
		default:
			return fmt.Errorf("signal pid %d: %w", p.PID(), err)
		}
	}

	select {
	case <-p.done:
		return nil
	case <-time.After(grace):
	}

	if err := p.cmd.Process.Kill(); err != nil {
		select {
		case <-p.done:
			return nil
		default:
			return fmt.Errorf("kill pid %d: %w", p.PID(), err)
		}
	}
	<-p.done
	return nil
}
