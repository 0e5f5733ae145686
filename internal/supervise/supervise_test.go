package supervise

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "child.sh")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSpawnAndCleanExit(t *testing.T) {
	script := writeScript(t, "exit 0")

	p, err := Spawn(script, Options{})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if p.PID() <= 0 {
		t.Errorf("PID = %d, want positive", p.PID())
	}

	select {
	case <-p.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("child never exited")
	}
	if p.Running() {
		t.Error("Running should be false after exit")
	}
	if err := p.WaitErr(); err != nil {
		t.Errorf("WaitErr = %v, want nil for clean exit", err)
	}
}

func TestStopGracefulTermination(t *testing.T) {
	// Default SIGTERM disposition terminates the sleep.
	script := writeScript(t, "sleep 60")

	p, err := Spawn(script, Options{})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	start := time.Now()
	if err := p.Stop(5 * time.Second); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("graceful stop took %v, expected prompt SIGTERM exit", elapsed)
	}
	if p.Running() {
		t.Error("child still running after Stop")
	}
}

func TestStopEscalatesToKill(t *testing.T) {
	// The child ignores SIGTERM, forcing the kill path.
	script := writeScript(t, "trap '' TERM\nsleep 60 &\nwait")

	p, err := Spawn(script, Options{})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	if err := p.Stop(300 * time.Millisecond); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if p.Running() {
		t.Error("child survived SIGKILL escalation")
	}
}

func TestStopIdempotent(t *testing.T) {
	script := writeScript(t, "sleep 60")

	p, err := Spawn(script, Options{})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if err := p.Stop(time.Second); err != nil {
		t.Fatalf("first Stop: %v", err)
	}
	if err := p.Stop(time.Second); err != nil {
		t.Errorf("second Stop: %v", err)
	}
}

func TestStopAfterExit(t *testing.T) {
	script := writeScript(t, "exit 3")

	p, err := Spawn(script, Options{})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	<-p.Done()

	if err := p.Stop(time.Second); err != nil {
		t.Errorf("Stop after exit: %v", err)
	}
	if p.WaitErr() == nil {
		t.Error("WaitErr should report the nonzero exit")
	}
}

func TestSpawnDetached(t *testing.T) {
	script := writeScript(t, "exit 0")

	pid, err := SpawnDetached(script, Options{})
	if err != nil {
		t.Fatalf("SpawnDetached: %v", err)
	}
	if pid <= 0 {
		t.Errorf("pid = %d, want positive", pid)
	}
}

func TestSpawnMissingExecutable(t *testing.T) {
	if _, err := Spawn(filepath.Join(t.TempDir(), "missing"), Options{}); err == nil {
		t.Error("expected error for missing executable")
	}
	if _, err := SpawnDetached(filepath.Join(t.TempDir(), "missing"), Options{}); err == nil {
		t.Error("expected error for missing executable (detached)")
	}
}

func TestSpawnHonorsWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, "pwd > marker.txt")

	p, err := Spawn(script, Options{Dir: dir})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	<-p.Done()

	if _, err := os.Stat(filepath.Join(dir, "marker.txt")); err != nil {
		t.Errorf("child did not run in requested directory: %v", err)
	}
}
