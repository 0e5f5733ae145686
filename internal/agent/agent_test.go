package agent

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"steward/internal/journal"
	"steward/internal/supervise"
)

func newTestTrigger(t *testing.T) (*Trigger, string) {
	t.Helper()
	logsDir := filepath.Join(t.TempDir(), "Logs")
	trigger := New(Options{
		Binary:     "agent-under-test",
		VaultRoot:  filepath.Dir(logsDir),
		AutoInvoke: true,
		Journal:    journal.New(logsDir),
		RunID:      "run-test",
	})
	return trigger, logsDir
}

func readJournal(t *testing.T, logsDir string) string {
	t.Helper()
	entries, err := os.ReadDir(logsDir)
	if err != nil {
		t.Fatalf("read journal dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d journal files, want 1", len(entries))
	}
	data, err := os.ReadFile(filepath.Join(logsDir, entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestProcessPendingInvokesAgent(t *testing.T) {
	trigger, logsDir := newTestTrigger(t)

	var gotBinary string
	var gotOpts supervise.Options
	trigger.lookPath = func(name string) (string, error) {
		return "/usr/local/bin/" + name, nil
	}
	trigger.spawn = func(binary string, opts supervise.Options) (int, error) {
		gotBinary = binary
		gotOpts = opts
		return 4242, nil
	}

	tasks := []string{"/vault/Needs_Action/FILE_DROP_a_txt_20260823_100000.md"}
	if err := trigger.ProcessPending(context.Background(), tasks); err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}

	if gotBinary != "/usr/local/bin/agent-under-test" {
		t.Errorf("spawned binary = %q", gotBinary)
	}
	if gotOpts.Dir != trigger.vaultRoot {
		t.Errorf("agent cwd = %q, want vault root %q", gotOpts.Dir, trigger.vaultRoot)
	}
	if len(gotOpts.Args) != 2 || gotOpts.Args[0] != "--prompt-interactive" {
		t.Errorf("agent args = %v", gotOpts.Args)
	}
	if !strings.Contains(gotOpts.Args[1], "Needs_Action") {
		t.Error("prompt should reference the Needs_Action folder")
	}

	// A successful invocation must not journal.
	if entries, err := os.ReadDir(logsDir); err == nil && len(entries) > 0 {
		t.Errorf("unexpected journal files: %v", entries)
	}
}

func TestProcessPendingFallsBackWhenBinaryMissing(t *testing.T) {
	trigger, logsDir := newTestTrigger(t)
	trigger.lookPath = func(string) (string, error) {
		return "", errors.New("executable file not found in $PATH")
	}
	trigger.spawn = func(string, supervise.Options) (int, error) {
		t.Fatal("spawn should not be called when lookup fails")
		return 0, nil
	}

	tasks := []string{"/vault/Needs_Action/task.md"}
	if err := trigger.ProcessPending(context.Background(), tasks); err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}

	content := readJournal(t, logsDir)
	if !strings.Contains(content, "action_type: pending_tasks_detected") {
		t.Error("fallback journal entry missing")
	}
	if !strings.Contains(content, "- `task.md`") {
		t.Error("journal should list the pending task by name")
	}
}

func TestProcessPendingFallsBackOnSpawnError(t *testing.T) {
	trigger, logsDir := newTestTrigger(t)
	trigger.lookPath = func(name string) (string, error) { return name, nil }
	trigger.spawn = func(string, supervise.Options) (int, error) {
		return 0, errors.New("fork failed")
	}

	if err := trigger.ProcessPending(context.Background(), []string{"/v/t.md"}); err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}
	if !strings.Contains(readJournal(t, logsDir), "pending_tasks_detected") {
		t.Error("spawn failure should journal the tasks")
	}
}

func TestProcessPendingManualMode(t *testing.T) {
	trigger, logsDir := newTestTrigger(t)
	trigger.autoInvoke = false
	trigger.spawn = func(string, supervise.Options) (int, error) {
		t.Fatal("spawn should not be called in manual mode")
		return 0, nil
	}

	if err := trigger.ProcessPending(context.Background(), []string{"/v/t.md"}); err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}
	if !strings.Contains(readJournal(t, logsDir), "pending_tasks_detected") {
		t.Error("manual mode should journal the tasks")
	}
}

func TestProcessPendingEmpty(t *testing.T) {
	trigger, logsDir := newTestTrigger(t)
	trigger.spawn = func(string, supervise.Options) (int, error) {
		t.Fatal("spawn should not be called with no tasks")
		return 0, nil
	}

	if err := trigger.ProcessPending(context.Background(), nil); err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}
	if entries, err := os.ReadDir(logsDir); err == nil && len(entries) > 0 {
		t.Error("no tasks should mean no journal entries")
	}
}

func TestProcessApprovedJournals(t *testing.T) {
	trigger, logsDir := newTestTrigger(t)

	approved := []string{"/vault/Approved/send_email.md", "/vault/Approved/post_update.md"}
	if err := trigger.ProcessApproved(context.Background(), approved); err != nil {
		t.Fatalf("ProcessApproved: %v", err)
	}

	content := readJournal(t, logsDir)
	if !strings.Contains(content, "action_type: approved_actions_ready") {
		t.Error("approved journal entry missing")
	}
	if !strings.Contains(content, "count: 2") {
		t.Error("approved entry should count both actions")
	}
	if !strings.Contains(content, "- `send_email.md`") {
		t.Error("journal should list approved actions by name")
	}
}
