// Package journal appends human-readable orchestration events to the
// vault's daily markdown log, one file per day under the Logs stage.
package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ActionType labels the kind of event a journal entry records.
type ActionType string

const (
	ActionPendingTasks    ActionType = "pending_tasks_detected"
	ActionApprovedActions ActionType = "approved_actions_ready"
)

// Entry is one orchestration event destined for the daily journal.
type Entry struct {
	Action    ActionType
	Timestamp time.Time
	// Files are the task record names the event concerns.
	Files []string
	// Heading and Summary render the human-readable section.
	Heading string
	Summary string
	// NextSteps is an optional list appended after the file list.
	NextSteps []string
}

// PendingTasks builds the journal entry for tasks awaiting processing.
func PendingTasks(now time.Time, files []string) Entry {
	return Entry{
		Action:    ActionPendingTasks,
		Timestamp: now,
		Files:     files,
		Heading:   "Pending Tasks Detected",
		Summary:   "The following tasks are awaiting processing in Needs_Action:",
		NextSteps: []string{
			"Run the agent in the vault directory",
			"Process the pending tasks",
			"Move completed tasks to Done folder",
		},
	}
}

// ApprovedActions builds the journal entry for approved actions ready to run.
func ApprovedActions(now time.Time, files []string) Entry {
	return Entry{
		Action:    ActionApprovedActions,
		Timestamp: now,
		Files:     files,
		Heading:   "Approved Actions Ready for Execution",
		Summary:   "The following actions have been approved:",
		NextSteps: []string{
			"These actions require execution or manual processing.",
		},
	}
}

// Journal appends entries to per-day markdown files in a single directory.
type Journal struct {
	dir string
}

// New returns a Journal writing into the given directory, normally the
// vault's Logs stage.
func New(dir string) *Journal {
	return &Journal{dir: dir}
}

// FilePath returns the journal file for the given day.
func (j *Journal) FilePath(day time.Time) string {
	return filepath.Join(j.dir, day.Format("2006-01-02")+".md")
}

// Append renders the entry and appends it to that day's journal file,
// creating the directory and file as needed.
func (j *Journal) Append(entry Entry) error {
	if err := os.MkdirAll(j.dir, 0o755); err != nil {
		return fmt.Errorf("create journal directory: %w", err)
	}

	path := j.FilePath(entry.Timestamp)
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open journal %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	if _, err := file.WriteString(entry.render()); err != nil {
		return fmt.Errorf("append journal entry: %w", err)
	}
	return nil
}

func (e Entry) render() string {
	var b strings.Builder
	b.WriteString("\n---\n")
	b.WriteString("type: orchestrator_log\n")
	fmt.Fprintf(&b, "timestamp: %s\n", e.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(&b, "action_type: %s\n", e.Action)
	fmt.Fprintf(&b, "count: %d\n", len(e.Files))
	b.WriteString("status: info\n")
	b.WriteString("---\n\n")

	fmt.Fprintf(&b, "## %s\n\n", e.Heading)
	if e.Summary != "" {
		b.WriteString(e.Summary)
		b.WriteString("\n\n")
	}
	for _, name := range e.Files {
		fmt.Fprintf(&b, "- `%s`\n", name)
	}
	if len(e.NextSteps) > 0 {
		b.WriteString("\n## Next Steps\n")
		for i, step := range e.NextSteps {
			if len(e.NextSteps) == 1 {
				fmt.Fprintf(&b, "%s\n", step)
			} else {
				fmt.Fprintf(&b, "%d. %s\n", i+1, step)
			}
		}
	}
	b.WriteString("\n")
	return b.String()
}
