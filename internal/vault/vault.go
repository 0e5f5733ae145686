// Package vault models the stage-folder layout that steward operates on.
//
// A vault is a plain directory tree. Each lifecycle stage is a top-level
// folder; task records are markdown files that move between folders as they
// progress. The vault is the source of truth, so every scan reads the
// filesystem directly rather than trusting cached state.
package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sys/unix"
)

// Stage identifies one lifecycle folder inside the vault.
type Stage string

const (
	StageInbox           Stage = "Inbox"
	StageNeedsAction     Stage = "Needs_Action"
	StageDone            Stage = "Done"
	StagePendingApproval Stage = "Pending_Approval"
	StageApproved        Stage = "Approved"
	StageRejected        Stage = "Rejected"
	StagePlans           Stage = "Plans"
	StageLogs            Stage = "Logs"
	StageBriefings       Stage = "Briefings"
)

// Stages returns every stage folder in layout order.
func Stages() []Stage {
	return []Stage{
		StageInbox,
		StageNeedsAction,
		StageDone,
		StagePendingApproval,
		StageApproved,
		StageRejected,
		StagePlans,
		StageLogs,
		StageBriefings,
	}
}

// Vault provides access to a stage-folder tree rooted at a single directory.
type Vault struct {
	root string
}

// New returns a Vault rooted at the given directory. The directory is not
// required to exist yet; call EnsureLayout or Validate as appropriate.
func New(root string) *Vault {
	return &Vault{root: filepath.Clean(root)}
}

// Root returns the vault root directory.
func (v *Vault) Root() string {
	return v.root
}

// Path returns the absolute path of a stage folder.
func (v *Vault) Path(stage Stage) string {
	return filepath.Join(v.root, string(stage))
}

// EnsureLayout creates the vault root and every stage folder. Existing
// folders are left untouched, so it is safe to call on every startup.
func (v *Vault) EnsureLayout() error {
	for _, stage := range Stages() {
		if err := os.MkdirAll(v.Path(stage), 0o755); err != nil {
			return fmt.Errorf("create stage folder %s: %w", stage, err)
		}
	}
	return nil
}

// Validate confirms the vault root exists and is a directory.
func (v *Vault) Validate() error {
	info, err := os.Stat(v.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("vault directory does not exist: %s", v.root)
		}
		return fmt.Errorf("stat vault: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("vault path is not a directory: %s", v.root)
	}
	return nil
}

// Scan lists the markdown task records in a stage folder, sorted by name.
// A missing stage folder is treated as empty rather than an error, so a
// partially created vault never stalls the orchestration loop.
func (v *Vault) Scan(stage Stage) ([]string, error) {
	dir := v.Path(stage)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan %s: %w", stage, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) != ".md" {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// CheckWritable verifies the current process can write into a stage folder.
func (v *Vault) CheckWritable(stage Stage) error {
	dir := v.Path(stage)
	if err := unix.Access(dir, unix.W_OK); err != nil {
		return fmt.Errorf("stage folder %s is not writable: %w", stage, err)
	}
	return nil
}
