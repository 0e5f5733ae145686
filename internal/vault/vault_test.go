package vault

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureLayoutCreatesAllStages(t *testing.T) {
	root := filepath.Join(t.TempDir(), "vault")
	v := New(root)

	if err := v.EnsureLayout(); err != nil {
		t.Fatalf("EnsureLayout: %v", err)
	}

	for _, stage := range Stages() {
		info, err := os.Stat(v.Path(stage))
		if err != nil {
			t.Fatalf("stage %s missing: %v", stage, err)
		}
		if !info.IsDir() {
			t.Errorf("stage %s is not a directory", stage)
		}
	}
}

func TestEnsureLayoutIdempotent(t *testing.T) {
	root := filepath.Join(t.TempDir(), "vault")
	v := New(root)

	if err := v.EnsureLayout(); err != nil {
		t.Fatalf("first EnsureLayout: %v", err)
	}

	// Pre-existing content must survive a second call.
	marker := filepath.Join(v.Path(StageInbox), "keep.md")
	if err := os.WriteFile(marker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := v.EnsureLayout(); err != nil {
		t.Fatalf("second EnsureLayout: %v", err)
	}
	if _, err := os.Stat(marker); err != nil {
		t.Errorf("existing file lost after re-run: %v", err)
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()

	if err := New(dir).Validate(); err != nil {
		t.Errorf("existing directory should validate: %v", err)
	}
	if err := New(filepath.Join(dir, "missing")).Validate(); err == nil {
		t.Error("missing directory should fail validation")
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := New(file).Validate(); err == nil {
		t.Error("regular file should fail validation")
	}
}

func TestScanFiltersAndSorts(t *testing.T) {
	v := New(t.TempDir())
	if err := v.EnsureLayout(); err != nil {
		t.Fatal(err)
	}

	dir := v.Path(StageNeedsAction)
	for _, name := range []string{"b_task.md", "a_task.md", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.md"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := v.Scan(StageNeedsAction)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2: %v", len(files), files)
	}
	if filepath.Base(files[0]) != "a_task.md" || filepath.Base(files[1]) != "b_task.md" {
		t.Errorf("files not sorted: %v", files)
	}
}

func TestScanMissingStageIsEmpty(t *testing.T) {
	v := New(filepath.Join(t.TempDir(), "never-created"))

	files, err := v.Scan(StagePendingApproval)
	if err != nil {
		t.Fatalf("Scan on missing stage: %v", err)
	}
	if files != nil {
		t.Errorf("got %v, want nil", files)
	}
}

func TestCheckWritable(t *testing.T) {
	v := New(t.TempDir())
	if err := v.EnsureLayout(); err != nil {
		t.Fatal(err)
	}

	if err := v.CheckWritable(StageInbox); err != nil {
		t.Errorf("fresh stage should be writable: %v", err)
	}

	if os.Getuid() == 0 {
		t.Skip("permission checks are bypassed for root")
	}
	if err := os.Chmod(v.Path(StageDone), 0o555); err != nil {
		t.Fatal(err)
	}
	defer os.Chmod(v.Path(StageDone), 0o755)
	if err := v.CheckWritable(StageDone); err == nil {
		t.Error("read-only stage should fail the writability check")
	}
}
