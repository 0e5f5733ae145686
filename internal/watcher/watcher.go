// Package watcher turns files dropped into the vault's Inbox into task
// records in Needs_Action. Each distinct file is processed exactly once per
// watcher process; the fingerprint cache does not survive restarts, so a
// restarted watcher may re-record files still sitting in the drop folder.
package watcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"steward/internal/dedup"
	"steward/internal/fileutil"
	"steward/internal/history"
	"steward/internal/logging"
	"steward/internal/record"
	"steward/internal/vault"
)

// Options configures a Detector.
type Options struct {
	// Vault is the stage-folder tree records are written into.
	Vault *vault.Vault
	// DropDir is the watched folder. Only direct children are processed.
	DropDir string
	// Debounce is the wait between noticing a file and reading it, giving
	// slow writers time to finish.
	Debounce time.Duration
	// DedupCacheLimit bounds the fingerprint cache. 0 disables eviction.
	DedupCacheLimit int
	// Ledger records detections. May be nil.
	Ledger *history.Store
	Logger *slog.Logger
	RunID  string
}

// Detector watches the drop folder and materializes task records.
type Detector struct {
	vault    *vault.Vault
	dropDir  string
	debounce time.Duration
	cache    *dedup.Cache
	ledger   *history.Store
	logger   *slog.Logger
	runID    string

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	fsw     *fsnotify.Watcher
}

// New returns a Detector for the given options.
func New(opts Options) *Detector {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Detector{
		vault:    opts.Vault,
		dropDir:  filepath.Clean(opts.DropDir),
		debounce: opts.Debounce,
		cache:    dedup.NewCache(opts.DedupCacheLimit),
		ledger:   opts.Ledger,
		logger:   logger.With(logging.String(logging.FieldComponent, "watcher")),
		runID:    opts.RunID,
	}
}

// Start begins watching the drop folder. It returns once the filesystem
// watch is registered; events are handled on a background goroutine until
// Stop is called or the context is canceled.
func (d *Detector) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return errors.New("watcher already running")
	}

	if err := d.vault.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(d.dropDir, 0o755); err != nil {
		return fmt.Errorf("create drop folder: %w", err)
	}
	if err := d.vault.EnsureLayout(); err != nil {
		return err
	}
	if err := d.vault.CheckWritable(vault.StageNeedsAction); err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create filesystem watcher: %w", err)
	}
	if err := fsw.Add(d.dropDir); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("watch %s: %w", d.dropDir, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.fsw = fsw
	d.cancel = cancel
	d.running = true

	d.logger.Info("watching drop folder",
		logging.String(logging.FieldPath, d.dropDir))
	_ = d.ledger.RecordEvent(runCtx, history.Event{
		RunID:   d.runID,
		Kind:    history.EventWatcherStart,
		Subject: d.dropDir,
	})

	d.wg.Add(1)
	go d.loop(runCtx, fsw)
	return nil
}

// Stop halts event handling and releases the filesystem watch. Safe to call
// when not running.
func (d *Detector) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	cancel := d.cancel
	fsw := d.fsw
	d.running = false
	d.cancel = nil
	d.fsw = nil
	d.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if fsw != nil {
		_ = fsw.Close()
	}
	d.wg.Wait()
	d.logger.Info("watcher stopped")
}

func (d *Detector) loop(ctx context.Context, fsw *fsnotify.Watcher) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			d.ProcessPath(ctx, event.Name)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			d.logger.Error("filesystem watch error", logging.Error(err))
		}
	}
}

// ProcessPath runs the full detection pipeline for one candidate path:
// filtering, debounce, fingerprint dedup, then record creation. Filtered and
// duplicate paths are dropped silently at debug level.
func (d *Detector) ProcessPath(ctx context.Context, path string) {
	name := filepath.Base(path)

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		d.logger.Debug("skipping directory", logging.String(logging.FieldPath, path))
		return
	}
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~") {
		d.logger.Debug("skipping temporary or hidden file",
			logging.String(logging.FieldPath, path))
		return
	}
	if filepath.Dir(filepath.Clean(path)) != d.dropDir {
		d.logger.Debug("skipping file outside drop folder",
			logging.String(logging.FieldPath, path))
		return
	}

	fingerprint, err := fingerprintFile(path)
	if err != nil {
		d.logger.Warn("file vanished before processing",
			logging.String(logging.FieldPath, path), logging.Error(err))
		return
	}
	if !d.cache.Add(fingerprint) {
		d.logger.Debug("file already processed",
			logging.String(logging.FieldPath, path))
		return
	}

	d.logger.Info("file detected", logging.String(logging.FieldPath, path))

	// Give the writer time to finish before reading metadata.
	if d.debounce > 0 {
		select {
		case <-ctx.Done():
			return
		case <-time.After(d.debounce):
		}
	}

	if err := d.createRecord(ctx, path); err != nil {
		d.logger.Error("record creation failed",
			logging.String(logging.FieldPath, path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check Needs_Action permissions"))
	}
}

func (d *Detector) createRecord(ctx context.Context, path string) error {
	meta := d.collectMetadata(path)

	target := filepath.Join(d.vault.Path(vault.StageNeedsAction), meta.Filename())
	if err := os.WriteFile(target, []byte(meta.Render()), 0o644); err != nil {
		return fmt.Errorf("write task record: %w", err)
	}
	d.logger.Info("task record created",
		logging.String(logging.FieldPath, target))

	if record.IsTextual(path) {
		mirror := filepath.Join(d.vault.Path(vault.StageNeedsAction), meta.MirrorName())
		if err := fileutil.CopyFile(path, mirror); err != nil {
			// The record still stands; the mirror is a convenience copy.
			d.logger.Warn("source copy failed",
				logging.String(logging.FieldPath, mirror), logging.Error(err))
		} else {
			d.logger.Info("source file copied",
				logging.String(logging.FieldPath, mirror))
		}
	}

	return d.ledger.RecordEvent(ctx, history.Event{
		RunID:   d.runID,
		Kind:    history.EventDetection,
		Subject: meta.SourceName,
		Detail:  target,
		Count:   1,
	})
}

// collectMetadata degrades gracefully: when stat fails the record carries
// the detection time and a zero size rather than failing the drop.
func (d *Detector) collectMetadata(path string) record.Metadata {
	now := time.Now()
	meta := record.Metadata{
		SourceName: filepath.Base(path),
		SourcePath: path,
		Created:    now,
		Modified:   now,
		Detected:   now,
	}
	if abs, err := filepath.Abs(path); err == nil {
		meta.SourcePath = abs
	}
	info, err := os.Stat(path)
	if err != nil {
		d.logger.Warn("could not read file metadata",
			logging.String(logging.FieldPath, path), logging.Error(err))
		return meta
	}
	meta.Size = info.Size()
	meta.Modified = info.ModTime()
	meta.Created = info.ModTime()
	return meta
}

// fingerprintFile hashes the file contents. When the content is unreadable
// it falls back to the modification time, which still distinguishes
// successive drops of the same name.
func fingerprintFile(path string) (string, error) {
	file, err := os.Open(path)
	if err == nil {
		defer file.Close()
		hasher := sha256.New()
		if _, copyErr := io.Copy(hasher, file); copyErr == nil {
			return hex.EncodeToString(hasher.Sum(nil)), nil
		}
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		return "", statErr
	}
	return fmt.Sprintf("mtime:%d", info.ModTime().UnixNano()), nil
}
