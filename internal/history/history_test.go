package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	events := []Event{
		{RunID: "run-1", Kind: EventDetection, Subject: "report.txt", Count: 1},
		{RunID: "run-1", Kind: EventAgentInvoked, Detail: "pid 4242", Count: 3},
		{RunID: "run-1", Kind: EventApprovedReady, Count: 2},
	}
	for _, event := range events {
		if err := store.RecordEvent(ctx, event); err != nil {
			t.Fatalf("RecordEvent(%s): %v", event.Kind, err)
		}
	}

	got, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d events, want 3", len(got))
	}
	// Most recent first.
	if got[0].Kind != EventApprovedReady {
		t.Errorf("newest event kind = %s, want %s", got[0].Kind, EventApprovedReady)
	}
	if got[2].Subject != "report.txt" {
		t.Errorf("oldest event subject = %q, want report.txt", got[2].Subject)
	}
	if got[1].Detail != "pid 4242" {
		t.Errorf("detail = %q, want pid 4242", got[1].Detail)
	}
	if got[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be populated")
	}
}

func TestRecentHonorsLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := store.RecordEvent(ctx, Event{Kind: EventCycle}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("got %d events, want 2", len(got))
	}
}

func TestNilStoreIsNoop(t *testing.T) {
	var store *Store

	if err := store.RecordEvent(context.Background(), Event{Kind: EventCycle}); err != nil {
		t.Errorf("nil store RecordEvent: %v", err)
	}
	events, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Errorf("nil store Recent: %v", err)
	}
	if events != nil {
		t.Errorf("nil store Recent returned %v", events)
	}
	if err := store.Close(); err != nil {
		t.Errorf("nil store Close: %v", err)
	}
}

func TestReopenPreservesEvents(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	event := Event{Kind: EventWatcherStart, CreatedAt: time.Now()}
	if err := store.RecordEvent(context.Background(), event); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	events, err := reopened.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Kind != EventWatcherStart {
		t.Errorf("events after reopen = %+v", events)
	}
}
