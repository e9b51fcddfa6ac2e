package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"
)

func TestWatcher_ReportsSettledCandidates(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, WithDebounce(200*time.Millisecond))
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	paths := w.Watch(ctx)

	video := filepath.Join(dir, "talk.mp4")
	if err := os.WriteFile(video, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-paths:
		if got != video {
			t.Errorf("Watch() reported %q, want %q", got, video)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for candidate")
	}

	cancel()
	for range paths {
	}
}

func TestWatcher_NewSubdirectory(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, WithDebounce(100*time.Millisecond))
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	paths := w.Watch(ctx)

	sub := filepath.Join(dir, "day1")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	// Give the loop time to register the new directory
	time.Sleep(300 * time.Millisecond)

	video := filepath.Join(sub, "clip.mkv")
	if err := os.WriteFile(video, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-paths:
		if got != video {
			t.Errorf("Watch() reported %q, want %q", got, video)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for candidate in new subdirectory")
	}
}

func TestWatcher_Settled(t *testing.T) {
	w := &Watcher{debounce: time.Second, pending: map[string]time.Time{}}
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	w.pending["/v/a.mp4"] = base
	w.pending["/v/b.mp4"] = base.Add(900 * time.Millisecond)
	w.pending["/v/c.mp4"] = base.Add(-time.Second)

	got := w.settled(base.Add(time.Second))
	sort.Strings(got)

	if len(got) != 2 || got[0] != "/v/a.mp4" || got[1] != "/v/c.mp4" {
		t.Errorf("settled() = %v, want [/v/a.mp4 /v/c.mp4]", got)
	}
	if _, ok := w.pending["/v/b.mp4"]; !ok || len(w.pending) != 1 {
		t.Errorf("pending = %v, want only /v/b.mp4 left", w.pending)
	}
}

func TestNew_MissingDirectory(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("New() on a missing directory should fail")
	}
}
