package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "manifest.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAddAndLatestForSource(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	mtime := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	first, err := store.Add(ctx, Record{
		RunID:       "run-1",
		SourcePath:  "/in/a.mp4",
		SourceSize:  1000,
		SourceMTime: mtime,
		OutputPath:  "/out/a.video",
		PayloadSize: 640,
		Duration:    2 * time.Second,
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if first.ID == 0 {
		t.Fatal("expected assigned ID")
	}

	second, err := store.Add(ctx, Record{
		RunID:       "run-2",
		SourcePath:  "/in/a.mp4",
		SourceSize:  1200,
		SourceMTime: mtime.Add(time.Hour),
		OutputPath:  "/out/a.video",
		PayloadSize: 700,
	})
	if err != nil {
		t.Fatalf("Add second: %v", err)
	}

	latest, err := store.LatestForSource(ctx, "/in/a.mp4")
	if err != nil {
		t.Fatalf("LatestForSource: %v", err)
	}
	if latest == nil || latest.ID != second.ID {
		t.Fatalf("expected latest record %d, got %+v", second.ID, latest)
	}
	if latest.SourceSize != 1200 || latest.PayloadSize != 700 {
		t.Fatalf("unexpected record %+v", latest)
	}

	none, err := store.LatestForSource(ctx, "/in/never.mp4")
	if err != nil {
		t.Fatalf("LatestForSource: %v", err)
	}
	if none != nil {
		t.Fatalf("expected nil for unknown source, got %+v", none)
	}
}

func TestUpToDate(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	dir := t.TempDir()

	output := filepath.Join(dir, "a.video")
	if err := os.WriteFile(output, []byte("VID0"), 0o644); err != nil {
		t.Fatalf("write output: %v", err)
	}
	mtime := time.Date(2026, 5, 1, 12, 0, 0, 500, time.UTC)

	if _, err := store.Add(ctx, Record{
		RunID:       "run-1",
		SourcePath:  "/in/a.mp4",
		SourceSize:  1000,
		SourceMTime: mtime,
		OutputPath:  output,
		PayloadSize: 640,
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	ok, err := store.UpToDate(ctx, "/in/a.mp4", 1000, mtime)
	if err != nil {
		t.Fatalf("UpToDate: %v", err)
	}
	if !ok {
		t.Fatal("expected up to date")
	}

	if ok, _ := store.UpToDate(ctx, "/in/a.mp4", 1001, mtime); ok {
		t.Fatal("size change must invalidate")
	}
	if ok, _ := store.UpToDate(ctx, "/in/a.mp4", 1000, mtime.Add(time.Second)); ok {
		t.Fatal("mtime change must invalidate")
	}
	if ok, _ := store.UpToDate(ctx, "/in/b.mp4", 1000, mtime); ok {
		t.Fatal("unknown source must not be up to date")
	}

	if err := os.Remove(output); err != nil {
		t.Fatalf("remove output: %v", err)
	}
	if ok, _ := store.UpToDate(ctx, "/in/a.mp4", 1000, mtime); ok {
		t.Fatal("missing output must invalidate")
	}
}

func TestListRun(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, source := range []string{"/in/a.mp4", "/in/b.mp4"} {
		if _, err := store.Add(ctx, Record{
			RunID: "run-9", SourcePath: source, SourceSize: 1, SourceMTime: now,
			OutputPath: "/out/x.video", PayloadSize: 1,
		}); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if _, err := store.Add(ctx, Record{
		RunID: "run-other", SourcePath: "/in/c.mp4", SourceSize: 1, SourceMTime: now,
		OutputPath: "/out/c.video", PayloadSize: 1,
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	records, err := store.ListRun(ctx, "run-9")
	if err != nil {
		t.Fatalf("ListRun: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].SourcePath != "/in/a.mp4" || records[1].SourcePath != "/in/b.mp4" {
		t.Fatalf("unexpected order: %+v", records)
	}
}
