package queue

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ffdash/internal/encodeconfig"
)

func TestOpenLoadEmptyDirectoryReturnsEmptySnapshot(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	snapshot, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snapshot.Jobs) != 0 {
		t.Fatalf("expected no jobs, got %d", len(snapshot.Jobs))
	}
}

func TestOpenTwiceFromSameProcessFailsSecondTime(t *testing.T) {
	dir := t.TempDir()
	first, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer first.Close()

	if _, err := Open(dir); err == nil {
		t.Fatal("expected second Open on the same directory to fail")
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	snapshot := Snapshot{
		Jobs: []*Job{
			{
				ID:         "/videos/a.mkv",
				InputPath:  "/videos/a.mkv",
				OutputPath: "/videos/a.webm",
				Status:     StatusPending,
				Config:     encodeconfig.Config{Quality: 31},
			},
		},
	}
	if err := store.Save(context.Background(), snapshot); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(reloaded.Jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(reloaded.Jobs))
	}
	if reloaded.Jobs[0].ID != "/videos/a.mkv" {
		t.Fatalf("ID = %q, want /videos/a.mkv", reloaded.Jobs[0].ID)
	}
	if reloaded.Jobs[0].Status != StatusPending {
		t.Fatalf("Status = %q, want pending", reloaded.Jobs[0].Status)
	}
}

func TestSaveWritesAtomicallyViaTempAndRename(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	if err := store.Save(context.Background(), Snapshot{}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, stateFileName+".tmp")); !os.IsNotExist(err) {
		t.Fatalf("expected temp file to be renamed away, stat err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, stateFileName)); err != nil {
		t.Fatalf("expected .enc_state to exist: %v", err)
	}
}

func TestLoadIgnoresUnknownFields(t *testing.T) {
	dir := t.TempDir()
	contents := `{"jobs":[{"id":"x","status":"pending","some_future_field":"whatever"}],"schema_version":99}`
	if err := os.WriteFile(filepath.Join(dir, stateFileName), []byte(contents), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	snapshot, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snapshot.Jobs) != 1 || snapshot.Jobs[0].ID != "x" {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}
}

func TestLoadMapsUnknownStatusToPending(t *testing.T) {
	dir := t.TempDir()
	contents := `{"jobs":[{"id":"x","status":"reticulating"}]}`
	if err := os.WriteFile(filepath.Join(dir, stateFileName), []byte(contents), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	snapshot, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snapshot.Jobs[0].Status != StatusPending {
		t.Fatalf("Status = %q, want pending", snapshot.Jobs[0].Status)
	}
}

func TestProgressFieldIsNeverPersisted(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	snapshot := Snapshot{Jobs: []*Job{{ID: "x", Progress: &ProgressSample{FrameNumber: 500}}}}
	data, err := json.Marshal(snapshot)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(data), "FrameNumber") || strings.Contains(string(data), "500") {
		t.Fatalf("expected Progress to be excluded from marshaled snapshot, got %s", data)
	}
}
