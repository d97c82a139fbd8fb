package scheduler

import (
	"os"
	"testing"

	"ffdash/internal/queue"
)

func withStatFunc(t *testing.T, exists map[string]bool) {
	t.Helper()
	original := statFunc
	statFunc = func(path string) (os.FileInfo, error) {
		if exists[path] {
			return nil, nil
		}
		return nil, os.ErrNotExist
	}
	t.Cleanup(func() { statFunc = original })
}

func TestEligibleRequiresInputToExist(t *testing.T) {
	withStatFunc(t, map[string]bool{})
	job := &queue.Job{InputPath: "in.mkv", OutputPath: "out.mkv"}
	if eligible(job, false) {
		t.Fatal("expected job with missing input to be ineligible")
	}
}

func TestEligibleSkipsWhenOutputExistsAndNoOverwrite(t *testing.T) {
	withStatFunc(t, map[string]bool{"in.mkv": true, "out.mkv": true})
	job := &queue.Job{InputPath: "in.mkv", OutputPath: "out.mkv"}
	if eligible(job, false) {
		t.Fatal("expected job with existing output to be ineligible without overwrite")
	}
}

func TestEligibleAllowsExistingOutputWithOverwrite(t *testing.T) {
	withStatFunc(t, map[string]bool{"in.mkv": true, "out.mkv": true})
	job := &queue.Job{InputPath: "in.mkv", OutputPath: "out.mkv"}
	if !eligible(job, true) {
		t.Fatal("expected overwrite to make an existing-output job eligible")
	}
}

func TestNextPendingScansInFIFOOrderAndSkipsIneligible(t *testing.T) {
	withStatFunc(t, map[string]bool{"a.mkv": true, "b.mkv": true, "b.out.mkv": true, "c.mkv": true})
	jobs := []*queue.Job{
		{ID: "a", InputPath: "a.mkv", OutputPath: "a.out.mkv", Status: queue.StatusDone},
		{ID: "b", InputPath: "b.mkv", OutputPath: "b.out.mkv", Status: queue.StatusPending},
		{ID: "c", InputPath: "c.mkv", OutputPath: "c.out.mkv", Status: queue.StatusPending},
	}
	got := nextPending(jobs, false)
	if got == nil || got.ID != "c" {
		t.Fatalf("expected job c (b's output already exists), got %v", got)
	}
}

func TestNextPendingReturnsNilWhenNoneEligible(t *testing.T) {
	withStatFunc(t, map[string]bool{})
	jobs := []*queue.Job{{ID: "a", InputPath: "missing.mkv", Status: queue.StatusPending}}
	if got := nextPending(jobs, false); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
