package vmaf

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadPooledScoreParsesMean(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vmaf.json")
	contents := `{"pooled_metrics":{"vmaf":{"min":80.1,"max":99.2,"mean":95.734,"harmonic_mean":95.5}}}`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	score, err := ReadPooledScore(path)
	if err != nil {
		t.Fatalf("ReadPooledScore: %v", err)
	}
	if score != 95.734 {
		t.Fatalf("score = %v, want 95.734", score)
	}
}

func TestReadPooledScoreMissingFile(t *testing.T) {
	if _, err := ReadPooledScore(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing log file")
	}
}
