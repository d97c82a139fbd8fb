package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}

	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}

	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}
}

func TestDetectVAAPIDevicePicksFirstExistingPath(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "renderD128")
	present := filepath.Join(dir, "renderD129")
	if err := os.WriteFile(present, nil, 0o644); err != nil {
		t.Fatalf("write stub device: %v", err)
	}

	device := DetectVAAPIDevice([]string{missing, present})
	if !device.Available || device.Path != present {
		t.Fatalf("expected %s to be selected, got %#v", present, device)
	}
}

func TestDetectVAAPIDeviceReportsUnavailableWhenNoneExist(t *testing.T) {
	dir := t.TempDir()
	device := DetectVAAPIDevice([]string{filepath.Join(dir, "renderD128")})
	if device.Available {
		t.Fatal("expected no device to be found")
	}
	if device.Detail == "" {
		t.Fatal("expected a detail message when no device is found")
	}
}

func TestDetectVAAPIDeviceFallsBackToDefaultPathsWhenEmpty(t *testing.T) {
	device := DetectVAAPIDevice(nil)
	if device.Available {
		t.Skip("environment happens to have a render node; nothing to assert")
	}
	if device.Detail == "" {
		t.Fatal("expected a detail message")
	}
}

func TestDetectQSVDeviceReusesVAAPISearch(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "renderD128")
	if err := os.WriteFile(present, nil, 0o644); err != nil {
		t.Fatalf("write stub device: %v", err)
	}
	device := DetectQSVDevice([]string{present})
	if !device.Available || device.Path != present {
		t.Fatalf("expected %s to be selected, got %#v", present, device)
	}
}
