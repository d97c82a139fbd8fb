package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ffdash/internal/config"
	"ffdash/internal/deps"
	"ffdash/internal/encodeconfig"
	"ffdash/internal/queue"
)

// videoExtensions is the set of container extensions scan considers
// candidate input files. Anything else in the directory is left alone.
var videoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".mov":  true,
	".webm": true,
	".avi":  true,
	".m4v":  true,
}

// discoverInputs lists candidate video files directly inside dir, sorted
// for deterministic FIFO ordering.
func discoverInputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !videoExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		abs, err := filepath.Abs(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("resolve path for %s: %w", entry.Name(), err)
		}
		paths = append(paths, abs)
	}
	sort.Strings(paths)
	return paths, nil
}

// outputExtension picks the container extension idiomatic for the codec
// family: WebM for VP9, Matroska for AV1.
func outputExtension(family encodeconfig.CodecFamily) string {
	switch family {
	case encodeconfig.CodecVP9:
		return ".webm"
	default:
		return ".mkv"
	}
}

// deriveOutputPath places the encoded file alongside the source, tagged
// with the profile name so re-running scan with a different profile
// doesn't collide with a prior run's output.
func deriveOutputPath(inputPath string, cfg encodeconfig.Config) string {
	dir := filepath.Dir(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	name := fmt.Sprintf("%s.%s%s", base, cfg.ProfileName, outputExtension(cfg.CodecFamily))
	return filepath.Join(dir, name)
}

// resolveProfile looks up the named profile, falling back to "default" or
// the sole profile a config defines when name is empty.
func resolveProfile(cfg *config.Config, name string) (config.Profile, error) {
	if name != "" {
		p, ok := cfg.Profile(name)
		if !ok {
			return config.Profile{}, fmt.Errorf("no such profile %q", name)
		}
		return p, nil
	}
	if p, ok := cfg.Profile("default"); ok {
		return p, nil
	}
	if len(cfg.Profiles) == 1 {
		return cfg.Profiles[0], nil
	}
	return config.Profile{}, fmt.Errorf("no profile specified and no unambiguous default")
}

// buildJobsForDirectory turns every discovered input file into a Pending
// Job under the named profile, skipping files that already have a Job in
// the directory's existing snapshot.
func buildJobsForDirectory(dir string, cfg *config.Config, profileName string, existing []*queue.Job, hw deps.HardwareDevice) ([]*queue.Job, error) {
	profile, err := resolveProfile(cfg, profileName)
	if err != nil {
		return nil, err
	}
	encCfg, err := encodeconfig.FromProfile(profile)
	if err != nil {
		return nil, err
	}
	if hw.Available && (encCfg.Backend == encodeconfig.BackendVAAPI || encCfg.Backend == encodeconfig.BackendQSV) {
		encCfg = encCfg.WithHardwareDevicePath(hw.Path)
	}

	seen := make(map[string]bool, len(existing))
	for _, job := range existing {
		seen[job.ID] = true
	}

	inputs, err := discoverInputs(dir)
	if err != nil {
		return nil, err
	}

	jobs := make([]*queue.Job, 0, len(inputs))
	for _, input := range inputs {
		id := queue.DeriveID(input)
		if seen[id] {
			continue
		}
		jobs = append(jobs, &queue.Job{
			ID:         id,
			InputPath:  input,
			OutputPath: deriveOutputPath(input, encCfg),
			Config:     encCfg,
			Status:     queue.StatusPending,
		})
	}
	return jobs, nil
}
