// Package config loads and validates ffdash's TOML configuration: encoding
// profiles, scheduler defaults, hardware device search paths, and the
// locations ffdash uses for logs and job history.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directories ffdash reads from and writes to.
type Paths struct {
	LogDir        string `toml:"log_dir"`
	HistoryDBPath string `toml:"history_db_path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"` // "console" or "json"
	Level  string `toml:"level"`
}

// Hardware contains configuration for hardware-accelerated backends.
type Hardware struct {
	VAAPIDevicePaths     []string `toml:"vaapi_device_paths"`
	HardwareSessionLimit int      `toml:"hardware_session_limit"` // 0 = unlimited concurrent hardware sessions
}

// Scheduler contains worker pool and dispatch configuration.
type Scheduler struct {
	Workers             int  `toml:"workers"`
	OverwriteExisting   bool `toml:"overwrite_existing"`
	QueuePollSeconds    int  `toml:"queue_poll_seconds"`
	StateWriteRetries   int  `toml:"state_write_retries"`
	StateWriteBackoffMs int  `toml:"state_write_backoff_ms"`
}

// Tools contains the external binaries ffdash shells out to.
type Tools struct {
	FFmpegBinary        string `toml:"ffmpeg_binary"`
	FFprobeBinary       string `toml:"ffprobe_binary"`
	ProbeTimeoutSeconds int    `toml:"probe_timeout_seconds"`
	StderrTailLines     int    `toml:"stderr_tail_lines"`
	CancelGraceSeconds  int    `toml:"cancel_grace_seconds"`
}

// Config encapsulates all configuration values for ffdash.
//
// Configuration sections by subsystem:
//   - Paths: log directory and job history database location
//   - Logging: log format and level
//   - Hardware: VAAPI device search paths and the hardware session limit
//   - Scheduler: worker pool sizing and dispatch policy
//   - Tools: external binary names and timeouts
//   - Profiles: named encoding profiles applied to scanned files
type Config struct {
	Paths     Paths     `toml:"paths"`
	Logging   Logging   `toml:"logging"`
	Hardware  Hardware  `toml:"hardware"`
	Scheduler Scheduler `toml:"scheduler"`
	Tools     Tools     `toml:"tools"`
	Profiles  []Profile `toml:"profiles"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/ffdash/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. When path is empty,
// the default location is used if present, then ./ffdash.toml in the
// working directory; otherwise repository defaults (including the built-in
// "default" profile) apply.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/ffdash/config.toml")
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("ffdash.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates directories ffdash needs at startup.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
		return fmt.Errorf("create log directory %q: %w", c.Paths.LogDir, err)
	}
	if dir := filepath.Dir(c.Paths.HistoryDBPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}
	return nil
}

// Profile returns the named encoding profile, or false if it is not defined.
func (c *Config) Profile(name string) (Profile, bool) {
	for _, p := range c.Profiles {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
