package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.normalizeHardware()
	c.normalizeScheduler()
	c.normalizeTools()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDBPath) == "" {
		c.Paths.HistoryDBPath = defaultHistoryDBPath
	}
	if c.Paths.HistoryDBPath, err = expandPath(c.Paths.HistoryDBPath); err != nil {
		return fmt.Errorf("paths.history_db_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeHardware() {
	if len(c.Hardware.VAAPIDevicePaths) == 0 {
		c.Hardware.VAAPIDevicePaths = append([]string(nil), defaultVAAPIDevicePaths...)
	}
	if raw, ok := os.LookupEnv("FFDASH_VAAPI_DEVICE_PATHS"); ok && strings.TrimSpace(raw) != "" {
		c.Hardware.VAAPIDevicePaths = strings.Split(raw, ":")
	}
	if c.Hardware.HardwareSessionLimit < 0 {
		c.Hardware.HardwareSessionLimit = 0
	}
}

func (c *Config) normalizeScheduler() {
	if c.Scheduler.Workers <= 0 {
		c.Scheduler.Workers = defaultWorkers
	}
	if c.Scheduler.QueuePollSeconds <= 0 {
		c.Scheduler.QueuePollSeconds = defaultQueuePollSeconds
	}
	if c.Scheduler.StateWriteRetries <= 0 {
		c.Scheduler.StateWriteRetries = defaultStateWriteRetries
	}
	if c.Scheduler.StateWriteBackoffMs <= 0 {
		c.Scheduler.StateWriteBackoffMs = defaultStateBackoffMs
	}
}

func (c *Config) normalizeTools() {
	c.Tools.FFmpegBinary = strings.TrimSpace(c.Tools.FFmpegBinary)
	if c.Tools.FFmpegBinary == "" {
		c.Tools.FFmpegBinary = defaultFFmpegBinary
	}
	c.Tools.FFprobeBinary = strings.TrimSpace(c.Tools.FFprobeBinary)
	if c.Tools.FFprobeBinary == "" {
		c.Tools.FFprobeBinary = defaultFFprobeBinary
	}
	if c.Tools.ProbeTimeoutSeconds <= 0 {
		c.Tools.ProbeTimeoutSeconds = defaultProbeTimeout
	}
	if c.Tools.StderrTailLines <= 0 {
		c.Tools.StderrTailLines = defaultStderrTailLines
	}
	if c.Tools.CancelGraceSeconds <= 0 {
		c.Tools.CancelGraceSeconds = defaultCancelGraceSecs
	}
}
