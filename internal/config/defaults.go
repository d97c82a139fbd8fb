package config

const (
	defaultLogDir            = "~/.local/share/ffdash/logs"
	defaultHistoryDBPath     = "~/.cache/ffdash/history.db"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultWorkers           = 2
	defaultQueuePollSeconds  = 2
	defaultStateWriteRetries = 3
	defaultStateBackoffMs    = 100
	defaultFFmpegBinary      = "ffmpeg"
	defaultFFprobeBinary     = "ffprobe"
	defaultProbeTimeout      = 10
	defaultStderrTailLines   = 50
	defaultCancelGraceSecs   = 2
)

var defaultVAAPIDevicePaths = []string{"/dev/dri/renderD128", "/dev/dri/renderD129"}

// Default returns a Config populated with repository defaults, including a
// single "default" software-VP9 CQ profile so ffdash is usable out of the box.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:        defaultLogDir,
			HistoryDBPath: defaultHistoryDBPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Hardware: Hardware{
			VAAPIDevicePaths:     append([]string(nil), defaultVAAPIDevicePaths...),
			HardwareSessionLimit: 0,
		},
		Scheduler: Scheduler{
			Workers:             defaultWorkers,
			OverwriteExisting:   false,
			QueuePollSeconds:    defaultQueuePollSeconds,
			StateWriteRetries:   defaultStateWriteRetries,
			StateWriteBackoffMs: defaultStateBackoffMs,
		},
		Tools: Tools{
			FFmpegBinary:        defaultFFmpegBinary,
			FFprobeBinary:       defaultFFprobeBinary,
			ProbeTimeoutSeconds: defaultProbeTimeout,
			StderrTailLines:     defaultStderrTailLines,
			CancelGraceSeconds:  defaultCancelGraceSecs,
		},
		Profiles: []Profile{defaultProfile()},
	}
}

func defaultProfile() Profile {
	return Profile{
		Name:                "default",
		CodecFamily:         "vp9",
		Backend:             "software",
		RateControlMode:     "cq",
		Quality:             31,
		Preset:              "good",
		PixelFormatPolicy:   "auto",
		RowMT:               true,
		Threads:             0,
		LagInFrames:         25,
		KeyframeInterval:    240,
		MinKeyframeInterval: 0,
		ARNRStrength:        1,
		ARNRMaxFrames:       7,
		AutoAltRef:          true,
		TonemapHDR:          true,
		AudioPolicy:         "copy",
	}
}
