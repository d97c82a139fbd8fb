package command

import "ffdash/internal/encodeconfig"

// gopParallelismTuningFlags emits GOP, parallelism, and tuning flags,
// filtered to the ones each backend actually understands. Only
// libvpx-vp9 (software VP9) exposes the full ARNR/auto-alt-ref/row-mt
// knob set; other backends get the widely-supported GOP flags, plus
// -threads when the backend is software.
func gopParallelismTuningFlags(cfg encodeconfig.Config) []string {
	var flags []string

	if cfg.GOP.KeyframeInterval > 0 {
		flags = append(flags, "-g", itoa(cfg.GOP.KeyframeInterval))
	}
	if cfg.GOP.MinKeyframeInterval > 0 {
		flags = append(flags, "-keyint_min", itoa(cfg.GOP.MinKeyframeInterval))
	}

	softwareVP9 := cfg.CodecFamily == encodeconfig.CodecVP9 && cfg.Backend == encodeconfig.BackendSoftware
	software := cfg.Backend == encodeconfig.BackendSoftware

	if software && cfg.Parallelism.Threads > 0 {
		flags = append(flags, "-threads", itoa(cfg.Parallelism.Threads))
	}

	if softwareVP9 {
		if cfg.Parallelism.RowMT {
			flags = append(flags, "-row-mt", "1")
		}
		if cfg.Parallelism.TileColsLog2 > 0 {
			flags = append(flags, "-tile-columns", itoa(cfg.Parallelism.TileColsLog2))
		}
		if cfg.Parallelism.TileRowsLog2 > 0 {
			flags = append(flags, "-tile-rows", itoa(cfg.Parallelism.TileRowsLog2))
		}
		if cfg.Parallelism.LagInFrames > 0 {
			flags = append(flags, "-lag-in-frames", itoa(cfg.Parallelism.LagInFrames))
		}
		if cfg.Tuning.ARNRStrength > 0 {
			flags = append(flags, "-arnr-strength", itoa(cfg.Tuning.ARNRStrength))
		}
		if cfg.Tuning.ARNRMaxFrames > 0 {
			flags = append(flags, "-arnr-maxframes", itoa(cfg.Tuning.ARNRMaxFrames))
		}
		if cfg.Tuning.AutoAltRef {
			flags = append(flags, "-auto-alt-ref", "1")
		}
		if cfg.Tuning.ErrorResilience {
			flags = append(flags, "-error-resilience", "1")
		}
	}

	return flags
}
