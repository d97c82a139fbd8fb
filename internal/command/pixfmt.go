package command

import (
	"ffdash/internal/encodeconfig"
	"ffdash/internal/probe"
)

// resolvePixelFormat implements the auto pixel-format-policy resolution
// from §3: p010 for >=10-bit sources on hardware paths and nv12 otherwise;
// yuv420p10le/yuv420p on software paths. A fixed policy always wins.
func resolvePixelFormat(input probe.Input, cfg encodeconfig.Config) string {
	if cfg.PixelFormatPolicy == encodeconfig.PixelFormatFixed && cfg.FixedPixelFormat != "" {
		return cfg.FixedPixelFormat
	}

	hardware := cfg.Backend == encodeconfig.BackendVAAPI || cfg.Backend == encodeconfig.BackendQSV || cfg.Backend == encodeconfig.BackendNVENC
	highBitDepth := input.BitDepth >= 10

	if hardware {
		if highBitDepth {
			return "p010"
		}
		return "nv12"
	}
	if highBitDepth {
		return "yuv420p10le"
	}
	return "yuv420p"
}
