// Package encodeconfig defines the immutable per-job encode configuration
// that the command builder, runner, and VMAF calibrator all operate on. A
// Config is derived once from a config.Profile when a job is created and
// never mutated afterward; calibration produces a new Config with an
// adjusted Quality value rather than mutating the original.
package encodeconfig

import "fmt"

// CodecFamily identifies the target video codec.
type CodecFamily string

const (
	CodecVP9 CodecFamily = "vp9"
	CodecAV1 CodecFamily = "av1"
)

// Backend identifies the encoder implementation used to produce the codec.
type Backend string

const (
	BackendSoftware Backend = "software"
	BackendQSV      Backend = "qsv"
	BackendVAAPI    Backend = "vaapi"
	BackendNVENC    Backend = "nvenc"
)

// IsHardware reports whether the backend drives a hardware-accelerated
// encoder session (as opposed to software libvpx/libaom/libsvtav1).
func (b Backend) IsHardware() bool {
	return b == BackendQSV || b == BackendVAAPI || b == BackendNVENC
}

// RateControlMode identifies how the encoder is told to trade off bitrate
// against quality.
type RateControlMode string

const (
	RateControlCQ         RateControlMode = "cq"
	RateControlCQCap      RateControlMode = "cqcap"
	RateControlTwoPassVBR RateControlMode = "twopass_vbr"
	RateControlCBR        RateControlMode = "cbr"
	RateControlCQP        RateControlMode = "cqp"
)

// PixelFormatPolicy controls whether the output pixel format tracks the
// source or is pinned to a fixed value regardless of source depth.
type PixelFormatPolicy string

const (
	PixelFormatAuto  PixelFormatPolicy = "auto"
	PixelFormatFixed PixelFormatPolicy = "fixed"
)

// AudioPolicy controls whether audio streams are copied verbatim or
// transcoded.
type AudioPolicy string

const (
	AudioCopy   AudioPolicy = "copy"
	AudioEncode AudioPolicy = "encode"
)

// ARNRType selects libvpx-vp9's alternate reference denoising filter type.
type ARNRType int

// Tuning groups encoder-quality knobs that are not the primary rate
// control value: temporal filtering, error resilience, and lookahead.
type Tuning struct {
	ARNRStrength    int
	ARNRMaxFrames   int
	ARNRType        ARNRType
	AutoAltRef      bool
	ErrorResilience bool
}

// Parallelism groups knobs controlling how the encoder splits work across
// CPU threads and tiles.
type Parallelism struct {
	RowMT         bool
	TileColsLog2  int
	TileRowsLog2  int
	Threads       int
	LagInFrames   int
}

// GOP groups keyframe interval knobs.
type GOP struct {
	KeyframeInterval    int
	MinKeyframeInterval int
}

// FilterPolicy describes the video filter chain applied ahead of encoding.
type FilterPolicy struct {
	TonemapHDR   bool
	ScaleWidth   int // 0 = no scaling
	ScaleHeight  int
	Deinterlace  bool
}

// AudioConfig describes how audio streams are handled.
type AudioConfig struct {
	Policy                  AudioPolicy
	Codec                   string
	BitrateKbps             int
	Channels                int
	SecondaryAC3            bool
	SecondaryAC3BitrateKbps int
}

// AutoVMAF describes the optional VMAF calibration loop applied before the
// final encode.
type AutoVMAF struct {
	Enabled               bool
	TargetScore           float64
	QualityStep           int
	MaxAttempts           int
	WindowSeconds         float64
	AnalysisBudgetSeconds float64
	FrameSubsampleStride  int
}

// Config is the immutable, fully-resolved encode configuration for a
// single job. It is produced by FromProfile and consumed by the command
// builder, encoder runner, and VMAF calibrator.
type Config struct {
	ProfileName       string
	CodecFamily       CodecFamily
	Backend           Backend
	RateControlMode   RateControlMode
	Quality           int
	TargetBitrateKbps int
	MaxBitrateKbps    int
	BufferSizeKbps    int
	Preset            string
	PixelFormatPolicy PixelFormatPolicy
	FixedPixelFormat  string

	Parallelism Parallelism
	GOP         GOP
	Tuning      Tuning
	Filter      FilterPolicy
	Audio       AudioConfig

	// HardwareDevicePath is the resolved VAAPI/QSV render node this job's
	// hardware session will use. It is filled in once at job creation from
	// the process-wide hardware detection record (see internal/deps), not
	// read from the profile file, so that the Command Builder's inputs
	// stay fully self-contained and deterministic.
	HardwareDevicePath string

	AdditionalArgs []string
	AutoVMAF       AutoVMAF
}

// WithHardwareDevicePath returns a copy of c with HardwareDevicePath set.
func (c Config) WithHardwareDevicePath(path string) Config {
	c.HardwareDevicePath = path
	return c
}

// WithQuality returns a copy of c with Quality replaced. Used by the VMAF
// calibrator to produce successive attempts without mutating the caller's
// Config.
func (c Config) WithQuality(quality int) Config {
	c.Quality = quality
	return c
}

// QualityRange returns the valid [min, max] quality knob range for the
// codec family and backend combination, and whether lower values mean
// higher quality.
func QualityRange(family CodecFamily, backend Backend) (min, max int, lowerIsBetter bool, err error) {
	switch {
	case family == CodecVP9 && backend == BackendSoftware:
		return 0, 63, true, nil
	case family == CodecAV1 && backend == BackendSoftware:
		return 1, 63, true, nil
	case family == CodecAV1 && backend == BackendNVENC:
		return 0, 63, true, nil
	case backend == BackendQSV:
		return 1, 51, true, nil
	case backend == BackendVAAPI:
		return 1, 255, true, nil
	default:
		return 0, 0, false, fmt.Errorf("encodeconfig: no quality knob range for codec family %q on backend %q", family, backend)
	}
}

// ClampQuality bounds quality to the valid range for family and backend.
func ClampQuality(family CodecFamily, backend Backend, quality int) (int, error) {
	min, max, _, err := QualityRange(family, backend)
	if err != nil {
		return 0, err
	}
	if quality < min {
		return min, nil
	}
	if quality > max {
		return max, nil
	}
	return quality, nil
}
