package encodeconfig

import (
	"fmt"
	"strings"

	"ffdash/internal/config"
)

// FromProfile snapshots a config.Profile into an immutable Config. The
// snapshot is taken once, when a job is created; later edits to the
// Profile in the configuration file never affect jobs already queued.
func FromProfile(p config.Profile) (Config, error) {
	family := CodecFamily(strings.ToLower(p.CodecFamily))
	backend := Backend(strings.ToLower(p.Backend))
	mode := RateControlMode(strings.ToLower(p.RateControlMode))

	if _, _, _, err := QualityRange(family, backend); err != nil {
		return Config{}, fmt.Errorf("profile %q: %w", p.Name, err)
	}

	pixelPolicy := PixelFormatPolicy(strings.ToLower(p.PixelFormatPolicy))
	if pixelPolicy == "" {
		pixelPolicy = PixelFormatAuto
	}
	audioPolicy := AudioPolicy(strings.ToLower(p.AudioPolicy))
	if audioPolicy == "" {
		audioPolicy = AudioCopy
	}

	cfg := Config{
		ProfileName:       p.Name,
		CodecFamily:       family,
		Backend:           backend,
		RateControlMode:   mode,
		Quality:           p.Quality,
		TargetBitrateKbps: p.TargetBitrateKbps,
		MaxBitrateKbps:    p.MaxBitrateKbps,
		BufferSizeKbps:    p.BufferSizeKbps,
		Preset:            p.Preset,
		PixelFormatPolicy: pixelPolicy,
		FixedPixelFormat:  p.FixedPixelFormat,

		Parallelism: Parallelism{
			RowMT:        p.RowMT,
			TileColsLog2: p.TileColsLog2,
			TileRowsLog2: p.TileRowsLog2,
			Threads:      p.Threads,
			LagInFrames:  p.LagInFrames,
		},
		GOP: GOP{
			KeyframeInterval:    p.KeyframeInterval,
			MinKeyframeInterval: p.MinKeyframeInterval,
		},
		Tuning: Tuning{
			ARNRStrength:    p.ARNRStrength,
			ARNRMaxFrames:   p.ARNRMaxFrames,
			ARNRType:        ARNRType(p.ARNRType),
			AutoAltRef:      p.AutoAltRef,
			ErrorResilience: p.ErrorResilience,
		},
		Filter: FilterPolicy{
			TonemapHDR:  p.TonemapHDR,
			ScaleWidth:  p.ScaleWidth,
			ScaleHeight: p.ScaleHeight,
			Deinterlace: p.Deinterlace,
		},
		Audio: AudioConfig{
			Policy:                  audioPolicy,
			Codec:                   p.AudioCodec,
			BitrateKbps:             p.AudioBitrateKbps,
			Channels:                p.AudioChannels,
			SecondaryAC3:            p.SecondaryAC3,
			SecondaryAC3BitrateKbps: p.SecondaryAC3BitrateKbps,
		},
		AdditionalArgs: append([]string(nil), p.AdditionalArgs...),
		AutoVMAF: AutoVMAF{
			Enabled:               p.AutoVMAF.Enabled,
			TargetScore:           p.AutoVMAF.TargetScore,
			QualityStep:           p.AutoVMAF.QualityStep,
			MaxAttempts:           p.AutoVMAF.MaxAttempts,
			WindowSeconds:         p.AutoVMAF.WindowSeconds,
			AnalysisBudgetSeconds: p.AutoVMAF.AnalysisBudgetSeconds,
			FrameSubsampleStride:  p.AutoVMAF.FrameSubsampleStride,
		},
	}

	quality, err := ClampQuality(family, backend, cfg.Quality)
	if err != nil {
		return Config{}, fmt.Errorf("profile %q: %w", p.Name, err)
	}
	cfg.Quality = quality

	return cfg, nil
}
