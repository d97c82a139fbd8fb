// Package command implements the Command Builder: a pure function mapping
// (Input, EncodeConfig, Pass, output path) to the complete ffmpeg argument
// vector. It never invokes ffmpeg itself and never shells out; the Runner
// owns process execution.
package command

import (
	"fmt"

	"ffdash/internal/encodeconfig"
	"ffdash/internal/probe"
)

// nullSink is the output target ffmpeg discards to during pass 1 of a
// two-pass encode.
const nullSink = "/dev/null"

// Build produces the complete argument vector for the given
// (Input, EncodeConfig, Pass) tuple, following the 10-step layout of
// §4.2. It is deterministic: identical arguments always yield an
// identical vector. outputPath is the destination for this specific
// invocation — the job's final output for Single/Second, a temporary
// sample file for CalibrationSample, and ignored (nullSink is used
// instead) for First.
func Build(input probe.Input, cfg encodeconfig.Config, pass Pass, outputPath string) ([]string, error) {
	if pass.Kind == VmafCompare {
		return buildVMAFCompare(pass)
	}

	emitter, encoder, err := lookupRateControl(cfg)
	if err != nil {
		return nil, err
	}

	var args []string

	// 1. Global input options: hardware device init, progress reporter.
	args = append(args, hardwareInitFlags(cfg)...)
	args = append(args, "-progress", "-", "-nostats")

	// 2. Seek/limit for sample windows.
	if pass.Kind == CalibrationSample {
		args = append(args, "-ss", formatSeconds(pass.Window.StartSeconds), "-t", formatSeconds(pass.Window.DurationSeconds))
	}

	// 3. Input.
	args = append(args, "-i", input.Path)

	// 4. Video filter chain.
	pixelFormat := resolvePixelFormat(input, cfg)
	if filterChain := buildFilterChain(input, cfg, pixelFormat); filterChain != "" {
		args = append(args, "-vf", filterChain)
	} else if !isHardwareUploadBackend(cfg.Backend) {
		args = append(args, "-pix_fmt", pixelFormat)
	}

	// 5. Video encoder selection and its rate-control knobs.
	args = append(args, "-c:v", encoder)
	args = append(args, emitter(cfg, pass.Kind, twoPassLogPath(pass))...)

	// 6. GOP, parallelism, tuning flags.
	args = append(args, gopParallelismTuningFlags(cfg)...)

	if pass.Kind == First {
		// Pass 1 flags already carry -an -f null; nothing else to map.
		args = append(args, nullSink)
		return args, nil
	}

	// 7 & 8. Audio selection and subtitle passthrough.
	args = append(args, mapAndStreamFlags(input, cfg, outputPath)...)

	// 9. Additional args, verbatim, immediately before the output path.
	args = append(args, cfg.AdditionalArgs...)

	// 10. Output target.
	args = append(args, outputPath)

	return args, nil
}

func lookupRateControl(cfg encodeconfig.Config) (func(encodeconfig.Config, Kind, string) []string, string, error) {
	encoder, ok := encoderName(cfg.CodecFamily, cfg.Backend)
	if !ok {
		return nil, "", unsupportedCombination(cfg)
	}
	emitter, ok := rateControlEmitters[comboKey{cfg.CodecFamily, cfg.Backend, cfg.RateControlMode}]
	if !ok {
		return nil, "", unsupportedCombination(cfg)
	}
	return emitter, encoder, nil
}

func hardwareInitFlags(cfg encodeconfig.Config) []string {
	switch cfg.Backend {
	case encodeconfig.BackendVAAPI:
		device := cfg.HardwareDevicePath
		if device == "" {
			device = "/dev/dri/renderD128"
		}
		return []string{
			"-init_hw_device", fmt.Sprintf("vaapi=va:%s", device),
			"-hwaccel", "vaapi",
			"-hwaccel_output_format", "vaapi",
		}
	case encodeconfig.BackendQSV:
		device := cfg.HardwareDevicePath
		if device == "" {
			device = "/dev/dri/renderD128"
		}
		return []string{
			"-init_hw_device", fmt.Sprintf("qsv=qsv:%s", device),
			"-hwaccel", "qsv",
			"-hwaccel_output_format", "qsv",
		}
	default:
		return nil
	}
}

func twoPassLogPath(pass Pass) string {
	return pass.PassLogPath
}

func formatSeconds(seconds float64) string {
	return fmt.Sprintf("%.3f", seconds)
}
