// Package vmaf implements the calibration loop that narrows a job's
// quality knob to the least aggressive setting whose measured VMAF meets
// the configured target, by encoding and scoring a handful of short
// sample windows instead of the full file.
package vmaf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ffdash/internal/command"
	"ffdash/internal/encodeconfig"
	"ffdash/internal/probe"
	"ffdash/internal/queue"
	"ffdash/internal/runner"
	"ffdash/internal/services"
)

// ErrCalibration marks a runner or filesystem failure inside the
// calibration loop, distinct from a target-not-met shortfall (which is
// not an error: the caller still encodes with the best quality seen).
var ErrCalibration = errors.New("vmaf: calibration attempt failed")

// candidate holds one iteration's outcome for tracking the best-seen
// result when the target is never met.
type candidate struct {
	quality int
	score   float64
}

// Calibrate runs the iterative window-sampling loop from §4.5. It returns
// the calibration outcome and the config snapshot to actually encode with
// (unchanged if calibration is skipped or never improves on cfg.Quality).
func Calibrate(ctx context.Context, binary string, input probe.Input, cfg encodeconfig.Config, jobID string) (queue.CalibrationResult, encodeconfig.Config, error) {
	auto := cfg.AutoVMAF
	if !auto.Enabled {
		return skip("auto-vmaf disabled"), cfg, nil
	}
	if !compatible(cfg) {
		return skip(fmt.Sprintf("rate control mode %q on backend %q is not calibratable", cfg.RateControlMode, cfg.Backend)), cfg, nil
	}

	_, _, lowerIsBetter, err := encodeconfig.QualityRange(cfg.CodecFamily, cfg.Backend)
	if err != nil {
		return queue.CalibrationResult{}, cfg, err
	}

	windows := SelectWindows(input.Duration, auto.WindowSeconds, auto.AnalysisBudgetSeconds)

	scratchDir := filepath.Join(filepath.Dir(input.Path), ".ffdash_tmp", jobID)
	if err := os.MkdirAll(scratchDir, 0o755); err != nil {
		return queue.CalibrationResult{}, cfg, services.Wrap(services.ErrExternalTool, "vmaf", "mkdir", scratchDir, err)
	}

	maxAttempts := auto.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var best *candidate
	attempt := 1
	for {
		pooled, err := measure(ctx, binary, input, cfg, windows, scratchDir, attempt)
		if err != nil {
			return queue.CalibrationResult{}, cfg, err
		}
		if best == nil || pooled > best.score {
			best = &candidate{quality: cfg.Quality, score: pooled}
		}

		if pooled >= auto.TargetScore {
			os.RemoveAll(scratchDir)
			return queue.CalibrationResult{
				ChosenQuality: cfg.Quality,
				MeasuredVMAF:  pooled,
				Iterations:    attempt,
				TargetMet:     true,
			}, cfg.WithQuality(cfg.Quality), nil
		}

		if attempt >= maxAttempts {
			break
		}

		next := stepQuality(cfg.Quality, auto.QualityStep, lowerIsBetter)
		clamped, err := encodeconfig.ClampQuality(cfg.CodecFamily, cfg.Backend, next)
		if err != nil {
			return queue.CalibrationResult{}, cfg, err
		}
		if clamped == cfg.Quality {
			// No room left to move the knob; stop and report shortfall.
			break
		}
		cfg = cfg.WithQuality(clamped)
		attempt++
	}

	// Retained for debugging: the sample encodes and VMAF logs from the
	// losing attempts stay under scratchDir.
	return queue.CalibrationResult{
		ChosenQuality: best.quality,
		MeasuredVMAF:  best.score,
		Iterations:    attempt,
		TargetMet:     false,
	}, cfg.WithQuality(best.quality), nil
}

func skip(reason string) queue.CalibrationResult {
	return queue.CalibrationResult{Skipped: true, SkipReason: reason}
}

// compatible reports whether cfg's rate-control mode can be calibrated:
// CQ on any backend, CQCap on software, or CQP on a hardware backend.
func compatible(cfg encodeconfig.Config) bool {
	switch cfg.RateControlMode {
	case encodeconfig.RateControlCQ:
		return true
	case encodeconfig.RateControlCQCap:
		return cfg.Backend == encodeconfig.BackendSoftware
	case encodeconfig.RateControlCQP:
		return cfg.Backend == encodeconfig.BackendVAAPI || cfg.Backend == encodeconfig.BackendQSV
	default:
		return false
	}
}

// stepQuality moves the knob one step toward higher quality: down for
// backends where lower is better, up otherwise.
func stepQuality(current, step int, lowerIsBetter bool) int {
	if step <= 0 {
		step = 1
	}
	if lowerIsBetter {
		return current - step
	}
	return current + step
}

// measure encodes every selected window at the current quality, scores
// each against its reference extract, and returns the arithmetic mean.
func measure(ctx context.Context, binary string, input probe.Input, cfg encodeconfig.Config, windows []command.Window, scratchDir string, attempt int) (float64, error) {
	var total float64
	for i, window := range windows {
		score, err := measureWindow(ctx, binary, input, cfg, window, scratchDir, attempt, i)
		if err != nil {
			return 0, err
		}
		total += score
	}
	return total / float64(len(windows)), nil
}

func measureWindow(ctx context.Context, binary string, input probe.Input, cfg encodeconfig.Config, window command.Window, scratchDir string, attempt, index int) (float64, error) {
	distortedPath := filepath.Join(scratchDir, fmt.Sprintf("sample_%d_%d.mkv", attempt, index))
	referencePath := filepath.Join(scratchDir, fmt.Sprintf("reference_%d_%d.mkv", attempt, index))
	logPath := filepath.Join(scratchDir, fmt.Sprintf("vmaf_%d_%d.json", attempt, index))

	pass := command.NewCalibrationSample(window.StartSeconds, window.DurationSeconds)
	args, err := command.Build(input, cfg, pass, distortedPath)
	if err != nil {
		return 0, err
	}
	// The sample encode is cancelled after ten times the window's length.
	sampleCtx, cancel := context.WithTimeout(ctx, time.Duration(10*window.DurationSeconds*float64(time.Second)))
	defer cancel()
	if _, err := runner.Run(sampleCtx, runner.Options{Binary: binary, Args: args, OutputPath: distortedPath}); err != nil {
		return 0, fmt.Errorf("%w: sample encode: %v", ErrCalibration, err)
	}

	if _, err := runner.Run(ctx, runner.Options{Binary: binary, Args: extractReferenceArgs(input.Path, window, referencePath)}); err != nil {
		return 0, fmt.Errorf("%w: reference extract: %v", ErrCalibration, err)
	}

	compareArgs, err := command.Build(input, cfg, command.NewVmafCompare(referencePath, distortedPath, logPath, cfg.AutoVMAF.FrameSubsampleStride), "")
	if err != nil {
		return 0, err
	}
	if _, err := runner.Run(ctx, runner.Options{Binary: binary, Args: compareArgs}); err != nil {
		return 0, fmt.Errorf("%w: vmaf compare: %v", ErrCalibration, err)
	}

	score, err := ReadPooledScore(logPath)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCalibration, err)
	}
	return score, nil
}

// extractReferenceArgs builds a plain stream-copy extraction of the
// original source over window: it isn't an encode, so it falls outside
// the Command Builder's scope.
func extractReferenceArgs(inputPath string, window command.Window, outputPath string) []string {
	return []string{
		"-ss", formatSeconds(window.StartSeconds),
		"-t", formatSeconds(window.DurationSeconds),
		"-i", inputPath,
		"-c", "copy",
		outputPath,
	}
}

func formatSeconds(seconds float64) string {
	return fmt.Sprintf("%.3f", seconds)
}
