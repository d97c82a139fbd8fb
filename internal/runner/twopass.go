package runner

import (
	"context"
	"path/filepath"

	"ffdash/internal/command"
	"ffdash/internal/encodeconfig"
	"ffdash/internal/probe"
	"ffdash/internal/queue"
)

// RunTwoPass drives a two-pass encode: pass 1 analyzes the full input and
// writes a log under scratchDir, pass 2 reuses that log to produce the
// real output. Pass 2 is not attempted if pass 1 fails or is cancelled.
func RunTwoPass(ctx context.Context, binary string, input probe.Input, cfg encodeconfig.Config, outputPath, scratchDir string, samples chan<- queue.ProgressSample) (Result, error) {
	passLogPath := filepath.Join(scratchDir, "ffmpeg2pass")

	firstArgs, err := command.Build(input, cfg, command.NewFirst(passLogPath), outputPath)
	if err != nil {
		return Result{}, err
	}
	firstResult, err := Run(ctx, Options{
		Binary:  binary,
		Args:    firstArgs,
		Samples: samples,
	})
	if err != nil {
		return firstResult, err
	}

	secondArgs, err := command.Build(input, cfg, command.NewSecond(passLogPath), outputPath)
	if err != nil {
		return Result{}, err
	}
	return Run(ctx, Options{
		Binary:     binary,
		Args:       secondArgs,
		OutputPath: outputPath,
		Samples:    samples,
	})
}
