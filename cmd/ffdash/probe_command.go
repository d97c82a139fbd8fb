package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ffdash/internal/probe"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <file>",
		Short: "Inspect a media file with ffprobe and print its descriptor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			timeout := time.Duration(cfg.Tools.ProbeTimeoutSeconds) * time.Second
			if timeout <= 0 {
				timeout = 10 * time.Second
			}

			input, err := probeFunc(cmd.Context(), cfg.Tools.FFprobeBinary, args[0], timeout)
			if err != nil {
				return fmt.Errorf("probe %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			headers := []string{"Field", "Value"}
			rows := [][]string{
				{"Path", input.Path},
				{"Container", input.Container},
				{"Duration", fmt.Sprintf("%.2fs", input.Duration)},
				{"Resolution", fmt.Sprintf("%dx%d", input.Width, input.Height)},
				{"Frame Rate", fmt.Sprintf("%.3f", input.FrameRate)},
				{"Pixel Format", input.PixelFormat},
				{"Bit Depth", fmt.Sprintf("%d", input.BitDepth)},
				{"HDR", string(input.HDR)},
				{"Audio Streams", fmt.Sprintf("%d", len(input.Audio))},
				{"Subtitle Streams", fmt.Sprintf("%d", len(input.Subtitles))},
			}
			fmt.Fprintln(out, renderTable(headers, rows, []columnAlignment{alignLeft, alignLeft}))
			return nil
		},
	}
}

// probeFunc is a seam so tests can stub ffprobe invocation.
var probeFunc = probe.Probe
