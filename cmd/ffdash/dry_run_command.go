package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ffdash/internal/command"
	"ffdash/internal/deps"
	"ffdash/internal/encodeconfig"
)

func newDryRunCommand(ctx *commandContext) *cobra.Command {
	var profileName string

	cmd := &cobra.Command{
		Use:   "dry-run <file>",
		Short: "Print the ffmpeg command a job would run, without executing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			profile, err := resolveProfile(cfg, profileName)
			if err != nil {
				return err
			}
			encCfg, err := encodeconfig.FromProfile(profile)
			if err != nil {
				return err
			}

			hw := deps.DetectVAAPIDevice(cfg.Hardware.VAAPIDevicePaths)
			if hw.Available && (encCfg.Backend == encodeconfig.BackendVAAPI || encCfg.Backend == encodeconfig.BackendQSV) {
				encCfg = encCfg.WithHardwareDevicePath(hw.Path)
			}

			timeout := time.Duration(cfg.Tools.ProbeTimeoutSeconds) * time.Second
			if timeout <= 0 {
				timeout = 10 * time.Second
			}
			input, err := probeFunc(cmd.Context(), cfg.Tools.FFprobeBinary, args[0], timeout)
			if err != nil {
				return fmt.Errorf("probe %s: %w", args[0], err)
			}

			outputPath := deriveOutputPath(input.Path, encCfg)

			var pass command.Pass
			if encCfg.RateControlMode == encodeconfig.RateControlTwoPassVBR {
				pass = command.NewFirst(outputPath + ".ffdash-pass")
			} else {
				pass = command.NewSingle()
			}

			cmdArgs, err := command.Build(input, encCfg, pass, outputPath)
			if err != nil {
				return fmt.Errorf("build command: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", cfg.Tools.FFmpegBinary, strings.Join(cmdArgs, " "))
			if encCfg.RateControlMode == encodeconfig.RateControlTwoPassVBR {
				fmt.Fprintln(out, "(two-pass rate control: a second invocation with pass 2 follows in a real encode)")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&profileName, "profile", "", "Encoding profile to apply (defaults to the config's \"default\" profile)")
	return cmd
}
