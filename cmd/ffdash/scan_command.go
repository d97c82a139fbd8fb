package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"ffdash/internal/deps"
	"ffdash/internal/queue"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var profileName string

	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Discover new video files in a directory and enqueue them as pending jobs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			dir, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve directory: %w", err)
			}

			store, err := queue.Open(dir)
			if err != nil {
				return err
			}
			defer store.Close()

			snapshot, err := store.Load()
			if err != nil {
				return err
			}

			hw := deps.DetectVAAPIDevice(cfg.Hardware.VAAPIDevicePaths)
			added, err := buildJobsForDirectory(dir, cfg, profileName, snapshot.Jobs, hw)
			if err != nil {
				return err
			}

			snapshot.Jobs = append(snapshot.Jobs, added...)
			if err := store.Save(cmd.Context(), snapshot); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Added %d job(s) to %s\n", len(added), dir)
			for _, job := range added {
				fmt.Fprintf(out, "  %s -> %s\n", filepath.Base(job.InputPath), filepath.Base(job.OutputPath))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&profileName, "profile", "", "Encoding profile to apply (defaults to the config's \"default\" profile)")
	return cmd
}
