package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ffdash/internal/deps"
	"ffdash/internal/encodeconfig"
	"ffdash/internal/eventbus"
	"ffdash/internal/history"
	"ffdash/internal/logging"
	"ffdash/internal/queue"
	"ffdash/internal/scheduler"
)

func newEncodeCommand(ctx *commandContext) *cobra.Command {
	var profileName string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "encode <file>",
		Short: "Encode a single file to completion and report the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			input, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve input path: %w", err)
			}
			dir := filepath.Dir(input)

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

			store, err := queue.Open(dir)
			if err != nil {
				return err
			}
			defer store.Close()

			snapshot, err := store.Load()
			if err != nil {
				return err
			}

			job := findJob(snapshot.Jobs, input)
			if job == nil {
				job = &queue.Job{
					ID:         queue.DeriveID(input),
					InputPath:  input,
					OutputPath: deriveOutputPath(input, encCfg),
					Config:     encCfg,
					Status:     queue.StatusPending,
				}
				snapshot.Jobs = append(snapshot.Jobs, job)
			} else if job.Status.IsTerminal() && !overwrite {
				return fmt.Errorf("job for %s is already %s (use --overwrite to re-run)", input, job.Status)
			} else {
				job.Status = queue.StatusPending
				job.Config = encCfg
			}
			if err := store.Save(cmd.Context(), snapshot); err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}

			historyStore, err := history.Open(cfg.Paths.HistoryDBPath)
			if err != nil {
				logger.Warn("history store unavailable, continuing without it", "error", err)
				historyStore = nil
			} else {
				defer historyStore.Close()
			}

			bus := eventbus.New()
			sched := scheduler.New(store, bus, logger, scheduler.Deps{
				Binary:               cfg.Tools.FFmpegBinary,
				ProbeBinary:          cfg.Tools.FFprobeBinary,
				ProbeTimeout:         time.Duration(cfg.Tools.ProbeTimeoutSeconds) * time.Second,
				Overwrite:            overwrite || cfg.Scheduler.OverwriteExisting,
				Directory:            dir,
				History:              historyStore,
				HardwareSessionLimit: cfg.Hardware.HardwareSessionLimit,
			}, snapshot.Jobs)

			runCtx := cmd.Context()
			sched.Start(runCtx, 1)
			defer sched.Stop()

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			ticker := time.NewTicker(500 * time.Millisecond)
			defer ticker.Stop()

			for {
				select {
				case <-runCtx.Done():
					return runCtx.Err()
				case <-ticker.C:
					done, status := jobStatus(sched, job.ID)
					if !done {
						continue
					}
					return reportEncodeResult(out, status, colorize)
				}
			}
		},
	}

	cmd.Flags().StringVar(&profileName, "profile", "", "Encoding profile to apply (defaults to the config's \"default\" profile)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Re-run even if the job already finished, or reuse an existing output path")
	return cmd
}

func findJob(jobs []*queue.Job, inputPath string) *queue.Job {
	id := queue.DeriveID(inputPath)
	for _, job := range jobs {
		if job.ID == id {
			return job
		}
	}
	return nil
}

func jobStatus(sched *scheduler.Scheduler, jobID string) (done bool, job *queue.Job) {
	for _, j := range sched.Snapshot() {
		if j.ID != jobID {
			continue
		}
		return j.Status.IsTerminal(), j
	}
	return false, nil
}

func reportEncodeResult(out io.Writer, job *queue.Job, colorize bool) error {
	if job == nil {
		return fmt.Errorf("job disappeared from queue before completion")
	}
	if job.Status == queue.StatusDone {
		fmt.Fprintln(out, renderStatusLine(filepath.Base(job.InputPath), statusOK, "encode finished", colorize))
		return nil
	}
	fmt.Fprintln(out, renderStatusLine(filepath.Base(job.InputPath), statusError, strings.TrimSpace(job.ErrorTail), colorize))
	return fmt.Errorf("encode failed: %s", job.ErrorTail)
}
