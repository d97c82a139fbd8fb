package main

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"ffdash/internal/deps"
	"ffdash/internal/eventbus"
	"ffdash/internal/history"
	"ffdash/internal/logging"
	"ffdash/internal/queue"
	"ffdash/internal/scheduler"
)

func newDashboardCommand(ctx *commandContext) *cobra.Command {
	var profileName string
	var workers int

	cmd := &cobra.Command{
		Use:   "dashboard <dir>",
		Short: "Scan a directory, run its job queue, and show a live progress table",
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
			if len(snapshot.Jobs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No video files found in", dir)
				return nil
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

			n := workers
			if n <= 0 {
				n = cfg.Scheduler.Workers
			}
			if n <= 0 {
				n = 1
			}

			bus := eventbus.New()
			sched := scheduler.New(store, bus, logger, scheduler.Deps{
				Binary:               cfg.Tools.FFmpegBinary,
				ProbeBinary:          cfg.Tools.FFprobeBinary,
				ProbeTimeout:         time.Duration(cfg.Tools.ProbeTimeoutSeconds) * time.Second,
				Overwrite:            cfg.Scheduler.OverwriteExisting,
				Directory:            dir,
				History:              historyStore,
				HardwareSessionLimit: cfg.Hardware.HardwareSessionLimit,
			}, snapshot.Jobs)

			runCtx := cmd.Context()
			sched.Start(runCtx, n)
			defer sched.Stop()

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			ticker := time.NewTicker(time.Duration(cfg.Scheduler.QueuePollSeconds) * time.Second)
			if cfg.Scheduler.QueuePollSeconds <= 0 {
				ticker = time.NewTicker(2 * time.Second)
			}
			defer ticker.Stop()

			for {
				jobs := sched.Snapshot()
				renderDashboard(out, dir, jobs, colorize)
				if allTerminal(jobs) {
					return dashboardResult(jobs)
				}
				select {
				case <-runCtx.Done():
					return runCtx.Err()
				case <-ticker.C:
				}
			}
		},
	}

	cmd.Flags().StringVar(&profileName, "profile", "", "Encoding profile to apply (defaults to the config's \"default\" profile)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Worker count (defaults to the config's scheduler.workers)")
	return cmd
}

func allTerminal(jobs []*queue.Job) bool {
	for _, job := range jobs {
		if job.Status.IsActive() || job.Status == queue.StatusPending {
			return false
		}
	}
	return true
}

func dashboardResult(jobs []*queue.Job) error {
	failed := 0
	for _, job := range jobs {
		if job.Status == queue.StatusFailed {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d job(s) failed", failed)
	}
	return nil
}

func renderDashboard(out io.Writer, dir string, jobs []*queue.Job, colorize bool) {
	for _, line := range renderSectionHeader(fmt.Sprintf("ffdash %s", dir), colorize) {
		fmt.Fprintln(out, line)
	}
	headers := []string{"File", "Status", "Progress", "Quality", "Error"}
	rows := make([][]string, 0, len(jobs))
	for _, job := range jobs {
		rows = append(rows, []string{
			filepath.Base(job.InputPath),
			string(job.Status),
			progressLabel(job),
			qualityLabel(job),
			job.ErrorTail,
		})
	}
	fmt.Fprintln(out, renderTable(headers, rows, []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft}))
}

func progressLabel(job *queue.Job) string {
	if job.Progress == nil {
		if job.Status.IsTerminal() {
			return "100%"
		}
		return "-"
	}
	elapsed := time.Duration(job.Progress.OutTimeMicros) * time.Microsecond
	return fmt.Sprintf("%s @ %.1fx", elapsed.Truncate(time.Second), job.Progress.SpeedX)
}

func qualityLabel(job *queue.Job) string {
	if job.CalibrationResult != nil && !job.CalibrationResult.Skipped {
		return fmt.Sprintf("q=%d vmaf=%.1f", job.CalibrationResult.ChosenQuality, job.CalibrationResult.MeasuredVMAF)
	}
	return fmt.Sprintf("q=%d", job.Config.Quality)
}
