package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"ffdash/internal/encodeconfig"
	"ffdash/internal/eventbus"
	"ffdash/internal/probe"
	"ffdash/internal/queue"
	"ffdash/internal/runner"
)

func newTestScheduler(t *testing.T, jobs []*queue.Job) (*Scheduler, *queue.Store) {
	t.Helper()
	dir := t.TempDir()
	store, err := queue.Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	bus := eventbus.New()
	deps := Deps{Binary: "ffmpeg", ProbeBinary: "ffprobe", ProbeTimeout: time.Second}
	return New(store, bus, logger, deps, jobs), store
}

func stubSeams(t *testing.T, probeErr error, cal func(ctx context.Context, binary string, input probe.Input, cfg encodeconfig.Config, jobID string) (queue.CalibrationResult, encodeconfig.Config, error), run func(ctx context.Context, opts runner.Options) (runner.Result, error)) {
	t.Helper()
	origProbe, origCal, origRun, origTwoPass := probeFunc, calibrateFunc, runSingleFunc, runTwoPassFunc
	probeFunc = func(ctx context.Context, binary, path string, timeout time.Duration) (probe.Input, error) {
		return probe.Input{Path: path, Duration: 30}, probeErr
	}
	if cal != nil {
		calibrateFunc = cal
	}
	if run != nil {
		runSingleFunc = run
	}
	t.Cleanup(func() {
		probeFunc, calibrateFunc, runSingleFunc, runTwoPassFunc = origProbe, origCal, origRun, origTwoPass
	})
}

func waitForStatus(t *testing.T, s *Scheduler, jobID string, want queue.Status) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		for _, job := range s.Snapshot() {
			if job.ID == jobID && job.Status == want {
				return
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for job %s to reach %s", jobID, want)
}

func TestRunJobSucceedsWithoutCalibration(t *testing.T) {
	input := t.TempDir() + "/in.mkv"
	output := t.TempDir() + "/out.mkv"
	os.WriteFile(input, []byte("x"), 0o644)

	stubSeams(t, nil, nil, func(ctx context.Context, opts runner.Options) (runner.Result, error) {
		os.WriteFile(opts.OutputPath, []byte("out"), 0o644)
		return runner.Result{Outcome: runner.Success}, nil
	})

	cfg := encodeconfig.Config{CodecFamily: encodeconfig.CodecVP9, Backend: encodeconfig.BackendSoftware, RateControlMode: encodeconfig.RateControlCQ}
	job := &queue.Job{ID: "j1", InputPath: input, OutputPath: output, Status: queue.StatusPending, Config: cfg}
	s, _ := newTestScheduler(t, []*queue.Job{job})

	s.Start(context.Background(), 1)
	defer s.Stop()

	waitForStatus(t, s, "j1", queue.StatusDone)
}

func TestRunJobFailsWhenProbeErrors(t *testing.T) {
	input := t.TempDir() + "/in.mkv"
	os.WriteFile(input, []byte("x"), 0o644)

	stubSeams(t, errors.New("boom"), nil, nil)

	job := &queue.Job{ID: "j1", InputPath: input, OutputPath: t.TempDir() + "/out.mkv", Status: queue.StatusPending}
	s, _ := newTestScheduler(t, []*queue.Job{job})

	s.Start(context.Background(), 1)
	defer s.Stop()

	waitForStatus(t, s, "j1", queue.StatusFailed)

	for _, j := range s.Snapshot() {
		if j.ID == "j1" && j.ErrorTail == "" {
			t.Fatal("expected ErrorTail to be recorded on probe failure")
		}
	}
}

func TestRunJobRunsCalibrationWhenEnabled(t *testing.T) {
	input := t.TempDir() + "/in.mkv"
	output := t.TempDir() + "/out.mkv"
	os.WriteFile(input, []byte("x"), 0o644)

	called := false
	stubSeams(t, nil, func(ctx context.Context, binary string, in probe.Input, cfg encodeconfig.Config, jobID string) (queue.CalibrationResult, encodeconfig.Config, error) {
		called = true
		cfg.Quality = 24
		return queue.CalibrationResult{ChosenQuality: 24, MeasuredVMAF: 95, TargetMet: true}, cfg, nil
	}, func(ctx context.Context, opts runner.Options) (runner.Result, error) {
		os.WriteFile(opts.OutputPath, []byte("out"), 0o644)
		return runner.Result{Outcome: runner.Success}, nil
	})

	cfg := encodeconfig.Config{CodecFamily: encodeconfig.CodecVP9, Backend: encodeconfig.BackendSoftware, RateControlMode: encodeconfig.RateControlCQ, AutoVMAF: encodeconfig.AutoVMAF{Enabled: true}}
	job := &queue.Job{ID: "j1", InputPath: input, OutputPath: output, Status: queue.StatusPending, Config: cfg}
	s, _ := newTestScheduler(t, []*queue.Job{job})

	s.Start(context.Background(), 1)
	defer s.Stop()

	waitForStatus(t, s, "j1", queue.StatusDone)
	if !called {
		t.Fatal("expected calibrateFunc to be invoked")
	}
	for _, j := range s.Snapshot() {
		if j.ID == "j1" && (j.CalibrationResult == nil || j.CalibrationResult.ChosenQuality != 24) {
			t.Fatalf("expected calibration result recorded, got %v", j.CalibrationResult)
		}
	}
}

func TestRunJobRequeuesOnCancellation(t *testing.T) {
	input := t.TempDir() + "/in.mkv"
	output := t.TempDir() + "/out.mkv"
	os.WriteFile(input, []byte("x"), 0o644)

	release := make(chan struct{})
	stubSeams(t, nil, nil, func(ctx context.Context, opts runner.Options) (runner.Result, error) {
		<-ctx.Done()
		<-release
		return runner.Result{}, ctx.Err()
	})

	cfg := encodeconfig.Config{CodecFamily: encodeconfig.CodecVP9, Backend: encodeconfig.BackendSoftware, RateControlMode: encodeconfig.RateControlCQ}
	job := &queue.Job{ID: "j1", InputPath: input, OutputPath: output, Status: queue.StatusPending, Config: cfg}
	s, _ := newTestScheduler(t, []*queue.Job{job})

	s.Start(context.Background(), 1)
	waitForStatus(t, s, "j1", queue.StatusEncoding)

	s.cancel()
	close(release)
	s.wg.Wait()

	for _, j := range s.Snapshot() {
		if j.ID == "j1" && j.Status != queue.StatusPending {
			t.Fatalf("expected job requeued to Pending after cancellation, got %s", j.Status)
		}
	}
}
