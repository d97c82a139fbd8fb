package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"ffdash/internal/command"
	"ffdash/internal/encodeconfig"
	"ffdash/internal/eventbus"
	"ffdash/internal/history"
	"ffdash/internal/logging"
	"ffdash/internal/probe"
	"ffdash/internal/queue"
	"ffdash/internal/runner"
	"ffdash/internal/services"
	"ffdash/internal/vmaf"
)

// pollInterval is how long an idle worker waits before rechecking the
// queue for newly-eligible work.
const pollInterval = 500 * time.Millisecond

// The following package-level seams let tests substitute fakes for the
// real prober, calibrator, and runner without spawning a subprocess.
var (
	probeFunc      = probe.Probe
	calibrateFunc  = vmaf.Calibrate
	runSingleFunc  = runner.Run
	runTwoPassFunc = runner.RunTwoPass
)

// mutateJob applies fn to job's fields while holding the scheduler lock, so
// concurrent Snapshot/checkpoint readers never observe a torn write. The
// long-running work (subprocess calls) always happens outside this call.
func (s *Scheduler) mutateJob(job *queue.Job, fn func(*queue.Job)) {
	s.mu.Lock()
	fn(job)
	s.mu.Unlock()
}

func (s *Scheduler) workerLoop(ctx context.Context, slot int) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job := s.claimNext(slot)
		if job == nil {
			select {
			case <-ctx.Done():
				return
			case <-time.After(pollInterval):
			}
			continue
		}
		if job == drainedSentinel {
			return
		}

		s.runJob(ctx, job)
	}
}

// drainedSentinel signals the worker loop should exit after a resize-down.
var drainedSentinel = &queue.Job{}

// claimNext picks the next eligible job and immediately transitions it out
// of Pending, so no other worker can claim it, or returns drainedSentinel
// if this slot has been marked for drain.
func (s *Scheduler) claimNext(slot int) *queue.Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.drain[slot] {
		delete(s.drain, slot)
		return drainedSentinel
	}

	job := nextPending(s.jobs, s.deps.Overwrite)
	if job == nil {
		return nil
	}
	if job.Config.AutoVMAF.Enabled {
		job.Transition(queue.StatusCalibrating)
	} else {
		job.Transition(queue.StatusEncoding)
	}
	return job
}

// runJob drives one already-claimed job through calibration (if it was
// claimed into Calibrating) and encoding to a terminal state, checkpointing
// after every transition.
func (s *Scheduler) runJob(ctx context.Context, job *queue.Job) {
	ctx = services.WithJobID(ctx, job.ID)
	ctx = services.WithComponent(ctx, "scheduler")
	ctx = services.WithRequestID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, s.logger)

	now := time.Now()
	s.mutateJob(job, func(j *queue.Job) {
		j.StartedAt = &now
		j.Attempts++
	})
	logger.Info("job started", "input_path", job.InputPath)
	s.bus.Publish(eventbus.JobStartedEvent{JobID: job.ID, Timestamp: now})
	s.checkpoint(ctx)

	input, err := probeFunc(ctx, s.deps.ProbeBinary, job.InputPath, s.deps.ProbeTimeout)
	if err != nil {
		s.fail(ctx, job, "probe: "+err.Error())
		return
	}

	s.mu.Lock()
	calibrating := job.Status == queue.StatusCalibrating
	cfg := job.Config
	s.mu.Unlock()

	if s.hwSem != nil && cfg.Backend.IsHardware() {
		select {
		case s.hwSem <- struct{}{}:
			defer func() { <-s.hwSem }()
		case <-ctx.Done():
			s.requeue(ctx, job)
			return
		}
	}

	if calibrating {
		result, calibrated, err := calibrateFunc(ctx, s.deps.Binary, input, cfg, job.ID)
		if err != nil {
			s.fail(ctx, job, "calibration: "+err.Error())
			return
		}
		cfg = calibrated
		s.mutateJob(job, func(j *queue.Job) {
			j.CalibrationResult = &result
			j.Config = cfg
		})
		if !result.Skipped && !result.TargetMet {
			logger.Warn("calibration target not met; encoding at best-seen quality",
				"calibration_outcome", "shortfall",
				"quality", result.ChosenQuality,
				"vmaf", result.MeasuredVMAF)
		}
		if !result.Skipped {
			s.bus.Publish(eventbus.CalibrationProgressEvent{
				JobID:     job.ID,
				Iteration: result.Iterations,
				Quality:   result.ChosenQuality,
				Score:     result.MeasuredVMAF,
			})
		}
		if ctx.Err() != nil {
			s.requeue(ctx, job)
			return
		}

		ok := false
		s.mutateJob(job, func(j *queue.Job) { ok = j.Transition(queue.StatusEncoding) })
		if !ok {
			s.fail(ctx, job, "calibration: could not transition to encoding")
			return
		}
	} else {
		s.mutateJob(job, func(j *queue.Job) { j.Config = cfg })
	}
	s.checkpoint(ctx)

	samples := make(chan queue.ProgressSample, 8)
	stopRelay := s.relayProgress(job, samples)

	result, err := s.encode(ctx, job, input, cfg, samples)
	close(samples)
	stopRelay()

	finished := time.Now()
	s.mutateJob(job, func(j *queue.Job) { j.FinishedAt = &finished })

	if ctx.Err() != nil {
		s.requeue(ctx, job)
		return
	}
	if err != nil || result.Outcome != runner.Success {
		s.fail(ctx, job, "encode: "+strings.Join(result.StderrTail, "\n"))
		return
	}

	s.mutateJob(job, func(j *queue.Job) { j.Transition(queue.StatusDone) })
	s.checkpoint(ctx)
	s.bus.Publish(eventbus.JobFinishedEvent{JobID: job.ID, Status: queue.StatusDone, Timestamp: finished})
	s.recordHistory(ctx, job, queue.StatusDone, cfg, finished)
}

// recordHistory appends a terminal job to the append-only history log. A
// write failure here never affects the job's own status: history is purely
// additive and is never consulted for resume.
func (s *Scheduler) recordHistory(ctx context.Context, job *queue.Job, status queue.Status, cfg encodeconfig.Config, finished time.Time) {
	if s.deps.History == nil {
		return
	}
	s.mu.Lock()
	started := job.StartedAt
	s.mu.Unlock()

	var duration float64
	if started != nil {
		duration = finished.Sub(*started).Seconds()
	}
	calibrationOutcome := "disabled"
	if cfg.AutoVMAF.Enabled {
		s.mu.Lock()
		result := job.CalibrationResult
		s.mu.Unlock()
		switch {
		case result == nil:
			calibrationOutcome = "not_run"
		case result.Skipped:
			calibrationOutcome = "skipped:" + result.SkipReason
		case result.TargetMet:
			calibrationOutcome = "target_met"
		default:
			calibrationOutcome = "shortfall"
		}
	}

	rec := history.Record{
		JobID:              job.ID,
		Directory:          s.deps.Directory,
		InputPath:          job.InputPath,
		Status:             status,
		Codec:              string(cfg.CodecFamily),
		Backend:            string(cfg.Backend),
		CalibrationOutcome: calibrationOutcome,
		DurationSeconds:    duration,
		FinishedAt:         finished,
	}
	if err := s.deps.History.Append(ctx, rec); err != nil {
		logging.WithContext(ctx, s.logger).Warn("failed to append job history", "error", err)
	}
}

// encode runs the full-file encode, dispatching to the two-pass runner for
// TwoPassVBR and the single-pass runner for everything else.
func (s *Scheduler) encode(ctx context.Context, job *queue.Job, input probe.Input, cfg encodeconfig.Config, samples chan<- queue.ProgressSample) (runner.Result, error) {
	if cfg.RateControlMode == encodeconfig.RateControlTwoPassVBR {
		scratchDir := filepath.Join(filepath.Dir(job.InputPath), ".ffdash_tmp", job.ID)
		if err := os.MkdirAll(scratchDir, 0o755); err != nil {
			return runner.Result{}, services.Wrap(services.ErrExternalTool, "scheduler", "mkdir", scratchDir, err)
		}
		return runTwoPassFunc(ctx, s.deps.Binary, input, cfg, job.OutputPath, scratchDir, samples)
	}

	args, err := command.Build(input, cfg, command.NewSingle(), job.OutputPath)
	if err != nil {
		return runner.Result{}, err
	}
	return runSingleFunc(ctx, runner.Options{
		Binary:     s.deps.Binary,
		Args:       args,
		OutputPath: job.OutputPath,
		Samples:    samples,
	})
}

// relayProgress republishes samples arriving on ch as ProgressSampleEvents
// and keeps job.Progress current for in-process readers. Returns a stop
// function that blocks until the relay goroutine has drained ch and exited.
func (s *Scheduler) relayProgress(job *queue.Job, ch <-chan queue.ProgressSample) func() {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for sample := range ch {
			sample := sample
			s.mutateJob(job, func(j *queue.Job) { j.Progress = &sample })
			s.bus.Publish(eventbus.ProgressSampleEvent{JobID: job.ID, Sample: sample})
		}
	}()
	return func() { <-done }
}

// fail transitions job to Failed, records the diagnostic tail, and
// checkpoints. It does not abort the scheduler: the caller's worker loop
// continues to the next job.
func (s *Scheduler) fail(ctx context.Context, job *queue.Job, tail string) {
	finished := time.Now()
	s.mutateJob(job, func(j *queue.Job) {
		j.ErrorTail = tail
		j.Transition(queue.StatusFailed)
		j.FinishedAt = &finished
	})
	logging.WithContext(ctx, s.logger).Warn("job failed", "error_message", tail)
	s.checkpoint(ctx)
	s.bus.Publish(eventbus.JobFinishedEvent{JobID: job.ID, Status: queue.StatusFailed, ErrorTail: tail, Timestamp: finished})
	s.mu.Lock()
	cfg := job.Config
	s.mu.Unlock()
	s.recordHistory(ctx, job, queue.StatusFailed, cfg, finished)
}

// requeue returns a cancelled job to Pending, per the cooperative
// cancellation contract: cancelled work is abandoned, not marked failed.
func (s *Scheduler) requeue(ctx context.Context, job *queue.Job) {
	s.mutateJob(job, func(j *queue.Job) {
		j.Transition(queue.StatusPending)
		j.Progress = nil
	})
	s.checkpoint(ctx)
	s.bus.Publish(eventbus.JobQueuedEvent{JobID: job.ID, Timestamp: time.Now()})
}
