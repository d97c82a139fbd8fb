package eventbus

import (
	"time"

	"ffdash/internal/queue"
)

// Event type identifiers for kelindar/event's type-switch dispatch.
const (
	TypeJobQueued uint32 = iota + 1
	TypeJobStarted
	TypeProgressSample
	TypeCalibrationProgress
	TypeJobFinished
	TypeWorkersResized
)

// Event is the interface kelindar/event requires of published values.
type Event interface {
	Type() uint32
}

// JobQueuedEvent announces a job entering Pending, whether newly
// discovered by a scan or requeued after cancellation.
type JobQueuedEvent struct {
	JobID     string
	Timestamp time.Time
}

func (e JobQueuedEvent) Type() uint32 { return TypeJobQueued }

// JobStartedEvent announces a worker taking ownership of a job.
type JobStartedEvent struct {
	JobID     string
	Timestamp time.Time
}

func (e JobStartedEvent) Type() uint32 { return TypeJobStarted }

// ProgressSampleEvent carries one job's latest encode progress reading.
type ProgressSampleEvent struct {
	JobID  string
	Sample queue.ProgressSample
}

func (e ProgressSampleEvent) Type() uint32 { return TypeProgressSample }

// CalibrationProgressEvent reports one VMAF calibration iteration.
type CalibrationProgressEvent struct {
	JobID     string
	Iteration int
	Quality   int
	Score     float64
}

func (e CalibrationProgressEvent) Type() uint32 { return TypeCalibrationProgress }

// JobFinishedEvent announces a job reaching a terminal or requeued state.
type JobFinishedEvent struct {
	JobID     string
	Status    queue.Status
	ErrorTail string
	Timestamp time.Time
}

func (e JobFinishedEvent) Type() uint32 { return TypeJobFinished }

// WorkersResizedEvent announces the scheduler's worker count changing.
type WorkersResizedEvent struct {
	Count int
}

func (e WorkersResizedEvent) Type() uint32 { return TypeWorkersResized }
