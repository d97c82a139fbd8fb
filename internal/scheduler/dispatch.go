package scheduler

import (
	"os"

	"ffdash/internal/queue"
)

// statFunc is a seam so dispatch selection can be tested without touching
// a real filesystem.
var statFunc = os.Stat

// nextPending scans jobs in FIFO (scan) order and returns the first one
// eligible for dispatch: still Pending, its input exists, and its output
// either doesn't exist yet or overwrite is allowed. Callers hold the
// scheduler's lock while calling this; it takes no lock of its own.
func nextPending(jobs []*queue.Job, overwrite bool) *queue.Job {
	for _, job := range jobs {
		if job.Status != queue.StatusPending {
			continue
		}
		if !eligible(job, overwrite) {
			continue
		}
		return job
	}
	return nil
}

func eligible(job *queue.Job, overwrite bool) bool {
	if _, err := statFunc(job.InputPath); err != nil {
		return false
	}
	if overwrite {
		return true
	}
	_, err := statFunc(job.OutputPath)
	return os.IsNotExist(err)
}
