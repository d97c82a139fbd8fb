package eventbus

import (
	"sync"

	"ffdash/internal/queue"
)

// ProgressCoalescer retains only the most recent ProgressSampleEvent per
// job, per §4.8: a UI redraw tick calls Snapshot to pick up whatever
// changed since the last tick without ever building a backlog for a job
// that produces samples faster than the UI consumes them.
type ProgressCoalescer struct {
	mu      sync.Mutex
	latest  map[string]queue.ProgressSample
	pending map[string]struct{}

	unsubscribe func()
}

// NewProgressCoalescer subscribes to bus and starts tracking progress.
// Call Close to unsubscribe.
func NewProgressCoalescer(bus *Bus) *ProgressCoalescer {
	c := &ProgressCoalescer{
		latest:  make(map[string]queue.ProgressSample),
		pending: make(map[string]struct{}),
	}
	c.unsubscribe = bus.Subscribe(func(e ProgressSampleEvent) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.latest[e.JobID] = e.Sample
		c.pending[e.JobID] = struct{}{}
	})
	return c
}

// Close unsubscribes from the bus.
func (c *ProgressCoalescer) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}

// Snapshot returns the latest sample for every job that has received a
// new sample since the last Snapshot call, then clears the pending set.
// Jobs with no update since the last call are omitted.
func (c *ProgressCoalescer) Snapshot() map[string]queue.ProgressSample {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]queue.ProgressSample, len(c.pending))
	for jobID := range c.pending {
		out[jobID] = c.latest[jobID]
	}
	c.pending = make(map[string]struct{})
	return out
}

// Forget drops a completed job's cached sample so it doesn't linger.
func (c *ProgressCoalescer) Forget(jobID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.latest, jobID)
	delete(c.pending, jobID)
}
