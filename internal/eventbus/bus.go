// Package eventbus wraps github.com/kelindar/event to carry job lifecycle
// events and progress samples from Scheduler workers to the dashboard UI.
package eventbus

import (
	"github.com/kelindar/event"
)

// Bus fans out ffdash's fixed set of event types to subscribers. Unlike a
// generic pub/sub, the publish and subscribe surfaces are closed: adding
// an event kind means adding a case here. The compiler does not check
// this: Publish drops a value of any other type, and Subscribe returns a
// no-op unsubscribe for a handler of any other type.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New constructs an empty Bus.
func New() *Bus {
	return &Bus{dispatcher: event.NewDispatcher()}
}

// Publish delivers ev to every subscriber registered for its concrete type.
func (b *Bus) Publish(ev Event) {
	switch e := ev.(type) {
	case JobQueuedEvent:
		event.Publish(b.dispatcher, e)
	case JobStartedEvent:
		event.Publish(b.dispatcher, e)
	case ProgressSampleEvent:
		event.Publish(b.dispatcher, e)
	case CalibrationProgressEvent:
		event.Publish(b.dispatcher, e)
	case JobFinishedEvent:
		event.Publish(b.dispatcher, e)
	case WorkersResizedEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe registers handler for the event type its parameter names.
// Returns an unsubscribe function.
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(JobQueuedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(JobStartedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(ProgressSampleEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(CalibrationProgressEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(JobFinishedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(WorkersResizedEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}
