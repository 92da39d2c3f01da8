package events

import (
	"sync"
	"time"
)

// Recorder is an Emitter that keeps every event. Tests use it in place of a
// Queue.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	notify chan struct{}
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{notify: make(chan struct{}, 1)}
}

// Emit records e and wakes any WaitFor caller.
func (r *Recorder) Emit(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
	select {
	case r.notify <- struct{}{}:
	default:
	}
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Kinds returns the kinds of the recorded events in order.
func (r *Recorder) Kinds() []Kind {
	evs := r.Events()
	kinds := make([]Kind, len(evs))
	for i, e := range evs {
		kinds[i] = e.Kind()
	}
	return kinds
}

// WaitFor blocks until an event of kind k has been recorded or timeout
// elapses.
func (r *Recorder) WaitFor(k Kind, timeout time.Duration) (Event, bool) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		for _, e := range r.Events() {
			if e.Kind() == k {
				return e, true
			}
		}
		select {
		case <-r.notify:
		case <-deadline.C:
			return nil, false
		}
	}
}
