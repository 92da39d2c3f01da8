package logic

import (
	"sync"
	"time"
)

// TraceStep records one stage a flow passed through.
type TraceStep struct {
	Stage   string            `json:"stage"`
	At      time.Time         `json:"at"`
	Details map[string]string `json:"details,omitempty"`
}

// FlowTrace captures the ordered stages of a flow. It is safe to read while
// the flow is still appending.
type FlowTrace struct {
	mu    sync.Mutex
	steps []TraceStep
}

// AddStep appends a trace entry for stage.
func (t *FlowTrace) AddStep(stage string) {
	t.AddStepWithDetails(stage, nil)
}

// AddStepWithDetails appends a trace entry with additional details.
func (t *FlowTrace) AddStepWithDetails(stage string, details map[string]string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.steps = append(t.steps, TraceStep{Stage: stage, At: time.Now(), Details: details})
	t.mu.Unlock()
}

// Steps returns a copy of the recorded steps.
func (t *FlowTrace) Steps() []TraceStep {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]TraceStep, len(t.steps))
	copy(out, t.steps)
	return out
}

// Stages returns just the stage names in order.
func (t *FlowTrace) Stages() []string {
	steps := t.Steps()
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = s.Stage
	}
	return out
}
