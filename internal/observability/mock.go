package observability

import (
	"strings"
	"sync"
	"time"
)

// RecordingRegistry counts every call by metric name and labels so tests
// can assert on what was recorded.
type RecordingRegistry struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewRecordingRegistry creates an empty RecordingRegistry.
func NewRecordingRegistry() *RecordingRegistry {
	return &RecordingRegistry{counts: make(map[string]int)}
}

func (m *RecordingRegistry) record(name string, labels ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key(name, labels)]++
}

// Count returns how many times name was recorded with labels.
func (m *RecordingRegistry) Count(name string, labels ...string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[key(name, labels)]
}

func key(name string, labels []string) string {
	if len(labels) == 0 {
		return name
	}
	return name + "{" + strings.Join(labels, ",") + "}"
}

func (m *RecordingRegistry) IncrementRequests(endpoint, method, status string) {
	m.record("requests", endpoint, method, status)
}

func (m *RecordingRegistry) RecordRequestLatency(endpoint, method string, _ time.Duration) {
	m.record("request_latency", endpoint, method)
}

func (m *RecordingRegistry) IncrementRTPSTransition(state string) {
	m.record("rtps_transition", state)
}

func (m *RecordingRegistry) IncrementRTPSFlow(terminal string) {
	m.record("rtps_flow", terminal)
}

func (m *RecordingRegistry) IncrementPrescreenResult(endpoint, result string) {
	m.record("prescreen_result", endpoint, result)
}

func (m *RecordingRegistry) IncrementChallenge(outcome string) {
	m.record("challenge", outcome)
}

func (m *RecordingRegistry) IncrementBotCheck(outcome string) {
	m.record("botcheck", outcome)
}

func (m *RecordingRegistry) RecordBotCheckLatency(time.Duration) {
	m.record("botcheck_latency")
}

func (m *RecordingRegistry) IncrementEvent(kind string) {
	m.record("event", kind)
}

func (m *RecordingRegistry) IncrementExtractionFailure(placement string) {
	m.record("extraction_failure", placement)
}

func (m *RecordingRegistry) IncrementBrandConfigCache(result string) {
	m.record("brand_config_cache", result)
}

func (m *RecordingRegistry) IncrementToken(op, outcome string) {
	m.record("token", op, outcome)
}
