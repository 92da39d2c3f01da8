package observability

import "time"

// MetricsRegistry is how components record metrics. Production code uses
// PrometheusRegistry; tests use NoOpRegistry or RecordingRegistry.
type MetricsRegistry interface {
	// HTTP request metrics
	IncrementRequests(endpoint, method, status string)
	RecordRequestLatency(endpoint, method string, duration time.Duration)

	// RTPS flow metrics
	IncrementRTPSTransition(state string)
	IncrementRTPSFlow(terminal string)
	IncrementPrescreenResult(endpoint, result string)
	IncrementChallenge(outcome string)

	// Bot-check metrics
	IncrementBotCheck(outcome string)
	RecordBotCheckLatency(duration time.Duration)

	// Host event metrics
	IncrementEvent(kind string)
	IncrementExtractionFailure(placement string)

	// Brand config cache metrics
	IncrementBrandConfigCache(result string)

	// Mock service token metrics
	IncrementToken(op, outcome string)
}

// PrometheusRegistry implements MetricsRegistry on a set of Collectors.
type PrometheusRegistry struct {
	c *Collectors
}

// NewPrometheusRegistry wraps c. A nil c uses DefaultCollectors.
func NewPrometheusRegistry(c *Collectors) *PrometheusRegistry {
	if c == nil {
		c = DefaultCollectors()
	}
	return &PrometheusRegistry{c: c}
}

func (r *PrometheusRegistry) IncrementRequests(endpoint, method, status string) {
	r.c.RequestCount.WithLabelValues(endpoint, method, status).Inc()
}

func (r *PrometheusRegistry) RecordRequestLatency(endpoint, method string, duration time.Duration) {
	r.c.RequestLatency.WithLabelValues(endpoint, method).Observe(duration.Seconds())
}

func (r *PrometheusRegistry) IncrementRTPSTransition(state string) {
	r.c.RTPSTransitions.WithLabelValues(state).Inc()
}

func (r *PrometheusRegistry) IncrementRTPSFlow(terminal string) {
	r.c.RTPSFlows.WithLabelValues(terminal).Inc()
}

func (r *PrometheusRegistry) IncrementPrescreenResult(endpoint, result string) {
	r.c.PrescreenResults.WithLabelValues(endpoint, result).Inc()
}

func (r *PrometheusRegistry) IncrementChallenge(outcome string) {
	r.c.Challenges.WithLabelValues(outcome).Inc()
}

func (r *PrometheusRegistry) IncrementBotCheck(outcome string) {
	r.c.BotChecks.WithLabelValues(outcome).Inc()
}

func (r *PrometheusRegistry) RecordBotCheckLatency(duration time.Duration) {
	r.c.BotCheckLatency.Observe(duration.Seconds())
}

func (r *PrometheusRegistry) IncrementEvent(kind string) {
	r.c.EventCount.WithLabelValues(kind).Inc()
}

func (r *PrometheusRegistry) IncrementExtractionFailure(placement string) {
	r.c.ExtractionFailures.WithLabelValues(placement).Inc()
}

func (r *PrometheusRegistry) IncrementBrandConfigCache(result string) {
	r.c.BrandConfigCache.WithLabelValues(result).Inc()
}

func (r *PrometheusRegistry) IncrementToken(op, outcome string) {
	r.c.TokenCount.WithLabelValues(op, outcome).Inc()
}

// NoOpRegistry implements MetricsRegistry with no-op methods for testing
type NoOpRegistry struct{}

// NewNoOpRegistry creates a new NoOpRegistry
func NewNoOpRegistry() *NoOpRegistry {
	return &NoOpRegistry{}
}

func (r *NoOpRegistry) IncrementRequests(endpoint, method, status string)                    {}
func (r *NoOpRegistry) RecordRequestLatency(endpoint, method string, duration time.Duration) {}
func (r *NoOpRegistry) IncrementRTPSTransition(state string)                                 {}
func (r *NoOpRegistry) IncrementRTPSFlow(terminal string)                                    {}
func (r *NoOpRegistry) IncrementPrescreenResult(endpoint, result string)                     {}
func (r *NoOpRegistry) IncrementChallenge(outcome string)                                    {}
func (r *NoOpRegistry) IncrementBotCheck(outcome string)                                     {}
func (r *NoOpRegistry) RecordBotCheckLatency(duration time.Duration)                         {}
func (r *NoOpRegistry) IncrementEvent(kind string)                                           {}
func (r *NoOpRegistry) IncrementExtractionFailure(placement string)                          {}
func (r *NoOpRegistry) IncrementBrandConfigCache(result string)                              {}
func (r *NoOpRegistry) IncrementToken(op, outcome string)                                    {}
