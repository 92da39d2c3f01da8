package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors holds every Prometheus collector the SDK and the mock partner
// service record to.
type Collectors struct {
	// outbound or served requests per endpoint, method and status
	RequestCount *prometheus.CounterVec
	// request latency in seconds per endpoint/method
	RequestLatency *prometheus.HistogramVec
	// RTPS state machine transitions, labelled by the state entered
	RTPSTransitions *prometheus.CounterVec
	// finished RTPS flows by terminal state
	RTPSFlows *prometheus.CounterVec
	// prescreen results returned by the backend
	PrescreenResults *prometheus.CounterVec
	// security challenges by outcome (shown, completed, dismissed, repeated)
	Challenges *prometheus.CounterVec
	// bot-check executions by outcome
	BotChecks       *prometheus.CounterVec
	BotCheckLatency prometheus.Histogram
	// host events emitted, labelled by kind
	EventCount *prometheus.CounterVec
	// HTML extraction failures by placement kind
	ExtractionFailures *prometheus.CounterVec
	// brand config cache lookups by result
	BrandConfigCache *prometheus.CounterVec
	// bot-check tokens issued/validated by the mock service
	TokenCount *prometheus.CounterVec
}

// NewCollectors creates and registers the collectors on reg.
func NewCollectors(reg prometheus.Registerer) *Collectors {
	factory := promauto.With(reg)
	return &Collectors{
		RequestCount: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "partnersdk_requests_total",
				Help: "Total partner API requests",
			},
			[]string{"endpoint", "method", "status"},
		),
		RequestLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "partnersdk_request_duration_seconds",
				Help:    "Histogram of partner API request latencies",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint", "method"},
		),
		RTPSTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "partnersdk_rtps_transitions_total",
				Help: "RTPS state machine transitions by entered state",
			},
			[]string{"state"},
		),
		RTPSFlows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "partnersdk_rtps_flows_total",
				Help: "Finished RTPS flows by terminal state",
			},
			[]string{"state"},
		),
		PrescreenResults: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "partnersdk_prescreen_results_total",
				Help: "Prescreen results returned by the RTPS backend",
			},
			[]string{"endpoint", "result"},
		),
		Challenges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "partnersdk_security_challenges_total",
				Help: "Security challenges by outcome",
			},
			[]string{"outcome"},
		),
		BotChecks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "partnersdk_botcheck_total",
				Help: "Bot-check executions by outcome",
			},
			[]string{"outcome"},
		),
		BotCheckLatency: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "partnersdk_botcheck_duration_seconds",
				Help:    "Duration of bot-check token requests",
				Buckets: prometheus.DefBuckets,
			},
		),
		EventCount: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "partnersdk_events_total",
				Help: "Host events emitted by kind",
			},
			[]string{"kind"},
		),
		ExtractionFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "partnersdk_extraction_failures_total",
				Help: "Placement HTML extraction failures",
			},
			[]string{"placement"},
		),
		BrandConfigCache: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "partnersdk_brand_config_cache_total",
				Help: "Brand config cache lookups by result",
			},
			[]string{"result"},
		),
		TokenCount: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "partnersdk_botcheck_tokens_total",
				Help: "Bot-check tokens handled by the mock partner service",
			},
			[]string{"op", "outcome"},
		),
	}
}

var (
	defaultOnce       sync.Once
	defaultCollectors *Collectors
)

// DefaultCollectors returns the process-wide collectors registered on the
// default Prometheus registerer. Safe to call from several sessions.
func DefaultCollectors() *Collectors {
	defaultOnce.Do(func() {
		defaultCollectors = NewCollectors(prometheus.DefaultRegisterer)
	})
	return defaultCollectors
}
