// Package api is a mock of the partner services the SDK talks to: brand
// configuration, placement generation, pre-screen, virtual lookup, analytics
// beacons and a bot-check token issuer.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/patrickwarner/partnersdk/internal/config"
	"github.com/patrickwarner/partnersdk/internal/logic/ratelimit"
	"github.com/patrickwarner/partnersdk/internal/models"
	"github.com/patrickwarner/partnersdk/internal/observability"
)

var tracer = observability.Tracer("api")

// Server groups dependencies for HTTP handlers.
type Server struct {
	Logger      *zap.Logger
	Metrics     observability.MetricsRegistry
	Config      config.Config
	TokenSecret []byte
	TokenTTL    time.Duration
	// Brands maps a brand id (the SDK integration key) to its configuration.
	Brands map[string]models.BrandConfig
	// Content is the placement content catalog keyed by content id.
	Content map[string]models.PlacementContent
	Limiter *ratelimit.KeyLimiter

	mu         sync.Mutex
	challenged map[string]bool
	beacons    map[string]int
}

// NewServer constructs a Server seeded with the demo brand and content.
func NewServer(logger *zap.Logger, metrics observability.MetricsRegistry, cfg config.Config) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = observability.NewNoOpRegistry()
	}
	return &Server{
		Logger:      logger,
		Metrics:     metrics,
		Config:      cfg,
		TokenSecret: []byte(cfg.TokenSecret),
		TokenTTL:    cfg.TokenTTL,
		Brands:      map[string]models.BrandConfig{DemoBrandID: DemoBrandConfig()},
		Content:     DemoContent(),
		Limiter: ratelimit.NewKeyLimiter(ratelimit.Config{
			Capacity:   cfg.RateLimitCapacity,
			RefillRate: cfg.RateLimitRefillRate,
			Enabled:    cfg.RateLimitEnabled,
		}),
		challenged: make(map[string]bool),
		beacons:    make(map[string]int),
	}
}

// BeaconCount returns how many analytics beacons named event were received.
func (s *Server) BeaconCount(event string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.beacons[event]
}

func (s *Server) record(endpoint, method string, status int, start time.Time) {
	s.Metrics.IncrementRequests(endpoint, method, strconv.Itoa(status))
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
