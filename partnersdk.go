// Package partnersdk embeds promotional financing placements in a host
// application and runs the silent real-time pre-screen flow. Everything the
// SDK has to tell the host arrives on Session.Events.
package partnersdk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/patrickwarner/partnersdk/internal/analytics"
	"github.com/patrickwarner/partnersdk/internal/botcheck"
	"github.com/patrickwarner/partnersdk/internal/config"
	"github.com/patrickwarner/partnersdk/internal/db"
	"github.com/patrickwarner/partnersdk/internal/events"
	"github.com/patrickwarner/partnersdk/internal/logic"
	"github.com/patrickwarner/partnersdk/internal/logic/render"
	"github.com/patrickwarner/partnersdk/internal/logic/rtps"
	"github.com/patrickwarner/partnersdk/internal/observability"
	"github.com/patrickwarner/partnersdk/internal/transport"
)

// ErrMissingIntegrationKey is returned by Setup when no integration key is
// configured.
var ErrMissingIntegrationKey = errors.New("integration key is required")

// Options configures a Session. Nil fields get defaults.
type Options struct {
	// Config defaults to LoadConfig().
	Config *Config
	// IntegrationKey overrides Config.IntegrationKey when set.
	IntegrationKey string
	Logger         *zap.Logger
	Metrics        MetricsRegistry
	// BotCheck issues the token sent with a pre-screen. Without one the
	// SDK asks Config.BotCheckTokenURL, when configured.
	BotCheck BotCheckProvider
	// HTTPClient replaces the traced default client for partner calls.
	HTTPClient *http.Client
}

// LoadConfig reads configuration from the environment.
func LoadConfig() Config {
	return config.Load()
}

// Session is one initialised SDK instance.
type Session struct {
	cfg     Config
	key     string
	logger  *zap.Logger
	metrics MetricsRegistry

	queue     *events.Queue
	fetcher   *logic.Fetcher
	beacons   *analytics.Beacons
	presenter *render.Renderer
	rtps      *rtps.Controller
	redis     *db.RedisStore

	ctx    context.Context
	cancel context.CancelFunc
	// mu orders goFlow's wg.Add against Close.
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
	once   sync.Once
}

// Setup validates opts and builds a Session. It fails only on invalid
// configuration; problems reaching the partner services surface later as
// SdkError events.
func Setup(ctx context.Context, opts Options) (*Session, error) {
	var cfg Config
	if opts.Config != nil {
		cfg = *opts.Config
	} else {
		cfg = config.Load()
	}
	if opts.IntegrationKey != "" {
		cfg.IntegrationKey = opts.IntegrationKey
	}
	if cfg.IntegrationKey == "" {
		return nil, ErrMissingIntegrationKey
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		l, err := observability.InitLoggerWithService(cfg.ServiceName)
		if err != nil {
			return nil, fmt.Errorf("setup: logger: %w", err)
		}
		logger = l
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = observability.NewNoOpRegistry()
	}

	s := &Session{
		cfg:     cfg,
		key:     cfg.IntegrationKey,
		logger:  logger.With(zap.String("integration_key", cfg.IntegrationKey)),
		metrics: metrics,
		queue:   events.NewQueue(logger, metrics),
	}
	s.ctx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))

	client := transport.NewClient(transport.Options{
		Timeout:    cfg.HTTPTimeout,
		UserAgent:  cfg.UserAgent,
		HTTPClient: opts.HTTPClient,
		Logger:     logger,
		Metrics:    metrics,
		OnLog:      s.hostLog,
	})
	endpoints := transport.DefaultEndpoints(cfg.Environment).WithOverrides(cfg.BrandBaseURL, cfg.RTPSBaseURL)

	s.fetcher = &logic.Fetcher{
		Client:         client,
		Endpoints:      endpoints,
		IntegrationKey: cfg.IntegrationKey,
		TrackingID:     uuid.NewString(),
		Cache:          s.brandCache(ctx),
		CacheTTL:       cfg.BrandConfigTTL,
		Logger:         logger,
		Metrics:        metrics,
	}
	s.beacons = analytics.NewBeacons(client, endpoints, cfg.IntegrationKey, cfg.UserAgent, logger)
	s.presenter = s.renderer(nil, nil, false)

	provider := opts.BotCheck
	if provider == nil && cfg.BotCheckTokenURL != "" {
		provider = botcheck.NewHTTPProvider(cfg.BotCheckTokenURL)
	}
	s.rtps = rtps.NewController(rtps.Config{
		IntegrationKey:  cfg.IntegrationKey,
		Environment:     cfg.Environment,
		BotCheckAction:  cfg.BotCheckAction,
		BotCheckTimeout: cfg.BotCheckTimeout,
	}, rtps.Deps{
		Client:    client,
		Endpoints: endpoints,
		Fetcher:   s.fetcher,
		BotCheck:  botcheck.NewAdapter(provider, logger, metrics),
		Presenter: s.presenter,
		Emitter:   s.queue,
		Logger:    logger,
		Metrics:   metrics,
	})

	s.logger.Info("partner sdk ready",
		zap.String("environment", string(cfg.Environment)),
		zap.String("brand_base", endpoints.BrandBase),
		zap.String("rtps_base", endpoints.RTPSBase),
		zap.String("sdk_tid", s.fetcher.TrackingID),
	)
	return s, nil
}

// brandCache prefers Redis when configured and falls back to memory when it
// cannot be reached.
func (s *Session) brandCache(ctx context.Context) db.BrandConfigStore {
	if s.cfg.RedisAddr == "" {
		return db.NewMemoryStore()
	}
	store, err := db.InitRedis(ctx, s.cfg.RedisAddr, s.logger)
	if err != nil {
		s.logger.Warn("redis unavailable, using in-memory brand config cache", zap.Error(err))
		return db.NewMemoryStore()
	}
	s.redis = store
	return store
}

func (s *Session) hostLog(message string, fields map[string]any) {
	if s.cfg.EnableLog {
		s.queue.Emit(events.EventLog{Message: message, Fields: fields})
	}
}

func (s *Session) renderer(mc *MerchantConfiguration, pd *PlacementData, split bool) *render.Renderer {
	return render.New(render.Options{
		IntegrationKey:     s.key,
		Merchant:           mc,
		Placement:          pd,
		SplitTextAndAction: split,
		Fetcher:            s.fetcher,
		Analytics:          s.beacons,
		Emitter:            s.queue,
		Logger:             s.logger,
		Metrics:            s.metrics,
	})
}

// Events delivers every event in emission order. The channel is closed by
// Close once pending events have been read.
func (s *Session) Events() <-chan Event {
	return s.queue.Events()
}

// RegisterPlacements fetches the configured placement and emits it as a
// RenderText event. Taps on the returned handle drive the overlay.
//
// Every flow sends the session's environment; mc.Env is overwritten on the
// copy so placement requests and RTPS calls always agree.
func (s *Session) RegisterPlacements(mc MerchantConfiguration, pc PlacementsConfiguration, splitTextAndAction bool) {
	mc.Env = s.cfg.Environment
	r := s.renderer(&mc, pc.PlacementData, splitTextAndAction)
	s.goFlow("register_placements", r.Load)
}

// OpenExperienceForPlacement fetches the configured placement and opens its
// overlay directly.
func (s *Session) OpenExperienceForPlacement(mc MerchantConfiguration, pc PlacementsConfiguration) {
	mc.Env = s.cfg.Environment
	r := s.renderer(&mc, pc.PlacementData, false)
	s.goFlow("open_experience", r.LoadExperience)
}

// SilentRTPSRequest runs the pre-screen flow for pc.RTPSData. On approval
// the prescreen id is written back to pc.RTPSData so the next request takes
// the virtual lookup path. Only one flow runs at a time; a concurrent
// request is reported as an SdkError.
func (s *Session) SilentRTPSRequest(mc MerchantConfiguration, pc PlacementsConfiguration) {
	mc.Env = s.cfg.Environment
	data := pc.RTPSData
	if data == nil {
		data = &RTPSData{}
	}
	s.goFlow("silent_rtps", func(ctx context.Context) {
		_, _ = s.rtps.Run(ctx, rtps.Flow{Merchant: &mc, Data: data})
	})
}

// RTPSState reports the state of the current or last pre-screen flow.
func (s *Session) RTPSState() RTPSState {
	return s.rtps.State()
}

func (s *Session) goFlow(name string, fn func(context.Context)) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.logger.Warn("session closed, flow ignored", zap.String("flow", name))
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		s.logger.Debug("flow started", zap.String("flow", name))
		fn(s.ctx)
	}()
}

// Wait blocks until every flow started so far has finished.
func (s *Session) Wait() {
	s.wg.Wait()
}

// Close cancels in-flight flows, waits for them, flushes analytics and
// closes the event channel. It is safe to call more than once.
func (s *Session) Close() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		s.cancel()
		s.wg.Wait()
		s.beacons.Close()
		if s.redis != nil {
			s.redis.Close()
		}
		s.queue.Close()
		_ = s.logger.Sync()
	})
}
