// Package rtps runs the silent real-time pre-screen flow: bot check,
// pre-screen or virtual lookup, approval placement fetch and render.
package rtps

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/patrickwarner/partnersdk/internal/events"
	"github.com/patrickwarner/partnersdk/internal/logic"
	"github.com/patrickwarner/partnersdk/internal/models"
	"github.com/patrickwarner/partnersdk/internal/observability"
	"github.com/patrickwarner/partnersdk/internal/requests"
	"github.com/patrickwarner/partnersdk/internal/transport"
)

// TokenSource obtains a bot-check token. *botcheck.Adapter implements it.
type TokenSource interface {
	Execute(ctx context.Context, siteKey, action string, timeout time.Duration) (string, error)
}

// PopupPresenter shows an overlay. *render.Renderer implements it.
type PopupPresenter interface {
	RenderPopup(ctx context.Context, model models.PopupPlacementModel, overlayType models.PlacementOverlayType)
}

// Flow is the input of one RTPS run. Data.PrescreenID is updated in place
// on approval so a later run goes straight to virtual lookup.
type Flow struct {
	Merchant *models.MerchantConfiguration
	Data     *models.RTPSData
}

// Config holds the per-session settings the controller needs.
type Config struct {
	IntegrationKey  string
	Environment     models.Environment
	BotCheckAction  string
	BotCheckTimeout time.Duration
}

// Controller drives RTPS flows, one at a time.
type Controller struct {
	cfg       Config
	client    transport.Doer
	endpoints transport.Endpoints
	fetcher   *logic.Fetcher
	botcheck  TokenSource
	presenter PopupPresenter
	emitter   events.Emitter
	logger    *zap.Logger
	metrics   observability.MetricsRegistry
	tracer    trace.Tracer

	running atomic.Bool
	mu      sync.Mutex
	state   State
	trace   *logic.FlowTrace
}

// Deps groups the collaborators of a Controller.
type Deps struct {
	Client    transport.Doer
	Endpoints transport.Endpoints
	Fetcher   *logic.Fetcher
	BotCheck  TokenSource
	Presenter PopupPresenter
	Emitter   events.Emitter
	Logger    *zap.Logger
	Metrics   observability.MetricsRegistry
}

// NewController builds an idle Controller from cfg and deps.
func NewController(cfg Config, deps Deps) *Controller {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Metrics == nil {
		deps.Metrics = observability.NewNoOpRegistry()
	}
	if cfg.BotCheckAction == "" {
		cfg.BotCheckAction = "checkout"
	}
	return &Controller{
		cfg:       cfg,
		client:    deps.Client,
		endpoints: deps.Endpoints,
		fetcher:   deps.Fetcher,
		botcheck:  deps.BotCheck,
		presenter: deps.Presenter,
		emitter:   deps.Emitter,
		logger:    deps.Logger.Named("rtps"),
		metrics:   deps.Metrics,
		tracer:    observability.Tracer("rtps"),
		trace:     &logic.FlowTrace{},
	}
}

// State returns the state of the current or last run.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Trace returns the transitions of the current or last run.
func (c *Controller) Trace() []logic.TraceStep {
	c.mu.Lock()
	t := c.trace
	c.mu.Unlock()
	return t.Steps()
}

// Run executes one flow to a terminal state. Every failure is also emitted
// as an SdkError. A run started while another is in flight is rejected with
// ErrRTPSInProgress and leaves the running flow untouched.
func (c *Controller) Run(ctx context.Context, flow Flow) (State, error) {
	if !c.running.CompareAndSwap(false, true) {
		c.emitter.Emit(events.SdkError{Err: logic.ErrRTPSInProgress})
		return c.State(), logic.ErrRTPSInProgress
	}
	defer c.running.Store(false)

	if flow.Data == nil {
		flow.Data = &models.RTPSData{}
	}
	c.mu.Lock()
	c.state = Idle
	c.trace = &logic.FlowTrace{}
	c.mu.Unlock()

	flowID := uuid.NewString()
	logger := c.logger.With(zap.String("flow_id", flowID))
	ctx, span := c.tracer.Start(ctx, "rtps.flow", trace.WithAttributes(
		attribute.String("rtps.flow_id", flowID),
		attribute.String("rtps.environment", string(c.cfg.Environment)),
	))
	defer span.End()

	state, err := c.run(ctx, flow, logger)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.transition(Failed, logger, map[string]string{"error": err.Error()})
		c.metrics.IncrementRTPSFlow(Failed.String())
		logger.Info("rtps flow failed", zap.Error(err))
		c.emitter.Emit(events.SdkError{Err: err})
		return Failed, err
	}
	c.metrics.IncrementRTPSFlow(state.String())
	logger.Info("rtps flow finished", zap.Stringer("state", state))
	return state, nil
}

func (c *Controller) run(ctx context.Context, flow Flow, logger *zap.Logger) (State, error) {
	c.transition(AwaitingBotCheck, logger, nil)
	token, err := c.botCheck(ctx)
	if err != nil {
		return Failed, err
	}

	endpoint := requests.Endpoint(flow.Data)
	if endpoint == requests.EndpointVirtualLookup {
		c.transition(AwaitingVirtualLookup, logger, nil)
	} else {
		c.transition(AwaitingPreScreen, logger, nil)
	}
	body := requests.BuildRTPSRequest(flow.Merchant, flow.Data, token)
	resp, err := c.callRTPS(ctx, endpoint, body, logger)
	if err != nil {
		return Failed, err
	}

	result := requests.PrescreenResultFor(string(resp.ReturnCode))
	c.metrics.IncrementPrescreenResult(endpoint.String(), result.String())
	logger.Info("prescreen result",
		zap.Stringer("endpoint", endpoint),
		zap.String("return_code", string(resp.ReturnCode)),
		zap.Stringer("result", result),
	)
	if result != models.PrescreenApproved || resp.PrescreenID == nil {
		return Failed, logic.PrescreenError(result)
	}

	id := *resp.PrescreenID
	flow.Data.PrescreenID = &id
	c.transition(AwaitingPlacementFetch, logger, map[string]string{"prescreen_id": fmt.Sprint(id)})

	webURL := requests.RTPSWebURL(c.endpoints.PrescreenOffer(), c.cfg.IntegrationKey, flow.Merchant, flow.Data)
	placements, err := c.fetcher.Placements(ctx, requests.BuildRTPSPlacementRequest(c.cfg.IntegrationKey, flow.Merchant, webURL))
	if err != nil {
		return Failed, logic.PrefixedError(err)
	}
	placement, ok := placements.FirstPlacement()
	if !ok {
		return Failed, logic.PrefixedError(logic.ErrNoPlacement)
	}

	model := models.PopupPlacementModel{
		OverlayType: string(models.OverlayEmbedded),
		Location:    placement.RenderContext.Location,
		WebViewURL:  placement.RenderContext.EmbeddedURL,
	}
	if model.WebViewURL == "" {
		model.WebViewURL = webURL
	}
	c.transition(Rendered, logger, map[string]string{"web_view_url": model.WebViewURL})
	c.presenter.RenderPopup(ctx, model, models.OverlayEmbedded)
	return Rendered, nil
}

func (c *Controller) botCheck(ctx context.Context) (string, error) {
	cfg, err := c.fetcher.BrandConfig(ctx)
	if err != nil {
		return "", err
	}
	siteKey := cfg.SiteKey(c.cfg.Environment)
	if c.botcheck == nil {
		return "", errors.New("no bot check configured")
	}
	return c.botcheck.Execute(ctx, siteKey, c.cfg.BotCheckAction, c.cfg.BotCheckTimeout)
}

// callRTPS posts body to the selected endpoint. A security challenge is
// handed to the host and the identical request replayed once it is
// completed; a second challenge ends the flow.
func (c *Controller) callRTPS(ctx context.Context, endpoint requests.RTPSEndpoint, body models.RTPSRequest, logger *zap.Logger) (*models.RTPSResponse, error) {
	url := c.endpoints.RTPS(endpoint)
	ctx, span := c.tracer.Start(ctx, "rtps."+endpoint.String(), trace.WithAttributes(attribute.String("http.url", url)))
	defer span.End()

	req := transport.Request{
		Name:    endpoint.String(),
		Method:  http.MethodPost,
		URL:     url,
		Body:    body,
		Headers: transport.RTPSHeaders(c.cfg.IntegrationKey),
	}

	replayed := false
	for {
		var resp models.RTPSResponse
		err := c.client.Do(ctx, req, &resp)
		html, challenged := transport.ChallengeHTML(err)
		if !challenged {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return nil, logic.PrefixedError(err)
			}
			return &resp, nil
		}

		span.AddEvent("security_challenge", trace.WithAttributes(attribute.Bool("replayed", replayed)))
		if replayed {
			c.metrics.IncrementChallenge("repeated")
			return nil, logic.ErrChallengeRepeated
		}
		if err := c.awaitChallenge(ctx, html, url, logger); err != nil {
			return nil, err
		}
		logger.Info("replaying challenged request", zap.Stringer("endpoint", endpoint))
		replayed = true
	}
}

func (c *Controller) transition(to State, logger *zap.Logger, details map[string]string) {
	c.mu.Lock()
	from := c.state
	c.state = to
	t := c.trace
	c.mu.Unlock()

	t.AddStepWithDetails(to.String(), details)
	c.metrics.IncrementRTPSTransition(to.String())
	logger.Debug("rtps transition", zap.Stringer("from", from), zap.Stringer("to", to))
}
