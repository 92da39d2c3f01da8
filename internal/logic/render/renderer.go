// Package render turns fetched placements into host events and follows the
// host's interaction with them.
package render

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/patrickwarner/partnersdk/internal/analytics"
	"github.com/patrickwarner/partnersdk/internal/events"
	"github.com/patrickwarner/partnersdk/internal/htmlparse"
	"github.com/patrickwarner/partnersdk/internal/logic"
	"github.com/patrickwarner/partnersdk/internal/models"
	"github.com/patrickwarner/partnersdk/internal/observability"
	"github.com/patrickwarner/partnersdk/internal/requests"
)

var errNoContent = errors.New("placement has no content")

// Options configures a Renderer for one registered placement.
type Options struct {
	IntegrationKey     string
	Merchant           *models.MerchantConfiguration
	Placement          *models.PlacementData
	SplitTextAndAction bool

	Fetcher   *logic.Fetcher
	Analytics analytics.Service
	Emitter   events.Emitter
	Logger    *zap.Logger
	Metrics   observability.MetricsRegistry
}

// Renderer renders the placements for one merchant and placement
// configuration.
type Renderer struct {
	opts    Options
	logger  *zap.Logger
	metrics observability.MetricsRegistry
	tracer  trace.Tracer
}

func New(opts Options) *Renderer {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = observability.NewNoOpRegistry()
	}
	if opts.Analytics == nil {
		opts.Analytics = analytics.NewMockAnalytics()
	}
	return &Renderer{
		opts:    opts,
		logger:  opts.Logger.Named("render"),
		metrics: opts.Metrics,
		tracer:  observability.Tracer("render"),
	}
}

func (r *Renderer) fail(err error) {
	r.logger.Info("placement failed", zap.Error(err))
	r.opts.Emitter.Emit(events.SdkError{Err: err})
}

// Load fetches the configured placement and renders it as text.
func (r *Renderer) Load(ctx context.Context) {
	resp, ok := r.fetch(ctx)
	if ok {
		r.RenderText(ctx, resp)
	}
}

// LoadExperience fetches the configured placement and opens its overlay
// directly.
func (r *Renderer) LoadExperience(ctx context.Context) {
	resp, ok := r.fetch(ctx)
	if ok {
		r.OpenExperience(ctx, resp)
	}
}

func (r *Renderer) fetch(ctx context.Context) (*models.PlacementsResponse, bool) {
	req := requests.BuildPlacementRequest(r.opts.IntegrationKey, r.opts.Merchant, r.opts.Placement)
	resp, err := r.opts.Fetcher.Placements(ctx, req)
	if err != nil {
		r.fail(logic.PrefixedError(err))
		return nil, false
	}
	return resp, true
}

// RenderText emits the first content entry of resp as a text placement.
func (r *Renderer) RenderText(ctx context.Context, resp *models.PlacementsResponse) {
	ctx, span := r.tracer.Start(ctx, "render.text")
	defer span.End()

	content, ok := resp.FirstContent()
	if !ok {
		r.fail(logic.PrefixedError(errNoContent))
		return
	}
	model := htmlparse.ExtractTextPlacement(content.ContentData.HTMLContent)
	span.SetAttributes(
		attribute.String("placement.content_id", content.ID),
		attribute.String("placement.action_type", model.ActionType),
	)
	r.logger.Debug("text placement", zap.String("content_id", content.ID), zap.String("action_type", model.ActionType))

	r.opts.Analytics.SendViewPlacement(ctx, resp)
	r.opts.Emitter.Emit(events.RenderText{
		Model:              model,
		SplitTextAndAction: r.opts.SplitTextAndAction,
		Placement:          &TextPlacement{renderer: r, response: resp, model: model},
	})
}

// OpenExperience shows the overlay content of resp without a text tap. The
// overlay is the first content entry whose template id mentions "overlay".
func (r *Renderer) OpenExperience(ctx context.Context, resp *models.PlacementsResponse) {
	var html string
	found := false
	for _, c := range resp.PlacementContent {
		if strings.Contains(c.Metadata.TemplateID, "overlay") {
			html, found = c.ContentData.HTMLContent, true
			break
		}
	}
	if !found {
		r.metrics.IncrementExtractionFailure("popup")
		r.fail(logic.ErrPopupParse)
		return
	}
	r.showPopupHTML(ctx, html)
}

// handlePopupPlacement opens the overlay a text placement points at.
func (r *Renderer) handlePopupPlacement(ctx context.Context, text models.TextPlacementModel, resp *models.PlacementsResponse) {
	content, ok := resp.ContentByID(text.ActionContentID)
	if !ok {
		r.metrics.IncrementExtractionFailure("popup")
		r.fail(logic.ErrPopupParse)
		return
	}
	if r.showPopupHTML(ctx, content.ContentData.HTMLContent) {
		r.opts.Analytics.SendClickPlacement(ctx, resp)
	}
}

func (r *Renderer) showPopupHTML(ctx context.Context, html string) bool {
	model, err := htmlparse.ExtractPopupPlacement(html)
	if err != nil {
		r.metrics.IncrementExtractionFailure("popup")
		r.logger.Debug("popup extraction failed", zap.Error(err))
		r.fail(logic.ErrPopupParse)
		return false
	}
	overlayType, err := htmlparse.ParseOverlayType(model.OverlayType)
	if err != nil {
		r.fail(logic.ErrUnhandledPopupType)
		return false
	}
	r.RenderPopup(ctx, model, overlayType)
	return true
}

// RenderPopup emits model as an overlay. A single product overlay fetches
// its embedded content before the action button can open it; an embedded
// overlay is ready at once.
func (r *Renderer) RenderPopup(ctx context.Context, model models.PopupPlacementModel, overlayType models.PlacementOverlayType) {
	ctx, span := r.tracer.Start(ctx, "render.popup", trace.WithAttributes(
		attribute.String("popup.overlay_type", string(overlayType)),
	))
	defer span.End()

	p := &Popup{renderer: r}
	if overlayType == models.OverlayEmbedded {
		p.setWebView(model)
	}
	r.opts.Emitter.Emit(events.RenderPopup{Model: model, OverlayType: overlayType, Popup: p})

	if overlayType == models.OverlaySingleProduct {
		r.fetchWebViewPlacement(ctx, model, p)
	}
}

func (r *Renderer) fetchWebViewPlacement(ctx context.Context, model models.PopupPlacementModel, p *Popup) {
	button := model.PrimaryActionButtonAttributes
	if button == nil || strings.TrimSpace(button.DataContentFetch) == "" {
		r.logger.Warn("single product overlay has no content to fetch")
		return
	}
	req := requests.BuildContentFetchRequest(r.opts.IntegrationKey, button.DataContentFetch, r.opts.Merchant, r.opts.Placement)
	resp, err := r.opts.Fetcher.Placements(ctx, req)
	if err != nil {
		r.fail(logic.PrefixedError(err))
		return
	}
	content, ok := resp.FirstContent()
	if !ok {
		r.fail(logic.PrefixedError(errNoContent))
		return
	}
	webView, err := htmlparse.ExtractPopupPlacement(content.ContentData.HTMLContent)
	if err != nil {
		r.metrics.IncrementExtractionFailure("popup")
		r.fail(logic.PrefixedError(err))
		return
	}
	p.setWebView(webView)
}
