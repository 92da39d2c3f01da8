package render

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/patrickwarner/partnersdk/internal/analytics"
	"github.com/patrickwarner/partnersdk/internal/api"
	"github.com/patrickwarner/partnersdk/internal/config"
	"github.com/patrickwarner/partnersdk/internal/events"
	"github.com/patrickwarner/partnersdk/internal/logic"
	"github.com/patrickwarner/partnersdk/internal/models"
	"github.com/patrickwarner/partnersdk/internal/observability"
	"github.com/patrickwarner/partnersdk/internal/transport"
)

type harness struct {
	renderer  *Renderer
	recorder  *events.Recorder
	analytics *analytics.MockAnalytics
	metrics   *observability.RecordingRegistry
}

func newHarness(t *testing.T, integrationKey string) *harness {
	t.Helper()
	logger := zaptest.NewLogger(t)
	srv := api.NewServer(logger, nil, config.Config{TokenSecret: "s", TokenTTL: time.Minute, BotCheckAction: "checkout"})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	h := &harness{
		recorder:  events.NewRecorder(),
		analytics: analytics.NewMockAnalytics(),
		metrics:   observability.NewRecordingRegistry(),
	}
	fetcher := &logic.Fetcher{
		Client:         transport.NewClient(transport.Options{Logger: logger}),
		Endpoints:      transport.Endpoints{BrandBase: ts.URL, RTPSBase: ts.URL},
		IntegrationKey: integrationKey,
		TrackingID:     "tid-1",
	}
	h.renderer = New(Options{
		IntegrationKey: integrationKey,
		Merchant:       &models.MerchantConfiguration{Env: models.EnvironmentStage},
		Placement:      &models.PlacementData{PlacementID: "p1"},
		Fetcher:        fetcher,
		Analytics:      h.analytics,
		Emitter:        h.recorder,
		Logger:         logger,
		Metrics:        h.metrics,
	})
	return h
}

func (h *harness) last(t *testing.T, kind events.Kind) events.Event {
	t.Helper()
	evs := h.recorder.Events()
	for i := len(evs) - 1; i >= 0; i-- {
		if evs[i].Kind() == kind {
			return evs[i]
		}
	}
	t.Fatalf("no %s event in %v", kind, h.recorder.Kinds())
	return nil
}

func textResponse(html string) *models.PlacementsResponse {
	return &models.PlacementsResponse{
		Placements:       []models.Placement{{ID: "p"}},
		PlacementContent: []models.PlacementContent{{ID: "c", ContentData: models.ContentData{HTMLContent: html}}},
	}
}

func TestLoadRendersTextAndOpensOverlay(t *testing.T) {
	h := newHarness(t, api.DemoBrandID)
	ctx := context.Background()

	h.renderer.Load(ctx)
	rt, ok := h.last(t, events.KindRenderText).(events.RenderText)
	require.True(t, ok)
	assert.Equal(t, "SHOW_OVERLAY", rt.Model.ActionType)
	assert.Equal(t, api.ContentOverlayID, rt.Model.ActionContentID)
	assert.Equal(t, "Pay over time Pay over time as low as $25/mo", rt.Model.ContentText)
	views, clicks := h.analytics.Counts()
	assert.Equal(t, 1, views)
	assert.Equal(t, 0, clicks)

	rt.Placement.Tap(ctx)
	rp := h.last(t, events.KindRenderPopup).(events.RenderPopup)
	assert.Equal(t, models.OverlaySingleProduct, rp.OverlayType)
	assert.Equal(t, "Get 5% back", rp.Model.OverlayTitle)
	assert.Equal(t, []string{"div0", "div1", "div2", "footer3"}, rp.Model.DynamicBodyModel.OrderedKeys())
	_, clicks = h.analytics.Counts()
	assert.Equal(t, 1, clicks)

	popup := rp.Popup.(*Popup)
	wv, ok := popup.WebView()
	require.True(t, ok, "product content should be fetched before the popup is tapped")
	assert.Equal(t, "https://apply.example.com/embedded", wv.WebViewURL)

	rp.Popup.TapActionButton(ctx)
	kinds := h.recorder.Kinds()
	assert.Equal(t, []events.Kind{
		events.KindRenderText, events.KindRenderPopup, events.KindActionButtonTapped, events.KindRenderPopup,
	}, kinds)
	embedded := h.last(t, events.KindRenderPopup).(events.RenderPopup)
	assert.Equal(t, models.OverlayEmbedded, embedded.OverlayType)
	assert.Equal(t, "https://apply.example.com/embedded", embedded.Model.WebViewURL)
}

func TestTapNoActionEmitsTextClicked(t *testing.T) {
	h := newHarness(t, api.DemoBrandID)
	h.renderer.RenderText(context.Background(), textResponse(`<div data-action-type="NO_ACTION"><span class="epjs-body">Hi</span></div>`))

	rt := h.last(t, events.KindRenderText).(events.RenderText)
	rt.Placement.Tap(context.Background())
	assert.Equal(t, []events.Kind{events.KindRenderText, events.KindTextClicked}, h.recorder.Kinds())
}

func TestTapUnhandledActionIsError(t *testing.T) {
	for _, action := range []string{"REDIRECT", "SOMETHING_ELSE", ""} {
		h := newHarness(t, api.DemoBrandID)
		h.renderer.RenderText(context.Background(), textResponse(`<div data-action-type="`+action+`"></div>`))
		h.last(t, events.KindRenderText).(events.RenderText).Placement.Tap(context.Background())

		e := h.last(t, events.KindSdkError).(events.SdkError)
		assert.ErrorIs(t, e, logic.ErrUnhandledTextType, action)
	}
}

func TestSplitTextAndActionIsCarried(t *testing.T) {
	h := newHarness(t, api.DemoBrandID)
	h.renderer.opts.SplitTextAndAction = true
	h.renderer.RenderText(context.Background(), textResponse(`<div></div>`))
	assert.True(t, h.last(t, events.KindRenderText).(events.RenderText).SplitTextAndAction)
}

func TestPopupContentUnresolved(t *testing.T) {
	h := newHarness(t, api.DemoBrandID)
	h.renderer.RenderText(context.Background(), textResponse(
		`<div data-action-type="SHOW_OVERLAY" data-action-content-id="missing"></div>`))
	h.last(t, events.KindRenderText).(events.RenderText).Placement.Tap(context.Background())

	e := h.last(t, events.KindSdkError).(events.SdkError)
	assert.Equal(t, "Error: Unable to parse popup placement.", e.Error())
	assert.Equal(t, 1, h.metrics.Count("extraction_failure", "popup"))
	_, clicks := h.analytics.Counts()
	assert.Zero(t, clicks)
}

func TestPopupUnknownOverlayType(t *testing.T) {
	h := newHarness(t, api.DemoBrandID)
	resp := &models.PlacementsResponse{PlacementContent: []models.PlacementContent{{
		ID:          "overlay",
		ContentData: models.ContentData{HTMLContent: `<div data-overlay-metadata="1" data-overlay-type="FULL_SCREEN"></div>`},
		Metadata:    models.ContentMetadata{TemplateID: "overlay"},
	}}}
	h.renderer.OpenExperience(context.Background(), resp)

	e := h.last(t, events.KindSdkError).(events.SdkError)
	assert.ErrorIs(t, e, logic.ErrUnhandledPopupType)
}

func TestEmbeddedOverlayLoadsImmediately(t *testing.T) {
	h := newHarness(t, api.DemoBrandID)
	model := models.PopupPlacementModel{OverlayType: "EMBEDDED_OVERLAY", WebViewURL: "https://example.com/x"}
	h.renderer.RenderPopup(context.Background(), model, models.OverlayEmbedded)

	rp := h.last(t, events.KindRenderPopup).(events.RenderPopup)
	rp.Popup.TapActionButton(context.Background())
	assert.Equal(t, []events.Kind{events.KindRenderPopup, events.KindActionButtonTapped, events.KindRenderPopup}, h.recorder.Kinds())
}

func TestSingleProductWithoutContentFetch(t *testing.T) {
	h := newHarness(t, api.DemoBrandID)
	h.renderer.RenderPopup(context.Background(), models.PopupPlacementModel{}, models.OverlaySingleProduct)

	rp := h.last(t, events.KindRenderPopup).(events.RenderPopup)
	rp.Popup.TapActionButton(context.Background())
	e := h.last(t, events.KindSdkError).(events.SdkError)
	assert.ErrorIs(t, e, logic.ErrSomethingWentWrong)
}

func TestOpenExperience(t *testing.T) {
	h := newHarness(t, api.DemoBrandID)
	h.renderer.LoadExperience(context.Background())

	rp := h.last(t, events.KindRenderPopup).(events.RenderPopup)
	assert.Equal(t, models.OverlaySingleProduct, rp.OverlayType)
	assert.NotContains(t, h.recorder.Kinds(), events.KindRenderText)
}

func TestOpenExperienceWithoutOverlay(t *testing.T) {
	h := newHarness(t, api.DemoBrandID)
	h.renderer.OpenExperience(context.Background(), textResponse(`<div></div>`))
	assert.ErrorIs(t, h.last(t, events.KindSdkError).(events.SdkError), logic.ErrPopupParse)
}

func TestPopupHandleEvents(t *testing.T) {
	h := newHarness(t, api.DemoBrandID)
	h.renderer.RenderPopup(context.Background(), models.PopupPlacementModel{}, models.OverlayEmbedded)
	p := h.last(t, events.KindRenderPopup).(events.RenderPopup).Popup

	p.ReportScreenName("offer")
	p.WebViewSucceeded("ok")
	p.WebViewFailed(errors.New("timeout"))
	p.ReportCardStatus(map[string]string{"status": "approved"})
	p.Close()
	p.Close()

	assert.Equal(t, []events.Kind{
		events.KindRenderPopup, events.KindScreenName, events.KindWebViewSuccess,
		events.KindWebViewFailure, events.KindCardApplicationStatus, events.KindPopupClosed,
	}, h.recorder.Kinds())
	failure := h.last(t, events.KindWebViewFailure).(events.WebViewFailure)
	assert.EqualError(t, failure.Err, "Error: Web Url Loading Issue: timeout")
	assert.Equal(t, "offer", h.last(t, events.KindScreenName).(events.ScreenName).Name)
}

func TestLoadFetchFailure(t *testing.T) {
	h := newHarness(t, "unknown-brand")
	h.renderer.Load(context.Background())

	e := h.last(t, events.KindSdkError).(events.SdkError)
	assert.Contains(t, e.Error(), "Error: HTTP Error 400")
	var httpErr *transport.HTTPError
	assert.ErrorAs(t, e, &httpErr)
}
