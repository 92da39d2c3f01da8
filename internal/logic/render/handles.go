package render

import (
	"context"
	"sync"

	"github.com/patrickwarner/partnersdk/internal/events"
	"github.com/patrickwarner/partnersdk/internal/htmlparse"
	"github.com/patrickwarner/partnersdk/internal/logic"
	"github.com/patrickwarner/partnersdk/internal/models"
)

// TextPlacement is the handle carried by a RenderText event.
type TextPlacement struct {
	renderer *Renderer
	response *models.PlacementsResponse
	model    models.TextPlacementModel
}

var _ events.TextHandle = (*TextPlacement)(nil)

// Tap follows the placement's action type.
func (t *TextPlacement) Tap(ctx context.Context) {
	r := t.renderer
	action, err := htmlparse.ParseActionType(t.model.ActionType)
	if err != nil {
		r.fail(logic.ErrUnhandledTextType)
		return
	}
	switch action {
	case models.ActionShowOverlay:
		r.handlePopupPlacement(ctx, t.model, t.response)
	case models.ActionNoAction:
		r.opts.Emitter.Emit(events.TextClicked{})
	default:
		r.fail(logic.ErrUnhandledTextType)
	}
}

// Popup is the handle carried by a RenderPopup event.
type Popup struct {
	renderer *Renderer

	mu      sync.Mutex
	webView *models.PopupPlacementModel
	closed  sync.Once
}

var _ events.PopupHandle = (*Popup)(nil)

func (p *Popup) setWebView(m models.PopupPlacementModel) {
	p.mu.Lock()
	p.webView = &m
	p.mu.Unlock()
}

// WebView returns the embedded overlay model once it is available.
func (p *Popup) WebView() (models.PopupPlacementModel, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.webView == nil {
		return models.PopupPlacementModel{}, false
	}
	return *p.webView, true
}

// TapActionButton opens the embedded overlay, or reports an error when its
// content never arrived.
func (p *Popup) TapActionButton(context.Context) {
	emit := p.renderer.opts.Emitter.Emit
	emit(events.ActionButtonTapped{})
	wv, ok := p.WebView()
	if !ok {
		p.renderer.fail(logic.ErrSomethingWentWrong)
		return
	}
	emit(events.RenderPopup{Model: wv, OverlayType: models.OverlayEmbedded, Popup: p})
}

// Close reports the overlay closed. Only the first call emits.
func (p *Popup) Close() {
	p.closed.Do(func() {
		p.renderer.opts.Emitter.Emit(events.PopupClosed{})
	})
}

// WebViewSucceeded relays a result posted by the offer web view.
func (p *Popup) WebViewSucceeded(result any) {
	p.renderer.opts.Emitter.Emit(events.WebViewSuccess{Result: result})
}

// WebViewFailed reports a load failure, prefixed as a web URL error.
func (p *Popup) WebViewFailed(err error) {
	p.renderer.opts.Emitter.Emit(events.WebViewFailure{Err: logic.WebURLError(err)})
}

func (p *Popup) ReportScreenName(name string) {
	p.renderer.opts.Emitter.Emit(events.ScreenName{Name: name})
}

func (p *Popup) ReportCardStatus(status any) {
	p.renderer.opts.Emitter.Emit(events.CardApplicationStatus{Status: status})
}
