// Package events defines the events the SDK emits to the host application
// and the queue that delivers them.
package events

import (
	"context"
	"fmt"

	"github.com/patrickwarner/partnersdk/internal/models"
)

// Kind names an event variant. Used for logging and metrics labels.
type Kind string

const (
	KindRenderText            Kind = "RenderText"
	KindRenderPopup           Kind = "RenderPopup"
	KindRenderChallenge       Kind = "RenderChallenge"
	KindTextClicked           Kind = "TextClicked"
	KindActionButtonTapped    Kind = "ActionButtonTapped"
	KindScreenName            Kind = "ScreenName"
	KindWebViewSuccess        Kind = "WebViewSuccess"
	KindWebViewFailure        Kind = "WebViewFailure"
	KindPopupClosed           Kind = "PopupClosed"
	KindSdkError              Kind = "SdkError"
	KindCardApplicationStatus Kind = "CardApplicationStatus"
	KindEventLog              Kind = "EventLog"
)

// Event is implemented only by the variants in this package, so a type
// switch over them is exhaustive.
type Event interface {
	Kind() Kind
	event()
}

// TextHandle lets the host report a tap on a rendered text placement.
type TextHandle interface {
	Tap(ctx context.Context)
}

// PopupHandle lets the host report interaction with a rendered overlay.
type PopupHandle interface {
	TapActionButton(ctx context.Context)
	Close()
	WebViewSucceeded(result any)
	WebViewFailed(err error)
	ReportScreenName(name string)
	ReportCardStatus(status any)
}

// ChallengeHandle resolves a security challenge. Complete replays the
// request that was challenged; Dismiss abandons it.
type ChallengeHandle interface {
	Complete()
	Dismiss()
}

// RenderText asks the host to show a text placement.
type RenderText struct {
	Model models.TextPlacementModel
	// SplitTextAndAction asks for the text and the action link to be shown
	// as separate views rather than one linked text.
	SplitTextAndAction bool
	Placement          TextHandle
}

// RenderPopup asks the host to show an overlay.
type RenderPopup struct {
	Model       models.PopupPlacementModel
	OverlayType models.PlacementOverlayType
	Popup       PopupHandle
}

// RenderChallenge asks the host to show the challenge HTML in a web view
// rooted at BaseURL, then resolve Challenge.
type RenderChallenge struct {
	HTML      string
	BaseURL   string
	Challenge ChallengeHandle
}

// TextClicked reports a tap on a rendered text placement.
type TextClicked struct{}

// ActionButtonTapped reports a tap on the overlay call to action.
type ActionButtonTapped struct{}

// ScreenName carries the screen name posted by the offer web view.
type ScreenName struct {
	Name string
}

// WebViewSuccess carries the result posted by the web view on success.
type WebViewSuccess struct {
	Result any
}

// WebViewFailure reports a web view that failed to load or errored.
type WebViewFailure struct {
	Err error
}

// PopupClosed reports that the overlay was dismissed.
type PopupClosed struct{}

// SdkError reports a failure. It is developer facing; the end user sees
// nothing.
type SdkError struct {
	Err error
}

// CardApplicationStatus relays the application status posted by the
// embedded card application.
type CardApplicationStatus struct {
	Status any
}

// EventLog mirrors request and response logging to the host when logging
// is enabled.
type EventLog struct {
	Message string
	Fields  map[string]any
}

func (RenderText) Kind() Kind            { return KindRenderText }
func (RenderPopup) Kind() Kind           { return KindRenderPopup }
func (RenderChallenge) Kind() Kind       { return KindRenderChallenge }
func (TextClicked) Kind() Kind           { return KindTextClicked }
func (ActionButtonTapped) Kind() Kind    { return KindActionButtonTapped }
func (ScreenName) Kind() Kind            { return KindScreenName }
func (WebViewSuccess) Kind() Kind        { return KindWebViewSuccess }
func (WebViewFailure) Kind() Kind        { return KindWebViewFailure }
func (PopupClosed) Kind() Kind           { return KindPopupClosed }
func (SdkError) Kind() Kind              { return KindSdkError }
func (CardApplicationStatus) Kind() Kind { return KindCardApplicationStatus }
func (EventLog) Kind() Kind              { return KindEventLog }

func (RenderText) event()            {}
func (RenderPopup) event()           {}
func (RenderChallenge) event()       {}
func (TextClicked) event()           {}
func (ActionButtonTapped) event()    {}
func (ScreenName) event()            {}
func (WebViewSuccess) event()        {}
func (WebViewFailure) event()        {}
func (PopupClosed) event()           {}
func (SdkError) event()              {}
func (CardApplicationStatus) event() {}
func (EventLog) event()              {}

func (e SdkError) String() string {
	if e.Err == nil {
		return "SdkError(error=<nil>)"
	}
	return fmt.Sprintf("SdkError(error=%s)", e.Err.Error())
}

func (e SdkError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e SdkError) Unwrap() error { return e.Err }

// Emitter receives events from flows.
type Emitter interface {
	Emit(Event)
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(Event)

func (f EmitterFunc) Emit(e Event) { f(e) }
