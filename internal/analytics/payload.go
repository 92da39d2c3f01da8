package analytics

import "github.com/patrickwarner/partnersdk/internal/models"

// Payload is the body of a view or click beacon.
type Payload struct {
	Name    string  `json:"name"`
	Props   Props   `json:"props"`
	Context Context `json:"context"`
}

// Props groups the event and user properties of a beacon.
type Props struct {
	EventProperties EventProperties   `json:"eventProperties"`
	UserProperties  map[string]string `json:"userProperties"`
}

type EventProperties struct {
	Placement        Placement         `json:"placement"`
	PlacementContent PlacementContent  `json:"placementContent"`
	Metadata         map[string]string `json:"metadata"`
	ActionTarget     string            `json:"actionTarget,omitempty"`
}

// Placement identifies the placement and its content ids.
type Placement struct {
	ID                 string `json:"id,omitempty"`
	PlacementContentID string `json:"placementContentId,omitempty"`
	OverlayContentID   string `json:"overlayContentId,omitempty"`
}

type PlacementContent struct {
	ID          string                 `json:"id,omitempty"`
	ContentType string                 `json:"contentType,omitempty"`
	Metadata    models.ContentMetadata `json:"metadata"`
}

// Context describes where and when the beacon was produced.
type Context struct {
	Timestamp    string       `json:"timestamp"`
	APIKey       string       `json:"apiKey"`
	BrowserCtx   BrowserCtx   `json:"browserCtx"`
	TrackingInfo TrackingInfo `json:"trackingInfo"`
}

type BrowserCtx struct {
	Library   Library `json:"library"`
	UserAgent string  `json:"userAgent,omitempty"`
	Page      Page    `json:"page"`
}

type Library struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type Page struct {
	Path string `json:"path,omitempty"`
	URL  string `json:"url,omitempty"`
}

// TrackingInfo ties beacons to the user (SDK_TID) and to the session.
type TrackingInfo struct {
	UserTrackingID    string `json:"userTrackingId,omitempty"`
	SessionTrackingID string `json:"sessionTrackingId,omitempty"`
}
