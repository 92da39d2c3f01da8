package models

import (
	"sort"
	"strconv"
	"strings"
)

// TextPlacementModel is the typed form of a text placement's HTML. Empty
// strings mean the value was not present in the markup.
type TextPlacementModel struct {
	ActionType      string `json:"actionType,omitempty"`
	ActionTarget    string `json:"actionTarget,omitempty"`
	ContentText     string `json:"contentText,omitempty"`
	ActionLink      string `json:"actionLink,omitempty"`
	ActionContentID string `json:"actionContentId,omitempty"`
}

// PopupPlacementModel is the typed form of an overlay. Text blocks keep
// their inner HTML so the host can render inline markup.
type PopupPlacementModel struct {
	OverlayType                   string                    `json:"overlayType"`
	Location                      string                    `json:"location"`
	BrandLogoURL                  string                    `json:"brandLogoUrl"`
	WebViewURL                    string                    `json:"webViewUrl"`
	OverlayTitle                  string                    `json:"overlayTitle"`
	OverlaySubtitle               string                    `json:"overlaySubtitle"`
	OverlayContainerBarHeading    string                    `json:"overlayContainerBarHeading"`
	BodyHeader                    string                    `json:"bodyHeader"`
	PrimaryActionButtonAttributes *PrimaryActionButtonModel `json:"primaryActionButtonAttributes,omitempty"`
	DynamicBodyModel              DynamicBodyModel          `json:"dynamicBodyModel"`
	Disclosure                    string                    `json:"disclosure"`
}

// DynamicBodyModel maps synthetic keys (div0, div1, footer2, ...) to body
// sections. The numeric suffix records document order.
type DynamicBodyModel struct {
	BodyDiv map[string]DynamicBodyContent `json:"bodyDiv"`
}

// DynamicBodyContent maps a child tag name to its inner HTML.
type DynamicBodyContent struct {
	TagValuePairs map[string]string `json:"tagValuePairs"`
}

// OrderedKeys returns the body keys sorted by numeric suffix, which is the
// order the sections appeared in the markup.
func (m DynamicBodyModel) OrderedKeys() []string {
	keys := make([]string, 0, len(m.BodyDiv))
	for k := range m.BodyDiv {
		keys = append(keys, k)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		a, b := keySequence(keys[i]), keySequence(keys[j])
		if a != b {
			return a < b
		}
		return keys[i] < keys[j]
	})
	return keys
}

func keySequence(key string) int {
	digits := strings.TrimLeftFunc(key, func(r rune) bool { return r < '0' || r > '9' })
	n, err := strconv.Atoi(digits)
	if err != nil {
		return -1
	}
	return n
}

// PrimaryActionButtonModel describes the overlay's call to action.
type PrimaryActionButtonModel struct {
	DataOverlayType     string            `json:"dataOverlayType,omitempty"`
	DataContentFetch    string            `json:"dataContentFetch,omitempty"`
	DataActionTarget    string            `json:"dataActionTarget,omitempty"`
	DataActionType      string            `json:"dataActionType,omitempty"`
	DataActionContentID string            `json:"dataActionContentId,omitempty"`
	DataLocation        string            `json:"dataLocation,omitempty"`
	ButtonText          string            `json:"buttonText,omitempty"`
	Attributes          map[string]string `json:"attributes,omitempty"`
}

// PlacementActionType is what tapping a text placement does.
type PlacementActionType string

const (
	ActionShowOverlay      PlacementActionType = "SHOW_OVERLAY"
	ActionRedirect         PlacementActionType = "REDIRECT"
	ActionBreadApply       PlacementActionType = "BREAD_APPLY"
	ActionRedirectInternal PlacementActionType = "REDIRECT_INTERNAL"
	ActionVersatileEco     PlacementActionType = "VERSATILE_ECO"
	ActionNoAction         PlacementActionType = "NO_ACTION"
)

// ActionTypes lists every known action type.
var ActionTypes = []PlacementActionType{
	ActionShowOverlay, ActionRedirect, ActionBreadApply,
	ActionRedirectInternal, ActionVersatileEco, ActionNoAction,
}

// PlacementOverlayType selects how an overlay loads its web content.
type PlacementOverlayType string

const (
	OverlayEmbedded      PlacementOverlayType = "EMBEDDED_OVERLAY"
	OverlaySingleProduct PlacementOverlayType = "SINGLE_PRODUCT_OVERLAY"
)
