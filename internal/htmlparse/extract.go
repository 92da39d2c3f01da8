// Package htmlparse turns placement HTML fragments into typed placement
// models. It relies on a small structural contract with the placement
// service: a fixed set of class names and data attributes.
package htmlparse

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/patrickwarner/partnersdk/internal/models"
)

var (
	// ErrExtraction is returned when a fragment cannot be parsed at all.
	ErrExtraction = errors.New("html extraction failed")
	// ErrUnknownType is returned for action or overlay types outside the
	// known set.
	ErrUnknownType = errors.New("unknown placement type")
)

const (
	selActionType      = "[data-action-type]"
	selActionTarget    = "[data-action-target]"
	selActionContentID = "[data-action-content-id]"
	selBody            = ".epjs-body"
	selBodyActionLink  = ".epjs-body-action a"
	selSup             = "sup"
	selTextPlacement   = ".ep-text-placement"

	selOverlayMetadata = "[data-overlay-metadata]"
	selBrandLogo       = ".brand.logo img"
	selIframe          = "iframe"
	selOverlayTitle    = ".epjs-css-overlay-title"
	selOverlaySubtitle = ".epjs-css-overlay-subtitle"
	selTitleBar        = ".epjs-css-overlay-body-title-bar"
	selOverlayHeader   = ".epjs-css-overlay-header"
	selDisclosures     = ".epjs-css-overlay-disclosures"
	selBodyContent     = ".epjs-css-overlay-body-content"
	selActionButton    = ".action-button"
	selModalFooter     = ".epjs-css-modal-footer"

	classValueProp          = "epjs-css-overlay-value-prop"
	classValuePropConnector = "epjs-css-overlay-value-prop-connector"
	classBodyFooter         = "epjs-css-overlay-body-footer"
)

func parse(html string) (*goquery.Document, error) {
	if strings.TrimSpace(html) == "" {
		return nil, fmt.Errorf("%w: empty document", ErrExtraction)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	return doc, nil
}

// ExtractTextPlacement reads a text placement fragment. Missing elements
// leave the matching fields empty; it never fails.
func ExtractTextPlacement(html string) models.TextPlacementModel {
	doc, err := parse(html)
	if err != nil {
		return models.TextPlacementModel{}
	}

	body := strings.TrimSpace(ownText(doc.Find(selBody).First()))
	link := normalizeSpace(doc.Find(selBodyActionLink).Text())
	sup := normalizeSpace(doc.Find(selSup).Text())

	details := normalizeSpace(doc.Find(selTextPlacement).Text())
	if link != "" {
		details = strings.ReplaceAll(details, link, "")
	}
	if sup != "" {
		details = strings.ReplaceAll(details, sup, "")
	}
	details = normalizeSpace(details)

	var text string
	switch {
	case body == details:
		text = body
	case body == "":
		text = details
	case details == "":
		text = body
	default:
		text = body + " " + details
	}

	return models.TextPlacementModel{
		ActionType:      firstAttr(doc.Selection, selActionType, "data-action-type"),
		ActionTarget:    firstAttr(doc.Selection, selActionTarget, "data-action-target"),
		ContentText:     text,
		ActionLink:      link,
		ActionContentID: firstAttr(doc.Selection, selActionContentID, "data-action-content-id"),
	}
}

// ExtractPopupPlacement reads an overlay fragment. Location is left empty;
// the caller fills it from the placement's render context.
func ExtractPopupPlacement(html string) (models.PopupPlacementModel, error) {
	doc, err := parse(html)
	if err != nil {
		return models.PopupPlacementModel{}, err
	}

	return models.PopupPlacementModel{
		OverlayType:                   firstAttr(doc.Selection, selOverlayMetadata, "data-overlay-type"),
		BrandLogoURL:                  firstAttr(doc.Selection, selBrandLogo, "src"),
		WebViewURL:                    firstAttr(doc.Selection, selIframe, "src"),
		OverlayTitle:                  innerHTML(doc.Find(selOverlayTitle)),
		OverlaySubtitle:               innerHTML(doc.Find(selOverlaySubtitle)),
		OverlayContainerBarHeading:    innerHTML(doc.Find(selTitleBar)),
		BodyHeader:                    innerHTML(doc.Find(selOverlayHeader)),
		Disclosure:                    innerHTML(doc.Find(selDisclosures)),
		PrimaryActionButtonAttributes: primaryButton(doc),
		DynamicBodyModel:              dynamicBody(doc),
	}, nil
}

// dynamicBody walks the body container's children in document order. One
// counter is shared by every classified child, so keys sorted by suffix
// reproduce the markup order across value props, connectors and footers.
func dynamicBody(doc *goquery.Document) models.DynamicBodyModel {
	divs := make(map[string]models.DynamicBodyContent)
	seq := 0
	doc.Find(selBodyContent).Each(func(_ int, container *goquery.Selection) {
		container.Children().Each(func(_ int, child *goquery.Selection) {
			class, _ := child.Attr("class")
			switch strings.TrimSpace(class) {
			case classValueProp:
				divs[fmt.Sprintf("div%d", seq)] = models.DynamicBodyContent{TagValuePairs: childTags(child)}
			case classValuePropConnector:
				divs[fmt.Sprintf("div%d", seq)] = models.DynamicBodyContent{
					TagValuePairs: map[string]string{"connector": innerHTML(child)},
				}
			case classBodyFooter:
				divs[fmt.Sprintf("footer%d", seq)] = models.DynamicBodyContent{TagValuePairs: childTags(child)}
			default:
				return
			}
			seq++
		})
	})
	return models.DynamicBodyModel{BodyDiv: divs}
}

// childTags maps each child's tag name to its inner HTML. Later children
// with the same tag replace earlier ones.
func childTags(s *goquery.Selection) map[string]string {
	pairs := make(map[string]string)
	s.Children().Each(func(_ int, c *goquery.Selection) {
		pairs[goquery.NodeName(c)] = innerHTML(c)
	})
	return pairs
}

func primaryButton(doc *goquery.Document) *models.PrimaryActionButtonModel {
	button := doc.Find(selActionButton).First()
	if button.Length() == 0 {
		return nil
	}

	attrs := make(map[string]string)
	for _, a := range button.Nodes[0].Attr {
		if strings.HasPrefix(a.Key, "data-") {
			attrs[a.Key] = a.Val
		}
	}

	footerType, _ := doc.Find(selModalFooter).First().Attr("data-overlay-type")
	return &models.PrimaryActionButtonModel{
		DataOverlayType:     footerType,
		DataContentFetch:    attrs["data-content-fetch"],
		DataActionTarget:    attrs["data-action-target"],
		DataActionType:      attrs["data-action-type"],
		DataActionContentID: attrs["data-action-content-id"],
		DataLocation:        attrs["data-location"],
		ButtonText:          normalizeSpace(button.Find("span").Text()),
		Attributes:          attrs,
	}
}

// ParseActionType maps an attribute value onto a PlacementActionType.
func ParseActionType(v string) (models.PlacementActionType, error) {
	for _, t := range models.ActionTypes {
		if string(t) == v {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: action %q", ErrUnknownType, v)
}

// ParseOverlayType maps an attribute value onto a PlacementOverlayType.
func ParseOverlayType(v string) (models.PlacementOverlayType, error) {
	switch t := models.PlacementOverlayType(v); t {
	case models.OverlayEmbedded, models.OverlaySingleProduct:
		return t, nil
	}
	return "", fmt.Errorf("%w: overlay %q", ErrUnknownType, v)
}
