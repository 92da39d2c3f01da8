package htmlparse

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickwarner/partnersdk/internal/models"
)

const textFixture = `
<div class="ep-text-placement" data-action-type="SHOW_OVERLAY" data-action-target="overlay" data-action-content-id="content-overlay">
  <span class="epjs-body">Special financing</span>
  <span class="epjs-payment">as low as $25/mo<sup>*</sup></span>
  <span class="epjs-body-action"><a href="#">See terms</a></span>
</div>`

const popupFixture = `
<div class="epjs-css-overlay" data-overlay-metadata="true" data-overlay-type="SINGLE_PRODUCT_OVERLAY">
  <div class="brand logo"><img src="https://cdn.example.com/logo.png"></div>
  <h1 class="epjs-css-overlay-title">Get <b>5%</b> back</h1>
  <h2 class="epjs-css-overlay-subtitle">On every purchase</h2>
  <div class="epjs-css-overlay-body-title-bar">Why apply</div>
  <div class="epjs-css-overlay-header">Benefits</div>
  <div class="epjs-css-overlay-body-content">
    <div class="epjs-css-overlay-value-prop"><h3>Save</h3><p>5% back</p></div>
    <div class="epjs-css-overlay-value-prop-connector">+</div>
    <div class="unrelated">ignored</div>
    <div class="epjs-css-overlay-value-prop"><h3>Earn</h3><p>Points</p></div>
    <div class="epjs-css-overlay-body-footer"><p>Terms apply</p></div>
  </div>
  <div class="epjs-css-modal-footer" data-overlay-type="EMBEDDED_OVERLAY">
    <button class="action-button" data-content-fetch="content-product" data-action-type="SHOW_OVERLAY" data-location="product" aria-label="apply">
      <span>Apply now</span>
    </button>
  </div>
  <div class="epjs-css-overlay-disclosures">Subject to credit approval.</div>
  <iframe src="https://apply.example.com/embedded"></iframe>
</div>`

func TestExtractTextPlacementComposesBodyAndDetails(t *testing.T) {
	m := ExtractTextPlacement(textFixture)

	assert.Equal(t, "SHOW_OVERLAY", m.ActionType)
	assert.Equal(t, "overlay", m.ActionTarget)
	assert.Equal(t, "content-overlay", m.ActionContentID)
	assert.Equal(t, "See terms", m.ActionLink)
	// details are the whole placement text minus link and superscript text
	assert.Equal(t, "Special financing Special financing as low as $25/mo", m.ContentText)
}

func TestExtractTextPlacementBodyEqualsDetails(t *testing.T) {
	html := `<div class="ep-text-placement">
	  <span class="epjs-body">Get 5% back<sup>1</sup> on purchases</span>
	  <span class="epjs-body-action"><a>Learn more</a></span>
	</div>`

	m := ExtractTextPlacement(html)
	assert.Equal(t, "Get 5% back on purchases", m.ContentText)
	assert.Equal(t, "Learn more", m.ActionLink)
	assert.Empty(t, m.ActionType)
}

func TestExtractTextPlacementFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "only body",
			html:     `<span class="epjs-body">Pay over time</span>`,
			expected: "Pay over time",
		},
		{
			name:     "only placement text",
			html:     `<div class="ep-text-placement">Pay later <span class="epjs-body-action"><a>Go</a></span></div>`,
			expected: "Pay later",
		},
		{
			name:     "nothing",
			html:     `<div class="other">hello</div>`,
			expected: "",
		},
		{
			name:     "blank input",
			html:     "   ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractTextPlacement(tt.html).ContentText)
		})
	}
}

func TestExtractTextPlacementFirstAttributeWins(t *testing.T) {
	html := `<div data-action-type="NO_ACTION"></div><div data-action-type="SHOW_OVERLAY"></div>`
	assert.Equal(t, "NO_ACTION", ExtractTextPlacement(html).ActionType)
}

func TestExtractPopupPlacement(t *testing.T) {
	m, err := ExtractPopupPlacement(popupFixture)
	require.NoError(t, err)

	assert.Equal(t, "SINGLE_PRODUCT_OVERLAY", m.OverlayType)
	assert.Equal(t, "https://cdn.example.com/logo.png", m.BrandLogoURL)
	assert.Equal(t, "https://apply.example.com/embedded", m.WebViewURL)
	assert.Equal(t, "Get <b>5%</b> back", m.OverlayTitle)
	assert.Equal(t, "On every purchase", m.OverlaySubtitle)
	assert.Equal(t, "Why apply", m.OverlayContainerBarHeading)
	assert.Equal(t, "Benefits", m.BodyHeader)
	assert.Equal(t, "Subject to credit approval.", m.Disclosure)
	assert.Empty(t, m.Location)

	btn := m.PrimaryActionButtonAttributes
	require.NotNil(t, btn)
	assert.Equal(t, "EMBEDDED_OVERLAY", btn.DataOverlayType)
	assert.Equal(t, "content-product", btn.DataContentFetch)
	assert.Equal(t, "SHOW_OVERLAY", btn.DataActionType)
	assert.Equal(t, "product", btn.DataLocation)
	assert.Equal(t, "Apply now", btn.ButtonText)
	assert.Empty(t, btn.DataActionTarget)
	assert.NotContains(t, btn.Attributes, "aria-label")
	assert.Len(t, btn.Attributes, 3)
}

func TestDynamicBodyPreservesDocumentOrder(t *testing.T) {
	m, err := ExtractPopupPlacement(popupFixture)
	require.NoError(t, err)

	body := m.DynamicBodyModel
	assert.Equal(t, []string{"div0", "div1", "div2", "footer3"}, body.OrderedKeys())

	assert.Equal(t, map[string]string{"h3": "Save", "p": "5% back"}, body.BodyDiv["div0"].TagValuePairs)
	assert.Equal(t, map[string]string{"connector": "+"}, body.BodyDiv["div1"].TagValuePairs)
	assert.Equal(t, map[string]string{"h3": "Earn", "p": "Points"}, body.BodyDiv["div2"].TagValuePairs)
	assert.Equal(t, map[string]string{"p": "Terms apply"}, body.BodyDiv["footer3"].TagValuePairs)
}

func TestExtractPopupPlacementPartial(t *testing.T) {
	m, err := ExtractPopupPlacement(`<div class="epjs-css-overlay-title">Only a title</div>`)
	require.NoError(t, err)

	assert.Equal(t, "Only a title", m.OverlayTitle)
	assert.Empty(t, m.OverlayType)
	assert.Empty(t, m.WebViewURL)
	assert.Nil(t, m.PrimaryActionButtonAttributes)
	assert.Empty(t, m.DynamicBodyModel.BodyDiv)
}

func TestExtractPopupPlacementEmpty(t *testing.T) {
	_, err := ExtractPopupPlacement("")
	assert.True(t, errors.Is(err, ErrExtraction))
}

func TestParseTypes(t *testing.T) {
	a, err := ParseActionType("NO_ACTION")
	require.NoError(t, err)
	assert.Equal(t, models.ActionNoAction, a)

	_, err = ParseActionType("no_action")
	assert.ErrorIs(t, err, ErrUnknownType)

	o, err := ParseOverlayType("EMBEDDED_OVERLAY")
	require.NoError(t, err)
	assert.Equal(t, models.OverlayEmbedded, o)

	_, err = ParseOverlayType("MODAL")
	assert.ErrorIs(t, err, ErrUnknownType)
}
