package api

import "github.com/patrickwarner/partnersdk/internal/models"

// DemoBrandID is the brand the mock service knows out of the box.
const DemoBrandID = "demo-brand"

// Content ids in the demo catalog. The text placement opens the overlay,
// whose action button fetches the product content.
const (
	ContentTextID    = "content-text"
	ContentOverlayID = "content-overlay"
	ContentProductID = "content-product"
)

// DemoPrescreenID is returned for every approval.
const DemoPrescreenID int64 = 20250327

const textPlacementHTML = `
<div class="ep-text-placement" data-action-type="SHOW_OVERLAY" data-action-target="overlay" data-action-content-id="` + ContentOverlayID + `">
  <span class="epjs-body">Pay over time</span>
  <span class="epjs-payment">as low as $25/mo<sup>*</sup></span>
  <span class="epjs-body-action"><a href="#">Learn more</a></span>
</div>`

const overlayPlacementHTML = `
<div class="epjs-css-overlay" data-overlay-metadata="true" data-overlay-type="SINGLE_PRODUCT_OVERLAY">
  <div class="brand logo"><img src="https://static.example.com/brand/logo.png"></div>
  <h1 class="epjs-css-overlay-title">Get 5% back</h1>
  <h2 class="epjs-css-overlay-subtitle">On every purchase with the store card</h2>
  <div class="epjs-css-overlay-body-title-bar">Why apply</div>
  <div class="epjs-css-overlay-header">Card benefits</div>
  <div class="epjs-css-overlay-body-content">
    <div class="epjs-css-overlay-value-prop"><h3>Save</h3><p>5% back on purchases</p></div>
    <div class="epjs-css-overlay-value-prop-connector">+</div>
    <div class="epjs-css-overlay-value-prop"><h3>Finance</h3><p>Special financing on large orders</p></div>
    <div class="epjs-css-overlay-body-footer"><p>Subject to credit approval.</p></div>
  </div>
  <div class="epjs-css-modal-footer" data-overlay-type="EMBEDDED_OVERLAY">
    <button class="action-button" data-content-fetch="` + ContentProductID + `" data-action-type="SHOW_OVERLAY" data-location="product">
      <span>Apply now</span>
    </button>
  </div>
  <div class="epjs-css-overlay-disclosures">Offer terms apply.</div>
</div>`

const productPlacementHTML = `
<div class="epjs-css-overlay" data-overlay-metadata="true" data-overlay-type="EMBEDDED_OVERLAY">
  <h1 class="epjs-css-overlay-title">Apply for the store card</h1>
  <iframe src="https://apply.example.com/embedded"></iframe>
</div>`

// ChallengeHTML is the page served when a request must pass a challenge.
const ChallengeHTML = `<html><body><div id="challenge">Please verify you are human.</div></body></html>`

// DemoBrandConfig is the configuration served for DemoBrandID.
func DemoBrandConfig() models.BrandConfig {
	return models.BrandConfig{
		ClientName:           "Demo Store",
		OverrideKey:          "",
		RecaptchaEnabledQA:   "true",
		RecaptchaSiteKeyQA:   "demo-site-key-qa",
		RecaptchaSiteKeyProd: "demo-site-key-prod",
	}
}

// DemoContent is the placement content catalog.
func DemoContent() map[string]models.PlacementContent {
	entry := func(id, template, html string) models.PlacementContent {
		return models.PlacementContent{
			ID:          id,
			ContentType: "text/html",
			ContentData: models.ContentData{HTMLContent: html},
			Metadata: models.ContentMetadata{
				PlacementID: "demo-placement",
				ProductType: "store-card",
				TemplateID:  template,
			},
		}
	}
	return map[string]models.PlacementContent{
		ContentTextID:    entry(ContentTextID, "text-placement", textPlacementHTML),
		ContentOverlayID: entry(ContentOverlayID, "single-product-overlay", overlayPlacementHTML),
		ContentProductID: entry(ContentProductID, "embedded-product", productPlacementHTML),
	}
}
