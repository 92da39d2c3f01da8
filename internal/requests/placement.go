// Package requests builds outbound request bodies for the placement and
// RTPS endpoints and interprets RTPS return codes.
package requests

import (
	"strings"

	"github.com/patrickwarner/partnersdk/internal/models"
)

// RTPSApprovalLocation is the location tag sent when fetching the approval
// placement at the end of an RTPS flow.
const RTPSApprovalLocation = "RTPS-Approval"

// BuildPlacementRequest maps merchant and placement settings onto a single
// placement request. Blank values are left out of the context entirely.
func BuildPlacementRequest(integrationKey string, mc *models.MerchantConfiguration, pd *models.PlacementData) models.PlacementRequest {
	var id string
	if pd != nil {
		id = pd.PlacementID
	}
	return placementRequest(integrationKey, id, placementContext(mc, pd))
}

// BuildContentFetchRequest asks for one specific content entry using the
// same context as the placement that referenced it. Used by single product
// overlays.
func BuildContentFetchRequest(integrationKey, contentID string, mc *models.MerchantConfiguration, pd *models.PlacementData) models.PlacementRequest {
	return placementRequest(integrationKey, contentID, placementContext(mc, pd))
}

// BuildRTPSPlacementRequest asks for the approval overlay that points at the
// hosted pre-screen offer page.
func BuildRTPSPlacementRequest(integrationKey string, mc *models.MerchantConfiguration, embeddedURL string) models.PlacementRequest {
	var env string
	if mc != nil {
		env = string(mc.Env)
	}
	return placementRequest(integrationKey, "", models.RequestContext{
		Env:         clean(env),
		Location:    RTPSApprovalLocation,
		EmbeddedURL: clean(embeddedURL),
	})
}

func placementRequest(brandID, id string, ctx models.RequestContext) models.PlacementRequest {
	return models.PlacementRequest{
		BrandID: brandID,
		Placements: []models.PlacementRequestBody{
			{ID: clean(id), Context: ctx},
		},
	}
}

func placementContext(mc *models.MerchantConfiguration, pd *models.PlacementData) models.RequestContext {
	if mc == nil {
		mc = &models.MerchantConfiguration{}
	}

	allow := false
	if pd != nil && pd.AllowCheckout != nil {
		allow = *pd.AllowCheckout
	}

	ctx := models.RequestContext{
		Env:            clean(string(mc.Env)),
		ExistingCH:     mc.ExistingCardHolder,
		CardholderTier: clean(mc.CardholderTier),
		StoreNumber:    clean(mc.StoreNumber),
		LoyaltyID:      clean(mc.LoyaltyID),
		OverrideKey:    clean(mc.OverrideKey),
		ClientVar1:     clean(mc.ClientVariable1),
		ClientVar2:     clean(mc.ClientVariable2),
		ClientVar3:     clean(mc.ClientVariable3),
		ClientVar4:     clean(mc.ClientVariable4),
		DepartmentID:   clean(mc.DepartmentID),
		Channel:        clean(mc.Channel),
		Subchannel:     clean(mc.Subchannel),
		CMP:            clean(mc.CampaignID),
		AllowCheckout:  &allow,
	}

	if price, ok := pd.TotalPriceValue(); ok {
		p := int64(price)
		ctx.Price = &p
	}
	return ctx
}

// clean trims s; whitespace-only values count as absent.
func clean(s string) string {
	return strings.TrimSpace(s)
}
