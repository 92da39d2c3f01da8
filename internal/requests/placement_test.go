package requests

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickwarner/partnersdk/internal/models"
)

func contextJSON(t *testing.T, req models.PlacementRequest) map[string]any {
	t.Helper()
	b, err := json.Marshal(req)
	require.NoError(t, err)

	var decoded struct {
		BrandID    string `json:"brandId"`
		Placements []struct {
			ID      *string        `json:"id"`
			Context map[string]any `json:"context"`
		} `json:"placements"`
	}
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Len(t, decoded.Placements, 1)
	return decoded.Placements[0].Context
}

func TestBuildPlacementRequestOmitsEmptyFields(t *testing.T) {
	mc := &models.MerchantConfiguration{
		StoreNumber:     "",
		LoyaltyID:       "",
		OverrideKey:     "   ",
		ClientVariable1: "",
		Channel:         "",
	}
	req := BuildPlacementRequest("brand-1", mc, &models.PlacementData{})

	assert.Equal(t, "brand-1", req.BrandID)
	ctx := contextJSON(t, req)

	// only the checkout flag is always sent
	assert.Equal(t, map[string]any{"ALLOW_CHECKOUT": false}, ctx)
}

func TestBuildPlacementRequestMapsFields(t *testing.T) {
	price := 129.99
	allow := true
	existing := true
	mc := &models.MerchantConfiguration{
		Env:                models.EnvironmentStage,
		CardholderTier:     "gold",
		StoreNumber:        "1234",
		LoyaltyID:          "L1",
		OverrideKey:        "OK",
		ClientVariable1:    "v1",
		ClientVariable4:    "v4",
		DepartmentID:       "D9",
		Channel:            "P",
		Subchannel:         "X",
		CampaignID:         "CMP1",
		ExistingCardHolder: &existing,
	}
	pd := &models.PlacementData{
		PlacementID:   "placement-1",
		AllowCheckout: &allow,
		Order: &models.Order{TotalPrice: &models.CurrencyValue{
			Currency: "USD", Value: &price,
		}},
	}

	req := BuildPlacementRequest("brand-1", mc, pd)
	require.Len(t, req.Placements, 1)
	assert.Equal(t, "placement-1", req.Placements[0].ID)

	ctx := contextJSON(t, req)
	assert.Equal(t, "STAGE", ctx["ENV"])
	assert.Equal(t, float64(129), ctx["PRICE"])
	assert.Equal(t, true, ctx["EXISTING_CH"])
	assert.Equal(t, "gold", ctx["CARDHOLDER_TIER"])
	assert.Equal(t, "1234", ctx["STORE_NUMBER"])
	assert.Equal(t, "L1", ctx["LOYALTY_ID"])
	assert.Equal(t, "OK", ctx["OVERRIDE_KEY"])
	assert.Equal(t, "v1", ctx["CLIENT_VAR_1"])
	assert.Equal(t, "v4", ctx["CLIENT_VAR_4"])
	assert.Equal(t, "D9", ctx["DEPARTMENT_ID"])
	assert.Equal(t, "P", ctx["channel"])
	assert.Equal(t, "X", ctx["subchannel"])
	assert.Equal(t, "CMP1", ctx["CMP"])
	assert.Equal(t, true, ctx["ALLOW_CHECKOUT"])
	assert.NotContains(t, ctx, "CLIENT_VAR_2")
	assert.NotContains(t, ctx, "LOCATION")
}

func TestBuildPlacementRequestNilInputs(t *testing.T) {
	req := BuildPlacementRequest("brand-1", nil, nil)
	ctx := contextJSON(t, req)
	assert.Equal(t, map[string]any{"ALLOW_CHECKOUT": false}, ctx)
}

func TestBuildPlacementRequestZeroPriceIsSent(t *testing.T) {
	zero := 0.0
	pd := &models.PlacementData{Order: &models.Order{TotalPrice: &models.CurrencyValue{Value: &zero}}}
	ctx := contextJSON(t, BuildPlacementRequest("b", nil, pd))
	assert.Equal(t, float64(0), ctx["PRICE"])
}

func TestBuildContentFetchRequest(t *testing.T) {
	mc := &models.MerchantConfiguration{Channel: "P"}
	pd := &models.PlacementData{PlacementID: "ignored"}

	req := BuildContentFetchRequest("brand-1", "content-9", mc, pd)
	require.Len(t, req.Placements, 1)
	assert.Equal(t, "content-9", req.Placements[0].ID)
	assert.Equal(t, "P", req.Placements[0].Context.Channel)
}

func TestBuildRTPSPlacementRequest(t *testing.T) {
	mc := &models.MerchantConfiguration{Env: models.EnvironmentUAT, Channel: "P"}
	req := BuildRTPSPlacementRequest("brand-1", mc, "https://rtps.example.com/prescreen/offer?embedded=true")

	ctx := contextJSON(t, req)
	assert.Equal(t, map[string]any{
		"ENV":         "UAT",
		"LOCATION":    "RTPS-Approval",
		"embeddedUrl": "https://rtps.example.com/prescreen/offer?embedded=true",
	}, ctx)
	assert.Empty(t, req.Placements[0].ID)
}
