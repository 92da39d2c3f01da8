package requests

import (
	"strconv"

	"github.com/patrickwarner/partnersdk/internal/models"
)

// RTPSEndpoint names the backend call an RTPS request is sent to.
type RTPSEndpoint int

const (
	EndpointPrescreen RTPSEndpoint = iota
	EndpointVirtualLookup
)

func (e RTPSEndpoint) String() string {
	if e == EndpointVirtualLookup {
		return "virtual_lookup"
	}
	return "prescreen"
}

// Endpoint picks pre-screen when no prescreen id is known yet and virtual
// lookup otherwise.
func Endpoint(data *models.RTPSData) RTPSEndpoint {
	if data == nil || data.PrescreenID == nil {
		return EndpointPrescreen
	}
	return EndpointVirtualLookup
}

// BuildRTPSRequest builds the body for whichever endpoint Endpoint selects.
// The pre-screen body carries buyer identity and the bot-check token; the
// virtual lookup body carries only the prescreen id, since the backend
// already knows the buyer.
func BuildRTPSRequest(mc *models.MerchantConfiguration, data *models.RTPSData, token string) models.RTPSRequest {
	if data == nil {
		data = &models.RTPSData{}
	}
	var channel, subchannel, store string
	if mc != nil {
		channel, subchannel, store = mc.Channel, mc.Subchannel, mc.StoreNumber
	}

	req := models.RTPSRequest{
		URLPath:        clean(data.ScreenName),
		Channel:        clean(channel),
		Subchannel:     clean(subchannel),
		MockResponse:   clean(string(data.MockResponse)),
		OverrideConfig: &models.OverrideConfig{EnhancedPresentment: true},
	}

	if data.PrescreenID != nil {
		req.PrescreenID = strconv.FormatInt(*data.PrescreenID, 10)
		return req
	}

	buyer := mc.BuyerOrEmpty()
	addr := mc.BillingAddress()
	req.FirstName = clean(buyer.GivenName)
	req.LastName = clean(buyer.FamilyName)
	req.Address1 = clean(addr.Address1)
	req.City = clean(addr.Locality)
	req.State = clean(addr.Region)
	req.Zip = clean(addr.PostalCode)
	req.StoreNumber = clean(store)
	req.Location = clean(string(data.LocationType))
	req.ReCaptchaToken = token
	return req
}

var prescreenResults = map[string]models.PrescreenResult{
	"0":  models.PrescreenAccountFound,
	"01": models.PrescreenApproved,
	"10": models.PrescreenNoHit,
	"11": models.PrescreenMakeOffer,
	"12": models.PrescreenAcknowledge,
}

// PrescreenResultFor maps a backend return code onto a result. Blank and
// unknown codes are NO_HIT.
func PrescreenResultFor(code string) models.PrescreenResult {
	if r, ok := prescreenResults[code]; ok {
		return r
	}
	return models.PrescreenNoHit
}
