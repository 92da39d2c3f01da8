package requests

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/patrickwarner/partnersdk/internal/models"
)

// RTPSWebURL builds the hosted offer page URL shown after an approval.
// Parameters keep a fixed order and blank values are dropped.
func RTPSWebURL(offerURL, integrationKey string, mc *models.MerchantConfiguration, data *models.RTPSData) string {
	if data == nil {
		data = &models.RTPSData{}
	}
	buyer := mc.BuyerOrEmpty()
	addr := mc.BillingAddress()

	var prescreenID, store string
	if data.PrescreenID != nil {
		prescreenID = strconv.FormatInt(*data.PrescreenID, 10)
	}
	if mc != nil {
		store = mc.StoreNumber
	}
	mock := string(data.MockResponse)

	params := [][2]string{
		{"mockMO", mock},
		{"mockPA", mock},
		{"mockVL", mock},
		{"embedded", "true"},
		{"clientKey", integrationKey},
		{"prescreenId", prescreenID},
		{"cardType", data.CardType},
		{"urlPath", data.ScreenName},
		{"firstName", buyer.GivenName},
		{"lastName", buyer.FamilyName},
		{"address1", addr.Address1},
		{"city", addr.Locality},
		{"state", addr.Region},
		{"zip", addr.PostalCode},
		{"storeNumber", store},
		{"location", string(data.LocationType)},
		{"channel", data.Channel},
	}

	var b strings.Builder
	b.WriteString(offerURL)
	sep := "?"
	for _, p := range params {
		v := clean(p[1])
		if v == "" {
			continue
		}
		b.WriteString(sep)
		b.WriteString(p[0])
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(v))
		sep = "&"
	}
	return b.String()
}
