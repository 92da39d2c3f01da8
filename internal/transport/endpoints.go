package transport

import (
	"strings"

	"github.com/patrickwarner/partnersdk/internal/models"
	"github.com/patrickwarner/partnersdk/internal/requests"
)

const brandsHost = "https://brands.kmsmep.com"

var rtpsHosts = map[models.Environment]string{
	models.EnvironmentStage: "https://acquire1uat.comenity.net",
	models.EnvironmentProd:  "https://acquire1.comenity.net",
	models.EnvironmentUAT:   "https://acquire1-uat.comenity.net",
}

// Endpoints resolves the partner service URLs for one environment.
type Endpoints struct {
	BrandBase string
	RTPSBase  string
}

// DefaultEndpoints returns the hosts used by env.
func DefaultEndpoints(env models.Environment) Endpoints {
	rtps, ok := rtpsHosts[env]
	if !ok {
		rtps = rtpsHosts[models.EnvironmentProd]
	}
	return Endpoints{BrandBase: brandsHost, RTPSBase: rtps}
}

// WithOverrides replaces the bases that are non-empty.
func (e Endpoints) WithOverrides(brandBase, rtpsBase string) Endpoints {
	if brandBase != "" {
		e.BrandBase = strings.TrimRight(brandBase, "/")
	}
	if rtpsBase != "" {
		e.RTPSBase = strings.TrimRight(rtpsBase, "/")
	}
	return e
}

// BrandConfig returns the URL of the brand configuration for brandID.
func (e Endpoints) BrandConfig(brandID string) string {
	return e.BrandBase + "/brands/" + brandID + "/config"
}

// GeneratePlacements returns the placement request URL.
func (e Endpoints) GeneratePlacements() string {
	return e.BrandBase + "/generatePlacements"
}

func (e Endpoints) ViewPlacement() string {
	return e.BrandBase + "/ep/v1/view-placement"
}

func (e Endpoints) ClickPlacement() string {
	return e.BrandBase + "/ep/v1/click-placement"
}

// RTPS returns the URL for a pre-screen or virtual lookup call.
func (e Endpoints) RTPS(ep requests.RTPSEndpoint) string {
	if ep == requests.EndpointVirtualLookup {
		return e.RTPSBase + "/api/virtual_lookup"
	}
	return e.RTPSBase + "/api/prescreen"
}

// PrescreenOffer is the hosted offer page that approvals link to.
func (e Endpoints) PrescreenOffer() string {
	return e.RTPSBase + "/prescreen/offer"
}

// ChallengeBaseURL is the origin a challenge page is loaded against: the
// API URL up to its /api segment.
func ChallengeBaseURL(apiURL string) string {
	if i := strings.Index(apiURL, "/api"); i >= 0 {
		return apiURL[:i]
	}
	return apiURL
}
