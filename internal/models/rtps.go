package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// MockOption asks the RTPS backend for a canned response. Only honoured in
// non-production environments.
type MockOption string

const (
	MockNone            MockOption = ""
	MockSuccess         MockOption = "success"
	MockNoHit           MockOption = "noHit"
	MockMakeOffer       MockOption = "makeOffer"
	MockAcknowledge     MockOption = "ackknowledge" // sic, matches the backend
	MockExistingAccount MockOption = "existingAccount"
	MockExistingOffer   MockOption = "existingOffer"
	MockNewOffer        MockOption = "newOffer"
	MockError           MockOption = "error"
)

// RTPSData is the caller-owned state of a silent pre-screen flow.
// PrescreenID is nil until a pre-screen succeeds; once set, later flows take
// the virtual lookup path instead.
type RTPSData struct {
	FinancingType         FinancingType `json:"financingType,omitempty"`
	Order                 *Order        `json:"order,omitempty"`
	LocationType          LocationType  `json:"locationType,omitempty"`
	ScreenName            string        `json:"screenName,omitempty"`
	CardType              string        `json:"cardType,omitempty"`
	Country               string        `json:"country,omitempty"`
	PrescreenID           *int64        `json:"prescreenId,omitempty"`
	CorrelationData       string        `json:"correlationData,omitempty"`
	CustomerAcceptedOffer *bool         `json:"customerAcceptedOffer,omitempty"`
	Channel               string        `json:"channel,omitempty"`
	SubChannel            string        `json:"subChannel,omitempty"`
	MockResponse          MockOption    `json:"mockResponse,omitempty"`
}

// RTPSRequest is the body of both the pre-screen and virtual lookup calls.
type RTPSRequest struct {
	URLPath        string          `json:"urlPath,omitempty"`
	FirstName      string          `json:"firstName,omitempty"`
	LastName       string          `json:"lastName,omitempty"`
	Address1       string          `json:"address1,omitempty"`
	City           string          `json:"city,omitempty"`
	State          string          `json:"state,omitempty"`
	Zip            string          `json:"zip,omitempty"`
	StoreNumber    string          `json:"storeNumber,omitempty"`
	Location       string          `json:"location,omitempty"`
	Channel        string          `json:"channel,omitempty"`
	Subchannel     string          `json:"subchannel,omitempty"`
	ReCaptchaToken string          `json:"reCaptchaToken,omitempty"`
	MockResponse   string          `json:"mockResponse,omitempty"`
	OverrideConfig *OverrideConfig `json:"overrideConfig,omitempty"`
	PrescreenID    string          `json:"prescreenId,omitempty"`
}

// OverrideConfig adjusts how the partner service presents the offer.
// EnhancedPresentment is always sent, including when false.
type OverrideConfig struct {
	EnhancedPresentment bool `json:"enhancedPresentment"`
}

// RTPSResponse is returned by the pre-screen and virtual lookup endpoints.
type RTPSResponse struct {
	ReturnCode         ReturnCode `json:"returnCode"`
	ErrorMessage       string     `json:"errorMessage,omitempty"`
	ErrorCode          ReturnCode `json:"errorCode,omitempty"`
	Address1           string     `json:"address1,omitempty"`
	Address2           string     `json:"address2,omitempty"`
	City               string     `json:"city,omitempty"`
	State              string     `json:"state,omitempty"`
	Zip                string     `json:"zip,omitempty"`
	FirstName          string     `json:"firstName,omitempty"`
	MiddleInitial      string     `json:"middleInitial,omitempty"`
	LastName           string     `json:"lastName,omitempty"`
	PrescreenID        *int64     `json:"prescreenId,omitempty"`
	IsExpired          bool       `json:"isExpired,omitempty"`
	CardType           string     `json:"cardType,omitempty"`
	HasExistingAccount *bool      `json:"hasExistingAccount,omitempty"`
}

// ReturnCode is a backend status code. The service has sent it both as a
// JSON string ("01") and as a number, so both decode. Leading zeros only
// survive the string form.
type ReturnCode string

func (c *ReturnCode) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*c = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = ReturnCode(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("return code: %w", err)
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return fmt.Errorf("return code: %w", err)
	}
	*c = ReturnCode(n.String())
	return nil
}

// PrescreenResult classifies an RTPS outcome.
type PrescreenResult int

const (
	PrescreenNoHit PrescreenResult = iota
	PrescreenAccountFound
	PrescreenApproved
	PrescreenMakeOffer
	PrescreenAcknowledge
)

func (r PrescreenResult) String() string {
	switch r {
	case PrescreenAccountFound:
		return "ACCOUNT_FOUND"
	case PrescreenApproved:
		return "APPROVED"
	case PrescreenMakeOffer:
		return "MAKE_OFFER"
	case PrescreenAcknowledge:
		return "ACKNOWLEDGE"
	default:
		return "NO_HIT"
	}
}
