package models

// PlacementRequest is the body sent to the placement generation endpoint.
type PlacementRequest struct {
	BrandID    string                 `json:"brandId,omitempty"`
	Placements []PlacementRequestBody `json:"placements,omitempty"`
}

// PlacementRequestBody asks for a single placement. ID is empty when the
// service should pick the placement from Context alone.
type PlacementRequestBody struct {
	ID      string         `json:"id,omitempty"`
	Context RequestContext `json:"context"`
}

// RequestContext is the targeting context of a placement request. Every
// string field is dropped from the JSON when empty: the remote service treats
// an empty string and an absent key differently.
type RequestContext struct {
	SDKTID             string `json:"SDK_TID,omitempty"`
	Env                string `json:"ENV,omitempty"`
	RTPSID             string `json:"RTPS_ID,omitempty"`
	BuyerID            string `json:"BUYER_ID,omitempty"`
	PrequalID          string `json:"PREQUAL_ID,omitempty"`
	PrequalCreditLimit string `json:"PREQUAL_CREDIT_LIMIT,omitempty"`
	Location           string `json:"LOCATION,omitempty"`
	Price              *int64 `json:"PRICE,omitempty"`
	ExistingCH         *bool  `json:"EXISTING_CH,omitempty"`
	CardholderTier     string `json:"CARDHOLDER_TIER,omitempty"`
	StoreNumber        string `json:"STORE_NUMBER,omitempty"`
	LoyaltyID          string `json:"LOYALTY_ID,omitempty"`
	OverrideKey        string `json:"OVERRIDE_KEY,omitempty"`
	ClientVar1         string `json:"CLIENT_VAR_1,omitempty"`
	ClientVar2         string `json:"CLIENT_VAR_2,omitempty"`
	ClientVar3         string `json:"CLIENT_VAR_3,omitempty"`
	ClientVar4         string `json:"CLIENT_VAR_4,omitempty"`
	DepartmentID       string `json:"DEPARTMENT_ID,omitempty"`
	Channel            string `json:"channel,omitempty"`
	Subchannel         string `json:"subchannel,omitempty"`
	CMP                string `json:"CMP,omitempty"`
	AllowCheckout      *bool  `json:"ALLOW_CHECKOUT,omitempty"`
	UQPParams          string `json:"UQP_PARAMS,omitempty"`
	EmbeddedURL        string `json:"embeddedUrl,omitempty"`
}

// PlacementsResponse is returned by the placement generation endpoint.
type PlacementsResponse struct {
	Placements       []Placement        `json:"placements,omitempty"`
	PlacementContent []PlacementContent `json:"placementContent,omitempty"`
}

// Placement references its content indirectly through Content.ContentID.
type Placement struct {
	ID            string           `json:"id,omitempty"`
	Content       ContentReference `json:"content"`
	RenderContext RenderContext    `json:"renderContext"`
}

// ContentReference points a placement at its entry in
// PlacementsResponse.PlacementContent.
type ContentReference struct {
	ContentID string `json:"contentId,omitempty"`
}

// RenderContext echoes the targeting context the service used.
type RenderContext struct {
	Location           string `json:"LOCATION,omitempty"`
	Subchannel         string `json:"subchannel,omitempty"`
	RTPSID             string `json:"RTPS_ID,omitempty"`
	PrequalID          string `json:"PREQUAL_ID,omitempty"`
	Price              *int64 `json:"PRICE,omitempty"`
	DateTime           string `json:"DATETIME,omitempty"`
	SDKTID             string `json:"SDK_TID,omitempty"`
	BuyerID            string `json:"BUYER_ID,omitempty"`
	Channel            string `json:"channel,omitempty"`
	PrequalCreditLimit string `json:"PREQUAL_CREDIT_LIMIT,omitempty"`
	Env                string `json:"ENV,omitempty"`
	AllowCheckout      *bool  `json:"ALLOW_CHECKOUT,omitempty"`
	EmbeddedURL        string `json:"embeddedUrl,omitempty"`
}

// PlacementContent holds the raw HTML for a placement.
type PlacementContent struct {
	ID          string          `json:"id,omitempty"`
	ContentType string          `json:"contentType,omitempty"`
	ContentData ContentData     `json:"contentData"`
	Metadata    ContentMetadata `json:"metadata"`
}

// ContentData carries the placement HTML that htmlparse turns into a
// display model.
type ContentData struct {
	HTMLContent string `json:"htmlContent,omitempty"`
}

// ContentMetadata identifies the template and product behind a placement.
// TemplateID selects how the HTML is parsed.
type ContentMetadata struct {
	PlacementID string `json:"placementId,omitempty"`
	ProductType string `json:"productType,omitempty"`
	MessageID   string `json:"messageId,omitempty"`
	TemplateID  string `json:"templateId,omitempty"`
}

// FirstPlacement returns the first placement, if any.
func (r *PlacementsResponse) FirstPlacement() (Placement, bool) {
	if r == nil || len(r.Placements) == 0 {
		return Placement{}, false
	}
	return r.Placements[0], true
}

// FirstContent returns the first content entry, if any.
func (r *PlacementsResponse) FirstContent() (PlacementContent, bool) {
	if r == nil || len(r.PlacementContent) == 0 {
		return PlacementContent{}, false
	}
	return r.PlacementContent[0], true
}

// ContentByID resolves a content id to its entry. It reports false unless
// exactly one entry carries the id.
func (r *PlacementsResponse) ContentByID(id string) (PlacementContent, bool) {
	if r == nil || id == "" {
		return PlacementContent{}, false
	}
	var (
		found PlacementContent
		n     int
	)
	for _, c := range r.PlacementContent {
		if c.ID == id {
			found = c
			n++
		}
	}
	return found, n == 1
}
