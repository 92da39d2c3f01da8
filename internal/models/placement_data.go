package models

// LocationType tells the remote service where in the host app a placement
// is shown.
type LocationType string

const (
	LocationBag       LocationType = "bag"
	LocationBanner    LocationType = "banner"
	LocationCart      LocationType = "cart"
	LocationCategory  LocationType = "category"
	LocationCheckout  LocationType = "checkout"
	LocationDashboard LocationType = "dashboard"
	LocationFooter    LocationType = "footer"
	LocationHomepage  LocationType = "homepage"
	LocationLanding   LocationType = "landing"
	LocationLoyalty   LocationType = "loyalty"
	LocationMobile    LocationType = "mobile"
	LocationProduct   LocationType = "product"
	LocationHeader    LocationType = "header"
	LocationSearch    LocationType = "search"
)

// FinancingType is the product family a placement promotes.
type FinancingType string

const (
	FinancingCard         FinancingType = "card"
	FinancingInstallments FinancingType = "installments"
	FinancingVersatile    FinancingType = "versatile"
)

// PlacementData describes a single placement slot requested by the host.
type PlacementData struct {
	FinancingType          FinancingType `json:"financingType,omitempty"`
	LocationType           LocationType  `json:"locationType,omitempty"`
	PlacementID            string        `json:"placementId,omitempty"`
	DomID                  string        `json:"domID,omitempty"`
	AllowCheckout          *bool         `json:"allowCheckout,omitempty"`
	Order                  *Order        `json:"order,omitempty"`
	DefaultSelectedCardKey string        `json:"defaultSelectedCardKey,omitempty"`
	SelectedCardKey        string        `json:"selectedCardKey,omitempty"`
}

// Order is the cart the placement is rendered against.
type Order struct {
	SubTotal          *CurrencyValue     `json:"subTotal,omitempty"`
	TotalDiscounts    *CurrencyValue     `json:"totalDiscounts,omitempty"`
	TotalPrice        *CurrencyValue     `json:"totalPrice,omitempty"`
	TotalShipping     *CurrencyValue     `json:"totalShipping,omitempty"`
	TotalTax          *CurrencyValue     `json:"totalTax,omitempty"`
	DiscountCode      string             `json:"discountCode,omitempty"`
	PickupInformation *PickupInformation `json:"pickupInformation,omitempty"`
	FulfillmentType   string             `json:"fulfillmentType,omitempty"`
	Items             []Item             `json:"items,omitempty"`
}

// CurrencyValue is an amount in a currency.
type CurrencyValue struct {
	Currency string   `json:"currency,omitempty"`
	Value    *float64 `json:"value,omitempty"`
}

// PickupInformation describes in-store pickup details.
type PickupInformation struct {
	Name    *Name    `json:"name,omitempty"`
	Phone   string   `json:"phone,omitempty"`
	Address *Address `json:"address,omitempty"`
	Email   string   `json:"email,omitempty"`
}

// Name is a person's name.
type Name struct {
	GivenName      string `json:"givenName,omitempty"`
	FamilyName     string `json:"familyName,omitempty"`
	AdditionalName string `json:"additionalName,omitempty"`
}

// Item is a single cart line.
type Item struct {
	Name                   string         `json:"name,omitempty"`
	Category               string         `json:"category,omitempty"`
	Quantity               int            `json:"quantity,omitempty"`
	UnitPrice              *CurrencyValue `json:"unitPrice,omitempty"`
	UnitTax                *CurrencyValue `json:"unitTax,omitempty"`
	SKU                    string         `json:"sku,omitempty"`
	ItemURL                string         `json:"itemUrl,omitempty"`
	ImageURL               string         `json:"imageUrl,omitempty"`
	Description            string         `json:"description,omitempty"`
	ShippingCost           *CurrencyValue `json:"shippingCost,omitempty"`
	ShippingProvider       string         `json:"shippingProvider,omitempty"`
	ShippingDescription    string         `json:"shippingDescription,omitempty"`
	ShippingTrackingNumber string         `json:"shippingTrackingNumber,omitempty"`
	ShippingTrackingURL    string         `json:"shippingTrackingUrl,omitempty"`
	FulfillmentType        string         `json:"fulfillmentType,omitempty"`
}

// TotalPriceValue returns the order total when one was supplied.
func (p *PlacementData) TotalPriceValue() (float64, bool) {
	if p == nil || p.Order == nil || p.Order.TotalPrice == nil || p.Order.TotalPrice.Value == nil {
		return 0, false
	}
	return *p.Order.TotalPrice.Value, true
}

// PlacementsConfiguration bundles the per-call placement and RTPS inputs.
type PlacementsConfiguration struct {
	PlacementData *PlacementData `json:"placementData,omitempty"`
	RTPSData      *RTPSData      `json:"rtpsData,omitempty"`
}
