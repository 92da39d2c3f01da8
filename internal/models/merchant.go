package models

// Environment selects which set of remote hosts the SDK talks to.
type Environment string

const (
	EnvironmentStage Environment = "STAGE"
	EnvironmentProd  Environment = "PROD"
	EnvironmentUAT   Environment = "UAT"
)

// ParseEnvironment maps a config value onto an Environment. Unknown or empty
// values fall back to production.
func ParseEnvironment(v string) Environment {
	switch Environment(v) {
	case EnvironmentStage, EnvironmentUAT:
		return Environment(v)
	default:
		return EnvironmentProd
	}
}

// PaymentMode describes how an order is being paid for.
type PaymentMode string

const (
	PaymentModeFull  PaymentMode = "FULL"
	PaymentModeSplit PaymentMode = "SPLIT"
)

// MerchantConfiguration carries the merchant and buyer context supplied by the
// host application for every placement or RTPS request. Empty strings mean
// "not provided" and are never sent on the wire.
type MerchantConfiguration struct {
	Buyer              *Buyer         `json:"buyer,omitempty"`
	LoyaltyID          string         `json:"loyaltyID,omitempty"`
	CampaignID         string         `json:"campaignID,omitempty"`
	StoreNumber        string         `json:"storeNumber,omitempty"`
	DepartmentID       string         `json:"departmentId,omitempty"`
	ExistingCardHolder *bool          `json:"existingCardHolder,omitempty"`
	CardholderTier     string         `json:"cardholderTier,omitempty"`
	Env                Environment    `json:"env,omitempty"`
	CardEnv            string         `json:"cardEnv,omitempty"`
	Channel            string         `json:"channel,omitempty"`
	Subchannel         string         `json:"subchannel,omitempty"`
	ClerkID            string         `json:"clerkId,omitempty"`
	OverrideKey        string         `json:"overrideKey,omitempty"`
	ClientVariable1    string         `json:"clientVariable1,omitempty"`
	ClientVariable2    string         `json:"clientVariable2,omitempty"`
	ClientVariable3    string         `json:"clientVariable3,omitempty"`
	ClientVariable4    string         `json:"clientVariable4,omitempty"`
	AccountID          string         `json:"accountId,omitempty"`
	ApplicationID      string         `json:"applicationId,omitempty"`
	InvoiceNumber      string         `json:"invoiceNumber,omitempty"`
	PaymentMode        PaymentMode    `json:"paymentMode,omitempty"`
	ProviderConfig     map[string]any `json:"providerConfig,omitempty"`
	SkipVerification   *bool          `json:"skipVerification,omitempty"`
	Custom             map[string]any `json:"custom,omitempty"`
}

// Buyer identifies the end user for pre-screen lookups.
type Buyer struct {
	GivenName        string   `json:"givenName,omitempty"`
	FamilyName       string   `json:"familyName,omitempty"`
	AdditionalName   string   `json:"additionalName,omitempty"`
	BirthDate        string   `json:"birthDate,omitempty"`
	Email            string   `json:"email,omitempty"`
	Phone            string   `json:"phone,omitempty"`
	AlternativePhone string   `json:"alternativePhone,omitempty"`
	BillingAddress   *Address `json:"billingAddress,omitempty"`
	ShippingAddress  *Address `json:"shippingAddress,omitempty"`
}

// Address is a postal address. Locality is the city, Region the state.
type Address struct {
	Address1   string `json:"address1"`
	Address2   string `json:"address2,omitempty"`
	Country    string `json:"country,omitempty"`
	Locality   string `json:"locality,omitempty"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
}

// BillingAddress returns the buyer's billing address or an empty one, so
// builders can read fields without nil checks.
func (m *MerchantConfiguration) BillingAddress() Address {
	if m == nil || m.Buyer == nil || m.Buyer.BillingAddress == nil {
		return Address{}
	}
	return *m.Buyer.BillingAddress
}

// BuyerOrEmpty returns the configured buyer or a zero value.
func (m *MerchantConfiguration) BuyerOrEmpty() Buyer {
	if m == nil || m.Buyer == nil {
		return Buyer{}
	}
	return *m.Buyer
}
