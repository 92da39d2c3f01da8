package models

// BrandConfigResponse is returned by GET /brands/{brandId}/config.
type BrandConfigResponse struct {
	Config BrandConfig `json:"config"`
}

// BrandConfig holds per-brand settings, most importantly the bot-check site
// keys for each environment.
type BrandConfig struct {
	AEMContent           string `json:"AEMContent"`
	OverrideKey          string `json:"OVERRIDE_KEY"`
	ClientName           string `json:"clientName"`
	ProdAdServerURL      string `json:"prodAdServerUrl"`
	QAAdServerURL        string `json:"qaAdServerUrl"`
	RecaptchaEnabledQA   string `json:"recaptchaEnabledQA"`
	RecaptchaSiteKeyQA   string `json:"recaptchaSiteKeyQA"`
	RecaptchaSiteKeyProd string `json:"recaptchaSiteKeyProd,omitempty"`
	Test                 string `json:"test"`
}

// SiteKey returns the bot-check site key for env. Production prefers the
// production key and falls back to the QA key when the brand has none.
func (c BrandConfig) SiteKey(env Environment) string {
	if env == EnvironmentProd && c.RecaptchaSiteKeyProd != "" {
		return c.RecaptchaSiteKeyProd
	}
	return c.RecaptchaSiteKeyQA
}
