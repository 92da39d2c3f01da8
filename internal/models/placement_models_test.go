package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderedKeysFollowsNumericSuffix(t *testing.T) {
	m := DynamicBodyModel{BodyDiv: map[string]DynamicBodyContent{
		"footer11": {},
		"div2":     {},
		"div0":     {},
		"div10":    {},
		"div1":     {},
	}}

	assert.Equal(t, []string{"div0", "div1", "div2", "div10", "footer11"}, m.OrderedKeys())
}

func TestOrderedKeysEmpty(t *testing.T) {
	assert.Empty(t, DynamicBodyModel{}.OrderedKeys())
}

func TestContentByIDRequiresUniqueMatch(t *testing.T) {
	resp := &PlacementsResponse{PlacementContent: []PlacementContent{
		{ID: "a"}, {ID: "b"}, {ID: "b"},
	}}

	c, ok := resp.ContentByID("a")
	assert.True(t, ok)
	assert.Equal(t, "a", c.ID)

	_, ok = resp.ContentByID("b")
	assert.False(t, ok, "duplicate ids do not resolve")

	_, ok = resp.ContentByID("missing")
	assert.False(t, ok)

	_, ok = resp.ContentByID("")
	assert.False(t, ok)
}

func TestBrandConfigSiteKey(t *testing.T) {
	cfg := BrandConfig{RecaptchaSiteKeyQA: "qa", RecaptchaSiteKeyProd: "prod"}
	assert.Equal(t, "prod", cfg.SiteKey(EnvironmentProd))
	assert.Equal(t, "qa", cfg.SiteKey(EnvironmentStage))
	assert.Equal(t, "qa", cfg.SiteKey(EnvironmentUAT))

	cfg.RecaptchaSiteKeyProd = ""
	assert.Equal(t, "qa", cfg.SiteKey(EnvironmentProd))
}

func TestParseEnvironment(t *testing.T) {
	assert.Equal(t, EnvironmentStage, ParseEnvironment("STAGE"))
	assert.Equal(t, EnvironmentUAT, ParseEnvironment("UAT"))
	assert.Equal(t, EnvironmentProd, ParseEnvironment(""))
	assert.Equal(t, EnvironmentProd, ParseEnvironment("bogus"))
}
