package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/patrickwarner/partnersdk/internal/analytics"
	"github.com/patrickwarner/partnersdk/internal/botcheck"
	"github.com/patrickwarner/partnersdk/internal/config"
	"github.com/patrickwarner/partnersdk/internal/models"
	"github.com/patrickwarner/partnersdk/internal/observability"
	"github.com/patrickwarner/partnersdk/internal/token"
	"github.com/patrickwarner/partnersdk/internal/transport"
)

const googlebotUA = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"

func newTestServer(mutate ...func(*config.Config)) *Server {
	cfg := config.Config{
		TokenSecret:    "secret",
		TokenTTL:       time.Minute,
		BotCheckAction: "checkout",
	}
	for _, m := range mutate {
		m(&cfg)
	}
	return NewServer(zap.NewNop(), observability.NewNoOpRegistry(), cfg)
}

func do(t *testing.T, h http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func rtpsHeaders() map[string]string {
	return transport.RTPSHeaders(DemoBrandID)
}

func validToken(t *testing.T, s *Server) string {
	t.Helper()
	tok, err := token.Generate(DemoBrandConfig().RecaptchaSiteKeyQA, "checkout", s.TokenSecret)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return tok
}

func TestHealthHandler(t *testing.T) {
	rec := do(t, newTestServer().Handler(), http.MethodGet, "/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestBrandConfigHandler(t *testing.T) {
	h := newTestServer().Handler()

	rec := do(t, h, http.MethodGet, "/brands/"+DemoBrandID+"/config", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp models.BrandConfigResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Config.RecaptchaSiteKeyQA != "demo-site-key-qa" {
		t.Fatalf("unexpected config: %+v", resp.Config)
	}

	rec = do(t, h, http.MethodGet, "/brands/nope/config", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGeneratePlacementsHandler(t *testing.T) {
	h := newTestServer().Handler()

	decode := func(rec *httptest.ResponseRecorder) models.PlacementsResponse {
		t.Helper()
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp models.PlacementsResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return resp
	}

	resp := decode(do(t, h, http.MethodPost, "/generatePlacements", models.PlacementRequest{
		BrandID:    DemoBrandID,
		Placements: []models.PlacementRequestBody{{ID: "p1", Context: models.RequestContext{SDKTID: "tid"}}},
	}, nil))
	if len(resp.Placements) != 1 || resp.Placements[0].ID != "p1" || resp.Placements[0].RenderContext.SDKTID != "tid" {
		t.Fatalf("unexpected placements: %+v", resp.Placements)
	}
	if len(resp.PlacementContent) != 2 || resp.PlacementContent[0].ID != ContentTextID || resp.PlacementContent[1].ID != ContentOverlayID {
		t.Fatalf("unexpected content: %+v", resp.PlacementContent)
	}

	resp = decode(do(t, h, http.MethodPost, "/generatePlacements", models.PlacementRequest{
		BrandID:    DemoBrandID,
		Placements: []models.PlacementRequestBody{{ID: ContentProductID}},
	}, nil))
	if len(resp.PlacementContent) != 1 || resp.PlacementContent[0].ID != ContentProductID {
		t.Fatalf("unexpected content fetch: %+v", resp.PlacementContent)
	}

	resp = decode(do(t, h, http.MethodPost, "/generatePlacements", models.PlacementRequest{
		BrandID: DemoBrandID,
		Placements: []models.PlacementRequestBody{{Context: models.RequestContext{
			Location:    "RTPS-Approval",
			EmbeddedURL: "https://rtps.example.com/prescreen/offer?embedded=true",
		}}},
	}, nil))
	if len(resp.PlacementContent) != 0 || resp.Placements[0].RenderContext.EmbeddedURL != "https://rtps.example.com/prescreen/offer?embedded=true" {
		t.Fatalf("unexpected approval placement: %+v", resp)
	}

	rec := do(t, h, http.MethodPost, "/generatePlacements", models.PlacementRequest{BrandID: "other"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown brand, got %d", rec.Code)
	}
}

func TestPrescreenHandler(t *testing.T) {
	s := newTestServer()
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/api/prescreen", models.RTPSRequest{
		FirstName:      "Carol",
		ReCaptchaToken: validToken(t, s),
	}, rtpsHeaders())
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp models.RTPSResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ReturnCode != "01" || resp.PrescreenID == nil || *resp.PrescreenID != DemoPrescreenID {
		t.Fatalf("unexpected response: %+v", resp)
	}

	rec = do(t, h, http.MethodPost, "/api/prescreen", models.RTPSRequest{
		ReCaptchaToken: validToken(t, s),
		MockResponse:   string(models.MockNoHit),
	}, rtpsHeaders())
	resp = models.RTPSResponse{}
	_ = json.NewDecoder(rec.Body).Decode(&resp)
	if resp.ReturnCode != "10" || resp.PrescreenID != nil {
		t.Fatalf("expected no hit, got %+v", resp)
	}
}

func TestPrescreenHandlerRejects(t *testing.T) {
	s := newTestServer()
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/api/prescreen", models.RTPSRequest{ReCaptchaToken: validToken(t, s)}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing client key: expected 401, got %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/api/prescreen", models.RTPSRequest{ReCaptchaToken: "bogus"}, rtpsHeaders())
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: expected 401, got %d", rec.Code)
	}

	wrongAction, _ := token.Generate(DemoBrandConfig().RecaptchaSiteKeyQA, "login", s.TokenSecret)
	rec = do(t, h, http.MethodPost, "/api/prescreen", models.RTPSRequest{ReCaptchaToken: wrongAction}, rtpsHeaders())
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong action: expected 401, got %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/api/prescreen", models.RTPSRequest{
		ReCaptchaToken: validToken(t, s),
		MockResponse:   string(models.MockError),
	}, rtpsHeaders())
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("mock error: expected 500, got %d", rec.Code)
	}
}

func TestVirtualLookupHandler(t *testing.T) {
	h := newTestServer().Handler()

	rec := do(t, h, http.MethodPost, "/api/virtual_lookup", models.RTPSRequest{PrescreenID: "42"}, rtpsHeaders())
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp models.RTPSResponse
	_ = json.NewDecoder(rec.Body).Decode(&resp)
	if resp.PrescreenID == nil || *resp.PrescreenID != 42 {
		t.Fatalf("expected prescreen id echoed, got %+v", resp)
	}

	rec = do(t, h, http.MethodPost, "/api/virtual_lookup", models.RTPSRequest{}, rtpsHeaders())
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without prescreen id, got %d", rec.Code)
	}
}

func TestChallenges(t *testing.T) {
	t.Run("bot user agent", func(t *testing.T) {
		headers := rtpsHeaders()
		headers["User-Agent"] = googlebotUA
		rec := do(t, newTestServer().Handler(), http.MethodPost, "/api/prescreen", models.RTPSRequest{}, headers)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html") {
			t.Fatalf("expected html challenge, got %q", rec.Header().Get("Content-Type"))
		}
	})

	t.Run("first request", func(t *testing.T) {
		s := newTestServer(func(c *config.Config) { c.ChallengeFirstRequest = true })
		h := s.Handler()
		body := models.RTPSRequest{ReCaptchaToken: validToken(t, s)}
		if rec := do(t, h, http.MethodPost, "/api/prescreen", body, rtpsHeaders()); rec.Code != http.StatusForbidden {
			t.Fatalf("expected first request challenged, got %d", rec.Code)
		}
		if rec := do(t, h, http.MethodPost, "/api/prescreen", body, rtpsHeaders()); rec.Code != http.StatusOK {
			t.Fatalf("expected replay to pass, got %d", rec.Code)
		}
	})

	t.Run("rate limited", func(t *testing.T) {
		s := newTestServer(func(c *config.Config) {
			c.RateLimitEnabled = true
			c.RateLimitCapacity = 1
			c.RateLimitRefillRate = 0
		})
		h := s.Handler()
		body := models.RTPSRequest{PrescreenID: "1"}
		if rec := do(t, h, http.MethodPost, "/api/virtual_lookup", body, rtpsHeaders()); rec.Code != http.StatusOK {
			t.Fatalf("expected first call allowed, got %d", rec.Code)
		}
		if rec := do(t, h, http.MethodPost, "/api/virtual_lookup", body, rtpsHeaders()); rec.Code != http.StatusTooManyRequests {
			t.Fatalf("expected 429, got %d", rec.Code)
		}
	})
}

func TestTokenHandler(t *testing.T) {
	s := newTestServer()
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/botcheck/token", botcheck.TokenRequest{SiteKey: "demo-site-key-qa", Action: "checkout"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp botcheck.TokenResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, err := token.VerifyFor(resp.Token, "demo-site-key-qa", "checkout", s.TokenSecret, time.Minute); err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}

	rec = do(t, h, http.MethodPost, "/botcheck/token", botcheck.TokenRequest{Action: "checkout"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without site key, got %d", rec.Code)
	}
}

func TestBeaconHandler(t *testing.T) {
	s := newTestServer()
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/ep/v1/view-placement", analytics.Payload{Name: analytics.EventViewPlacement}, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got := s.BeaconCount(analytics.EventViewPlacement); got != 1 {
		t.Fatalf("expected 1 view beacon, got %d", got)
	}

	rec = do(t, h, http.MethodPost, "/ep/v1/click-placement", map[string]string{}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for nameless beacon, got %d", rec.Code)
	}
}
