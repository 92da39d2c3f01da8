package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/avct/uasurfer"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/patrickwarner/partnersdk/internal/middleware"
	"github.com/patrickwarner/partnersdk/internal/models"
	"github.com/patrickwarner/partnersdk/internal/token"
	"github.com/patrickwarner/partnersdk/internal/transport"
)

// mockReturnCodes maps the mockResponse selector onto a return code.
var mockReturnCodes = map[models.MockOption]string{
	models.MockSuccess:         "01",
	models.MockNoHit:           "10",
	models.MockMakeOffer:       "11",
	models.MockAcknowledge:     "12",
	models.MockExistingAccount: "0",
	models.MockExistingOffer:   "01",
	models.MockNewOffer:        "01",
}

// PrescreenHandler handles POST /api/prescreen.
func (s *Server) PrescreenHandler(w http.ResponseWriter, r *http.Request) {
	s.handleRTPS(w, r, "/api/prescreen", true)
}

// VirtualLookupHandler handles POST /api/virtual_lookup.
func (s *Server) VirtualLookupHandler(w http.ResponseWriter, r *http.Request) {
	s.handleRTPS(w, r, "/api/virtual_lookup", false)
}

func (s *Server) handleRTPS(w http.ResponseWriter, r *http.Request, endpoint string, prescreen bool) {
	ctx, span := tracer.Start(r.Context(), "RTPSHandler", trace.WithAttributes(
		attribute.String("http.route", endpoint),
	))
	defer span.End()
	start := time.Now()
	const method = "POST"
	logger := middleware.LoggerFromContext(ctx, s.Logger).With(zap.String("endpoint", endpoint))

	clientKey := r.Header.Get(transport.HeaderClientKey)
	brand, ok := s.Brands[clientKey]
	if !ok {
		logger.Warn("unknown client key", zap.String("client_key", clientKey))
		s.record(endpoint, method, http.StatusUnauthorized, start)
		http.Error(w, "unknown client key", http.StatusUnauthorized)
		return
	}

	if status, reason := s.challengeFor(r, clientKey); status != 0 {
		span.SetAttributes(attribute.String("challenge.reason", reason))
		logger.Info("serving security challenge", zap.String("reason", reason))
		s.Metrics.IncrementChallenge("issued_" + reason)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(ChallengeHTML))
		s.record(endpoint, method, status, start)
		return
	}

	var req models.RTPSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid body")
		s.record(endpoint, method, http.StatusBadRequest, start)
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if prescreen {
		if err := s.verifyBotCheck(req.ReCaptchaToken, brand); err != nil {
			logger.Warn("bot check token rejected", zap.Error(err))
			s.record(endpoint, method, http.StatusUnauthorized, start)
			http.Error(w, "invalid bot check token", http.StatusUnauthorized)
			return
		}
	} else if _, err := strconv.ParseInt(req.PrescreenID, 10, 64); err != nil {
		s.record(endpoint, method, http.StatusBadRequest, start)
		http.Error(w, "prescreenId required", http.StatusBadRequest)
		return
	}

	if models.MockOption(req.MockResponse) == models.MockError {
		s.record(endpoint, method, http.StatusInternalServerError, start)
		http.Error(w, "mock error", http.StatusInternalServerError)
		return
	}

	resp := rtpsResponse(req)
	span.SetAttributes(attribute.String("rtps.return_code", string(resp.ReturnCode)))
	writeJSON(w, http.StatusOK, resp)
	s.record(endpoint, method, http.StatusOK, start)
}

// challengeFor decides whether the request must pass a challenge first and
// returns the status to answer with, or zero.
func (s *Server) challengeFor(r *http.Request, clientKey string) (int, string) {
	if uasurfer.Parse(r.UserAgent()).IsBot() {
		return http.StatusForbidden, "bot"
	}
	if !s.Limiter.Allow(clientKey) {
		return http.StatusTooManyRequests, "rate_limited"
	}
	if s.Config.ChallengeFirstRequest {
		s.mu.Lock()
		first := !s.challenged[clientKey]
		s.challenged[clientKey] = true
		s.mu.Unlock()
		if first {
			return http.StatusForbidden, "first_request"
		}
	}
	return 0, ""
}

func (s *Server) verifyBotCheck(tok string, brand models.BrandConfig) error {
	claims, err := token.Verify(tok, s.TokenSecret, s.TokenTTL)
	if err == nil && claims.Action != s.Config.BotCheckAction {
		err = token.ErrMismatch
	}
	if err == nil && claims.SiteKey != brand.RecaptchaSiteKeyQA && claims.SiteKey != brand.RecaptchaSiteKeyProd {
		err = token.ErrMismatch
	}
	outcome := "valid"
	if err != nil {
		outcome = "invalid"
	}
	s.Metrics.IncrementToken("verify", outcome)
	return err
}

func rtpsResponse(req models.RTPSRequest) models.RTPSResponse {
	code, ok := mockReturnCodes[models.MockOption(req.MockResponse)]
	if !ok {
		code = "01"
	}
	resp := models.RTPSResponse{
		ReturnCode: models.ReturnCode(code),
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Address1:   req.Address1,
		City:       req.City,
		State:      req.State,
		Zip:        req.Zip,
		CardType:   "store-card",
	}
	if code != "01" {
		return resp
	}
	id := DemoPrescreenID
	if req.PrescreenID != "" {
		if parsed, err := strconv.ParseInt(strings.TrimSpace(req.PrescreenID), 10, 64); err == nil {
			id = parsed
		}
	}
	resp.PrescreenID = &id
	return resp
}
