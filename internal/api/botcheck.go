package api

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/patrickwarner/partnersdk/internal/botcheck"
	"github.com/patrickwarner/partnersdk/internal/middleware"
	"github.com/patrickwarner/partnersdk/internal/token"
)

// TokenHandler handles POST /botcheck/token, issuing a signed token that
// the pre-screen endpoint accepts.
func (s *Server) TokenHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "/botcheck/token"
	const method = "POST"
	logger := middleware.LoggerFromRequest(r, s.Logger)

	var req botcheck.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.Metrics.IncrementToken("issue", "invalid")
		s.record(endpoint, method, http.StatusBadRequest, start)
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	tok, err := token.Generate(req.SiteKey, req.Action, s.TokenSecret)
	if err != nil {
		logger.Warn("token generation failed", zap.Error(err))
		s.Metrics.IncrementToken("issue", "invalid")
		s.record(endpoint, method, http.StatusBadRequest, start)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.Metrics.IncrementToken("issue", "ok")
	writeJSON(w, http.StatusOK, botcheck.TokenResponse{Token: tok})
	s.record(endpoint, method, http.StatusOK, start)
}
