package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/patrickwarner/partnersdk/internal/middleware"
	"github.com/patrickwarner/partnersdk/internal/models"
	"github.com/patrickwarner/partnersdk/internal/requests"
)

// BrandConfigHandler handles GET /brands/{brandId}/config.
func (s *Server) BrandConfigHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "/brands/config"
	const method = "GET"
	logger := middleware.LoggerFromRequest(r, s.Logger)

	brandID := mux.Vars(r)["brandId"]
	cfg, ok := s.Brands[brandID]
	if !ok {
		logger.Warn("unknown brand", zap.String("brand_id", brandID))
		s.record(endpoint, method, http.StatusNotFound, start)
		http.Error(w, "unknown brand", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, models.BrandConfigResponse{Config: cfg})
	s.record(endpoint, method, http.StatusOK, start)
}

// GeneratePlacementsHandler handles POST /generatePlacements. Each request
// body is answered by id: a catalog content id returns that content alone,
// the RTPS approval location echoes the hosted URL back, and anything else
// gets the demo text placement with its overlay.
func (s *Server) GeneratePlacementsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "GeneratePlacementsHandler")
	defer span.End()
	start := time.Now()
	const endpoint = "/generatePlacements"
	const method = "POST"
	logger := middleware.LoggerFromContext(ctx, s.Logger)

	var req models.PlacementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid body")
		s.record(endpoint, method, http.StatusBadRequest, start)
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if _, ok := s.Brands[req.BrandID]; !ok {
		logger.Warn("unknown brand", zap.String("brand_id", req.BrandID))
		s.record(endpoint, method, http.StatusBadRequest, start)
		http.Error(w, "unknown brand", http.StatusBadRequest)
		return
	}

	var resp models.PlacementsResponse
	seen := make(map[string]bool)
	addContent := func(id string) {
		if c, ok := s.Content[id]; ok && !seen[id] {
			seen[id] = true
			resp.PlacementContent = append(resp.PlacementContent, c)
		}
	}

	for _, body := range req.Placements {
		rc := renderContext(body.Context)
		switch {
		case body.Context.Location == requests.RTPSApprovalLocation:
			resp.Placements = append(resp.Placements, models.Placement{ID: "rtps-approval", RenderContext: rc})
		case s.Content[body.ID].ID != "":
			resp.Placements = append(resp.Placements, models.Placement{
				ID:            body.ID,
				Content:       models.ContentReference{ContentID: body.ID},
				RenderContext: rc,
			})
			addContent(body.ID)
		default:
			id := body.ID
			if id == "" {
				id = "demo-placement"
			}
			resp.Placements = append(resp.Placements, models.Placement{
				ID:            id,
				Content:       models.ContentReference{ContentID: ContentTextID},
				RenderContext: rc,
			})
			addContent(ContentTextID)
			addContent(ContentOverlayID)
		}
	}

	span.SetAttributes(
		attribute.Int("placements.count", len(resp.Placements)),
		attribute.Int("placements.content", len(resp.PlacementContent)),
	)
	writeJSON(w, http.StatusOK, resp)
	s.record(endpoint, method, http.StatusOK, start)
}

func renderContext(c models.RequestContext) models.RenderContext {
	return models.RenderContext{
		Location:           c.Location,
		Subchannel:         c.Subchannel,
		RTPSID:             c.RTPSID,
		PrequalID:          c.PrequalID,
		Price:              c.Price,
		DateTime:           time.Now().UTC().Format(time.RFC3339),
		SDKTID:             c.SDKTID,
		BuyerID:            c.BuyerID,
		Channel:            c.Channel,
		PrequalCreditLimit: c.PrequalCreditLimit,
		Env:                c.Env,
		AllowCheckout:      c.AllowCheckout,
		EmbeddedURL:        c.EmbeddedURL,
	}
}
