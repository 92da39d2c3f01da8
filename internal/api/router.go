package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/patrickwarner/partnersdk/internal/middleware"
)

// Routes registers the mock partner endpoints on r.
func (s *Server) Routes(r *mux.Router) {
	r.HandleFunc("/brands/{brandId}/config", s.BrandConfigHandler).Methods("GET")
	r.HandleFunc("/generatePlacements", s.GeneratePlacementsHandler).Methods("POST")
	r.HandleFunc("/ep/v1/view-placement", s.BeaconHandler("/ep/v1/view-placement")).Methods("POST")
	r.HandleFunc("/ep/v1/click-placement", s.BeaconHandler("/ep/v1/click-placement")).Methods("POST")
	r.HandleFunc("/botcheck/token", s.TokenHandler).Methods("POST")
	r.HandleFunc("/health", s.HealthHandler).Methods("GET")

	rtps := r.PathPrefix("/api").Subrouter()
	rtps.HandleFunc("/prescreen", s.PrescreenHandler).Methods("POST")
	rtps.HandleFunc("/virtual_lookup", s.VirtualLookupHandler).Methods("POST")
}

// Handler returns the full mock service: routes wrapped with the trace
// aware logger and otelhttp server spans.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	s.Routes(r)
	r.Use(middleware.WithTraceLogger(s.Logger))
	return otelhttp.NewHandler(r, "partner-mock")
}
