package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/patrickwarner/partnersdk/internal/analytics"
)

// BeaconHandler returns the handler for one analytics endpoint. Beacons
// are counted by payload name and otherwise discarded.
func (s *Server) BeaconHandler(endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		method := r.Method

		var p analytics.Payload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.Name == "" {
			s.record(endpoint, method, http.StatusBadRequest, start)
			http.Error(w, "invalid beacon", http.StatusBadRequest)
			return
		}

		s.mu.Lock()
		s.beacons[p.Name]++
		s.mu.Unlock()

		w.WriteHeader(http.StatusNoContent)
		s.record(endpoint, method, http.StatusNoContent, start)
	}
}
