package api

import (
	"net/http"
)

// handleHealth responds with 200 OK to indicate the service is running
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	services := map[string]string{
		"coingecko": "unknown",
	}
	if s.provider != nil && s.provider.Healthy() {
		services["coingecko"] = "up"
	}

	status := map[string]interface{}{
		"status":        "ok",
		"services":      services,
		"query_entries": s.dashboard.Queries().Len(),
	}

	s.sendJSONResponse(w, status)
}
