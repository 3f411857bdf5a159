package http

import (
	"errors"
	"net/http"

	"teachjournal/internal/core"
	applog "teachjournal/internal/log"
	"teachjournal/internal/services"
)

type dashboardResponse struct {
	services.Dashboard
	ShowCreateForm bool `json:"show_create_form"`
}

// handleDashboard renders the overview: recent entries plus today, this week
// and all-time totals.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.stats.Dashboard(r.Context(), identity(r))
	if errors.Is(err, core.ErrProfileNotFound) {
		writeJSON(w, profileMissingResponse{Error: msgProfileSetup})
		return
	}
	if err != nil {
		s.writeServiceError(w, r, applog.OpRead, err)
		return
	}
	writeJSON(w, dashboardResponse{Dashboard: d, ShowCreateForm: true})
}
