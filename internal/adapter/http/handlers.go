package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/couchcryptid/fireops-dashboard-service/internal/dashboard"
	"github.com/couchcryptid/fireops-dashboard-service/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

const maxBodyBytes = 1 << 20

type predictRequest struct {
	Location     string `json:"location"`
	IncidentType string `json:"incident_type"`
}

type filtersResponse struct {
	Stages []domain.StageResult `json:"stages"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	view := s.svc.Dashboard(r.Context(), parseSelection(r.URL.Query()))
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	stages := s.svc.Filters(parseSelection(r.URL.Query()))
	writeJSON(w, http.StatusOK, filtersResponse{Stages: stages})
}

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Catalog())
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	event, err := s.svc.Predict(r.Context(), req.Location, req.IncidentType)
	if err != nil {
		if errors.Is(err, dashboard.ErrInvalidRequest) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("prediction failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// parseSelection maps query parameters onto filter stages. A parameter that
// is absent leaves the stage to its default; one that is present selects
// exactly the listed values, so "region=" selects nothing. Values may be
// repeated or comma-separated.
func parseSelection(q url.Values) domain.Selection {
	sel := make(domain.Selection)
	for _, stage := range domain.Stages() {
		raw, ok := q[string(stage)]
		if !ok {
			continue
		}
		values := make([]string, 0, len(raw))
		for _, v := range raw {
			for _, part := range strings.Split(v, ",") {
				if part = strings.TrimSpace(part); part != "" {
					values = append(values, part)
				}
			}
		}
		sel[stage] = values
	}
	return sel
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	sharedobs.WriteJSON(w, status, v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
