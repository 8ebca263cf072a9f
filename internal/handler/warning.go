package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/travelsaas/travel-warnings/internal/domain"
)

// ListWarnings handles GET /api/v1/warnings. With ?activeOnly=true only
// warnings with at least one active flag are returned.
func (s *Server) ListWarnings(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("activeOnly") == "true"

	warnings, err := s.warnings.List(r.Context(), activeOnly)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, warnings)
}

// GetWarning handles GET /api/v1/warnings/{contentID}.
func (s *Server) GetWarning(w http.ResponseWriter, r *http.Request) {
	warning, err := s.warnings.GetByContentID(r.Context(), chi.URLParam(r, "contentID"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeNotFound(w, "warning not found")
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, warning)
}

// GetWarningByCountry handles GET /api/v1/warnings/country/{code}.
func (s *Server) GetWarningByCountry(w http.ResponseWriter, r *http.Request) {
	warning, err := s.warnings.GetByCountryCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeNotFound(w, "no warning for this country")
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, warning)
}

// GetWarningDetail handles GET /api/v1/warnings/country/{code}/detail,
// returning the warning with its advisory content split into sections.
func (s *Server) GetWarningDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := s.warnings.GetCategorizedByCountryCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeNotFound(w, "no warning for this country")
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// SaveWarningBatch handles POST /api/v1/warnings/batch: a bulk upsert used
// for backfills and testing. Stale versions in the batch are ignored.
func (s *Server) SaveWarningBatch(w http.ResponseWriter, r *http.Request) {
	var warnings []domain.Warning
	if err := json.NewDecoder(r.Body).Decode(&warnings); err != nil {
		writeBadRequest(w, "request body must be a JSON array of warnings")
		return
	}

	stored, err := s.warnings.SaveBatch(r.Context(), warnings)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"stored": stored})
}

// TriggerRefresh handles POST /api/v1/warnings/refresh. The sync runs in the
// background; the request is acknowledged immediately.
func (s *Server) TriggerRefresh(w http.ResponseWriter, _ *http.Request) {
	s.sync.TriggerManual()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "refresh started"})
}
