package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/travelsaas/travel-warnings/internal/domain"
)

// TripRequest is the JSON body for creating or updating a trip.
// Dates use the YYYY-MM-DD wire format.
type TripRequest struct {
	Email                string `json:"email"`
	CountryCode          string `json:"country_code"`
	CountryName          string `json:"country_name"`
	StartDate            string `json:"start_date"`
	EndDate              string `json:"end_date"`
	Name                 string `json:"name"`
	NotificationsEnabled *bool  `json:"notifications_enabled,omitempty"`
}

// CreateTrip handles POST /api/v1/trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := decodeTrip(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	created, err := s.trips.Create(r.Context(), trip)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListTrips handles GET /api/v1/trips. With ?email= only that user's trips
// are returned.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	var (
		trips []domain.Trip
		err   error
	)
	if email := r.URL.Query().Get("email"); email != "" {
		trips, err = s.trips.ListByEmail(r.Context(), email)
	} else {
		trips, err = s.trips.List(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trips)
}

// ListWarningsAffecting handles GET /api/v1/trips/affecting?email=.
// It returns the active warnings for countries the user has relevant trips to.
func (s *Server) ListWarningsAffecting(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeBadRequest(w, "email query parameter is required")
		return
	}

	warnings, err := s.matcher.FindWarningsAffecting(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}
	if warnings == nil {
		warnings = []domain.Warning{}
	}
	writeJSON(w, http.StatusOK, warnings)
}

// GetTrip handles GET /api/v1/trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid trip id")
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeNotFound(w, "trip not found")
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// UpdateTrip handles PUT /api/v1/trips/{id}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid trip id")
		return
	}

	trip, err := decodeTrip(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	trip.ID = id

	updated, err := s.trips.Update(r.Context(), trip)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeNotFound(w, "trip not found")
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteTrip handles DELETE /api/v1/trips/{id}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "invalid trip id")
		return
	}

	if err := s.trips.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeNotFound(w, "trip not found")
			return
		}
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeTrip parses and shallow-validates a trip request body. Business rules
// live in the service; this only rejects bodies the service cannot interpret.
func decodeTrip(r *http.Request) (domain.Trip, error) {
	var body TripRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return domain.Trip{}, errors.New("request body is required")
	}

	start, err := time.Parse("2006-01-02", body.StartDate)
	if err != nil {
		return domain.Trip{}, errors.New("start_date must be formatted YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", body.EndDate)
	if err != nil {
		return domain.Trip{}, errors.New("end_date must be formatted YYYY-MM-DD")
	}

	trip := domain.Trip{
		Email:                body.Email,
		CountryCode:          body.CountryCode,
		CountryName:          body.CountryName,
		StartDate:            start,
		EndDate:              end,
		Name:                 body.Name,
		NotificationsEnabled: true,
	}
	if body.NotificationsEnabled != nil {
		trip.NotificationsEnabled = *body.NotificationsEnabled
	}
	return trip, nil
}
