package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/travelsaas/travel-warnings/internal/domain"
	"github.com/travelsaas/travel-warnings/internal/repo"
)

// alertSender sends one alert for a (warning, trip) pair. Satisfied by
// DispatcherService; narrowed here so tests can stub the welcome alert.
type alertSender interface {
	SendAlert(ctx context.Context, w domain.Warning, t domain.Trip) (bool, error)
}

// TripService implements business logic for trip registration and management.
type TripService struct {
	trips      repo.TripRepo
	warnings   repo.WarningRepo
	dispatcher alertSender
	log        *slog.Logger
}

// NewTripService constructs a TripService. dispatcher may be nil, in which
// case newly registered trips skip the immediate warning check.
func NewTripService(trips repo.TripRepo, warnings repo.WarningRepo, dispatcher alertSender, log *slog.Logger) *TripService {
	return &TripService{trips: trips, warnings: warnings, dispatcher: dispatcher, log: log}
}

// Create validates and persists a new trip. If the destination already has an
// active warning, an alert is sent immediately; a failure there is logged but
// never fails the registration.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if err := validateTrip(&trip); err != nil {
		return domain.Trip{}, err
	}

	created, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	s.alertIfWarned(ctx, created)
	return created, nil
}

// GetByID returns a single trip by ID.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// List returns all trips.
func (s *TripService) List(ctx context.Context) ([]domain.Trip, error) {
	trips, err := s.trips.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, nil
}

// ListByEmail returns all trips registered under the given email.
func (s *TripService) ListByEmail(ctx context.Context, email string) ([]domain.Trip, error) {
	trips, err := s.trips.ListByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListByEmail: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, nil
}

// Update validates and updates an existing trip. The destination country is
// fixed at registration; changing it would invalidate the trip's alert
// history, so a move is a delete plus a new registration.
func (s *TripService) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if err := validateTrip(&trip); err != nil {
		return domain.Trip{}, err
	}

	existing, err := s.trips.GetByID(ctx, trip.ID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	if existing.CountryCode != trip.CountryCode {
		return domain.Trip{}, fmt.Errorf("%w: destination country cannot be changed", domain.ErrValidation)
	}

	updated, err := s.trips.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a trip by ID. Its notification history is removed with it.
func (s *TripService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.trips.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// alertIfWarned sends an immediate alert when the new trip's destination
// already carries an active warning.
func (s *TripService) alertIfWarned(ctx context.Context, trip domain.Trip) {
	if s.dispatcher == nil || !trip.NotificationsEnabled {
		return
	}

	warning, err := s.warnings.GetByCountryCode(ctx, trip.CountryCode)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.WarnContext(ctx, "warning lookup for new trip failed",
				slog.String("country_code", trip.CountryCode),
				slog.String("error", err.Error()))
		}
		return
	}
	if !warning.HasActiveWarning() || !trip.IsRelevantOn(time.Now()) {
		return
	}

	if _, err := s.dispatcher.SendAlert(ctx, warning, trip); err != nil {
		s.log.WarnContext(ctx, "welcome alert for new trip failed",
			slog.String("email", trip.Email),
			slog.String("country_code", trip.CountryCode),
			slog.String("error", err.Error()))
	}
}

// validateTrip checks required fields and normalizes the country code.
func validateTrip(trip *domain.Trip) error {
	trip.Email = strings.TrimSpace(trip.Email)
	trip.Name = strings.TrimSpace(trip.Name)
	trip.CountryCode = strings.ToUpper(strings.TrimSpace(trip.CountryCode))
	trip.CountryName = strings.TrimSpace(trip.CountryName)

	switch {
	case trip.Email == "" || !strings.Contains(trip.Email, "@"):
		return fmt.Errorf("%w: a valid email is required", domain.ErrValidation)
	case trip.Name == "":
		return fmt.Errorf("%w: trip name is required", domain.ErrValidation)
	case len(trip.CountryCode) != 2 || !isLetters(trip.CountryCode):
		return fmt.Errorf("%w: country code must be a two-letter ISO code", domain.ErrValidation)
	case trip.CountryName == "":
		return fmt.Errorf("%w: country name is required", domain.ErrValidation)
	case trip.StartDate.IsZero() || trip.EndDate.IsZero():
		return fmt.Errorf("%w: start and end dates are required", domain.ErrValidation)
	case trip.EndDate.Before(trip.StartDate):
		return fmt.Errorf("%w: end date must not be before start date", domain.ErrValidation)
	}
	return nil
}

func isLetters(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
