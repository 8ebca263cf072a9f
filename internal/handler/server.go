// Package handler implements the HTTP handlers for the travel warnings API.
// Methods are split into domain-specific files (warning.go, trip.go, etc.)
// but all share the same Server struct so they can access its dependencies.
package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/travelsaas/travel-warnings/internal/domain"
	"github.com/travelsaas/travel-warnings/internal/service"
)

// TripServicer defines the business operations the trip handler depends on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	List(ctx context.Context) ([]domain.Trip, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Trip, error)
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// WarningServicer defines the warning read/write operations the API exposes.
type WarningServicer interface {
	List(ctx context.Context, activeOnly bool) ([]domain.Warning, error)
	GetByContentID(ctx context.Context, contentID string) (domain.Warning, error)
	GetByCountryCode(ctx context.Context, code string) (domain.Warning, error)
	GetCategorizedByCountryCode(ctx context.Context, code string) (service.CategorizedDetail, error)
	SaveBatch(ctx context.Context, warnings []domain.Warning) (int, error)
}

// NotificationServicer exposes a user's notification history.
type NotificationServicer interface {
	ListByEmail(ctx context.Context, email string, p domain.PaginationParams) ([]domain.Notification, int64, error)
	ListRecentByEmail(ctx context.Context, email string, days int) ([]domain.Notification, error)
}

// MatcherServicer answers "which warnings affect this user right now".
type MatcherServicer interface {
	FindWarningsAffecting(ctx context.Context, email string) ([]domain.Warning, error)
}

// SyncTrigger kicks off an out-of-schedule sync run.
type SyncTrigger interface {
	TriggerManual()
}

// Server holds the handler dependencies for all API endpoints.
type Server struct {
	trips         TripServicer
	warnings      WarningServicer
	notifications NotificationServicer
	matcher       MatcherServicer
	sync          SyncTrigger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer, warnings WarningServicer, notifications NotificationServicer, matcher MatcherServicer, sync SyncTrigger) *Server {
	return &Server{
		trips:         trips,
		warnings:      warnings,
		notifications: notifications,
		matcher:       matcher,
		sync:          sync,
	}
}

// Routes mounts every endpoint on a fresh router. Middleware is applied by
// the caller (main.go) so tests can mount routes bare.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/warnings", func(r chi.Router) {
			r.Get("/", s.ListWarnings)
			r.Post("/batch", s.SaveWarningBatch)
			r.Post("/refresh", s.TriggerRefresh)
			r.Get("/country/{code}", s.GetWarningByCountry)
			r.Get("/country/{code}/detail", s.GetWarningDetail)
			r.Get("/{contentID}", s.GetWarning)
		})

		r.Route("/trips", func(r chi.Router) {
			r.Post("/", s.CreateTrip)
			r.Get("/", s.ListTrips)
			r.Get("/affecting", s.ListWarningsAffecting)
			r.Get("/{id}", s.GetTrip)
			r.Put("/{id}", s.UpdateTrip)
			r.Delete("/{id}", s.DeleteTrip)
		})

		r.Get("/notifications", s.ListNotifications)
	})

	return r
}
