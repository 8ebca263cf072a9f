// Package repo contains all database access logic for the travel warnings service.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/travelsaas/travel-warnings/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan helpers
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

const tripColumns = `id, email, country_code, country_name, start_date, end_date,
	name, notifications_enabled, created_at, updated_at`

// TripRepo defines the persistence operations for user trips.
// The CRUD half serves the trip-management endpoints; the List*Relevant half
// is the read-only surface the warning matcher joins against.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// List returns all trips ordered by start_date descending.
	List(ctx context.Context) ([]domain.Trip, error)

	// Update overwrites the mutable fields of an existing trip and returns the
	// updated record. Returns domain.ErrNotFound if no trip with that ID exists.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a trip by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByEmail returns all trips owned by the given email, ordered by
	// start_date ascending.
	ListByEmail(ctx context.Context, email string) ([]domain.Trip, error)

	// ListRelevantByEmail returns the user's trips whose end date is on or
	// after today and that have notifications enabled.
	ListRelevantByEmail(ctx context.Context, email string, today time.Time) ([]domain.Trip, error)

	// ListRelevantByCountryCodes returns all notification-enabled trips to any
	// of the given countries whose end date is on or after today. This is the
	// trip side of the matcher's set-based join: callers pass the distinct
	// country codes of the active warnings so only intersecting rows are read.
	ListRelevantByCountryCodes(ctx context.Context, codes []string, today time.Time) ([]domain.Trip, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO user_trips (email, country_code, country_name, start_date, end_date,
			name, notifications_enabled)
		VALUES (@email, @country_code, @country_name, @start_date, @end_date,
			@name, @notifications_enabled)
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"email":                 trip.Email,
		"country_code":          trip.CountryCode,
		"country_name":          trip.CountryName,
		"start_date":            trip.StartDate,
		"end_date":              trip.EndDate,
		"name":                  trip.Name,
		"notifications_enabled": trip.NotificationsEnabled,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM user_trips WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns all trips ordered by start_date descending (most recent first).
func (r *pgTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM user_trips ORDER BY start_date DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	defer rows.Close()

	trips, err := collectTrips(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	return trips, nil
}

// Update overwrites the mutable fields of a trip and returns the updated record.
func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE user_trips
		SET email                 = @email,
		    country_code          = @country_code,
		    country_name          = @country_name,
		    start_date            = @start_date,
		    end_date              = @end_date,
		    name                  = @name,
		    notifications_enabled = @notifications_enabled,
		    updated_at            = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"id":                    trip.ID,
		"email":                 trip.Email,
		"country_code":          trip.CountryCode,
		"country_name":          trip.CountryName,
		"start_date":            trip.StartDate,
		"end_date":              trip.EndDate,
		"name":                  trip.Name,
		"notifications_enabled": trip.NotificationsEnabled,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

// Delete removes a trip by primary key.
func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM user_trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// ListByEmail returns all trips owned by the given email.
func (r *pgTripRepo) ListByEmail(ctx context.Context, email string) ([]domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM user_trips WHERE email = @email ORDER BY start_date`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"email": email})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByEmail: %w", err)
	}
	defer rows.Close()

	trips, err := collectTrips(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByEmail: %w", err)
	}
	return trips, nil
}

// ListRelevantByEmail returns the user's active-or-upcoming trips with
// notifications enabled.
func (r *pgTripRepo) ListRelevantByEmail(ctx context.Context, email string, today time.Time) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM user_trips
		WHERE email = @email
		  AND end_date >= @today
		  AND notifications_enabled
		ORDER BY start_date`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"email": email, "today": today})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListRelevantByEmail: %w", err)
	}
	defer rows.Close()

	trips, err := collectTrips(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListRelevantByEmail: %w", err)
	}
	return trips, nil
}

// ListRelevantByCountryCodes returns notification-enabled, active-or-upcoming
// trips for the given set of country codes.
func (r *pgTripRepo) ListRelevantByCountryCodes(ctx context.Context, codes []string, today time.Time) ([]domain.Trip, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	const q = `
		SELECT ` + tripColumns + `
		FROM user_trips
		WHERE country_code = ANY(@codes)
		  AND end_date >= @today
		  AND notifications_enabled
		ORDER BY country_code, start_date`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"codes": codes, "today": today})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListRelevantByCountryCodes: %w", err)
	}
	defer rows.Close()

	trips, err := collectTrips(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListRelevantByCountryCodes: %w", err)
	}
	return trips, nil
}

// collectTrips drains rows into a slice, surfacing both scan and iteration errors.
func collectTrips(rows pgx.Rows) ([]domain.Trip, error) {
	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return trips, nil
}

// scanTrip maps a single database row into a domain.Trip.
// It handles the UUID and date conversions.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t     domain.Trip
		id    pgtype.UUID
		start pgtype.Date
		end   pgtype.Date
	)

	err := s.Scan(&id, &t.Email, &t.CountryCode, &t.CountryName, &start, &end,
		&t.Name, &t.NotificationsEnabled, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.StartDate = start.Time
	t.EndDate = end.Time

	return t, nil
}
