package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip represents a user's travel plan to one country with a date range.
// Trips are owned and mutated by the trip-management endpoints; the warning
// pipeline only reads them.
//
// The invariant end date >= start date is enforced by the trip service on
// create/update, not by this type.
type Trip struct {
	ID                   uuid.UUID `json:"id"`
	Email                string    `json:"email"`
	CountryCode          string    `json:"country_code"` // ISO 3166-1 alpha-2
	CountryName          string    `json:"country_name"`
	StartDate            time.Time `json:"start_date"`
	EndDate              time.Time `json:"end_date"`
	Name                 string    `json:"name"`
	NotificationsEnabled bool      `json:"notifications_enabled"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// IsActiveOn reports whether today falls within [StartDate, EndDate].
// The caller supplies today so the check is deterministic in tests.
func (t Trip) IsActiveOn(today time.Time) bool {
	d := dateOnly(today)
	return !d.Before(dateOnly(t.StartDate)) && !d.After(dateOnly(t.EndDate))
}

// IsUpcomingOn reports whether the trip starts after today.
func (t Trip) IsUpcomingOn(today time.Time) bool {
	return dateOnly(today).Before(dateOnly(t.StartDate))
}

// IsRelevantOn reports whether the trip should be considered for alerting:
// active or upcoming (the end date has not passed) and notifications enabled.
func (t Trip) IsRelevantOn(today time.Time) bool {
	return t.NotificationsEnabled && !dateOnly(t.EndDate).Before(dateOnly(today))
}

// OverlapsDates reports whether the trip's date range intersects [from, to].
func (t Trip) OverlapsDates(from, to time.Time) bool {
	return !dateOnly(t.EndDate).Before(dateOnly(from)) && !dateOnly(t.StartDate).After(dateOnly(to))
}

// dateOnly truncates a timestamp to its calendar date in UTC, so date
// comparisons ignore the time-of-day component.
func dateOnly(ts time.Time) time.Time {
	y, m, d := ts.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
