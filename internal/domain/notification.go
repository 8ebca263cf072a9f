package domain

import (
	"time"

	"github.com/google/uuid"
)

// Notification is the append-only proof that an alert was (or was not) sent
// for one (trip, warning-version) pair. Records are created once per attempted
// send — success or failure — and never updated or deleted.
//
// For a given (TripID, WarningContentID, WarningLastModified) there is at most
// one record with Successful = true. That triple is the deduplication key that
// prevents re-alerting a user about warning content they have already seen;
// it is enforced by a partial unique index in the notification store, so
// concurrent ticks cannot both record a success.
type Notification struct {
	ID                  uuid.UUID `json:"id"`
	TripID              uuid.UUID `json:"trip_id"`
	Email               string    `json:"email"`
	WarningContentID    string    `json:"warning_content_id"`
	CountryCode         string    `json:"country_code"`
	CountryName         string    `json:"country_name"`
	Severity            Severity  `json:"severity"`
	SentAt              time.Time `json:"sent_at"`
	Successful          bool      `json:"successful"`
	ErrorMessage        string    `json:"error_message,omitempty"`
	WarningLastModified int64     `json:"warning_last_modified"`
}

// Match is a (warning, trip) pair relevant right now: the warning is active,
// the trip is relevant, and both reference the same country.
type Match struct {
	Warning Warning
	Trip    Trip
}
