// Package domain contains the core data types for the travel warnings service.
// This package has zero external dependencies beyond uuid/time and is imported
// by every other internal package (repo, provider, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Warning represents the latest known safety status for one country, as
// published by the Auswärtiges Amt OpenData API.
//
// ContentID is the provider's opaque key for the country's warning record and
// is immutable and unique. LastModified is the provider's version stamp; a
// stored warning is only ever overwritten when an incoming stamp is strictly
// greater (see the fetcher service). Warnings are created on first sighting
// and updated in place — never deleted by this pipeline.
type Warning struct {
	ID           uuid.UUID `json:"id"`
	ContentID    string    `json:"content_id"`
	LastModified int64     `json:"last_modified"`
	Effective    int64     `json:"effective"`
	Title        string    `json:"title"`
	CountryCode  string    `json:"country_code"`              // ISO 3166-1 alpha-2
	ISO3Code     string    `json:"iso3_country_code,omitempty"` // only present after a successful detail fetch
	CountryName  string    `json:"country_name"`

	// The four independent alert flags published by the provider.
	Warning          bool `json:"warning"`
	PartialWarning   bool `json:"partial_warning"`
	SituationWarning bool `json:"situation_warning"`
	SituationPartial bool `json:"situation_part_warning"`

	Content   string    `json:"content,omitempty"` // long-form HTML, empty when only the summary was available
	FetchedAt time.Time `json:"fetched_at"`
}

// Severity derives the warning's severity from its flags.
// Priority order: full > partial > situational > partial-situational > none.
// Never stored — always computed from the flags.
func (w Warning) Severity() Severity {
	switch {
	case w.Warning:
		return SeverityCritical
	case w.PartialWarning:
		return SeveritySevere
	case w.SituationWarning:
		return SeverityModerate
	case w.SituationPartial:
		return SeverityMinor
	}
	return SeverityNone
}

// HasActiveWarning reports whether any of the four alert flags is set.
func (w Warning) HasActiveWarning() bool {
	return w.Warning || w.PartialWarning || w.SituationWarning || w.SituationPartial
}
