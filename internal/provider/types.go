// Package provider implements the client for the Auswärtiges Amt OpenData
// travel warning API. The API exposes an index of all current warnings
// (compact summaries keyed by content ID) and a detail endpoint per content ID
// that additionally carries the ISO-3 country code and the full HTML content.
package provider

import (
	"errors"
	"fmt"
	"strings"
)

// Summary is the compact warning record from the index endpoint.
// ContentID is not part of the JSON object itself — it is the key under which
// the object appears in the response envelope, filled in by the client.
type Summary struct {
	ContentID            string `json:"-"`
	LastModified         int64  `json:"lastModified"`
	Effective            int64  `json:"effective"`
	Title                string `json:"title"`
	CountryCode          string `json:"countryCode"`
	CountryName          string `json:"countryName"`
	Warning              bool   `json:"warning"`
	PartialWarning       bool   `json:"partialWarning"`
	SituationWarning     bool   `json:"situationWarning"`
	SituationPartWarning bool   `json:"situationPartWarning"`
}

// Detail is the full warning record from the detail endpoint.
type Detail struct {
	Summary
	ISO3CountryCode string `json:"iso3CountryCode"`
	Content         string `json:"content"`
}

// Validate checks that all required summary fields are present and non-blank.
// The provider's version stamps are epoch milliseconds, so a zero stamp means
// the field was missing from the payload.
func (s Summary) Validate() error {
	var missing []string
	if strings.TrimSpace(s.ContentID) == "" {
		missing = append(missing, "contentId")
	}
	if strings.TrimSpace(s.CountryCode) == "" {
		missing = append(missing, "countryCode")
	}
	if strings.TrimSpace(s.CountryName) == "" {
		missing = append(missing, "countryName")
	}
	if strings.TrimSpace(s.Title) == "" {
		missing = append(missing, "title")
	}
	if s.LastModified == 0 {
		missing = append(missing, "lastModified")
	}
	if s.Effective == 0 {
		missing = append(missing, "effective")
	}
	if len(missing) > 0 {
		return fmt.Errorf("provider: summary missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ErrMalformedResponse is returned when the provider's response envelope
// cannot be interpreted (missing "response" object or content list).
var ErrMalformedResponse = errors.New("provider: malformed response")
