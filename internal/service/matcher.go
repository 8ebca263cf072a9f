package service

import (
	"context"
	"fmt"
	"time"

	"github.com/travelsaas/travel-warnings/internal/domain"
	"github.com/travelsaas/travel-warnings/internal/repo"
)

// MatcherService computes which (warning, trip) pairs are relevant right now.
// Pure read/compute — no side effects.
//
// Both query shapes avoid a full cross product: the distinct country codes of
// one side are collected first, and only the intersecting rows of the other
// side are fetched, bounding cost to O(active warnings + relevant trips).
type MatcherService struct {
	warnings repo.WarningRepo
	trips    repo.TripRepo

	// now is the clock used for trip relevance; overridden in tests.
	now func() time.Time
}

// NewMatcherService constructs a MatcherService backed by the provided repos.
func NewMatcherService(warnings repo.WarningRepo, trips repo.TripRepo) *MatcherService {
	return &MatcherService{warnings: warnings, trips: trips, now: time.Now}
}

// FindWarningsAffecting returns all active warnings for countries the given
// user has relevant trips to. Backs the "what affects me" endpoint.
func (s *MatcherService) FindWarningsAffecting(ctx context.Context, email string) ([]domain.Warning, error) {
	matches, err := s.FindMatchesForUser(ctx, email)
	if err != nil {
		return nil, err
	}

	// One warning can match several of the user's trips; report it once.
	seen := make(map[string]bool, len(matches))
	var warnings []domain.Warning
	for _, m := range matches {
		if !seen[m.Warning.ContentID] {
			seen[m.Warning.ContentID] = true
			warnings = append(warnings, m.Warning)
		}
	}
	return warnings, nil
}

// FindMatchesForUser returns all (warning, trip) matches across one user's trips.
func (s *MatcherService) FindMatchesForUser(ctx context.Context, email string) ([]domain.Match, error) {
	trips, err := s.trips.ListRelevantByEmail(ctx, email, s.now())
	if err != nil {
		return nil, fmt.Errorf("service.MatcherService.FindMatchesForUser: %w", err)
	}
	if len(trips) == 0 {
		return nil, nil
	}

	warnings, err := s.warnings.ListByCountryCodes(ctx, distinctTripCountries(trips))
	if err != nil {
		return nil, fmt.Errorf("service.MatcherService.FindMatchesForUser: %w", err)
	}

	return joinByCountry(warnings, trips), nil
}

// FindTripsAffectedBy returns the relevant trips for one warning's country.
// Returns nothing when the warning itself is not active.
func (s *MatcherService) FindTripsAffectedBy(ctx context.Context, w domain.Warning) ([]domain.Trip, error) {
	if !w.HasActiveWarning() {
		return nil, nil
	}
	trips, err := s.trips.ListRelevantByCountryCodes(ctx, []string{w.CountryCode}, s.now())
	if err != nil {
		return nil, fmt.Errorf("service.MatcherService.FindTripsAffectedBy: %w", err)
	}
	return trips, nil
}

// AllActiveMatches returns every (warning, trip) match across the whole
// system. This is the scheduled sweep's query: active warnings first, then
// only the relevant trips for those warnings' countries.
func (s *MatcherService) AllActiveMatches(ctx context.Context) ([]domain.Match, error) {
	warnings, err := s.warnings.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.MatcherService.AllActiveMatches: %w", err)
	}
	if len(warnings) == 0 {
		return nil, nil
	}

	codes := make([]string, 0, len(warnings))
	seen := make(map[string]bool, len(warnings))
	for _, w := range warnings {
		if !seen[w.CountryCode] {
			seen[w.CountryCode] = true
			codes = append(codes, w.CountryCode)
		}
	}

	trips, err := s.trips.ListRelevantByCountryCodes(ctx, codes, s.now())
	if err != nil {
		return nil, fmt.Errorf("service.MatcherService.AllActiveMatches: %w", err)
	}

	return joinByCountry(warnings, trips), nil
}

// joinByCountry pairs active warnings with trips sharing the same country code.
// Trips and warnings for countries present on only one side drop out.
func joinByCountry(warnings []domain.Warning, trips []domain.Trip) []domain.Match {
	byCountry := make(map[string]domain.Warning, len(warnings))
	for _, w := range warnings {
		if w.HasActiveWarning() {
			byCountry[w.CountryCode] = w
		}
	}

	var matches []domain.Match
	for _, t := range trips {
		if w, ok := byCountry[t.CountryCode]; ok {
			matches = append(matches, domain.Match{Warning: w, Trip: t})
		}
	}
	return matches
}

// distinctTripCountries collects the distinct country codes of the given trips.
func distinctTripCountries(trips []domain.Trip) []string {
	seen := make(map[string]bool, len(trips))
	var codes []string
	for _, t := range trips {
		if !seen[t.CountryCode] {
			seen[t.CountryCode] = true
			codes = append(codes, t.CountryCode)
		}
	}
	return codes
}
