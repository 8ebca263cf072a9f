package service_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelsaas/travel-warnings/internal/domain"
	"github.com/travelsaas/travel-warnings/internal/service"
)

func activeWarning(contentID, code, name string) domain.Warning {
	return domain.Warning{
		ContentID:    contentID,
		LastModified: 1000,
		CountryCode:  code,
		CountryName:  name,
		Warning:      true,
	}
}

func tripTo(code, email string) domain.Trip {
	return domain.Trip{
		Email:                email,
		CountryCode:          code,
		StartDate:            time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		EndDate:              time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC),
		Name:                 "Trip to " + code,
		NotificationsEnabled: true,
	}
}

func TestMatcherService_AllActiveMatches_JoinsByCountry(t *testing.T) {
	warnings := &mockWarningRepo{
		listActive: func(_ context.Context) ([]domain.Warning, error) {
			return []domain.Warning{
				activeWarning("1", "DE", "Germany"),
				activeWarning("2", "FR", "France"),
			}, nil
		},
	}
	var gotCodes []string
	trips := &mockTripRepo{
		listRelevantByCountryCodes: func(_ context.Context, codes []string, _ time.Time) ([]domain.Trip, error) {
			gotCodes = codes
			// Two travelers to Germany, none to France.
			return []domain.Trip{tripTo("DE", "ann@example.com"), tripTo("DE", "bob@example.com")}, nil
		},
	}
	svc := service.NewMatcherService(warnings, trips)

	matches, err := svc.AllActiveMatches(context.Background())

	require.NoError(t, err)
	sort.Strings(gotCodes)
	assert.Equal(t, []string{"DE", "FR"}, gotCodes)
	require.Len(t, matches, 2)
	for _, m := range matches {
		assert.Equal(t, "DE", m.Warning.CountryCode)
		assert.Equal(t, "DE", m.Trip.CountryCode)
	}
}

func TestMatcherService_AllActiveMatches_NoWarnings(t *testing.T) {
	warnings := &mockWarningRepo{
		listActive: func(_ context.Context) ([]domain.Warning, error) { return nil, nil },
	}
	// Trip repo unset: any call would panic, proving the query short-circuits.
	svc := service.NewMatcherService(warnings, &mockTripRepo{})

	matches, err := svc.AllActiveMatches(context.Background())

	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestMatcherService_FindMatchesForUser(t *testing.T) {
	trips := &mockTripRepo{
		listRelevantByEmail: func(_ context.Context, email string, _ time.Time) ([]domain.Trip, error) {
			require.Equal(t, "ann@example.com", email)
			return []domain.Trip{tripTo("DE", email), tripTo("JP", email)}, nil
		},
	}
	warnings := &mockWarningRepo{
		listByCountryCodes: func(_ context.Context, codes []string) ([]domain.Warning, error) {
			assert.ElementsMatch(t, []string{"DE", "JP"}, codes)
			// Only Germany is warned; Japan has no record.
			return []domain.Warning{activeWarning("1", "DE", "Germany")}, nil
		},
	}
	svc := service.NewMatcherService(warnings, trips)

	matches, err := svc.FindMatchesForUser(context.Background(), "ann@example.com")

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "DE", matches[0].Trip.CountryCode)
	assert.Equal(t, "1", matches[0].Warning.ContentID)
}

func TestMatcherService_FindMatchesForUser_NoTrips(t *testing.T) {
	trips := &mockTripRepo{
		listRelevantByEmail: func(_ context.Context, _ string, _ time.Time) ([]domain.Trip, error) {
			return nil, nil
		},
	}
	svc := service.NewMatcherService(&mockWarningRepo{}, trips)

	matches, err := svc.FindMatchesForUser(context.Background(), "ann@example.com")

	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestMatcherService_FindMatchesForUser_InactiveWarningExcluded(t *testing.T) {
	trips := &mockTripRepo{
		listRelevantByEmail: func(_ context.Context, email string, _ time.Time) ([]domain.Trip, error) {
			return []domain.Trip{tripTo("DE", email)}, nil
		},
	}
	warnings := &mockWarningRepo{
		listByCountryCodes: func(_ context.Context, _ []string) ([]domain.Warning, error) {
			// A record with all flags false is not an active warning.
			return []domain.Warning{{ContentID: "1", CountryCode: "DE"}}, nil
		},
	}
	svc := service.NewMatcherService(warnings, trips)

	matches, err := svc.FindMatchesForUser(context.Background(), "ann@example.com")

	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestMatcherService_FindTripsAffectedBy(t *testing.T) {
	trips := &mockTripRepo{
		listRelevantByCountryCodes: func(_ context.Context, codes []string, _ time.Time) ([]domain.Trip, error) {
			assert.Equal(t, []string{"DE"}, codes)
			return []domain.Trip{tripTo("DE", "ann@example.com")}, nil
		},
	}
	svc := service.NewMatcherService(&mockWarningRepo{}, trips)

	got, err := svc.FindTripsAffectedBy(context.Background(), activeWarning("1", "DE", "Germany"))

	require.NoError(t, err)
	assert.Len(t, got, 1)

	// An inactive warning affects nobody; the trip store is never queried.
	got, err = svc.FindTripsAffectedBy(context.Background(), domain.Warning{CountryCode: "DE"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMatcherService_FindWarningsAffecting_Deduplicates(t *testing.T) {
	trips := &mockTripRepo{
		listRelevantByEmail: func(_ context.Context, email string, _ time.Time) ([]domain.Trip, error) {
			// Two separate trips to the same country.
			return []domain.Trip{tripTo("DE", email), tripTo("DE", email)}, nil
		},
	}
	warnings := &mockWarningRepo{
		listByCountryCodes: func(_ context.Context, codes []string) ([]domain.Warning, error) {
			assert.Equal(t, []string{"DE"}, codes)
			return []domain.Warning{activeWarning("1", "DE", "Germany")}, nil
		},
	}
	svc := service.NewMatcherService(warnings, trips)

	got, err := svc.FindWarningsAffecting(context.Background(), "ann@example.com")

	require.NoError(t, err)
	// One warning, even though it matches both trips.
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ContentID)
}
