package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/travelsaas/travel-warnings/internal/domain"
)

// day builds a UTC date without a time-of-day component.
func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTrip_IsActiveOn(t *testing.T) {
	trip := domain.Trip{StartDate: day(2026, 6, 1), EndDate: day(2026, 6, 15)}

	assert.False(t, trip.IsActiveOn(day(2026, 5, 31)), "day before start")
	assert.True(t, trip.IsActiveOn(day(2026, 6, 1)), "first day")
	assert.True(t, trip.IsActiveOn(day(2026, 6, 10)), "mid trip")
	assert.True(t, trip.IsActiveOn(day(2026, 6, 15)), "last day")
	assert.False(t, trip.IsActiveOn(day(2026, 6, 16)), "day after end")
}

func TestTrip_IsActiveOn_IgnoresTimeOfDay(t *testing.T) {
	trip := domain.Trip{StartDate: day(2026, 6, 1), EndDate: day(2026, 6, 15)}

	// 23:59 on the last day is still within the trip.
	lastEvening := time.Date(2026, 6, 15, 23, 59, 0, 0, time.UTC)
	assert.True(t, trip.IsActiveOn(lastEvening))
}

func TestTrip_IsUpcomingOn(t *testing.T) {
	trip := domain.Trip{StartDate: day(2026, 6, 1), EndDate: day(2026, 6, 15)}

	assert.True(t, trip.IsUpcomingOn(day(2026, 5, 1)))
	assert.False(t, trip.IsUpcomingOn(day(2026, 6, 1)), "start day is active, not upcoming")
	assert.False(t, trip.IsUpcomingOn(day(2026, 7, 1)), "past trip is neither")
}

func TestTrip_IsRelevantOn(t *testing.T) {
	trip := domain.Trip{
		StartDate:            day(2026, 6, 1),
		EndDate:              day(2026, 6, 15),
		NotificationsEnabled: true,
	}

	assert.True(t, trip.IsRelevantOn(day(2026, 5, 1)), "upcoming trip is relevant")
	assert.True(t, trip.IsRelevantOn(day(2026, 6, 10)), "active trip is relevant")
	assert.False(t, trip.IsRelevantOn(day(2026, 6, 16)), "past trip is not relevant")

	trip.NotificationsEnabled = false
	assert.False(t, trip.IsRelevantOn(day(2026, 6, 10)), "notifications disabled")
}

func TestTrip_OverlapsDates(t *testing.T) {
	trip := domain.Trip{StartDate: day(2026, 6, 1), EndDate: day(2026, 6, 15)}

	assert.True(t, trip.OverlapsDates(day(2026, 6, 10), day(2026, 6, 20)))
	assert.True(t, trip.OverlapsDates(day(2026, 5, 20), day(2026, 6, 1)), "touching the start day")
	assert.False(t, trip.OverlapsDates(day(2026, 6, 16), day(2026, 6, 30)))
	assert.False(t, trip.OverlapsDates(day(2026, 5, 1), day(2026, 5, 31)))
}
