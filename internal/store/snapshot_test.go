package store

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/voyage-analytics/internal/models"
)

func TestSnapshotResolvesByIDBeforeInline(t *testing.T) {
	voyages := []models.Voyage{{ID: 1, Price: decimal.NewFromInt(100)}}
	stale := &models.Voyage{ID: 1, Price: decimal.NewFromInt(80)}
	bookings := []models.Booking{
		{ID: 10, VoyageID: 1, Voyage: stale},
		{ID: 11, VoyageID: 99},
		{ID: 12, VoyageID: 42, Voyage: &models.Voyage{ID: 42, Price: decimal.NewFromInt(5)}},
	}

	snap := NewSnapshot(voyages, bookings, nil)
	got := snap.Bookings()
	require.Len(t, got, 3)

	require.NotNil(t, got[0].Voyage)
	assert.True(t, got[0].Voyage.Price.Equal(decimal.NewFromInt(100)))
	assert.Nil(t, got[1].Voyage)
	require.NotNil(t, got[2].Voyage)
	assert.Equal(t, int64(42), got[2].Voyage.ID)
}

func TestSnapshotKeepsFirstDuplicateVoyage(t *testing.T) {
	snap := NewSnapshot([]models.Voyage{{ID: 7, Title: "first"}, {ID: 7, Title: "second"}}, nil, nil)
	v, ok := snap.Voyage(7)
	require.True(t, ok)
	assert.Equal(t, "first", v.Title)
}

func TestBookingsByDaySkipsUndated(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	late := time.Date(2025, 8, 2, 2, 0, 0, 0, time.UTC) // Aug 1 21:00 in loc
	bookings := []models.Booking{
		{ID: 1, CreatedAt: late},
		{ID: 2, CreatedAt: time.Date(2025, 8, 1, 9, 0, 0, 0, loc)},
		{ID: 3},
	}

	byDay := NewSnapshot(nil, bookings, nil).BookingsByDay(loc)

	require.Len(t, byDay, 1)
	assert.Len(t, byDay[time.Date(2025, 8, 1, 0, 0, 0, 0, loc)], 2)
}

func TestDay(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	got := Day(time.Date(2025, 3, 10, 22, 30, 0, 0, time.UTC), loc)
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, loc), got)
}
