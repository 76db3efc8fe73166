// Package analytics turns a snapshot of voyages, bookings and clients into
// the dashboard counters and the trailing per-day series.
package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AngelCh415/voyage-analytics/internal/models"
	"github.com/AngelCh415/voyage-analytics/internal/store"
)

const (
	DefaultDays = 7
	labelLayout = "Jan 2"
	dateLayout  = "2006-01-02"
)

// Summarize fills every counter except TotalConversations, which needs the
// message backend.
func Summarize(s *store.Snapshot) models.Summary {
	sum := models.Summary{TotalBookings: len(s.Bookings())}
	for _, v := range s.Voyages() {
		if v.Active {
			sum.ActiveVoyages++
		}
	}
	total := decimal.Zero
	for _, b := range s.Bookings() {
		total = total.Add(Revenue(b))
	}
	sum.TotalRevenue = money(total)
	return sum
}

// Revenue is price × passengers for a confirmed booking with a known voyage,
// zero otherwise.
func Revenue(b store.ResolvedBooking) decimal.Decimal {
	if !b.Booking.Confirmed() || b.Voyage == nil || b.Voyage.Price.IsNegative() {
		return decimal.Zero
	}
	return b.Voyage.Price.Mul(decimal.NewFromInt(int64(passengers(b.Booking))))
}

// BucketLastNDays returns n daily buckets ending today (in now's location),
// oldest first. n <= 0 means DefaultDays.
func BucketLastNDays(s *store.Snapshot, now time.Time, n int, metric models.Metric) models.Series {
	if n <= 0 {
		n = DefaultDays
	}
	if metric == "" {
		metric = models.MetricCount
	}
	loc := now.Location()
	byDay := s.BookingsByDay(loc)
	y, m, d := now.Date()

	series := models.Series{Metric: metric, Points: make([]models.Point, 0, n), AllZero: true}
	for i := n - 1; i >= 0; i-- {
		day := time.Date(y, m, d-i, 0, 0, 0, 0, loc)
		var value float64
		switch metric {
		case models.MetricRevenue:
			total := decimal.Zero
			for _, b := range byDay[day] {
				total = total.Add(Revenue(b))
			}
			value = money(total)
		default:
			value = float64(len(byDay[day]))
		}
		if value != 0 {
			series.AllZero = false
		}
		series.Points = append(series.Points, models.Point{
			Date:  day.Format(dateLayout),
			Label: day.Format(labelLayout),
			Value: value,
		})
	}
	return series
}

func passengers(b models.Booking) int {
	if b.Passengers <= 0 {
		return 1
	}
	return b.Passengers
}

func money(d decimal.Decimal) float64 { return d.Round(2).InexactFloat64() }
