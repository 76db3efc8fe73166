package store

import (
	"time"

	"github.com/AngelCh415/voyage-analytics/internal/models"
)

// ResolvedBooking pairs a booking with its voyage; Voyage is nil when the
// reference points at nothing in the snapshot and the booking had no inline copy.
type ResolvedBooking struct {
	Booking models.Booking
	Voyage  *models.Voyage
}

// Snapshot is one fetch of the three collections. It is never mutated after
// NewSnapshot returns, so readers need no locking.
type Snapshot struct {
	voyages  []models.Voyage
	clients  []models.Client
	bookings []ResolvedBooking
	byID     map[int64]*models.Voyage
}

func NewSnapshot(voyages []models.Voyage, bookings []models.Booking, clients []models.Client) *Snapshot {
	s := &Snapshot{
		voyages: voyages,
		clients: clients,
		byID:    make(map[int64]*models.Voyage, len(voyages)),
	}
	for i := range s.voyages {
		v := &s.voyages[i]
		if _, dup := s.byID[v.ID]; !dup {
			s.byID[v.ID] = v
		}
	}
	s.bookings = make([]ResolvedBooking, 0, len(bookings))
	for _, b := range bookings {
		s.bookings = append(s.bookings, ResolvedBooking{Booking: b, Voyage: s.resolve(b)})
	}
	return s
}

// resolve prefers the fetched voyage over whatever the booking embedded.
func (s *Snapshot) resolve(b models.Booking) *models.Voyage {
	if b.VoyageID != 0 {
		if v, ok := s.Voyage(b.VoyageID); ok {
			return v
		}
	}
	return b.Voyage
}

func (s *Snapshot) Voyages() []models.Voyage    { return s.voyages }
func (s *Snapshot) Clients() []models.Client    { return s.clients }
func (s *Snapshot) Bookings() []ResolvedBooking { return s.bookings }

func (s *Snapshot) Voyage(id int64) (*models.Voyage, bool) {
	v, ok := s.byID[id]
	return v, ok
}

// BookingsByDay groups bookings by calendar day in loc. Bookings without a
// creation time are left out.
func (s *Snapshot) BookingsByDay(loc *time.Location) map[time.Time][]ResolvedBooking {
	out := make(map[time.Time][]ResolvedBooking)
	for _, b := range s.bookings {
		if b.Booking.CreatedAt.IsZero() {
			continue
		}
		k := Day(b.Booking.CreatedAt, loc)
		out[k] = append(out[k], b)
	}
	return out
}

// Day truncates t to midnight of its calendar date in loc.
func Day(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
