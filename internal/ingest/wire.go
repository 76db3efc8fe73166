package ingest

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AngelCh415/voyage-analytics/internal/models"
)

// Wire shapes. Two generations of the travel backend name the same fields
// differently; everything is folded into models.* by the normalize* funcs.

type rawVoyage struct {
	ID             flexInt     `json:"id"`
	Title          string      `json:"title"`
	Origin         string      `json:"origin"`
	Destination    string      `json:"destination"`
	StartDate      flexTime    `json:"start_date"`
	EndDate        flexTime    `json:"end_date"`
	DepartureTime  flexTime    `json:"departure_time"`
	ArrivalTime    flexTime    `json:"arrival_time"`
	Price          flexDecimal `json:"price"`
	Capacity       flexInt     `json:"capacity"`
	AvailableSeats flexInt     `json:"available_seats"`
	IsActive       flexBool    `json:"is_active"`
	Active         flexBool    `json:"active"`
}

type rawClient struct {
	ID            flexInt  `json:"id"`
	Name          string   `json:"name"`
	MessengerPSID string   `json:"messenger_psid"`
	PhoneNumber   string   `json:"phone_number"`
	NationalID    string   `json:"national_id"`
	CreatedAt     flexTime `json:"created_at"`
}

type rawBooking struct {
	ID              flexInt        `json:"id"`
	ClientID        flexInt        `json:"client_id"`
	Client          ref[rawClient] `json:"client"`
	TripID          flexInt        `json:"trip_id"`
	VoyageID        flexInt        `json:"voyage_id"`
	Trip            ref[rawVoyage] `json:"trip"`
	Voyage          ref[rawVoyage] `json:"voyage"`
	PassengersCount flexInt        `json:"passengers_count"`
	Status          string         `json:"status"`
	ContactPhone    string         `json:"contact_phone"`
	Notes           string         `json:"notes"`
	CreatedAt       flexTime       `json:"created_at"`
}

type rawMessage struct {
	ID        flexInt  `json:"id"`
	ClientID  flexInt  `json:"client_id"`
	Direction string   `json:"direction"`
	Content   string   `json:"content"`
	CreatedAt flexTime `json:"created_at"`
}

// flexInt accepts a number, a numeric string or null. Anything else leaves it unset.
type flexInt struct {
	N     int64
	Valid bool
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	*f = flexInt{}
	if s == "" || s == "null" {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*f = flexInt{N: n, Valid: true}
		return nil
	}
	if x, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(x) && !math.IsInf(x, 0) {
		*f = flexInt{N: int64(x), Valid: true}
	}
	return nil
}

// flexDecimal is a price that may arrive as a number, a string or null.
type flexDecimal struct {
	D     decimal.Decimal
	Valid bool
}

func (f *flexDecimal) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	*f = flexDecimal{}
	if s == "" || s == "null" {
		return nil
	}
	if d, err := decimal.NewFromString(s); err == nil {
		*f = flexDecimal{D: d, Valid: true}
	}
	return nil
}

// flexTime keeps the text of a date field. Non-string values are dropped
// so one odd row does not fail the whole list.
type flexTime struct{ Raw string }

func (f *flexTime) UnmarshalJSON(b []byte) error {
	*f = flexTime{}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		f.Raw = s
	}
	return nil
}

// flexBool accepts true/false, their string forms and 0/1.
type flexBool struct {
	V     bool
	Valid bool
}

func (f *flexBool) UnmarshalJSON(b []byte) error {
	*f = flexBool{}
	s := strings.ToLower(strings.Trim(strings.TrimSpace(string(b)), `"`))
	if v, err := strconv.ParseBool(s); err == nil {
		*f = flexBool{V: v, Valid: true}
	}
	return nil
}

// ref is a reference that is either a bare id or the embedded object.
type ref[T any] struct {
	ID     flexInt
	Inline *T
}

func (r *ref[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*r = ref[T]{}
	if len(b) == 0 || b[0] != '{' {
		return r.ID.UnmarshalJSON(b)
	}
	var obj T
	// a partly malformed object still carries usable fields
	_ = json.Unmarshal(b, &obj)
	r.Inline = &obj
	var head struct {
		ID flexInt `json:"id"`
	}
	_ = json.Unmarshal(b, &head)
	r.ID = head.ID
	return nil
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseInstant reads ISO instants; values without an offset are taken in loc.
// Returns the zero time when s is empty or unreadable.
func parseInstant(s string, loc *time.Location) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t
		}
	}
	return time.Time{}
}

func normalizeVoyage(r rawVoyage, loc *time.Location) models.Voyage {
	capacity := r.Capacity
	if !capacity.Valid {
		capacity = r.AvailableSeats
	}
	active := r.IsActive
	if !active.Valid {
		active = r.Active
	}
	v := models.Voyage{
		ID:          r.ID.N,
		Title:       strings.TrimSpace(r.Title),
		Origin:      strings.TrimSpace(r.Origin),
		Destination: strings.TrimSpace(r.Destination),
		StartsAt:    parseInstant(coalesce(r.DepartureTime.Raw, r.StartDate.Raw), loc),
		EndsAt:      parseInstant(coalesce(r.ArrivalTime.Raw, r.EndDate.Raw), loc),
		Capacity:    max0(int(capacity.N)),
		Active:      active.Valid && active.V,
	}
	if r.Price.Valid && r.Price.D.IsPositive() {
		v.Price = r.Price.D
	}
	return v
}

func normalizeClient(r rawClient, loc *time.Location) models.Client {
	return models.Client{
		ID:            r.ID.N,
		Name:          strings.TrimSpace(r.Name),
		MessengerPSID: strings.TrimSpace(r.MessengerPSID),
		PhoneNumber:   strings.TrimSpace(r.PhoneNumber),
		NationalID:    strings.TrimSpace(r.NationalID),
		CreatedAt:     parseInstant(r.CreatedAt.Raw, loc),
	}
}

func normalizeBooking(r rawBooking, loc *time.Location) models.Booking {
	b := models.Booking{
		ID:           r.ID.N,
		ClientID:     firstID(r.ClientID, r.Client.ID),
		VoyageID:     firstID(r.TripID, r.VoyageID, r.Trip.ID, r.Voyage.ID),
		Passengers:   max1(int(r.PassengersCount.N)),
		Status:       models.ParseStatus(r.Status),
		ContactPhone: strings.TrimSpace(r.ContactPhone),
		Notes:        r.Notes,
		CreatedAt:    parseInstant(r.CreatedAt.Raw, loc),
	}
	if r.Client.Inline != nil {
		c := normalizeClient(*r.Client.Inline, loc)
		b.Client = &c
	}
	inline := r.Trip.Inline
	if inline == nil {
		inline = r.Voyage.Inline
	}
	if inline != nil {
		v := normalizeVoyage(*inline, loc)
		b.Voyage = &v
	}
	return b
}

func normalizeMessage(r rawMessage, loc *time.Location) models.Message {
	return models.Message{
		ID:        r.ID.N,
		ClientID:  r.ClientID.N,
		Direction: strings.ToLower(strings.TrimSpace(r.Direction)),
		Content:   r.Content,
		CreatedAt: parseInstant(r.CreatedAt.Raw, loc),
	}
}

func firstID(ids ...flexInt) int64 {
	for _, id := range ids {
		if id.Valid && id.N != 0 {
			return id.N
		}
	}
	return 0
}

func coalesce(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func max0(i int) int {
	if i < 0 {
		return 0
	}
	return i
}

func max1(i int) int {
	if i <= 0 {
		return 1
	}
	return i
}
