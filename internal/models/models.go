package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// ParseStatus normalises case and whitespace; unknown values are kept as-is.
func ParseStatus(s string) BookingStatus {
	return BookingStatus(strings.ToLower(strings.TrimSpace(s)))
}

type Voyage struct {
	ID          int64
	Title       string
	Origin      string
	Destination string
	StartsAt    time.Time // zero when unknown
	EndsAt      time.Time
	Price       decimal.Decimal
	Capacity    int
	Active      bool
}

type Client struct {
	ID            int64
	Name          string
	MessengerPSID string
	PhoneNumber   string
	NationalID    string
	CreatedAt     time.Time
}

type Booking struct {
	ID           int64
	ClientID     int64
	Client       *Client // inline copy when the backend embeds it
	VoyageID     int64
	Voyage       *Voyage
	Passengers   int
	Status       BookingStatus
	ContactPhone string
	Notes        string
	CreatedAt    time.Time // zero when the backend did not send one
}

func (b Booking) Confirmed() bool { return b.Status == StatusConfirmed }

type Message struct {
	ID        int64
	ClientID  int64
	Direction string // in | out
	Content   string
	CreatedAt time.Time
}

type Summary struct {
	TotalBookings      int     `json:"total_bookings"`
	ActiveVoyages      int     `json:"active_voyages"`
	TotalRevenue       float64 `json:"total_revenue"`
	TotalConversations int     `json:"total_conversations"`
}

type Metric string

const (
	MetricCount   Metric = "count"
	MetricRevenue Metric = "revenue"
)

func ParseMetric(s string) (Metric, bool) {
	switch Metric(strings.ToLower(strings.TrimSpace(s))) {
	case MetricCount:
		return MetricCount, true
	case MetricRevenue:
		return MetricRevenue, true
	}
	return "", false
}

type Point struct {
	Date  string  `json:"date"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type Series struct {
	Metric  Metric  `json:"metric"`
	Points  []Point `json:"points"`
	AllZero bool    `json:"all_zero"`
}

type Dashboard struct {
	Summary  Summary `json:"summary"`
	Bookings Series  `json:"bookings"`
	Revenue  Series  `json:"revenue"`
}
