package domain

import (
	"fmt"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

var validNext = map[BookingStatus]map[BookingStatus]bool{
	BookingStatusPending:   {BookingStatusConfirmed: true, BookingStatusCancelled: true},
	BookingStatusConfirmed: {BookingStatusCompleted: true, BookingStatusCancelled: true},
	BookingStatusCompleted: {},
	BookingStatusCancelled: {},
}

func CanTransition(from, to BookingStatus) bool {
	return validNext[from][to]
}

// Booking reserves a camp for the half-open date range [StartDate, EndDate).
// Checkout day is not a chargeable night, so back-to-back stays never conflict.
type Booking struct {
	ID          int64
	CampID      int64
	UserID      int64
	OrderID     int64
	Token       string
	StartDate   time.Time
	EndDate     time.Time
	Guests      int
	Nights      int
	TotalTugrik int64
	Status      BookingStatus
	Email       string
	ExpiresAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type DateRange struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// Overlaps reports whether the half-open ranges [aStart, aEnd) and
// [bStart, bEnd) share at least one night.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Nights returns the number of chargeable nights in [start, end).
func Nights(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

// ParseDate parses a YYYY-MM-DD wire date to UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	return t, nil
}

// BookingSubtotal is nights * price per night in whole tögrög.
func BookingSubtotal(nights int, pricePerNight int64) int64 {
	return int64(nights) * pricePerNight
}

// ServiceFee applies the configured fee percent, rounded down to a whole tögrög.
func ServiceFee(subtotal int64, percent int) int64 {
	return subtotal * int64(percent) / 100
}
