package kafka

import "time"

const (
	EventBookingCreated   = "booking_created"
	EventBookingConfirmed = "booking_confirmed"
	EventBookingCancelled = "booking_cancelled"
	EventBookingCompleted = "booking_completed"
	EventOrderCreated     = "order_created"
)

type BookingEvent struct {
	Type        string    `json:"type"`
	Token       string    `json:"token"`
	CampID      int64     `json:"camp_id"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Guests      int       `json:"guests"`
	TotalTugrik int64     `json:"total_tugrik"`
	Email       string    `json:"email"`
	Status      string    `json:"status"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type OrderEvent struct {
	Type        string `json:"type"`
	Number      string `json:"number"`
	UserID      int64  `json:"user_id"`
	Email       string `json:"email"`
	TotalTugrik int64  `json:"total_tugrik"`
	ItemCount   int    `json:"item_count"`
}
