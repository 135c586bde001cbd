package domain

import "time"

type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "CREATED"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

type Order struct {
	ID             int64
	Number         string
	UserID         int64
	Status         OrderStatus
	SubtotalTugrik int64
	FeeTugrik      int64
	TotalTugrik    int64
	Items          []OrderItem
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type OrderItem struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	Name        string
	PriceTugrik int64
	Quantity    int
}

// Invoice is the billing record issued at checkout, one per order.
// UserID is denormalized from the order for ownership checks.
type Invoice struct {
	ID             int64
	Number         string
	OrderID        int64
	UserID         int64
	SubtotalTugrik int64
	FeeTugrik      int64
	TotalTugrik    int64
	IssuedAt       time.Time
}

type StockShortage struct {
	ProductID int64 `json:"product_id"`
	Required  int   `json:"required"`
	Available int   `json:"available"`
}
