package domain

import "time"

type Product struct {
	ID          int64
	HerderID    int64
	Name        string
	Category    string
	PriceTugrik int64
	Stock       int
	Photo       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
