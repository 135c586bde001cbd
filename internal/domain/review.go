package domain

import "time"

type Review struct {
	ID        int64
	CampID    int64
	UserID    int64
	UserName  string
	Rating    int
	Comment   string
	CreatedAt time.Time
}
