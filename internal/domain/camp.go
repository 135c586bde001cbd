package domain

import (
	"encoding/json"
	"strings"
	"time"
)

type Camp struct {
	ID            int64
	HerderID      int64
	Name          string
	Slug          string
	Province      string
	Location      string
	PricePerNight int64
	Capacity      int
	Amenities     []string
	Photos        []string
	Description   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ParseAmenities decodes the amenities column. New rows store a JSON array;
// rows migrated from the legacy backend store a comma-separated list.
func ParseAmenities(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var amenities []string
	if err := json.Unmarshal([]byte(raw), &amenities); err == nil {
		return amenities
	}

	for _, part := range strings.Split(raw, ",") {
		if a := strings.TrimSpace(part); a != "" {
			amenities = append(amenities, a)
		}
	}
	return amenities
}

// EncodeAmenities always writes the JSON form.
func EncodeAmenities(amenities []string) string {
	if len(amenities) == 0 {
		return "[]"
	}
	data, _ := json.Marshal(amenities)
	return string(data)
}
