package domain

import (
	"encoding/json"
	"time"
)

const CartVersion = 1

// Cart is the server-side replacement for the old browser-stored cart blobs.
// Product lines merge by product id; a booking intent is unique per
// (camp id, start date, end date) so the same camp with different dates is a
// separate line.
type Cart struct {
	Version  int             `json:"version"`
	Products []ProductLine   `json:"products"`
	Bookings []BookingIntent `json:"bookings"`
}

type ProductLine struct {
	ProductID   int64  `json:"product_id"`
	Name        string `json:"name"`
	PriceTugrik int64  `json:"price_tugrik"`
	Quantity    int    `json:"quantity"`
}

type BookingIntent struct {
	CampID        int64     `json:"camp_id"`
	CampName      string    `json:"camp_name"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	Guests        int       `json:"guests"`
	PricePerNight int64     `json:"price_per_night"`
}

func NewCart() *Cart {
	return &Cart{Version: CartVersion}
}

// AddProduct merges quantity into an existing line or appends a new one.
func (c *Cart) AddProduct(line ProductLine) {
	for i := range c.Products {
		if c.Products[i].ProductID == line.ProductID {
			c.Products[i].Quantity += line.Quantity
			return
		}
	}
	c.Products = append(c.Products, line)
}

func (c *Cart) RemoveProduct(productID int64) {
	for i := range c.Products {
		if c.Products[i].ProductID == productID {
			c.Products = append(c.Products[:i], c.Products[i+1:]...)
			return
		}
	}
}

// AddBooking is a no-op when an intent for the same camp and dates exists.
func (c *Cart) AddBooking(intent BookingIntent) {
	for _, b := range c.Bookings {
		if b.CampID == intent.CampID && b.StartDate.Equal(intent.StartDate) && b.EndDate.Equal(intent.EndDate) {
			return
		}
	}
	c.Bookings = append(c.Bookings, intent)
}

func (c *Cart) RemoveBooking(campID int64, start, end time.Time) {
	for i, b := range c.Bookings {
		if b.CampID == campID && b.StartDate.Equal(start) && b.EndDate.Equal(end) {
			c.Bookings = append(c.Bookings[:i], c.Bookings[i+1:]...)
			return
		}
	}
}

func (c *Cart) IsEmpty() bool {
	return len(c.Products) == 0 && len(c.Bookings) == 0
}

// Subtotal sums product lines and booking nights in whole tögrög.
func (c *Cart) Subtotal() int64 {
	var total int64
	for _, p := range c.Products {
		total += p.PriceTugrik * int64(p.Quantity)
	}
	for _, b := range c.Bookings {
		total += BookingSubtotal(Nights(b.StartDate, b.EndDate), b.PricePerNight)
	}
	return total
}

// DecodeCart accepts the current versioned payload and the legacy unversioned
// one (a bare product line array, as the old frontend stored it) and always
// returns a v1 cart.
func DecodeCart(data []byte) (*Cart, error) {
	if len(data) == 0 {
		return NewCart(), nil
	}

	var cart Cart
	if err := json.Unmarshal(data, &cart); err == nil && cart.Version >= CartVersion {
		return &cart, nil
	}

	var legacy []ProductLine
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, err
	}
	migrated := NewCart()
	for _, line := range legacy {
		migrated.AddProduct(line)
	}
	return migrated, nil
}

func (c *Cart) Encode() ([]byte, error) {
	c.Version = CartVersion
	return json.Marshal(c)
}
