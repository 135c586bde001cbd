package email

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/malchincamp/campbooking/internal/kafka"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSender_HandleOrder(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sender := NewSender(zap.New(core))

	event := kafka.OrderEvent{
		Type:        kafka.EventOrderCreated,
		Number:      "MC-1A2B3C4D",
		UserID:      11,
		Email:       "guest@example.com",
		TotalTugrik: 264000,
		ItemCount:   1,
	}
	payload, err := json.Marshal(event)
	assert.NoError(t, err)

	assert.NoError(t, sender.HandleOrder(context.Background(), payload))

	entries := logs.FilterMessage("send order email").All()
	assert.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "guest@example.com", fields["to"])
	assert.Equal(t, "MC-1A2B3C4D", fields["number"])
	assert.Equal(t, int64(264000), fields["total_tugrik"])
}

func TestSender_HandleBooking(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sender := NewSender(zap.New(core))

	event := kafka.BookingEvent{
		Type:      kafka.EventBookingConfirmed,
		Token:     "tok-1",
		CampID:    3,
		StartDate: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		Email:     "guest@example.com",
	}
	payload, err := json.Marshal(event)
	assert.NoError(t, err)

	assert.NoError(t, sender.HandleBooking(context.Background(), payload))

	entries := logs.FilterMessage("send booking email").All()
	assert.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "guest@example.com", fields["to"])
	assert.Equal(t, kafka.EventBookingConfirmed, fields["type"])
	assert.Equal(t, int64(3), fields["camp_id"])
}

func TestSender_HandleOrder_BadPayload(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sender := NewSender(zap.New(core))

	// a bad message is skipped, not fatal to the consume loop
	assert.NoError(t, sender.HandleOrder(context.Background(), []byte("not json")))

	assert.Empty(t, logs.FilterMessage("send order email").All())
	assert.Len(t, logs.FilterMessage("decode order event").All(), 1)
}

func TestSender_HandleBooking_BadPayload(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sender := NewSender(zap.New(core))

	assert.NoError(t, sender.HandleBooking(context.Background(), []byte("{")))

	assert.Empty(t, logs.FilterMessage("send booking email").All())
	assert.Len(t, logs.FilterMessage("decode booking event").All(), 1)
}
