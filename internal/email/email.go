package email

import (
	"context"
	"encoding/json"

	"github.com/malchincamp/campbooking/internal/kafka"
	"go.uber.org/zap"
)

// Sender delivers booking and order notifications. The transport is a log
// line until an SMTP provider is configured.
type Sender struct {
	log *zap.Logger
}

func NewSender(log *zap.Logger) *Sender {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sender{log: log}
}

// HandleBooking decodes a notifications topic payload and sends the booking
// email. A malformed payload is logged and skipped so one bad message cannot
// wedge the consumer group.
func (s *Sender) HandleBooking(ctx context.Context, payload []byte) error {
	var event kafka.BookingEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		s.log.Warn("decode booking event", zap.Error(err))
		return nil
	}
	return s.SendBooking(ctx, event)
}

// HandleOrder decodes an order topic payload and sends the order email.
func (s *Sender) HandleOrder(ctx context.Context, payload []byte) error {
	var event kafka.OrderEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		s.log.Warn("decode order event", zap.Error(err))
		return nil
	}
	return s.SendOrder(ctx, event)
}

func (s *Sender) SendBooking(ctx context.Context, event kafka.BookingEvent) error {
	s.log.Info("send booking email",
		zap.String("to", event.Email),
		zap.String("type", event.Type),
		zap.Int64("camp_id", event.CampID),
		zap.Time("start_date", event.StartDate),
		zap.Time("end_date", event.EndDate),
	)
	return nil
}

func (s *Sender) SendOrder(ctx context.Context, event kafka.OrderEvent) error {
	s.log.Info("send order email",
		zap.String("to", event.Email),
		zap.String("number", event.Number),
		zap.Int64("total_tugrik", event.TotalTugrik),
	)
	return nil
}
