package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/malchincamp/campbooking/internal/domain"
	"github.com/malchincamp/campbooking/internal/kafka"
	"github.com/malchincamp/campbooking/internal/repository"
	"go.uber.org/zap"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	ConfirmBooking(ctx context.Context, token string) (*domain.Booking, error)
	CancelBooking(ctx context.Context, token string) (*domain.Booking, error)
	Quote(ctx context.Context, input QuoteInput) (*Quote, error)
	Availability(ctx context.Context, campID int64) ([]domain.DateRange, error)
	ListUserBookings(ctx context.Context, userID int64) ([]domain.Booking, error)
	ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error)
	CompleteFinishedBookings(ctx context.Context) ([]domain.Booking, error)
}

type Cache interface {
	AcquireDateLock(ctx context.Context, campID int64, start, end time.Time, ttl time.Duration) (bool, error)
	ReleaseDateLock(ctx context.Context, campID int64, start, end time.Time) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	camps              repository.CampRepository
	cache              Cache
	producer           Producer
	log                *zap.Logger
	bookingTopic       string
	notificationsTopic string
	holdTTL            time.Duration
	feePercent         int
	maxStayNights      int
}

type CreateBookingInput struct {
	CampID    int64
	UserID    int64
	StartDate time.Time
	EndDate   time.Time
	Guests    int
	Email     string
}

type QuoteInput struct {
	CampID    int64
	StartDate time.Time
	EndDate   time.Time
}

type Quote struct {
	CampID         int64 `json:"camp_id"`
	Nights         int   `json:"nights"`
	PricePerNight  int64 `json:"price_per_night"`
	SubtotalTugrik int64 `json:"subtotal_tugrik"`
	FeeTugrik      int64 `json:"fee_tugrik"`
	TotalTugrik    int64 `json:"total_tugrik"`
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithMaxStayNights(nights int) BookingServiceOption {
	return func(s *BookingService) {
		s.maxStayNights = nights
	}
}

func NewBookingService(
	log *zap.Logger,
	bookings repository.BookingRepository,
	camps repository.CampRepository,
	cache Cache,
	producer Producer,
	bookingTopic string,
	holdTTL time.Duration,
	feePercent int,
	opts ...BookingServiceOption,
) *BookingService {
	if log == nil {
		log = zap.NewNop()
	}
	service := &BookingService{
		bookings:     bookings,
		camps:        camps,
		cache:        cache,
		producer:     producer,
		log:          log,
		bookingTopic: bookingTopic,
		holdTTL:      holdTTL,
		feePercent:   feePercent,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) validateDates(start, end time.Time) error {
	if !end.After(start) {
		return fmt.Errorf("%w: check-out must be after check-in", domain.ErrInvalidInput)
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if start.Before(today) {
		return fmt.Errorf("%w: check-in is in the past", domain.ErrInvalidInput)
	}
	if s.maxStayNights > 0 && domain.Nights(start, end) > s.maxStayNights {
		return fmt.Errorf("%w: stay exceeds %d nights", domain.ErrInvalidInput, s.maxStayNights)
	}
	return nil
}

func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if err := s.validateDates(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}
	if input.Email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	if input.Guests <= 0 {
		return nil, fmt.Errorf("%w: guests must be positive", domain.ErrInvalidInput)
	}

	camp, err := s.camps.GetByID(ctx, input.CampID)
	if err != nil {
		return nil, err
	}
	if input.Guests > camp.Capacity {
		return nil, fmt.Errorf("%w: camp sleeps at most %d guests", domain.ErrInvalidInput, camp.Capacity)
	}

	locked := false
	if s.cache != nil {
		ok, err := s.cache.AcquireDateLock(ctx, input.CampID, input.StartDate, input.EndDate, s.holdTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrDateConflict
		}
		locked = true
	}

	nights := domain.Nights(input.StartDate, input.EndDate)
	booking := &domain.Booking{
		CampID:      input.CampID,
		UserID:      input.UserID,
		Token:       uuid.NewString(),
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Guests:      input.Guests,
		Nights:      nights,
		TotalTugrik: domain.BookingSubtotal(nights, camp.PricePerNight),
		Email:       input.Email,
		ExpiresAt:   time.Now().Add(s.holdTTL),
	}

	if err := s.bookings.CreatePending(ctx, booking); err != nil {
		if locked {
			_ = s.cache.ReleaseDateLock(ctx, input.CampID, input.StartDate, input.EndDate)
		}
		return nil, err
	}

	s.publish(ctx, kafka.EventBookingCreated, booking)
	return booking, nil
}

func (s *BookingService) ConfirmBooking(ctx context.Context, token string) (*domain.Booking, error) {
	current, err := s.bookings.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(current.Status, domain.BookingStatusConfirmed) {
		return nil, fmt.Errorf("%w: booking is %s", domain.ErrInvalidInput, current.Status)
	}

	updated, err := s.bookings.UpdateStatus(ctx, token, domain.BookingStatusConfirmed)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, kafka.EventBookingConfirmed, updated)
	s.releaseLock(ctx, updated)
	return updated, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, token string) (*domain.Booking, error) {
	current, err := s.bookings.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.BookingStatusCancelled {
		return current, nil
	}
	if !domain.CanTransition(current.Status, domain.BookingStatusCancelled) {
		return nil, fmt.Errorf("%w: booking is %s", domain.ErrInvalidInput, current.Status)
	}

	updated, err := s.bookings.UpdateStatus(ctx, token, domain.BookingStatusCancelled)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, kafka.EventBookingCancelled, updated)
	s.releaseLock(ctx, updated)
	return updated, nil
}

func (s *BookingService) Quote(ctx context.Context, input QuoteInput) (*Quote, error) {
	if err := s.validateDates(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	camp, err := s.camps.GetByID(ctx, input.CampID)
	if err != nil {
		return nil, err
	}

	nights := domain.Nights(input.StartDate, input.EndDate)
	subtotal := domain.BookingSubtotal(nights, camp.PricePerNight)
	fee := domain.ServiceFee(subtotal, s.feePercent)
	return &Quote{
		CampID:         camp.ID,
		Nights:         nights,
		PricePerNight:  camp.PricePerNight,
		SubtotalTugrik: subtotal,
		FeeTugrik:      fee,
		TotalTugrik:    subtotal + fee,
	}, nil
}

func (s *BookingService) Availability(ctx context.Context, campID int64) ([]domain.DateRange, error) {
	if _, err := s.camps.GetByID(ctx, campID); err != nil {
		return nil, err
	}
	return s.bookings.BookedRanges(ctx, campID)
}

func (s *BookingService) ListUserBookings(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

// ExpirePendingBookings cancels holds whose deadline passed, freeing their
// date ranges for other guests.
func (s *BookingService) ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error) {
	expired, err := s.bookings.CancelPendingBefore(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	for i := range expired {
		s.publish(ctx, kafka.EventBookingCancelled, &expired[i])
		s.releaseLock(ctx, &expired[i])
	}
	return expired, nil
}

// CompleteFinishedBookings marks confirmed stays whose check-out has passed.
func (s *BookingService) CompleteFinishedBookings(ctx context.Context) ([]domain.Booking, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	completed, err := s.bookings.CompleteFinishedBefore(ctx, today)
	if err != nil {
		return nil, err
	}
	for i := range completed {
		s.publish(ctx, kafka.EventBookingCompleted, &completed[i])
	}
	return completed, nil
}

func (s *BookingService) releaseLock(ctx context.Context, b *domain.Booking) {
	if s.cache != nil {
		_ = s.cache.ReleaseDateLock(ctx, b.CampID, b.StartDate, b.EndDate)
	}
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:        eventType,
		Token:       booking.Token,
		CampID:      booking.CampID,
		StartDate:   booking.StartDate,
		EndDate:     booking.EndDate,
		Guests:      booking.Guests,
		TotalTugrik: booking.TotalTugrik,
		Email:       booking.Email,
		Status:      string(booking.Status),
		ExpiresAt:   booking.ExpiresAt,
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.Token, event); err != nil {
		s.log.Warn("publish booking event", zap.String("type", eventType), zap.String("token", booking.Token), zap.Error(err))
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.Token, event); err != nil {
			s.log.Warn("publish notification", zap.String("type", eventType), zap.String("token", booking.Token), zap.Error(err))
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
