package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/malchincamp/campbooking/internal/domain"
	"github.com/malchincamp/campbooking/internal/kafka"
	"github.com/malchincamp/campbooking/internal/repository"
	"go.uber.org/zap"
)

type CheckoutUseCase interface {
	GetCart(ctx context.Context, userID int64) (*domain.Cart, error)
	AddProduct(ctx context.Context, userID, productID int64, quantity int) (*domain.Cart, error)
	RemoveProduct(ctx context.Context, userID, productID int64) (*domain.Cart, error)
	AddBooking(ctx context.Context, userID int64, input AddBookingInput) (*domain.Cart, error)
	RemoveBooking(ctx context.Context, userID, campID int64, start, end time.Time) (*domain.Cart, error)
	ClearCart(ctx context.Context, userID int64) error
	Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, []domain.StockShortage, error)
}

type CartStore interface {
	GetCart(ctx context.Context, userID int64) (*domain.Cart, error)
	SetCart(ctx context.Context, userID int64, cart *domain.Cart) error
	DeleteCart(ctx context.Context, userID int64) error
	ClaimCheckoutKey(ctx context.Context, userID int64, key string) (bool, error)
	ReleaseCheckoutKey(ctx context.Context, userID int64, key string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type AddBookingInput struct {
	CampID    int64
	StartDate time.Time
	EndDate   time.Time
	Guests    int
}

type CheckoutInput struct {
	UserID         int64
	Email          string
	IdempotencyKey string
}

type CheckoutResult struct {
	Order    *domain.Order
	Invoice  *domain.Invoice
	Bookings []*domain.Booking
}

type CheckoutService struct {
	store        CartStore
	products     repository.ProductRepository
	camps        repository.CampRepository
	orders       repository.OrderRepository
	producer     Producer
	log          *zap.Logger
	orderTopic   string
	bookingTopic string
	feePercent   int
}

func NewCheckoutService(
	log *zap.Logger,
	store CartStore,
	products repository.ProductRepository,
	camps repository.CampRepository,
	orders repository.OrderRepository,
	producer Producer,
	orderTopic, bookingTopic string,
	feePercent int,
) *CheckoutService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CheckoutService{
		store:        store,
		products:     products,
		camps:        camps,
		orders:       orders,
		producer:     producer,
		log:          log,
		orderTopic:   orderTopic,
		bookingTopic: bookingTopic,
		feePercent:   feePercent,
	}
}

func (s *CheckoutService) GetCart(ctx context.Context, userID int64) (*domain.Cart, error) {
	return s.store.GetCart(ctx, userID)
}

func (s *CheckoutService) AddProduct(ctx context.Context, userID, productID int64, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Stock < quantity {
		return nil, domain.ErrOutOfStock
	}

	cart, err := s.store.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.AddProduct(domain.ProductLine{
		ProductID:   product.ID,
		Name:        product.Name,
		PriceTugrik: product.PriceTugrik,
		Quantity:    quantity,
	})
	if err := s.store.SetCart(ctx, userID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CheckoutService) RemoveProduct(ctx context.Context, userID, productID int64) (*domain.Cart, error) {
	cart, err := s.store.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.RemoveProduct(productID)
	if err := s.store.SetCart(ctx, userID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func validateIntentDates(start, end time.Time) error {
	if !end.After(start) {
		return fmt.Errorf("%w: check-out must be after check-in", domain.ErrInvalidInput)
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if start.Before(today) {
		return fmt.Errorf("%w: check-in is in the past", domain.ErrInvalidInput)
	}
	return nil
}

func (s *CheckoutService) AddBooking(ctx context.Context, userID int64, input AddBookingInput) (*domain.Cart, error) {
	if err := validateIntentDates(input.StartDate, input.EndDate); err != nil {
		return nil, err
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

	cart, err := s.store.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.AddBooking(domain.BookingIntent{
		CampID:        camp.ID,
		CampName:      camp.Name,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		Guests:        input.Guests,
		PricePerNight: camp.PricePerNight,
	})
	if err := s.store.SetCart(ctx, userID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CheckoutService) RemoveBooking(ctx context.Context, userID, campID int64, start, end time.Time) (*domain.Cart, error) {
	cart, err := s.store.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.RemoveBooking(campID, start, end)
	if err := s.store.SetCart(ctx, userID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CheckoutService) ClearCart(ctx context.Context, userID int64) error {
	return s.store.DeleteCart(ctx, userID)
}

// Checkout turns the cart into an order, an invoice and confirmed bookings in
// one database transaction. Prices come from the catalog at checkout time,
// not from the cart, so a stale cart cannot fix a price.
func (s *CheckoutService) Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, []domain.StockShortage, error) {
	if input.Email == "" {
		return nil, nil, fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}

	cart, err := s.store.GetCart(ctx, input.UserID)
	if err != nil {
		return nil, nil, err
	}
	if cart.IsEmpty() {
		return nil, nil, domain.ErrEmptyCart
	}

	claimed := false
	if input.IdempotencyKey != "" {
		ok, err := s.store.ClaimCheckoutKey(ctx, input.UserID, input.IdempotencyKey)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			return nil, nil, domain.ErrDuplicateCheckout
		}
		claimed = true
	}
	fail := func(err error, shortages []domain.StockShortage) (*CheckoutResult, []domain.StockShortage, error) {
		if claimed {
			_ = s.store.ReleaseCheckoutKey(ctx, input.UserID, input.IdempotencyKey)
		}
		return nil, shortages, err
	}

	order := &domain.Order{
		Number: orderNumber(),
		UserID: input.UserID,
	}
	var subtotal int64
	for _, line := range cart.Products {
		product, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			return fail(err, nil)
		}
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:   product.ID,
			Name:        product.Name,
			PriceTugrik: product.PriceTugrik,
			Quantity:    line.Quantity,
		})
		subtotal += product.PriceTugrik * int64(line.Quantity)
	}

	var bookings []*domain.Booking
	for _, intent := range cart.Bookings {
		// carts can sit around for days, so dates get checked again here
		if err := validateIntentDates(intent.StartDate, intent.EndDate); err != nil {
			return fail(err, nil)
		}
		camp, err := s.camps.GetByID(ctx, intent.CampID)
		if err != nil {
			return fail(err, nil)
		}
		nights := domain.Nights(intent.StartDate, intent.EndDate)
		total := domain.BookingSubtotal(nights, camp.PricePerNight)
		bookings = append(bookings, &domain.Booking{
			CampID:      camp.ID,
			UserID:      input.UserID,
			Token:       uuid.NewString(),
			StartDate:   intent.StartDate,
			EndDate:     intent.EndDate,
			Guests:      intent.Guests,
			Nights:      nights,
			TotalTugrik: total,
			Email:       input.Email,
			ExpiresAt:   time.Now(),
		})
		subtotal += total
	}

	fee := domain.ServiceFee(subtotal, s.feePercent)
	order.SubtotalTugrik = subtotal
	order.FeeTugrik = fee
	order.TotalTugrik = subtotal + fee

	invoice := &domain.Invoice{
		Number:         invoiceNumber(order.Number),
		SubtotalTugrik: subtotal,
		FeeTugrik:      fee,
		TotalTugrik:    subtotal + fee,
	}

	shortages, err := s.orders.CreateCheckout(ctx, order, bookings, invoice)
	if err != nil {
		return fail(err, shortages)
	}

	if err := s.store.DeleteCart(ctx, input.UserID); err != nil {
		s.log.Warn("clear cart after checkout", zap.Int64("user_id", input.UserID), zap.Error(err))
	}
	s.publishEvents(ctx, input.Email, order, bookings)

	return &CheckoutResult{Order: order, Invoice: invoice, Bookings: bookings}, nil, nil
}

func (s *CheckoutService) publishEvents(ctx context.Context, email string, order *domain.Order, bookings []*domain.Booking) {
	if s.producer == nil {
		return
	}
	if s.orderTopic != "" {
		event := kafka.OrderEvent{
			Type:        kafka.EventOrderCreated,
			Number:      order.Number,
			UserID:      order.UserID,
			Email:       email,
			TotalTugrik: order.TotalTugrik,
			ItemCount:   len(order.Items),
		}
		if err := s.producer.Publish(ctx, s.orderTopic, order.Number, event); err != nil {
			s.log.Warn("publish order event", zap.String("number", order.Number), zap.Error(err))
		}
	}
	if s.bookingTopic != "" {
		for _, b := range bookings {
			event := kafka.BookingEvent{
				Type:        kafka.EventBookingCreated,
				Token:       b.Token,
				CampID:      b.CampID,
				StartDate:   b.StartDate,
				EndDate:     b.EndDate,
				Guests:      b.Guests,
				TotalTugrik: b.TotalTugrik,
				Email:       b.Email,
				Status:      string(b.Status),
			}
			if err := s.producer.Publish(ctx, s.bookingTopic, b.Token, event); err != nil {
				s.log.Warn("publish booking event", zap.String("token", b.Token), zap.Error(err))
			}
		}
	}
}

func orderNumber() string {
	return "MC-" + strings.ToUpper(uuid.NewString()[:8])
}

func invoiceNumber(orderNumber string) string {
	return "INV-" + strings.TrimPrefix(orderNumber, "MC-")
}

var _ CheckoutUseCase = (*CheckoutService)(nil)
