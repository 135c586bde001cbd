package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/malchincamp/campbooking/internal/domain"
	"github.com/malchincamp/campbooking/internal/service/checkout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockCheckoutUseCase struct {
	mock.Mock
}

func (m *MockCheckoutUseCase) GetCart(ctx context.Context, userID int64) (*domain.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *MockCheckoutUseCase) AddProduct(ctx context.Context, userID, productID int64, quantity int) (*domain.Cart, error) {
	args := m.Called(ctx, userID, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *MockCheckoutUseCase) RemoveProduct(ctx context.Context, userID, productID int64) (*domain.Cart, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *MockCheckoutUseCase) AddBooking(ctx context.Context, userID int64, input checkout.AddBookingInput) (*domain.Cart, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *MockCheckoutUseCase) RemoveBooking(ctx context.Context, userID, campID int64, start, end time.Time) (*domain.Cart, error) {
	args := m.Called(ctx, userID, campID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *MockCheckoutUseCase) ClearCart(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCheckoutUseCase) Checkout(ctx context.Context, input checkout.CheckoutInput) (*checkout.CheckoutResult, []domain.StockShortage, error) {
	args := m.Called(ctx, input)
	var result *checkout.CheckoutResult
	if args.Get(0) != nil {
		result = args.Get(0).(*checkout.CheckoutResult)
	}
	var shortages []domain.StockShortage
	if args.Get(1) != nil {
		shortages = args.Get(1).([]domain.StockShortage)
	}
	return result, shortages, args.Error(2)
}

func TestCartHandler_get(t *testing.T) {
	mockService := &MockCheckoutUseCase{}
	handler := NewCartHandler(mockService)

	c, w := testContext(t)
	c.Request = httptest.NewRequest("GET", "/cart", nil)
	c.Set(userContextKey, &domain.User{ID: 11})

	cart := domain.NewCart()
	cart.AddProduct(domain.ProductLine{ProductID: 7, Name: "Airag", PriceTugrik: 15000, Quantity: 2})
	mockService.On("GetCart", c.Request.Context(), int64(11)).Return(cart, nil)

	handler.get(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response cartResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response.Products, 1)
	assert.Equal(t, int64(30000), response.SubtotalTugrik)

	mockService.AssertExpectations(t)
}

func TestCartHandler_addProduct(t *testing.T) {
	mockService := &MockCheckoutUseCase{}
	handler := NewCartHandler(mockService)

	c, w := testContext(t)

	body, _ := json.Marshal(addProductRequest{ProductID: 7, Quantity: 2})
	c.Request = httptest.NewRequest("POST", "/cart/products", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(userContextKey, &domain.User{ID: 11})

	cart := domain.NewCart()
	cart.AddProduct(domain.ProductLine{ProductID: 7, Name: "Airag", PriceTugrik: 15000, Quantity: 2})
	mockService.On("AddProduct", c.Request.Context(), int64(11), int64(7), 2).Return(cart, nil)

	handler.addProduct(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestCartHandler_addBooking(t *testing.T) {
	mockService := &MockCheckoutUseCase{}
	handler := NewCartHandler(mockService)

	c, w := testContext(t)

	body, _ := json.Marshal(addBookingRequest{CampID: 3, StartDate: "2026-09-10", EndDate: "2026-09-12", Guests: 2})
	c.Request = httptest.NewRequest("POST", "/cart/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(userContextKey, &domain.User{ID: 11})

	start, _ := domain.ParseDate("2026-09-10")
	end, _ := domain.ParseDate("2026-09-12")

	cart := domain.NewCart()
	cart.AddBooking(domain.BookingIntent{CampID: 3, CampName: "Terelj Ger Camp", StartDate: start, EndDate: end, Guests: 2, PricePerNight: 120000})

	mockService.On("AddBooking", c.Request.Context(), int64(11), checkout.AddBookingInput{
		CampID: 3, StartDate: start, EndDate: end, Guests: 2,
	}).Return(cart, nil)

	handler.addBooking(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response cartResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response.Bookings, 1)
	assert.Equal(t, 2, response.Bookings[0].Nights)
	assert.Equal(t, int64(240000), response.SubtotalTugrik)

	mockService.AssertExpectations(t)
}

func TestCartHandler_checkout(t *testing.T) {
	mockService := &MockCheckoutUseCase{}
	handler := NewCartHandler(mockService)

	c, w := testContext(t)

	body, _ := json.Marshal(checkoutRequest{IdempotencyKey: "key-1"})
	c.Request = httptest.NewRequest("POST", "/cart/checkout", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(userContextKey, &domain.User{ID: 11, Email: "guest@example.com"})

	result := &checkout.CheckoutResult{
		Order: &domain.Order{
			Number: "MC-1A2B3C4D", SubtotalTugrik: 240000, FeeTugrik: 24000, TotalTugrik: 264000,
		},
		Invoice: &domain.Invoice{Number: "INV-1A2B3C4D", TotalTugrik: 264000},
		Bookings: []*domain.Booking{
			{Token: "token123", CampID: 3, Status: domain.BookingStatusConfirmed, TotalTugrik: 240000},
		},
	}

	mockService.On("Checkout", c.Request.Context(), checkout.CheckoutInput{
		UserID: 11, Email: "guest@example.com", IdempotencyKey: "key-1",
	}).Return(result, nil, nil)

	handler.checkout(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response checkoutResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "MC-1A2B3C4D", response.OrderNumber)
	assert.Equal(t, "INV-1A2B3C4D", response.InvoiceNumber)
	assert.Equal(t, int64(264000), response.TotalTugrik)
	assert.Len(t, response.Bookings, 1)

	mockService.AssertExpectations(t)
}

func TestCartHandler_checkout_StockShortage(t *testing.T) {
	mockService := &MockCheckoutUseCase{}
	handler := NewCartHandler(mockService)

	c, w := testContext(t)

	body, _ := json.Marshal(checkoutRequest{})
	c.Request = httptest.NewRequest("POST", "/cart/checkout", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(userContextKey, &domain.User{ID: 11, Email: "guest@example.com"})

	shortages := []domain.StockShortage{{ProductID: 7, Required: 5, Available: 2}}
	mockService.On("Checkout", c.Request.Context(), mock.Anything).Return(nil, shortages, domain.ErrOutOfStock)

	handler.checkout(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "shortages")

	mockService.AssertExpectations(t)
}

func TestCartHandler_checkout_EmptyCart(t *testing.T) {
	mockService := &MockCheckoutUseCase{}
	handler := NewCartHandler(mockService)

	c, w := testContext(t)

	body, _ := json.Marshal(checkoutRequest{})
	c.Request = httptest.NewRequest("POST", "/cart/checkout", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(userContextKey, &domain.User{ID: 11, Email: "guest@example.com"})

	mockService.On("Checkout", c.Request.Context(), mock.Anything).Return(nil, nil, domain.ErrEmptyCart)

	handler.checkout(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertExpectations(t)
}
