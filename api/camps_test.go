package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/malchincamp/campbooking/internal/domain"
	"github.com/malchincamp/campbooking/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockCampUseCase struct {
	mock.Mock
}

func (m *MockCampUseCase) List(ctx context.Context, filter repository.CampFilter) ([]domain.Camp, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Camp), args.Error(1)
}

func (m *MockCampUseCase) GetByID(ctx context.Context, id int64) (*domain.Camp, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Camp), args.Error(1)
}

func (m *MockCampUseCase) Create(ctx context.Context, actor *domain.User, camp *domain.Camp) error {
	args := m.Called(ctx, actor, camp)
	return args.Error(0)
}

func (m *MockCampUseCase) Update(ctx context.Context, actor *domain.User, camp *domain.Camp) error {
	args := m.Called(ctx, actor, camp)
	return args.Error(0)
}

func (m *MockCampUseCase) Delete(ctx context.Context, actor *domain.User, id int64) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

type MockSavedCampRepository struct {
	mock.Mock
}

func (m *MockSavedCampRepository) Save(ctx context.Context, userID, campID int64) error {
	args := m.Called(ctx, userID, campID)
	return args.Error(0)
}

func (m *MockSavedCampRepository) Unsave(ctx context.Context, userID, campID int64) error {
	args := m.Called(ctx, userID, campID)
	return args.Error(0)
}

func (m *MockSavedCampRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Camp, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Camp), args.Error(1)
}

func TestCampHandler_list(t *testing.T) {
	mockService := &MockCampUseCase{}
	handler := NewCampHandler(mockService, nil, nil)

	c, w := testContext(t)
	c.Request = httptest.NewRequest("GET", "/camps?province=Tuv&first=10", nil)

	camps := []domain.Camp{
		{ID: 1, Name: "Terelj Ger Camp", Province: "Tuv", PricePerNight: 120000, Capacity: 4},
		{ID: 2, Name: "Khustai View", Province: "Tuv", PricePerNight: 90000, Capacity: 2},
	}
	mockService.On("List", c.Request.Context(), repository.CampFilter{Province: "Tuv", First: 10}).Return(camps, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response campListResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response.Camps, 2)
	assert.Equal(t, int64(2), response.NextCursor)

	mockService.AssertExpectations(t)
}

func TestCampHandler_get_NotFound(t *testing.T) {
	mockService := &MockCampUseCase{}
	handler := NewCampHandler(mockService, nil, nil)

	c, w := testContext(t)
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	c.Request = httptest.NewRequest("GET", "/camps/42", nil)

	mockService.On("GetByID", c.Request.Context(), int64(42)).Return(nil, domain.ErrNotFound)

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockService.AssertExpectations(t)
}

func TestCampHandler_get_BadID(t *testing.T) {
	handler := NewCampHandler(nil, nil, nil)

	c, w := testContext(t)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	c.Request = httptest.NewRequest("GET", "/camps/abc", nil)

	handler.get(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCampHandler_availability(t *testing.T) {
	mockBookings := &MockBookingUseCase{}
	handler := NewCampHandler(nil, mockBookings, nil)

	c, w := testContext(t)
	c.Params = gin.Params{{Key: "id", Value: "3"}}
	c.Request = httptest.NewRequest("GET", "/camps/3/availability", nil)

	start, _ := domain.ParseDate("2026-09-10")
	end, _ := domain.ParseDate("2026-09-12")
	ranges := []domain.DateRange{{StartDate: start, EndDate: end}}

	mockBookings.On("Availability", c.Request.Context(), int64(3)).Return(ranges, nil)

	handler.availability(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response availabilityResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), response.CampID)
	assert.Len(t, response.Booked, 1)
	assert.Equal(t, "2026-09-10", response.Booked[0].StartDate)
	assert.Equal(t, "2026-09-12", response.Booked[0].EndDate)

	mockBookings.AssertExpectations(t)
}

func TestCampHandler_create(t *testing.T) {
	mockService := &MockCampUseCase{}
	handler := NewCampHandler(mockService, nil, nil)

	c, w := testContext(t)

	body, _ := json.Marshal(campRequest{
		Name:          "Terelj Ger Camp",
		Province:      "Tuv",
		PricePerNight: 120000,
		Capacity:      4,
		Amenities:     []string{"wifi", "shower"},
	})
	c.Request = httptest.NewRequest("POST", "/camps", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	herder := &domain.User{ID: 5, Role: domain.RoleHerder}
	c.Set(userContextKey, herder)

	mockService.On("Create", c.Request.Context(), herder, mock.AnythingOfType("*domain.Camp")).Return(nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response campResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "Terelj Ger Camp", response.Name)
	assert.Equal(t, []string{"wifi", "shower"}, response.Amenities)

	mockService.AssertExpectations(t)
}

func TestCampHandler_delete_HasBookings(t *testing.T) {
	mockService := &MockCampUseCase{}
	handler := NewCampHandler(mockService, nil, nil)

	c, w := testContext(t)
	c.Params = gin.Params{{Key: "id", Value: "3"}}
	c.Request = httptest.NewRequest("DELETE", "/camps/3", nil)

	herder := &domain.User{ID: 5, Role: domain.RoleHerder}
	c.Set(userContextKey, herder)

	mockService.On("Delete", c.Request.Context(), herder, int64(3)).Return(domain.ErrHasBookings)

	handler.delete(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockService.AssertExpectations(t)
}

func TestCampHandler_save(t *testing.T) {
	mockService := &MockCampUseCase{}
	mockSaved := &MockSavedCampRepository{}
	handler := NewCampHandler(mockService, nil, mockSaved)

	c, w := testContext(t)
	c.Params = gin.Params{{Key: "id", Value: "3"}}
	c.Request = httptest.NewRequest("PUT", "/camps/3/save", nil)
	c.Set(userContextKey, &domain.User{ID: 11})

	camp := &domain.Camp{ID: 3, Name: "Terelj Ger Camp"}
	mockService.On("GetByID", c.Request.Context(), int64(3)).Return(camp, nil)
	mockSaved.On("Save", c.Request.Context(), int64(11), int64(3)).Return(nil)

	handler.save(c)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockService.AssertExpectations(t)
	mockSaved.AssertExpectations(t)
}

func TestCampHandler_savedCamps(t *testing.T) {
	mockSaved := &MockSavedCampRepository{}
	handler := NewCampHandler(nil, nil, mockSaved)

	c, w := testContext(t)
	c.Request = httptest.NewRequest("GET", "/me/saved", nil)
	c.Set(userContextKey, &domain.User{ID: 11})

	camps := []domain.Camp{{ID: 3, Name: "Terelj Ger Camp"}}
	mockSaved.On("ListByUser", c.Request.Context(), int64(11)).Return(camps, nil)

	handler.SavedCamps(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []campResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 1)

	mockSaved.AssertExpectations(t)
}
