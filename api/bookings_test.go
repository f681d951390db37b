package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Karavaev93/campusparking/internal/auth"
	"github.com/Karavaev93/campusparking/internal/domain"
	"github.com/Karavaev93/campusparking/internal/service/bookings"
)

// MockBookingUseCase is a mock implementation of bookings.BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) Create(ctx context.Context, sess auth.Session, slotID string) (*domain.Booking, error) {
	args := m.Called(ctx, sess, slotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CheckIn(ctx context.Context, sess auth.Session, bookingID string) (*domain.Booking, error) {
	args := m.Called(ctx, sess, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CheckOut(ctx context.Context, sess auth.Session, bookingID string) (*domain.Booking, error) {
	args := m.Called(ctx, sess, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) Cancel(ctx context.Context, sess auth.Session, bookingID string) (*domain.Booking, error) {
	args := m.Called(ctx, sess, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) List(ctx context.Context, sess auth.Session) ([]domain.BookingWithSlot, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BookingWithSlot), args.Error(1)
}

func (m *MockBookingUseCase) Active(ctx context.Context, sess auth.Session) (*domain.Booking, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) Summary(ctx context.Context, sess auth.Session) (*bookings.Summary, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookings.Summary), args.Error(1)
}

var testSession = auth.Session{UserID: "user-1", Email: "student@campus.edu", Role: domain.RoleUser}

func newBookingTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(sessionKey, testSession)
	return c, w
}

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newBookingTestContext(t)

	body, _ := json.Marshal(createBookingRequest{SlotID: "slot-1"})
	c.Request = httptest.NewRequest("POST", "/api/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	booking := &domain.Booking{
		ID:       "booking-1",
		UserID:   "user-1",
		SlotID:   "slot-1",
		Status:   domain.BookingStatusBooked,
		BookedAt: time.Now(),
	}

	mockService.On("Create", c.Request.Context(), testSession, "slot-1").Return(booking, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "booking-1", response.ID)
	assert.Equal(t, string(domain.BookingStatusBooked), response.Status)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_createMissingSlot(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newBookingTestContext(t)

	c.Request = httptest.NewRequest("POST", "/api/bookings", bytes.NewReader([]byte(`{}`)))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Create")
}

func TestBookingHandler_createConflict(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newBookingTestContext(t)

	body, _ := json.Marshal(createBookingRequest{SlotID: "slot-1"})
	c.Request = httptest.NewRequest("POST", "/api/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Create", c.Request.Context(), testSession, "slot-1").Return(nil, domain.ErrConflict)

	handler.create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_checkIn(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newBookingTestContext(t)

	now := time.Now()
	c.Params = gin.Params{{Key: "id", Value: "booking-1"}}
	c.Request = httptest.NewRequest("POST", "/api/bookings/booking-1/check-in", nil)

	booking := &domain.Booking{
		ID:          "booking-1",
		UserID:      "user-1",
		SlotID:      "slot-1",
		Status:      domain.BookingStatusCheckedIn,
		BookedAt:    now,
		CheckedInAt: &now,
	}

	mockService.On("CheckIn", c.Request.Context(), testSession, "booking-1").Return(booking, nil)

	handler.checkIn(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, string(domain.BookingStatusCheckedIn), response.Status)
	assert.NotEmpty(t, response.CheckedInAt)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_checkInForbidden(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newBookingTestContext(t)

	c.Params = gin.Params{{Key: "id", Value: "booking-1"}}
	c.Request = httptest.NewRequest("POST", "/api/bookings/booking-1/check-in", nil)

	mockService.On("CheckIn", c.Request.Context(), testSession, "booking-1").Return(nil, domain.ErrForbidden)

	handler.checkIn(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_checkOut(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newBookingTestContext(t)

	in := time.Now().Add(-90 * time.Minute)
	out := time.Now()
	total := int64(400)
	c.Params = gin.Params{{Key: "id", Value: "booking-1"}}
	c.Request = httptest.NewRequest("POST", "/api/bookings/booking-1/check-out", nil)

	booking := &domain.Booking{
		ID:           "booking-1",
		UserID:       "user-1",
		SlotID:       "slot-1",
		Status:       domain.BookingStatusCompleted,
		BookedAt:     in,
		CheckedInAt:  &in,
		CheckedOutAt: &out,
		TotalCents:   &total,
	}

	mockService.On("CheckOut", c.Request.Context(), testSession, "booking-1").Return(booking, nil)

	handler.checkOut(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, string(domain.BookingStatusCompleted), response.Status)
	assert.NotNil(t, response.TotalCents)
	assert.Equal(t, int64(400), *response.TotalCents)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_cancel(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newBookingTestContext(t)

	c.Params = gin.Params{{Key: "id", Value: "booking-1"}}
	c.Request = httptest.NewRequest("POST", "/api/bookings/booking-1/cancel", nil)

	booking := &domain.Booking{
		ID:       "booking-1",
		UserID:   "user-1",
		SlotID:   "slot-1",
		Status:   domain.BookingStatusCancelled,
		BookedAt: time.Now(),
	}

	mockService.On("Cancel", c.Request.Context(), testSession, "booking-1").Return(booking, nil)

	handler.cancel(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, string(domain.BookingStatusCancelled), response.Status)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_cancelNotFound(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newBookingTestContext(t)

	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	c.Request = httptest.NewRequest("POST", "/api/bookings/missing/cancel", nil)

	mockService.On("Cancel", c.Request.Context(), testSession, "missing").Return(nil, domain.ErrNotFound)

	handler.cancel(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_list(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newBookingTestContext(t)
	c.Request = httptest.NewRequest("GET", "/api/bookings", nil)

	list := []domain.BookingWithSlot{
		{
			Booking: domain.Booking{
				ID:       "booking-1",
				UserID:   "user-1",
				SlotID:   "slot-1",
				Status:   domain.BookingStatusBooked,
				BookedAt: time.Now(),
			},
			SlotNumber:     "A-12",
			Zone:           "North",
			SlotPriceCents: 200,
		},
	}

	mockService.On("List", c.Request.Context(), testSession).Return(list, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []bookingWithSlotResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 1)
	assert.Equal(t, "A-12", response[0].SlotNumber)
	assert.Equal(t, int64(200), response[0].SlotPriceCents)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_activeNone(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newBookingTestContext(t)
	c.Request = httptest.NewRequest("GET", "/api/bookings/active", nil)

	mockService.On("Active", c.Request.Context(), testSession).Return(nil, nil)

	handler.active(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())

	mockService.AssertExpectations(t)
}
