package slots

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Karavaev93/campusparking/internal/auth"
	"github.com/Karavaev93/campusparking/internal/domain"
)

type MockSlotRepository struct {
	mock.Mock
}

func (m *MockSlotRepository) List(ctx context.Context, zone string) ([]domain.Slot, error) {
	args := m.Called(ctx, zone)
	return args.Get(0).([]domain.Slot), args.Error(1)
}

func (m *MockSlotRepository) GetByID(ctx context.Context, id string) (*domain.Slot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Slot), args.Error(1)
}

func (m *MockSlotRepository) Create(ctx context.Context, slot *domain.Slot) error {
	args := m.Called(ctx, slot)
	return args.Error(0)
}

func (m *MockSlotRepository) UpdatePrice(ctx context.Context, id string, priceCents int64) (*domain.Slot, error) {
	args := m.Called(ctx, id, priceCents)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Slot), args.Error(1)
}

func (m *MockSlotRepository) StatusCounts(ctx context.Context) (map[domain.SlotStatus]int, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[domain.SlotStatus]int), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetSlots(ctx context.Context) ([]domain.Slot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Slot), args.Error(1)
}

func (m *MockCache) SetSlots(ctx context.Context, slots []domain.Slot) error {
	args := m.Called(ctx, slots)
	return args.Error(0)
}

func (m *MockCache) InvalidateSlots(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var (
	userSess  = auth.Session{UserID: "user-1", Role: domain.RoleUser}
	adminSess = auth.Session{UserID: "admin-1", Role: domain.RoleAdmin}
)

func TestSlotService_List_CacheHit(t *testing.T) {
	mockRepo := &MockSlotRepository{}
	mockCache := &MockCache{}
	service := NewSlotService(mockRepo, mockCache)

	ctx := context.Background()
	cached := []domain.Slot{{ID: "slot-1", SlotNumber: "A1", Zone: "A", PriceCents: 200, Status: domain.SlotStatusAvailable}}
	mockCache.On("GetSlots", ctx).Return(cached, nil).Once()

	slots, err := service.List(ctx, "")

	assert.NoError(t, err)
	assert.Len(t, slots, 1)
	mockRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestSlotService_List_CacheMissFillsCache(t *testing.T) {
	mockRepo := &MockSlotRepository{}
	mockCache := &MockCache{}
	service := NewSlotService(mockRepo, mockCache)

	ctx := context.Background()
	stored := []domain.Slot{
		{ID: "slot-1", SlotNumber: "A1", Zone: "A"},
		{ID: "slot-2", SlotNumber: "B1", Zone: "B"},
	}
	mockCache.On("GetSlots", ctx).Return(nil, nil).Once()
	mockRepo.On("List", ctx, "").Return(stored, nil).Once()
	mockCache.On("SetSlots", ctx, stored).Return(nil).Once()

	slots, err := service.List(ctx, "")

	assert.NoError(t, err)
	assert.Len(t, slots, 2)
	mockCache.AssertExpectations(t)
}

func TestSlotService_List_ZoneFilterBypassesCache(t *testing.T) {
	mockRepo := &MockSlotRepository{}
	mockCache := &MockCache{}
	service := NewSlotService(mockRepo, mockCache)

	ctx := context.Background()
	zoneA := []domain.Slot{{ID: "slot-1", SlotNumber: "A1", Zone: "A"}}
	mockRepo.On("List", ctx, "A").Return(zoneA, nil).Once()

	slots, err := service.List(ctx, "A")

	assert.NoError(t, err)
	assert.Len(t, slots, 1)
	mockCache.AssertNotCalled(t, "GetSlots", mock.Anything)
	mockCache.AssertNotCalled(t, "SetSlots", mock.Anything, mock.Anything)
}

func TestSlotService_Add_AdminSuccess(t *testing.T) {
	mockRepo := &MockSlotRepository{}
	mockCache := &MockCache{}
	service := NewSlotService(mockRepo, mockCache)

	ctx := context.Background()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Slot")).Return(nil).Once()
	mockCache.On("InvalidateSlots", ctx).Return(nil).Once()

	slot, err := service.Add(ctx, adminSess, AddSlotInput{SlotNumber: "D1", Zone: "D", PriceCents: 250})

	assert.NoError(t, err)
	assert.NotEmpty(t, slot.ID)
	assert.Equal(t, "D1", slot.SlotNumber)
	assert.Equal(t, int64(250), slot.PriceCents)
	mockRepo.AssertExpectations(t)
}

func TestSlotService_Add_ForbiddenForUser(t *testing.T) {
	mockRepo := &MockSlotRepository{}
	service := NewSlotService(mockRepo, &MockCache{})

	slot, err := service.Add(context.Background(), userSess, AddSlotInput{SlotNumber: "D1", Zone: "D", PriceCents: 250})

	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Nil(t, slot)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSlotService_UpdatePrice_AdminSuccess(t *testing.T) {
	mockRepo := &MockSlotRepository{}
	mockCache := &MockCache{}
	service := NewSlotService(mockRepo, mockCache)

	ctx := context.Background()
	updated := &domain.Slot{ID: "slot-1", SlotNumber: "A1", Zone: "A", PriceCents: 300}
	mockRepo.On("UpdatePrice", ctx, "slot-1", int64(300)).Return(updated, nil).Once()
	mockCache.On("InvalidateSlots", ctx).Return(nil).Once()

	slot, err := service.UpdatePrice(ctx, adminSess, "slot-1", 300)

	assert.NoError(t, err)
	assert.Equal(t, int64(300), slot.PriceCents)
}

func TestSlotService_UpdatePrice_ForbiddenForUser(t *testing.T) {
	service := NewSlotService(&MockSlotRepository{}, &MockCache{})

	slot, err := service.UpdatePrice(context.Background(), userSess, "slot-1", 300)

	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Nil(t, slot)
}

func TestSlotService_UpdatePrice_NotFound(t *testing.T) {
	mockRepo := &MockSlotRepository{}
	service := NewSlotService(mockRepo, &MockCache{})

	ctx := context.Background()
	mockRepo.On("UpdatePrice", ctx, "missing", int64(300)).Return(nil, domain.ErrNotFound).Once()

	slot, err := service.UpdatePrice(ctx, adminSess, "missing", 300)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, slot)
}

func TestSlotService_List_RepoError(t *testing.T) {
	mockRepo := &MockSlotRepository{}
	service := NewSlotService(mockRepo, nil)

	ctx := context.Background()
	mockRepo.On("List", ctx, "").Return([]domain.Slot(nil), errors.New("db down")).Once()

	slots, err := service.List(ctx, "")

	assert.Error(t, err)
	assert.Nil(t, slots)
}
