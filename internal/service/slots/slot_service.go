package slots

import (
	"context"

	"github.com/google/uuid"

	"github.com/Karavaev93/campusparking/internal/auth"
	"github.com/Karavaev93/campusparking/internal/domain"
	"github.com/Karavaev93/campusparking/internal/repository"
)

type SlotUseCase interface {
	List(ctx context.Context, zone string) ([]domain.Slot, error)
	GetByID(ctx context.Context, id string) (*domain.Slot, error)
	Add(ctx context.Context, sess auth.Session, input AddSlotInput) (*domain.Slot, error)
	UpdatePrice(ctx context.Context, sess auth.Session, id string, priceCents int64) (*domain.Slot, error)
}

type Cache interface {
	GetSlots(ctx context.Context) ([]domain.Slot, error)
	SetSlots(ctx context.Context, slots []domain.Slot) error
	InvalidateSlots(ctx context.Context) error
}

type AddSlotInput struct {
	SlotNumber string
	Zone       string
	PriceCents int64
}

type SlotService struct {
	repo  repository.SlotRepository
	cache Cache
}

func NewSlotService(repo repository.SlotRepository, cache Cache) *SlotService {
	return &SlotService{repo: repo, cache: cache}
}

// List serves the slot grid. The unfiltered listing is read through the
// cache; zone-filtered queries go straight to the store.
func (s *SlotService) List(ctx context.Context, zone string) ([]domain.Slot, error) {
	if zone == "" && s.cache != nil {
		if cached, err := s.cache.GetSlots(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	slots, err := s.repo.List(ctx, zone)
	if err != nil {
		return nil, err
	}
	if zone == "" && s.cache != nil {
		_ = s.cache.SetSlots(ctx, slots)
	}
	return slots, nil
}

func (s *SlotService) GetByID(ctx context.Context, id string) (*domain.Slot, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *SlotService) Add(ctx context.Context, sess auth.Session, input AddSlotInput) (*domain.Slot, error) {
	if !domain.Can(sess.Role, domain.ActionManageSlots) {
		return nil, domain.ErrForbidden
	}

	slot := &domain.Slot{
		ID:         uuid.NewString(),
		SlotNumber: input.SlotNumber,
		Zone:       input.Zone,
		PriceCents: input.PriceCents,
	}
	if err := s.repo.Create(ctx, slot); err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateSlots(ctx)
	}
	return slot, nil
}

// UpdatePrice changes the hourly rate for future checkouts only; charges
// already written stay as they are.
func (s *SlotService) UpdatePrice(ctx context.Context, sess auth.Session, id string, priceCents int64) (*domain.Slot, error) {
	if !domain.Can(sess.Role, domain.ActionManageSlots) {
		return nil, domain.ErrForbidden
	}

	slot, err := s.repo.UpdatePrice(ctx, id, priceCents)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateSlots(ctx)
	}
	return slot, nil
}

var _ SlotUseCase = (*SlotService)(nil)
