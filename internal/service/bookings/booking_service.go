package bookings

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Karavaev93/campusparking/internal/auth"
	"github.com/Karavaev93/campusparking/internal/domain"
	"github.com/Karavaev93/campusparking/internal/kafka"
	"github.com/Karavaev93/campusparking/internal/metrics"
	"github.com/Karavaev93/campusparking/internal/repository"
)

type BookingUseCase interface {
	Create(ctx context.Context, sess auth.Session, slotID string) (*domain.Booking, error)
	CheckIn(ctx context.Context, sess auth.Session, bookingID string) (*domain.Booking, error)
	CheckOut(ctx context.Context, sess auth.Session, bookingID string) (*domain.Booking, error)
	Cancel(ctx context.Context, sess auth.Session, bookingID string) (*domain.Booking, error)
	List(ctx context.Context, sess auth.Session) ([]domain.BookingWithSlot, error)
	Active(ctx context.Context, sess auth.Session) (*domain.Booking, error)
	Summary(ctx context.Context, sess auth.Session) (*Summary, error)
}

type Cache interface {
	AcquireSlotHold(ctx context.Context, slotID string, ttl time.Duration) (bool, error)
	ReleaseSlotHold(ctx context.Context, slotID string) error
	InvalidateSlots(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Summary backs the dashboard landing page. RevenueCents is nil unless the
// caller may view revenue.
type Summary struct {
	SlotsTotal        int
	SlotsAvailable    int
	SlotsBooked       int
	SlotsOccupied     int
	ActiveBookings    int
	CompletedBookings int
	RevenueCents      *int64
}

type BookingService struct {
	bookings           repository.BookingRepository
	slots              repository.SlotRepository
	cache              Cache
	producer           Producer
	metrics            *metrics.Metrics
	bookingsTopic      string
	notificationsTopic string
	holdTTL            time.Duration
	now                func() time.Time
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithMetrics(m *metrics.Metrics) BookingServiceOption {
	return func(s *BookingService) {
		s.metrics = m
	}
}

// WithClock overrides the time source, used by billing tests.
func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	slots repository.SlotRepository,
	cache Cache,
	producer Producer,
	bookingsTopic string,
	holdTTL time.Duration,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:      bookings,
		slots:         slots,
		cache:         cache,
		producer:      producer,
		bookingsTopic: bookingsTopic,
		holdTTL:       holdTTL,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) Create(ctx context.Context, sess auth.Session, slotID string) (*domain.Booking, error) {
	if !domain.Can(sess.Role, domain.ActionBookSlot) {
		return nil, domain.ErrForbidden
	}

	held := false
	if s.cache != nil {
		ok, err := s.cache.AcquireSlotHold(ctx, slotID, s.holdTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrConflict
		}
		held = true
	}

	booking := &domain.Booking{
		ID:     uuid.NewString(),
		UserID: sess.UserID,
		SlotID: slotID,
	}

	if err := s.bookings.CreateBooked(ctx, booking); err != nil {
		if held {
			_ = s.cache.ReleaseSlotHold(ctx, slotID)
		}
		s.metrics.TransitionError("create")
		return nil, err
	}
	if held {
		_ = s.cache.ReleaseSlotHold(ctx, slotID)
	}

	s.afterTransition(ctx, "booking_created", booking)
	s.metrics.Transition("create")
	return booking, nil
}

func (s *BookingService) CheckIn(ctx context.Context, sess auth.Session, bookingID string) (*domain.Booking, error) {
	if !domain.Can(sess.Role, domain.ActionCheckIn) {
		return nil, domain.ErrForbidden
	}

	booking, err := s.bookings.CheckIn(ctx, bookingID, s.now())
	if err != nil {
		s.metrics.TransitionError("check_in")
		return nil, err
	}

	s.afterTransition(ctx, "booking_checked_in", booking)
	s.metrics.Transition("check_in")
	return booking, nil
}

func (s *BookingService) CheckOut(ctx context.Context, sess auth.Session, bookingID string) (*domain.Booking, error) {
	if !domain.Can(sess.Role, domain.ActionCheckOut) {
		return nil, domain.ErrForbidden
	}

	booking, err := s.bookings.CheckOut(ctx, bookingID, s.now())
	if err != nil {
		s.metrics.TransitionError("check_out")
		return nil, err
	}

	s.afterTransition(ctx, "booking_completed", booking)
	s.metrics.Transition("check_out")
	return booking, nil
}

func (s *BookingService) Cancel(ctx context.Context, sess auth.Session, bookingID string) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	// A user may cancel their own booking; anyone else needs the
	// cancel-any permission.
	owner := domain.Can(sess.Role, domain.ActionCancelOwn) && current.UserID == sess.UserID
	if !owner && !domain.Can(sess.Role, domain.ActionCancelAny) {
		return nil, domain.ErrForbidden
	}

	booking, err := s.bookings.Cancel(ctx, bookingID)
	if err != nil {
		s.metrics.TransitionError("cancel")
		return nil, err
	}

	s.afterTransition(ctx, "booking_cancelled", booking)
	s.metrics.Transition("cancel")
	return booking, nil
}

func (s *BookingService) List(ctx context.Context, sess auth.Session) ([]domain.BookingWithSlot, error) {
	if domain.Can(sess.Role, domain.ActionViewAllBookings) {
		return s.bookings.ListAll(ctx)
	}
	return s.bookings.ListByUser(ctx, sess.UserID)
}

func (s *BookingService) Active(ctx context.Context, sess auth.Session) (*domain.Booking, error) {
	return s.bookings.ActiveByUser(ctx, sess.UserID)
}

func (s *BookingService) Summary(ctx context.Context, sess auth.Session) (*Summary, error) {
	slotCounts, err := s.slots.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}

	userScope := sess.UserID
	if domain.Can(sess.Role, domain.ActionViewAllBookings) {
		userScope = ""
	}
	bookingCounts, err := s.bookings.CountByStatus(ctx, userScope)
	if err != nil {
		return nil, err
	}

	sum := &Summary{
		SlotsAvailable:    slotCounts[domain.SlotStatusAvailable],
		SlotsBooked:       slotCounts[domain.SlotStatusBooked],
		SlotsOccupied:     slotCounts[domain.SlotStatusOccupied],
		ActiveBookings:    bookingCounts[domain.BookingStatusBooked] + bookingCounts[domain.BookingStatusCheckedIn],
		CompletedBookings: bookingCounts[domain.BookingStatusCompleted],
	}
	sum.SlotsTotal = sum.SlotsAvailable + sum.SlotsBooked + sum.SlotsOccupied

	if domain.Can(sess.Role, domain.ActionViewRevenue) {
		revenue, err := s.bookings.RevenueCents(ctx)
		if err != nil {
			return nil, err
		}
		sum.RevenueCents = &revenue
	}
	return sum, nil
}

// afterTransition publishes the event best-effort and invalidates the slot
// grid cache. Failures here never fail the transition itself.
func (s *BookingService) afterTransition(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.cache != nil {
		_ = s.cache.InvalidateSlots(ctx)
	}
	if err := s.publish(ctx, eventType, booking); err != nil {
		log.Printf("WARNING: failed to publish %s event for booking %s: %v", eventType, booking.ID, err)
	}
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) error {
	if s.producer == nil || s.bookingsTopic == "" {
		return nil
	}
	event := kafka.BookingEvent{
		Type:       eventType,
		BookingID:  booking.ID,
		UserID:     booking.UserID,
		SlotID:     booking.SlotID,
		Status:     string(booking.Status),
		TotalCents: booking.TotalCents,
		OccurredAt: s.now(),
	}
	if err := s.producer.Publish(ctx, s.bookingsTopic, booking.ID, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, booking.ID, event)
	}
	return nil
}

var _ BookingUseCase = (*BookingService)(nil)
