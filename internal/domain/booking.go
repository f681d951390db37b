package domain

import "time"

type BookingStatus string

const (
	BookingStatusBooked    BookingStatus = "booked"
	BookingStatusCheckedIn BookingStatus = "checked_in"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID           string
	UserID       string
	SlotID       string
	Status       BookingStatus
	BookedAt     time.Time
	CheckedInAt  *time.Time
	CheckedOutAt *time.Time
	TotalCents   *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BookingWithSlot is a booking row joined with the slot display fields the
// bookings table renders alongside it.
type BookingWithSlot struct {
	Booking
	SlotNumber     string
	Zone           string
	SlotPriceCents int64
}

// Active reports whether the booking still holds its slot.
func (b *Booking) Active() bool {
	return b.Status == BookingStatusBooked || b.Status == BookingStatusCheckedIn
}

// CanTransition reports whether a booking in status from may move to status to.
// The only legal moves are booked->checked_in, booked->cancelled and
// checked_in->completed; completed and cancelled are terminal.
func CanTransition(from, to BookingStatus) bool {
	switch from {
	case BookingStatusBooked:
		return to == BookingStatusCheckedIn || to == BookingStatusCancelled
	case BookingStatusCheckedIn:
		return to == BookingStatusCompleted
	default:
		return false
	}
}

// BillableHours rounds the stay up to whole hours with a minimum of one.
// A 45 minute stay bills one hour, a 61 minute stay bills two.
func BillableHours(checkedInAt, checkedOutAt time.Time) int64 {
	secs := int64(checkedOutAt.Sub(checkedInAt) / time.Second)
	if secs <= 0 {
		return 1
	}
	hours := (secs + 3599) / 3600
	if hours < 1 {
		hours = 1
	}
	return hours
}

// BillTotalCents computes the charge for a completed stay. The rate is the
// slot's price at checkout time, not the price when the booking was made.
func BillTotalCents(checkedInAt, checkedOutAt time.Time, priceCents int64) int64 {
	return BillableHours(checkedInAt, checkedOutAt) * priceCents
}
