package domain

import "time"

type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusBooked    SlotStatus = "booked"
	SlotStatusOccupied  SlotStatus = "occupied"
)

type Slot struct {
	ID         string
	SlotNumber string
	Zone       string
	PriceCents int64
	Status     SlotStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
