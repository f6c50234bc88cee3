package schedulerRepo

import (
	"context"

	"homeserve/models"
)

// SchedulerRepository is the transactional store consumed by the booking core.
type SchedulerRepository interface {
	// CountBookedSlots counts booked slot rows for the exact
	// (provider, date, time) across all bookings.
	CountBookedSlots(providerID, date, timeOfDay string) (int, error)
	// ReserveBooking inserts the booking and one slot row per reservation in a
	// single transaction. Every slot write passes through a conditional
	// per-(provider, date, time) usage counter capped at maxConcurrent, so two
	// racing bookings cannot both take the last unit of capacity. When the
	// booking references a work item, the item is marked resolved in the same
	// transaction. Nothing is persisted on failure.
	ReserveBooking(ctx context.Context, booking *models.Booking, slots []models.SlotRef, maxConcurrent int) error
	GetBookingByID(id string) (*models.Booking, error)
	GetBookingSlots(bookingID string) ([]models.BookingTimeSlot, error)
}
