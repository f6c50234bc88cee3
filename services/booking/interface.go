package booking

import (
	"context"

	"homeserve/models"
)

// BookingService is the create/read surface for bookings and their
// pre-booking availability query.
type BookingService interface {
	CreateBooking(ctx context.Context, userID string, input models.BookingInput) (*models.BookingConfirmation, error)
	GetBooking(id string) (*models.Booking, []models.BookingTimeSlot, error)
	// ListAvailableSlots is the single-day, read-only variant of the
	// availability walk: no reservation is made.
	ListAvailableSlots(packageID, providerID, date string) (*models.AvailableSlotsResult, error)
}
