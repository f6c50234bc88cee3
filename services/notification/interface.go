package notification

import (
	"context"

	"homeserve/models"
)

// NotificationService delivers outbound customer notifications. Delivery
// failures are logged by callers; they never fail the operation that
// triggered them.
type NotificationService interface {
	SendBookingConfirmation(ctx context.Context, userID string, booking *models.Booking) error
}
