package models

import "time"

// Booking statuses. The scheduler only ever writes "pending"; later transitions
// are driven by payment confirmation.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
)

// TimeSlotStatusBooked is the only status this subsystem writes on a slot row.
const TimeSlotStatusBooked = "booked"

// Booking is a confirmed reservation of a provider for a package. It owns its
// BookingTimeSlot rows: they are created together in one transaction.
type Booking struct {
	ID             string    `bson:"id" json:"booking_id"`
	Reference      string    `bson:"reference" json:"booking_reference"`
	UserID         string    `bson:"userId" json:"user_id"`
	ProviderID     string    `bson:"providerId" json:"provider_id"`
	PackageID      string    `bson:"packageId" json:"package_id"`
	Status         string    `bson:"status" json:"booking_status"`
	ScheduledDate  string    `bson:"scheduledDate" json:"scheduled_date"` // "2006-01-02"
	ScheduledTime  string    `bson:"scheduledTime" json:"scheduled_time"` // "HH:MM"
	ServiceAddress string    `bson:"serviceAddress" json:"service_address"`
	Instructions   string    `bson:"instructions,omitempty" json:"special_instructions,omitempty"`
	WorkItemID     string    `bson:"workItemId,omitempty" json:"work_item_id,omitempty"`
	SlotsReserved  int       `bson:"slotsReserved" json:"slots_reserved"`
	CreatedAt      time.Time `bson:"createdAt" json:"created_at"`
}

// BookingTimeSlot is one reserved 30-minute unit of provider time. Capacity is
// enforced by counting booked rows sharing (providerId, date, time) across all
// bookings against the provider's MaxConcurrentJobs.
type BookingTimeSlot struct {
	ID         string    `bson:"id" json:"id"`
	BookingID  string    `bson:"bookingId" json:"booking_id"`
	ProviderID string    `bson:"providerId" json:"provider_id"`
	Date       string    `bson:"date" json:"date"` // "2006-01-02"
	Time       string    `bson:"time" json:"time"` // "HH:MM", aligned to :00/:30
	Status     string    `bson:"status" json:"status"`
	CreatedAt  time.Time `bson:"createdAt" json:"created_at"`
}

// SlotRef identifies a (date, time) pair reserved by the allocator.
type SlotRef struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// BookingInput is the create-booking request payload.
type BookingInput struct {
	PackageID      string `json:"package_id" binding:"required"`
	ProviderID     string `json:"provider_id"`
	ScheduledDate  string `json:"scheduled_date" binding:"required"`
	ScheduledTime  string `json:"scheduled_time" binding:"required"`
	ServiceAddress string `json:"service_address" binding:"required"`
	Instructions   string `json:"special_instructions"`
	WorkItemID     string `json:"work_item_id"`
}

// BookingConfirmation is returned once a booking and its slots are committed.
type BookingConfirmation struct {
	BookingID     string `json:"booking_id"`
	Reference     string `json:"booking_reference"`
	Status        string `json:"booking_status"`
	ProviderID    string `json:"provider_id"`
	SlotsReserved int    `json:"slots_reserved"`
}

// AvailableSlotsResult is the pre-booking availability view for one day.
type AvailableSlotsResult struct {
	ProviderID     string   `json:"provider_id"`
	Date           string   `json:"date"`
	AvailableSlots []string `json:"available_slots"`
	RequiredSlots  int      `json:"required_slots"`
}
