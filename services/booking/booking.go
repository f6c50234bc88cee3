package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	auditRepo "homeserve/database/repository/audit"
	catalogRepo "homeserve/database/repository/catalog"
	inspectionRepo "homeserve/database/repository/inspection"
	providerRepo "homeserve/database/repository/provider"
	schedulerRepo "homeserve/database/repository/scheduler"
	"homeserve/models"
	"homeserve/services/notification"
	"homeserve/services/scheduling"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBookingService orchestrates booking creation: it resolves the
// provider, sizes the slot run, allocates it, and persists the booking and its
// slots in one transaction. No partial booking is ever visible.
type DefaultBookingService struct {
	Catalog     catalogRepo.CatalogRepository
	Providers   providerRepo.ProviderRepository
	Scheduler   schedulerRepo.SchedulerRepository
	Inspections inspectionRepo.InspectionRepository
	Matching    MatchingService
	Allocator   *scheduling.Allocator
	Notifier    notification.NotificationService
	Audit       auditRepo.AuditRepository
	Logger      *zap.Logger
}

// CreateBooking runs the create-booking state machine to a terminal success or
// failure. Validation happens before any store access; everything written is
// written inside the scheduler repository's transaction.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, userID string, input models.BookingInput) (*models.BookingConfirmation, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	pkg, err := s.Catalog.GetByID(input.PackageID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrNotFound) {
			return nil, scheduling.NewNotFoundError("package %s not found", input.PackageID)
		}
		return nil, scheduling.NewPersistenceError("package lookup failed", err)
	}

	duration, err := s.EffectiveDuration(pkg)
	if err != nil {
		return nil, err
	}
	required := scheduling.RequiredSlotCount(duration)
	if required == 0 {
		return nil, scheduling.NewValidationError("package %s has no positive duration", pkg.ID)
	}

	provider, err := s.resolveProvider(pkg, input.ProviderID)
	if err != nil {
		return nil, err
	}

	// A referenced work item must exist and still be open before we spend
	// effort allocating; it is actually resolved inside the transaction.
	if input.WorkItemID != "" {
		item, err := s.Inspections.GetWorkItem(input.WorkItemID)
		if err != nil {
			if errors.Is(err, inspectionRepo.ErrNotFound) {
				return nil, scheduling.NewNotFoundError("work item %s not found", input.WorkItemID)
			}
			return nil, scheduling.NewPersistenceError("work item lookup failed", err)
		}
		if item.Resolved {
			return nil, scheduling.NewValidationError("work item %s is already resolved", input.WorkItemID)
		}
	}

	reserved, err := s.Allocator.Allocate(provider, required, input.ScheduledDate, input.ScheduledTime)
	if err != nil {
		return nil, err
	}

	bookingID := uuid.New().String()
	record := &models.Booking{
		ID:             bookingID,
		Reference:      newReference(bookingID),
		UserID:         userID,
		ProviderID:     provider.ID,
		PackageID:      pkg.ID,
		Status:         models.BookingStatusPending,
		ScheduledDate:  input.ScheduledDate,
		ScheduledTime:  input.ScheduledTime,
		ServiceAddress: input.ServiceAddress,
		Instructions:   input.Instructions,
		WorkItemID:     input.WorkItemID,
	}

	if err := s.Scheduler.ReserveBooking(ctx, record, reserved, provider.MaxConcurrentJobs); err != nil {
		switch {
		case errors.Is(err, schedulerRepo.ErrCapacityConflict):
			return nil, scheduling.NewCapacityError("slot was taken by a concurrent booking on %s", input.ScheduledDate)
		case errors.Is(err, schedulerRepo.ErrWorkItemConflict):
			return nil, scheduling.NewValidationError("work item %s is already resolved", input.WorkItemID)
		default:
			return nil, scheduling.NewPersistenceError("booking transaction failed", err)
		}
	}

	s.Logger.Info("booking created",
		zap.String("bookingID", record.ID),
		zap.String("reference", record.Reference),
		zap.String("providerID", provider.ID),
		zap.Int("slotsReserved", len(reserved)))

	if s.Audit != nil {
		entry := &models.AuditLog{
			ID:      uuid.New().String(),
			UserID:  userID,
			LogType: "booking",
			Action:  "booking_created",
			Details: map[string]any{
				"booking_id":  record.ID,
				"provider_id": provider.ID,
				"package_id":  pkg.ID,
				"slots":       len(reserved),
			},
			Severity: models.SeverityInfo,
		}
		if err := s.Audit.Append(entry); err != nil {
			s.Logger.Warn("failed to append booking audit log",
				zap.String("bookingID", record.ID), zap.Error(err))
		}
	}

	if s.Notifier != nil {
		if err := s.Notifier.SendBookingConfirmation(ctx, userID, record); err != nil {
			s.Logger.Warn("booking confirmation email failed",
				zap.String("bookingID", record.ID), zap.Error(err))
		}
	}

	return &models.BookingConfirmation{
		BookingID:     record.ID,
		Reference:     record.Reference,
		Status:        record.Status,
		ProviderID:    provider.ID,
		SlotsReserved: len(reserved),
	}, nil
}

// GetBooking fetches a booking and its reserved slots by id or reference.
func (s *DefaultBookingService) GetBooking(id string) (*models.Booking, []models.BookingTimeSlot, error) {
	record, err := s.Scheduler.GetBookingByID(id)
	if err != nil {
		if errors.Is(err, schedulerRepo.ErrNotFound) {
			return nil, nil, scheduling.NewNotFoundError("booking %s not found", id)
		}
		return nil, nil, scheduling.NewPersistenceError("booking lookup failed", err)
	}
	slots, err := s.Scheduler.GetBookingSlots(record.ID)
	if err != nil {
		return nil, nil, scheduling.NewPersistenceError("booking slot lookup failed", err)
	}
	return record, slots, nil
}

// resolveProvider honors an explicit provider choice, otherwise picks the
// first eligible candidate. Candidates are sorted by id, so the tie-break is
// deterministic across calls.
func (s *DefaultBookingService) resolveProvider(pkg *models.ServicePackage, explicit string) (*models.Provider, error) {
	providerID := explicit
	if providerID == "" {
		candidates, err := s.Matching.EligibleProviders(pkg.ID)
		if err != nil {
			return nil, err
		}
		if len(candidates) == 0 {
			return nil, scheduling.NewCapacityError("no available providers for package %s", pkg.ID)
		}
		providerID = candidates[0]
	}

	provider, err := s.Providers.GetByID(providerID)
	if err != nil {
		if errors.Is(err, providerRepo.ErrNotFound) {
			return nil, scheduling.NewNotFoundError("provider %s not found", providerID)
		}
		return nil, scheduling.NewPersistenceError("provider lookup failed", err)
	}
	if !provider.Active {
		return nil, scheduling.NewValidationError("provider %s is not active", providerID)
	}
	return provider, nil
}

func validateInput(input models.BookingInput) error {
	if strings.TrimSpace(input.PackageID) == "" {
		return scheduling.NewValidationError("missing required field: package_id")
	}
	if strings.TrimSpace(input.ServiceAddress) == "" {
		return scheduling.NewValidationError("missing required field: service_address")
	}
	if err := scheduling.ValidateDate(input.ScheduledDate, time.Now()); err != nil {
		return err
	}
	if _, err := scheduling.ParseSlotTime(input.ScheduledTime); err != nil {
		return err
	}
	return nil
}

// newReference derives a short human-readable reference code from a booking id.
func newReference(bookingID string) string {
	return "HS-" + strings.ToUpper(strings.ReplaceAll(bookingID, "-", "")[:10])
}
