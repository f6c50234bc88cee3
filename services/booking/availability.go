package booking

import (
	"errors"
	"time"

	catalogRepo "homeserve/database/repository/catalog"
	"homeserve/models"
	"homeserve/services/scheduling"
)

// ListAvailableSlots answers the pre-booking availability query: which slots
// within the provider's working hours on the given date could start a booking
// of this package, and how many slots that booking would need. Nothing is
// reserved.
func (s *DefaultBookingService) ListAvailableSlots(packageID, providerID, date string) (*models.AvailableSlotsResult, error) {
	if err := scheduling.ValidateDate(date, time.Now()); err != nil {
		return nil, err
	}

	pkg, err := s.Catalog.GetByID(packageID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrNotFound) {
			return nil, scheduling.NewNotFoundError("package %s not found", packageID)
		}
		return nil, scheduling.NewPersistenceError("package lookup failed", err)
	}

	duration, err := s.EffectiveDuration(pkg)
	if err != nil {
		return nil, err
	}
	required := scheduling.RequiredSlotCount(duration)

	provider, err := s.resolveProvider(pkg, providerID)
	if err != nil {
		return nil, err
	}

	start, err := scheduling.ParseSlotTime(provider.WorkingHoursStart)
	if err != nil {
		return nil, err
	}
	end, err := scheduling.ParseSlotTime(provider.WorkingHoursEnd)
	if err != nil {
		return nil, err
	}

	var available []string
	for minute := start; minute < end; minute += scheduling.SlotMinutes {
		t := scheduling.FormatSlotTime(minute)
		ok, _, err := s.Allocator.Checker.IsSlotAvailableFor(provider, date, t)
		if err != nil {
			return nil, err
		}
		if ok {
			available = append(available, t)
		}
	}

	return &models.AvailableSlotsResult{
		ProviderID:     provider.ID,
		Date:           date,
		AvailableSlots: available,
		RequiredSlots:  required,
	}, nil
}
