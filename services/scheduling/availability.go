package scheduling

import (
	"errors"
	"fmt"

	providerRepo "homeserve/database/repository/provider"
	schedulerRepo "homeserve/database/repository/scheduler"
	"homeserve/models"
)

// AvailabilityChecker decides whether a single (provider, date, time) slot can
// be booked. The check reflects the store at the instant of the read; the
// write-side usage counter is what actually serializes racing reservations.
type AvailabilityChecker struct {
	Providers providerRepo.ProviderRepository
	Scheduler schedulerRepo.SchedulerRepository
}

// IsSlotAvailable looks up the provider and delegates to IsSlotAvailableFor.
func (c *AvailabilityChecker) IsSlotAvailable(providerID, date, timeOfDay string) (bool, string, error) {
	provider, err := c.Providers.GetByID(providerID)
	if err != nil {
		if errors.Is(err, providerRepo.ErrNotFound) {
			return false, "", NewNotFoundError("provider %s not found", providerID)
		}
		return false, "", NewPersistenceError("provider lookup failed", err)
	}
	return c.IsSlotAvailableFor(provider, date, timeOfDay)
}

// IsSlotAvailableFor checks one slot for an already-loaded provider. Checks
// run in order and short-circuit: capacity first, then the explicit
// unavailability override. A false result carries a human-readable reason.
func (c *AvailabilityChecker) IsSlotAvailableFor(provider *models.Provider, date, timeOfDay string) (bool, string, error) {
	booked, err := c.Scheduler.CountBookedSlots(provider.ID, date, timeOfDay)
	if err != nil {
		return false, "", NewPersistenceError("slot count failed", err)
	}
	if booked >= provider.MaxConcurrentJobs {
		return false, fmt.Sprintf("provider at capacity (%d/%d)", booked, provider.MaxConcurrentJobs), nil
	}

	blocked, err := c.Providers.HasUnavailabilityOverride(provider.ID, date, timeOfDay)
	if err != nil {
		return false, "", NewPersistenceError("unavailability check failed", err)
	}
	if blocked {
		return false, "provider unavailable at this time", nil
	}

	return true, "", nil
}
