package scheduling

import (
	"homeserve/models"

	"go.uber.org/zap"
)

const (
	// DailySlotCeiling caps slots reserved per calendar day (10 hours).
	DailySlotCeiling = 20
	// HorizonDays bounds how far spillover may walk forward.
	HorizonDays = 30
	// overflowStartTime is where spillover days begin. This deliberately does
	// not consult the provider's working-hours start; see DESIGN.md before
	// changing it.
	overflowStartTime = "09:00"
)

// Allocator reserves a contiguous, possibly multi-day run of slots for one
// booking. It is all-or-nothing: either the full required set is returned or
// an error, and nothing is persisted here; the caller reserves the returned
// set inside its own transaction.
type Allocator struct {
	Checker *AvailabilityChecker
	Logger  *zap.Logger
}

// Allocate walks forward day by day from (startDate, startTime), taking as
// many consecutive valid slots per day as possible and spilling the remainder
// to subsequent days starting at 09:00. Allocation within a day stops at the
// first unavailable slot rather than searching for gaps, so a booking's slots
// are always contiguous within a day.
func (a *Allocator) Allocate(provider *models.Provider, required int, startDate, startTime string) ([]models.SlotRef, error) {
	if required <= 0 {
		return nil, NewValidationError("required slot count must be positive, got %d", required)
	}

	remaining := required
	date := startDate
	timeOfDay := startTime
	daysChecked := 0
	reserved := make([]models.SlotRef, 0, required)

	for remaining > 0 && daysChecked < HorizonDays {
		toTry := remaining
		if toTry > DailySlotCeiling {
			toTry = DailySlotCeiling
		}
		candidates, err := GenerateSlotTimes(timeOfDay, toTry)
		if err != nil {
			return nil, err
		}

		bookedToday := 0
		for _, t := range candidates {
			ok, reason, err := a.Checker.IsSlotAvailableFor(provider, date, t)
			if err != nil {
				return nil, err
			}
			if !ok {
				a.Logger.Debug("slot unavailable, stopping day walk",
					zap.String("providerID", provider.ID),
					zap.String("date", date),
					zap.String("time", t),
					zap.String("reason", reason))
				break
			}
			reserved = append(reserved, models.SlotRef{Date: date, Time: t})
			remaining--
			bookedToday++
			if remaining == 0 {
				break
			}
		}

		if remaining > 0 {
			if bookedToday == 0 {
				return nil, NewCapacityError("no availability on %s", date)
			}
			next, err := nextDate(date)
			if err != nil {
				return nil, err
			}
			date = next
			timeOfDay = overflowStartTime
			daysChecked++
		}
	}

	if remaining > 0 {
		return nil, NewCapacityError("not enough availability within %d days", HorizonDays)
	}

	a.Logger.Debug("allocation complete",
		zap.String("providerID", provider.ID),
		zap.Int("slots", len(reserved)),
		zap.String("firstDate", reserved[0].Date))
	return reserved, nil
}
