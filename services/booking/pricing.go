package booking

import (
	"errors"

	catalogRepo "homeserve/database/repository/catalog"
	"homeserve/models"
	"homeserve/services/scheduling"
)

// EffectiveDuration computes the bookable duration of a package in minutes. A
// bundle's duration is the sum of its included packages' durations, falling
// back to the bundle's own stored duration when it has no items. Derived on
// read; never stored, so it cannot drift from the items.
func (s *DefaultBookingService) EffectiveDuration(pkg *models.ServicePackage) (int, error) {
	if pkg.PackageType != models.PackageTypeBundle {
		return pkg.DurationMinutes, nil
	}

	items, err := s.Catalog.GetBundleItems(pkg.ID)
	if err != nil {
		return 0, scheduling.NewPersistenceError("bundle item lookup failed", err)
	}
	if len(items) == 0 {
		return pkg.DurationMinutes, nil
	}

	total := 0
	for _, item := range items {
		included, err := s.Catalog.GetByID(item.IncludedPackageID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrNotFound) {
				return 0, scheduling.NewNotFoundError("bundle %s references missing package %s", pkg.ID, item.IncludedPackageID)
			}
			return 0, scheduling.NewPersistenceError("included package lookup failed", err)
		}
		total += included.DurationMinutes
	}
	return total, nil
}

// EffectivePrice is the package's own stored price (a bundle is priced as a
// unit, not as the sum of its items) less any work-item discount.
func EffectivePrice(pkg *models.ServicePackage, workItem *models.WorkItem) float64 {
	price := pkg.BasePrice
	if workItem != nil && workItem.DiscountPercent > 0 {
		price *= 1 - workItem.DiscountPercent/100
	}
	return price
}
