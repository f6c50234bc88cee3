package catalog

import (
	"errors"

	catalogRepo "homeserve/database/repository/catalog"
	"homeserve/models"
	"homeserve/services/scheduling"
)

// CatalogService is the read surface over service packages and bundles.
type CatalogService interface {
	ListPackages() ([]models.ServicePackage, error)
	// GetPackageDetail resolves a package with its derived bundle values.
	GetPackageDetail(id string) (*models.PackageDetail, error)
}

// DefaultCatalogService implements CatalogService.
type DefaultCatalogService struct {
	Repo catalogRepo.CatalogRepository
}

// ListPackages returns all active packages.
func (s *DefaultCatalogService) ListPackages() ([]models.ServicePackage, error) {
	packages, err := s.Repo.ListActive()
	if err != nil {
		return nil, scheduling.NewPersistenceError("package listing failed", err)
	}
	return packages, nil
}

// GetPackageDetail returns a package with derived effective duration and
// price. A bundle's duration is the sum of its items' durations (its own
// stored duration when it has no items); its price is always its own stored
// price. Both are computed on read so they cannot drift from the items.
func (s *DefaultCatalogService) GetPackageDetail(id string) (*models.PackageDetail, error) {
	pkg, err := s.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrNotFound) {
			return nil, scheduling.NewNotFoundError("package %s not found", id)
		}
		return nil, scheduling.NewPersistenceError("package lookup failed", err)
	}

	detail := &models.PackageDetail{
		ServicePackage:    *pkg,
		EffectiveDuration: pkg.DurationMinutes,
		EffectivePrice:    pkg.BasePrice,
	}
	if pkg.PackageType != models.PackageTypeBundle {
		return detail, nil
	}

	items, err := s.Repo.GetBundleItems(pkg.ID)
	if err != nil {
		return nil, scheduling.NewPersistenceError("bundle item lookup failed", err)
	}
	detail.Items = items
	if len(items) == 0 {
		return detail, nil
	}

	total := 0
	for _, item := range items {
		included, err := s.Repo.GetByID(item.IncludedPackageID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrNotFound) {
				return nil, scheduling.NewNotFoundError("bundle %s references missing package %s", pkg.ID, item.IncludedPackageID)
			}
			return nil, scheduling.NewPersistenceError("included package lookup failed", err)
		}
		total += included.DurationMinutes
	}
	detail.EffectiveDuration = total
	return detail, nil
}
