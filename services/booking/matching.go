package booking

import (
	"errors"
	"fmt"
	"math"
	"sort"

	catalogRepo "homeserve/database/repository/catalog"
	providerRepo "homeserve/database/repository/provider"
	"homeserve/models"
	"homeserve/services/scheduling"
)

// MatchingService resolves which providers can fulfil a package, and supports
// geographic provider discovery.
type MatchingService interface {
	// EligibleProviders returns ids of providers able to fulfil the package:
	// an exact-service match for single packages, full coverage of every
	// included package for bundles. An empty result is not an error here.
	EligibleProviders(packageID string) ([]string, error)
	NearbyProviders(center models.GeoPoint, maxDistanceKm float64) ([]models.ProviderDTO, error)
}

// DefaultMatchingService implements MatchingService.
type DefaultMatchingService struct {
	Catalog   catalogRepo.CatalogRepository
	Providers providerRepo.ProviderRepository
}

// EligibleProviders returns candidate provider ids sorted ascending, so
// "first eligible" is always the lowest id rather than incidental store order.
func (s *DefaultMatchingService) EligibleProviders(packageID string) ([]string, error) {
	pkg, err := s.Catalog.GetByID(packageID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrNotFound) {
			return nil, scheduling.NewNotFoundError("package %s not found", packageID)
		}
		return nil, scheduling.NewPersistenceError("package lookup failed", err)
	}

	if pkg.PackageType != models.PackageTypeBundle {
		ids, err := s.Providers.EligibleForPackage(pkg.ID)
		if err != nil {
			return nil, scheduling.NewPersistenceError("provider eligibility query failed", err)
		}
		return ids, nil
	}

	items, err := s.Catalog.GetBundleItems(pkg.ID)
	if err != nil {
		return nil, scheduling.NewPersistenceError("bundle item lookup failed", err)
	}
	// A bundle with no items matches nobody: full coverage of an empty set
	// would otherwise let every provider qualify trivially.
	if len(items) == 0 {
		return nil, nil
	}

	included := make([]string, 0, len(items))
	for _, item := range items {
		included = append(included, item.IncludedPackageID)
	}
	ids, err := s.Providers.EligibleForBundle(included)
	if err != nil {
		return nil, scheduling.NewPersistenceError("bundle eligibility query failed", err)
	}
	return ids, nil
}

// NearbyProviders returns active providers within maxDistanceKm of the centre,
// nearest first.
func (s *DefaultMatchingService) NearbyProviders(center models.GeoPoint, maxDistanceKm float64) ([]models.ProviderDTO, error) {
	if len(center.Coordinates) < 2 {
		return nil, scheduling.NewValidationError("invalid search centre coordinates")
	}
	providers, err := s.Providers.ListActive()
	if err != nil {
		return nil, fmt.Errorf("failed to find nearby providers: %w", err)
	}

	centerLon := center.Coordinates[0]
	centerLat := center.Coordinates[1]

	var dtos []models.ProviderDTO
	for _, p := range providers {
		if p.LocationGeo == nil || len(p.LocationGeo.Coordinates) < 2 {
			continue
		}
		lon, lat := p.LocationGeo.Coordinates[0], p.LocationGeo.Coordinates[1]
		distanceKm := haversine(centerLat, centerLon, lat, lon)
		if distanceKm > maxDistanceKm {
			continue
		}
		dtos = append(dtos, models.ProviderDTO{
			ID:            p.ID,
			BusinessName:  p.BusinessName,
			Address:       p.Address,
			AverageRating: p.AverageRating,
			Verified:      p.Verified,
			LocationGeo:   p.LocationGeo,
			Proximity:     distanceKm * 1000,
		})
	}

	sort.Slice(dtos, func(i, j int) bool {
		return dtos[i].Proximity < dtos[j].Proximity
	})
	return dtos, nil
}

func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371
	dLat := (lat2 - lat1) * (math.Pi / 180)
	dLon := (lon2 - lon1) * (math.Pi / 180)
	lat1Rad := lat1 * (math.Pi / 180)
	lat2Rad := lat2 * (math.Pi / 180)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}
