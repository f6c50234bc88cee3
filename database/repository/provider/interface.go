package providerRepo

import "homeserve/models"

// ProviderRepository defines access to providers, their offered services, and
// their explicit unavailability overrides.
type ProviderRepository interface {
	Create(provider *models.Provider) error
	GetByID(id string) (*models.Provider, error)
	ListActive() ([]models.Provider, error)

	// SetService upserts a provider's offering of a package.
	SetService(ps *models.ProviderService) error
	// EligibleForPackage returns ids of active providers with an available
	// offering of the exact package, sorted ascending.
	EligibleForPackage(packageID string) ([]string, error)
	// EligibleForBundle returns ids of active providers offering every one of
	// the included packages, sorted ascending. An empty include list matches
	// no provider.
	EligibleForBundle(includedPackageIDs []string) ([]string, error)

	AddUnavailability(av *models.ProviderAvailability) error
	ListUnavailability(providerID, date string) ([]models.ProviderAvailability, error)
	// HasUnavailabilityOverride reports whether an is_available=false record
	// covers the given time ([start, end) containment) on that date.
	HasUnavailabilityOverride(providerID, date, timeOfDay string) (bool, error)
}
