package catalogRepo

import "homeserve/models"

// CatalogRepository defines access to service packages and bundle composition.
type CatalogRepository interface {
	Create(pkg *models.ServicePackage) error
	GetByID(id string) (*models.ServicePackage, error)
	ListActive() ([]models.ServicePackage, error)
	// GetBundleItems returns a bundle's items ordered by display order.
	GetBundleItems(bundleID string) ([]models.BundleItem, error)
	AddBundleItem(item *models.BundleItem) error
}
