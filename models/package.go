package models

// Package types.
const (
	PackageTypeSingle = "single"
	PackageTypeBundle = "bundle"
)

// ServicePackage is a bookable catalog entry, either a single service or a
// bundle composed of other packages.
type ServicePackage struct {
	ID              string  `bson:"id" json:"package_id"`
	Name            string  `bson:"name" json:"package_name"`
	Description     string  `bson:"description,omitempty" json:"description,omitempty"`
	Category        string  `bson:"category,omitempty" json:"category,omitempty"`
	PackageType     string  `bson:"packageType" json:"package_type"` // "single" or "bundle"
	DurationMinutes int     `bson:"durationMinutes" json:"duration_minutes"`
	BasePrice       float64 `bson:"basePrice" json:"base_price"`
	DiscountPercent float64 `bson:"discountPercent,omitempty" json:"discount_percent,omitempty"`
	Active          bool    `bson:"active" json:"is_active"`
}

// BundleItem links a bundle package to one of its included packages.
// DisplayOrder is unique within a bundle so listings stay deterministic.
type BundleItem struct {
	BundleID          string `bson:"bundleId" json:"bundle_id"`
	IncludedPackageID string `bson:"includedPackageId" json:"included_package_id"`
	Optional          bool   `bson:"optional" json:"is_optional"`
	DisplayOrder      int    `bson:"displayOrder" json:"display_order"`
}

// PackageDetail is the read-side view of a package with derived bundle values.
// A bundle's effective duration is the sum of its included packages' durations,
// falling back to the bundle's own stored duration when it has no items. The
// effective price is always the package's own stored price; neither value is
// persisted.
type PackageDetail struct {
	ServicePackage    `bson:",inline"`
	Items             []BundleItem `json:"items,omitempty"`
	EffectiveDuration int          `json:"effective_duration_minutes"`
	EffectivePrice    float64      `json:"effective_price"`
}
