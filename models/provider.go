package models

import "time"

// GeoPoint represents a GeoJSON Point.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`               // Always "Point"
	Coordinates []float64 `bson:"coordinates" json:"coordinates"` // [longitude, latitude]
}

// Provider is a registered service provider.
type Provider struct {
	ID                string    `bson:"id" json:"provider_id"`
	BusinessName      string    `bson:"businessName" json:"business_name"`
	Description       string    `bson:"description,omitempty" json:"description,omitempty"`
	Address           string    `bson:"address,omitempty" json:"address,omitempty"`
	WorkingHoursStart string    `bson:"workingHoursStart" json:"working_hours_start"` // "HH:MM"
	WorkingHoursEnd   string    `bson:"workingHoursEnd" json:"working_hours_end"`     // "HH:MM"
	MaxConcurrentJobs int       `bson:"maxConcurrentJobs" json:"max_concurrent_jobs"`
	Active            bool      `bson:"active" json:"is_active"`
	Verified          bool      `bson:"verified" json:"is_verified"`
	LocationGeo       *GeoPoint `bson:"locationGeo,omitempty" json:"location_geo,omitempty"`
	AverageRating     float64   `bson:"averageRating" json:"average_rating"`
	CreatedAt         time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt         time.Time `bson:"updatedAt" json:"updated_at"`
}

// ProviderService joins a provider to a package it currently offers.
type ProviderService struct {
	ProviderID string `bson:"providerId" json:"provider_id"`
	PackageID  string `bson:"packageId" json:"package_id"`
	Available  bool   `bson:"available" json:"is_available"`
}

// ProviderAvailability is an explicit override marking a provider unavailable
// for a [StartTime, EndTime) window on a date. An overlapping record with
// Available=false blocks booking regardless of remaining capacity.
type ProviderAvailability struct {
	ID         string `bson:"id" json:"id"`
	ProviderID string `bson:"providerId" json:"provider_id"`
	Date       string `bson:"date" json:"date"`            // "2006-01-02"
	StartTime  string `bson:"startTime" json:"start_time"` // "HH:MM", inclusive
	EndTime    string `bson:"endTime" json:"end_time"`     // "HH:MM", exclusive
	Available  bool   `bson:"available" json:"is_available"`
	Reason     string `bson:"reason,omitempty" json:"reason,omitempty"`
}

// ProviderDTO is the public provider view returned by discovery endpoints.
type ProviderDTO struct {
	ID            string    `json:"provider_id"`
	BusinessName  string    `json:"business_name"`
	Address       string    `json:"address,omitempty"`
	AverageRating float64   `json:"average_rating"`
	Verified      bool      `json:"is_verified"`
	LocationGeo   *GeoPoint `json:"location_geo,omitempty"`
	Proximity     float64   `json:"proximity_m,omitempty"` // metres from the search centre
}
