package handlers

import (
	"homeserve/middleware"
	"homeserve/utils"
)

// HandlerBundle aggregates the handler groups and the shared middleware
// dependencies route registration needs.
type HandlerBundle struct {
	Tokens    *utils.TokenManager
	RateLimit *middleware.RateLimiter

	Booking    *BookingHandler
	Catalog    *CatalogHandler
	Provider   *ProviderHandler
	User       *UserHandler
	Admin      *AdminHandler
	Inspection *InspectionHandler
	Health     *HealthHandler
}
