package handlers

import (
	"net/http"
	"strconv"

	"homeserve/models"
	"homeserve/services/booking"
	"homeserve/services/provider"

	"github.com/gin-gonic/gin"
)

// ProviderHandler exposes provider registration, discovery and the
// unavailability-override surface.
type ProviderHandler struct {
	Providers provider.ProviderService
	Matching  booking.MatchingService
}

// NewProviderHandler creates a new ProviderHandler.
func NewProviderHandler(ps provider.ProviderService, ms booking.MatchingService) *ProviderHandler {
	return &ProviderHandler{Providers: ps, Matching: ms}
}

// RegisterProviderHandler registers a new provider profile.
func (ph *ProviderHandler) RegisterProviderHandler(c *gin.Context) {
	var p models.Provider
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider payload: " + err.Error()})
		return
	}

	created, err := ph.Providers.Register(&p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetProviderHandler fetches one provider.
func (ph *ProviderHandler) GetProviderHandler(c *gin.Context) {
	p, err := ph.Providers.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ListProvidersHandler returns all active providers.
func (ph *ProviderHandler) ListProvidersHandler(c *gin.Context) {
	providers, err := ph.Providers.ListActive()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, providers)
}

// NearbyProvidersHandler returns active providers around a point, nearest
// first. Takes lat, lng and an optional radius_km (default 25).
func (ph *ProviderHandler) NearbyProvidersHandler(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng are required"})
		return
	}
	radiusKm := 25.0
	if raw := c.Query("radius_km"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid radius_km"})
			return
		}
		radiusKm = parsed
	}

	center := models.GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
	providers, err := ph.Matching.NearbyProviders(center, radiusKm)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, providers)
}

// SetServiceHandler upserts whether a provider offers a package.
func (ph *ProviderHandler) SetServiceHandler(c *gin.Context) {
	var req struct {
		PackageID string `json:"package_id" binding:"required"`
		Available *bool  `json:"is_available" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "package_id and is_available are required"})
		return
	}

	if err := ph.Providers.SetService(c.Param("id"), req.PackageID, *req.Available); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// AddUnavailabilityHandler records an unavailable window for a provider.
func (ph *ProviderHandler) AddUnavailabilityHandler(c *gin.Context) {
	var av models.ProviderAvailability
	if err := c.ShouldBindJSON(&av); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid availability payload: " + err.Error()})
		return
	}
	av.ProviderID = c.Param("id")

	created, err := ph.Providers.AddUnavailability(&av)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListUnavailabilityHandler lists a provider's unavailable windows, optionally
// filtered to one date.
func (ph *ProviderHandler) ListUnavailabilityHandler(c *gin.Context) {
	windows, err := ph.Providers.ListUnavailability(c.Param("id"), c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, windows)
}
