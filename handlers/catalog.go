package handlers

import (
	"net/http"

	"homeserve/services/catalog"

	"github.com/gin-gonic/gin"
)

// CatalogHandler exposes the service-package catalogue.
type CatalogHandler struct {
	Catalog catalog.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(cs catalog.CatalogService) *CatalogHandler {
	return &CatalogHandler{Catalog: cs}
}

// ListPackagesHandler returns all active packages.
func (ch *CatalogHandler) ListPackagesHandler(c *gin.Context) {
	packages, err := ch.Catalog.ListPackages()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, packages)
}

// GetPackageHandler returns one package with its derived duration, price and
// bundle contents.
func (ch *CatalogHandler) GetPackageHandler(c *gin.Context) {
	detail, err := ch.Catalog.GetPackageDetail(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}
