package handlers

import (
	"net/http"

	"homeserve/models"
	"homeserve/services/inspection"

	"github.com/gin-gonic/gin"
)

// InspectionHandler exposes inspection reports and their follow-up work items.
type InspectionHandler struct {
	Inspections inspection.InspectionService
}

// NewInspectionHandler creates a new InspectionHandler.
func NewInspectionHandler(is inspection.InspectionService) *InspectionHandler {
	return &InspectionHandler{Inspections: is}
}

// CreateReportHandler files an inspection report with its work items.
func (ih *InspectionHandler) CreateReportHandler(c *gin.Context) {
	var input models.InspectionReportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report payload: " + err.Error()})
		return
	}

	report, err := ih.Inspections.CreateReport(input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

// GetReportHandler fetches one inspection report.
func (ih *InspectionHandler) GetReportHandler(c *gin.Context) {
	report, err := ih.Inspections.GetReport(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ListWorkItemsHandler lists unresolved work items, optionally for a package.
func (ih *InspectionHandler) ListWorkItemsHandler(c *gin.Context) {
	items, err := ih.Inspections.ListOpenWorkItems(c.Query("package_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
