package inspection

import (
	"errors"

	inspectionRepo "homeserve/database/repository/inspection"
	"homeserve/models"
	"homeserve/services/scheduling"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InspectionService files inspection reports and exposes their follow-up work
// items for discounted rebooking.
type InspectionService interface {
	CreateReport(input models.InspectionReportInput) (*models.InspectionReport, error)
	GetReport(id string) (*models.InspectionReport, error)
	GetWorkItem(id string) (*models.WorkItem, error)
	ListOpenWorkItems(packageID string) ([]models.WorkItem, error)
}

// DefaultInspectionService implements InspectionService.
type DefaultInspectionService struct {
	Repo   inspectionRepo.InspectionRepository
	Logger *zap.Logger
}

// CreateReport validates and stores a report, assigning ids to the report and
// each work item.
func (s *DefaultInspectionService) CreateReport(input models.InspectionReportInput) (*models.InspectionReport, error) {
	if input.BookingID == "" || input.ProviderID == "" {
		return nil, scheduling.NewValidationError("booking_id and provider_id are required")
	}
	if input.Summary == "" {
		return nil, scheduling.NewValidationError("summary is required")
	}

	report := &models.InspectionReport{
		ID:         uuid.New().String(),
		BookingID:  input.BookingID,
		ProviderID: input.ProviderID,
		Summary:    input.Summary,
	}
	for _, wi := range input.WorkItems {
		if wi.PackageID == "" || wi.Description == "" {
			return nil, scheduling.NewValidationError("work items require package_id and description")
		}
		if wi.DiscountPercent < 0 || wi.DiscountPercent > 100 {
			return nil, scheduling.NewValidationError("discount_percent must be between 0 and 100")
		}
		report.WorkItems = append(report.WorkItems, models.WorkItem{
			ID:              uuid.New().String(),
			ReportID:        report.ID,
			PackageID:       wi.PackageID,
			Description:     wi.Description,
			DiscountPercent: wi.DiscountPercent,
		})
	}

	if err := s.Repo.CreateReport(report); err != nil {
		return nil, scheduling.NewPersistenceError("failed to store inspection report", err)
	}
	s.Logger.Info("inspection report filed",
		zap.String("reportID", report.ID),
		zap.String("bookingID", report.BookingID),
		zap.Int("workItems", len(report.WorkItems)))
	return report, nil
}

// GetReport fetches a report.
func (s *DefaultInspectionService) GetReport(id string) (*models.InspectionReport, error) {
	report, err := s.Repo.GetReport(id)
	if err != nil {
		if errors.Is(err, inspectionRepo.ErrNotFound) {
			return nil, scheduling.NewNotFoundError("inspection report %s not found", id)
		}
		return nil, scheduling.NewPersistenceError("failed to fetch inspection report", err)
	}
	return report, nil
}

// GetWorkItem fetches a single work item.
func (s *DefaultInspectionService) GetWorkItem(id string) (*models.WorkItem, error) {
	item, err := s.Repo.GetWorkItem(id)
	if err != nil {
		if errors.Is(err, inspectionRepo.ErrNotFound) {
			return nil, scheduling.NewNotFoundError("work item %s not found", id)
		}
		return nil, scheduling.NewPersistenceError("failed to fetch work item", err)
	}
	return item, nil
}

// ListOpenWorkItems returns unresolved work items, optionally for one package.
func (s *DefaultInspectionService) ListOpenWorkItems(packageID string) ([]models.WorkItem, error) {
	items, err := s.Repo.ListOpenWorkItems(packageID)
	if err != nil {
		return nil, scheduling.NewPersistenceError("failed to list work items", err)
	}
	return items, nil
}
