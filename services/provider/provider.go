package provider

import (
	"errors"
	"strings"

	providerRepo "homeserve/database/repository/provider"
	"homeserve/models"
	"homeserve/services/scheduling"

	"github.com/google/uuid"
)

// ProviderService manages providers, their offered services, and their
// explicit unavailability windows.
type ProviderService interface {
	Register(provider *models.Provider) (*models.Provider, error)
	GetByID(id string) (*models.Provider, error)
	ListActive() ([]models.Provider, error)
	SetService(providerID, packageID string, available bool) error
	AddUnavailability(av *models.ProviderAvailability) (*models.ProviderAvailability, error)
	ListUnavailability(providerID, date string) ([]models.ProviderAvailability, error)
}

// DefaultProviderService implements ProviderService.
type DefaultProviderService struct {
	Repo providerRepo.ProviderRepository
}

// Register validates and stores a new provider.
func (s *DefaultProviderService) Register(p *models.Provider) (*models.Provider, error) {
	if strings.TrimSpace(p.BusinessName) == "" {
		return nil, scheduling.NewValidationError("missing required field: business_name")
	}
	if p.MaxConcurrentJobs <= 0 {
		return nil, scheduling.NewValidationError("max_concurrent_jobs must be positive")
	}
	if _, err := scheduling.ParseSlotTime(p.WorkingHoursStart); err != nil {
		return nil, err
	}
	if _, err := scheduling.ParseSlotTime(p.WorkingHoursEnd); err != nil {
		return nil, err
	}

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.Active = true
	if err := s.Repo.Create(p); err != nil {
		return nil, scheduling.NewPersistenceError("provider registration failed", err)
	}
	return p, nil
}

// GetByID fetches a provider.
func (s *DefaultProviderService) GetByID(id string) (*models.Provider, error) {
	p, err := s.Repo.GetByID(id)
	if err != nil {
		if errors.Is(err, providerRepo.ErrNotFound) {
			return nil, scheduling.NewNotFoundError("provider %s not found", id)
		}
		return nil, scheduling.NewPersistenceError("provider lookup failed", err)
	}
	return p, nil
}

// ListActive returns active providers, best rated first.
func (s *DefaultProviderService) ListActive() ([]models.Provider, error) {
	providers, err := s.Repo.ListActive()
	if err != nil {
		return nil, scheduling.NewPersistenceError("provider listing failed", err)
	}
	return providers, nil
}

// SetService upserts whether the provider currently offers a package.
func (s *DefaultProviderService) SetService(providerID, packageID string, available bool) error {
	if _, err := s.GetByID(providerID); err != nil {
		return err
	}
	ps := &models.ProviderService{
		ProviderID: providerID,
		PackageID:  packageID,
		Available:  available,
	}
	if err := s.Repo.SetService(ps); err != nil {
		return scheduling.NewPersistenceError("provider service update failed", err)
	}
	return nil
}

// AddUnavailability records an explicit unavailable window. The window is
// [start, end) on a single date.
func (s *DefaultProviderService) AddUnavailability(av *models.ProviderAvailability) (*models.ProviderAvailability, error) {
	if _, err := s.GetByID(av.ProviderID); err != nil {
		return nil, err
	}
	start, err := scheduling.ParseSlotTime(av.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := scheduling.ParseSlotTime(av.EndTime)
	if err != nil {
		return nil, err
	}
	if end <= start {
		return nil, scheduling.NewValidationError("end_time must be after start_time")
	}

	av.ID = uuid.New().String()
	av.Available = false
	if err := s.Repo.AddUnavailability(av); err != nil {
		return nil, scheduling.NewPersistenceError("unavailability insert failed", err)
	}
	return av, nil
}

// ListUnavailability returns a provider's overrides for a date.
func (s *DefaultProviderService) ListUnavailability(providerID, date string) ([]models.ProviderAvailability, error) {
	overrides, err := s.Repo.ListUnavailability(providerID, date)
	if err != nil {
		return nil, scheduling.NewPersistenceError("unavailability listing failed", err)
	}
	return overrides, nil
}
