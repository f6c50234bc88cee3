package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"

	catalogRepo "homeserve/database/repository/catalog"
	inspectionRepo "homeserve/database/repository/inspection"
	providerRepo "homeserve/database/repository/provider"
	schedulerRepo "homeserve/database/repository/scheduler"
	"homeserve/models"
)

// memCatalogRepo is an in-memory CatalogRepository.
type memCatalogRepo struct {
	packages map[string]*models.ServicePackage
	items    map[string][]models.BundleItem
}

func newMemCatalogRepo(packages ...*models.ServicePackage) *memCatalogRepo {
	repo := &memCatalogRepo{
		packages: make(map[string]*models.ServicePackage),
		items:    make(map[string][]models.BundleItem),
	}
	for _, p := range packages {
		repo.packages[p.ID] = p
	}
	return repo
}

func (m *memCatalogRepo) Create(pkg *models.ServicePackage) error {
	m.packages[pkg.ID] = pkg
	return nil
}

func (m *memCatalogRepo) GetByID(id string) (*models.ServicePackage, error) {
	pkg, ok := m.packages[id]
	if !ok {
		return nil, catalogRepo.ErrNotFound
	}
	return pkg, nil
}

func (m *memCatalogRepo) ListActive() ([]models.ServicePackage, error) {
	var out []models.ServicePackage
	for _, p := range m.packages {
		if p.Active {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memCatalogRepo) GetBundleItems(bundleID string) ([]models.BundleItem, error) {
	items := m.items[bundleID]
	sort.Slice(items, func(i, j int) bool { return items[i].DisplayOrder < items[j].DisplayOrder })
	return items, nil
}

func (m *memCatalogRepo) AddBundleItem(item *models.BundleItem) error {
	m.items[item.BundleID] = append(m.items[item.BundleID], *item)
	return nil
}

// memProviderRepo is an in-memory ProviderRepository with service offerings.
type memProviderRepo struct {
	providers map[string]*models.Provider
	services  []models.ProviderService
	overrides []models.ProviderAvailability
}

func newMemProviderRepo(providers ...*models.Provider) *memProviderRepo {
	repo := &memProviderRepo{providers: make(map[string]*models.Provider)}
	for _, p := range providers {
		repo.providers[p.ID] = p
	}
	return repo
}

func (m *memProviderRepo) Create(p *models.Provider) error {
	m.providers[p.ID] = p
	return nil
}

func (m *memProviderRepo) GetByID(id string) (*models.Provider, error) {
	p, ok := m.providers[id]
	if !ok {
		return nil, providerRepo.ErrNotFound
	}
	return p, nil
}

func (m *memProviderRepo) ListActive() ([]models.Provider, error) {
	var out []models.Provider
	for _, p := range m.providers {
		if p.Active {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memProviderRepo) SetService(ps *models.ProviderService) error {
	m.services = append(m.services, *ps)
	return nil
}

func (m *memProviderRepo) EligibleForPackage(packageID string) ([]string, error) {
	var ids []string
	for _, ps := range m.services {
		if ps.PackageID != packageID || !ps.Available {
			continue
		}
		if p, ok := m.providers[ps.ProviderID]; ok && p.Active {
			ids = append(ids, ps.ProviderID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *memProviderRepo) EligibleForBundle(includedPackageIDs []string) ([]string, error) {
	if len(includedPackageIDs) == 0 {
		return nil, nil
	}
	var ids []string
	for id, p := range m.providers {
		if !p.Active {
			continue
		}
		coversAll := true
		for _, pkgID := range includedPackageIDs {
			covered := false
			for _, ps := range m.services {
				if ps.ProviderID == id && ps.PackageID == pkgID && ps.Available {
					covered = true
					break
				}
			}
			if !covered {
				coversAll = false
				break
			}
		}
		if coversAll {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *memProviderRepo) AddUnavailability(av *models.ProviderAvailability) error {
	m.overrides = append(m.overrides, *av)
	return nil
}

func (m *memProviderRepo) ListUnavailability(providerID, date string) ([]models.ProviderAvailability, error) {
	var out []models.ProviderAvailability
	for _, av := range m.overrides {
		if av.ProviderID == providerID && (date == "" || av.Date == date) {
			out = append(out, av)
		}
	}
	return out, nil
}

func (m *memProviderRepo) HasUnavailabilityOverride(providerID, date, timeOfDay string) (bool, error) {
	for _, av := range m.overrides {
		if av.ProviderID == providerID && av.Date == date && !av.Available &&
			av.StartTime <= timeOfDay && timeOfDay < av.EndTime {
			return true, nil
		}
	}
	return false, nil
}

// memInspectionRepo is an in-memory InspectionRepository.
type memInspectionRepo struct {
	mu        sync.Mutex
	reports   map[string]*models.InspectionReport
	workItems map[string]*models.WorkItem
}

func newMemInspectionRepo(items ...*models.WorkItem) *memInspectionRepo {
	repo := &memInspectionRepo{
		reports:   make(map[string]*models.InspectionReport),
		workItems: make(map[string]*models.WorkItem),
	}
	for _, wi := range items {
		repo.workItems[wi.ID] = wi
	}
	return repo
}

func (m *memInspectionRepo) CreateReport(report *models.InspectionReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[report.ID] = report
	for i := range report.WorkItems {
		item := report.WorkItems[i]
		m.workItems[item.ID] = &item
	}
	return nil
}

func (m *memInspectionRepo) GetReport(id string) (*models.InspectionReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[id]
	if !ok {
		return nil, inspectionRepo.ErrNotFound
	}
	return r, nil
}

func (m *memInspectionRepo) GetWorkItem(id string) (*models.WorkItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wi, ok := m.workItems[id]
	if !ok {
		return nil, inspectionRepo.ErrNotFound
	}
	copied := *wi
	return &copied, nil
}

func (m *memInspectionRepo) ListOpenWorkItems(packageID string) ([]models.WorkItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.WorkItem
	for _, wi := range m.workItems {
		if wi.Resolved {
			continue
		}
		if packageID == "" || wi.PackageID == packageID {
			out = append(out, *wi)
		}
	}
	return out, nil
}

// resolve flips a work item to resolved, reporting whether it was still open.
func (m *memInspectionRepo) resolve(id, bookingID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	wi, ok := m.workItems[id]
	if !ok || wi.Resolved {
		return false
	}
	wi.Resolved = true
	wi.ResolvedBy = bookingID
	return true
}

// memSchedulerRepo is an in-memory SchedulerRepository. ReserveBooking holds a
// mutex for the whole reservation, mirroring the transactional store: either
// every slot is reserved or none is.
type memSchedulerRepo struct {
	mu          sync.Mutex
	counts      map[string]int
	bookings    map[string]*models.Booking
	slots       map[string][]models.BookingTimeSlot
	inspections *memInspectionRepo
}

func newMemSchedulerRepo() *memSchedulerRepo {
	return &memSchedulerRepo{
		counts:   make(map[string]int),
		bookings: make(map[string]*models.Booking),
		slots:    make(map[string][]models.BookingTimeSlot),
	}
}

func usageKey(providerID, date, timeOfDay string) string {
	return fmt.Sprintf("%s|%s|%s", providerID, date, timeOfDay)
}

func (m *memSchedulerRepo) book(providerID, date, timeOfDay string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[usageKey(providerID, date, timeOfDay)]++
}

func (m *memSchedulerRepo) CountBookedSlots(providerID, date, timeOfDay string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[usageKey(providerID, date, timeOfDay)], nil
}

func (m *memSchedulerRepo) ReserveBooking(ctx context.Context, booking *models.Booking, slots []models.SlotRef, maxConcurrent int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range slots {
		if m.counts[usageKey(booking.ProviderID, s.Date, s.Time)] >= maxConcurrent {
			return schedulerRepo.ErrCapacityConflict
		}
	}
	if booking.WorkItemID != "" && m.inspections != nil {
		if !m.inspections.resolve(booking.WorkItemID, booking.ID) {
			return schedulerRepo.ErrWorkItemConflict
		}
	}
	for _, s := range slots {
		m.counts[usageKey(booking.ProviderID, s.Date, s.Time)]++
		m.slots[booking.ID] = append(m.slots[booking.ID], models.BookingTimeSlot{
			BookingID:  booking.ID,
			ProviderID: booking.ProviderID,
			Date:       s.Date,
			Time:       s.Time,
			Status:     models.TimeSlotStatusBooked,
		})
	}
	booking.SlotsReserved = len(slots)
	m.bookings[booking.ID] = booking
	return nil
}

func (m *memSchedulerRepo) GetBookingByID(id string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.bookings[id]; ok {
		return b, nil
	}
	for _, b := range m.bookings {
		if b.Reference == id {
			return b, nil
		}
	}
	return nil, schedulerRepo.ErrNotFound
}

func (m *memSchedulerRepo) GetBookingSlots(bookingID string) ([]models.BookingTimeSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slots[bookingID], nil
}

// totalSlotUnits sums every reserved capacity unit across the store.
func (m *memSchedulerRepo) totalSlotUnits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.counts {
		total += n
	}
	return total
}
