package scheduling

import (
	"context"
	"fmt"
	"testing"

	providerRepo "homeserve/database/repository/provider"
	schedulerRepo "homeserve/database/repository/scheduler"
	"homeserve/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeProviderRepo is an in-memory ProviderRepository for checker and
// allocator tests.
type fakeProviderRepo struct {
	providers map[string]*models.Provider
	overrides []models.ProviderAvailability
}

func newFakeProviderRepo(providers ...*models.Provider) *fakeProviderRepo {
	repo := &fakeProviderRepo{providers: make(map[string]*models.Provider)}
	for _, p := range providers {
		repo.providers[p.ID] = p
	}
	return repo
}

func (f *fakeProviderRepo) Create(p *models.Provider) error {
	f.providers[p.ID] = p
	return nil
}

func (f *fakeProviderRepo) GetByID(id string) (*models.Provider, error) {
	p, ok := f.providers[id]
	if !ok {
		return nil, providerRepo.ErrNotFound
	}
	return p, nil
}

func (f *fakeProviderRepo) ListActive() ([]models.Provider, error) {
	var out []models.Provider
	for _, p := range f.providers {
		if p.Active {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProviderRepo) SetService(ps *models.ProviderService) error { return nil }

func (f *fakeProviderRepo) EligibleForPackage(packageID string) ([]string, error) {
	return nil, nil
}

func (f *fakeProviderRepo) EligibleForBundle(includedPackageIDs []string) ([]string, error) {
	return nil, nil
}

func (f *fakeProviderRepo) AddUnavailability(av *models.ProviderAvailability) error {
	f.overrides = append(f.overrides, *av)
	return nil
}

func (f *fakeProviderRepo) ListUnavailability(providerID, date string) ([]models.ProviderAvailability, error) {
	var out []models.ProviderAvailability
	for _, av := range f.overrides {
		if av.ProviderID == providerID && (date == "" || av.Date == date) {
			out = append(out, av)
		}
	}
	return out, nil
}

func (f *fakeProviderRepo) HasUnavailabilityOverride(providerID, date, timeOfDay string) (bool, error) {
	for _, av := range f.overrides {
		if av.ProviderID == providerID && av.Date == date && !av.Available &&
			av.StartTime <= timeOfDay && timeOfDay < av.EndTime {
			return true, nil
		}
	}
	return false, nil
}

// fakeSchedulerRepo is an in-memory SchedulerRepository counting booked units
// per (provider, date, time).
type fakeSchedulerRepo struct {
	counts   map[string]int
	bookings map[string]*models.Booking
	slots    map[string][]models.BookingTimeSlot
}

func newFakeSchedulerRepo() *fakeSchedulerRepo {
	return &fakeSchedulerRepo{
		counts:   make(map[string]int),
		bookings: make(map[string]*models.Booking),
		slots:    make(map[string][]models.BookingTimeSlot),
	}
}

func slotKey(providerID, date, timeOfDay string) string {
	return fmt.Sprintf("%s|%s|%s", providerID, date, timeOfDay)
}

// book marks one unit of capacity used, bypassing the reservation path.
func (f *fakeSchedulerRepo) book(providerID, date, timeOfDay string) {
	f.counts[slotKey(providerID, date, timeOfDay)]++
}

func (f *fakeSchedulerRepo) CountBookedSlots(providerID, date, timeOfDay string) (int, error) {
	return f.counts[slotKey(providerID, date, timeOfDay)], nil
}

func (f *fakeSchedulerRepo) ReserveBooking(ctx context.Context, booking *models.Booking, slots []models.SlotRef, maxConcurrent int) error {
	// All-or-nothing: verify every slot before mutating anything.
	for _, s := range slots {
		if f.counts[slotKey(booking.ProviderID, s.Date, s.Time)] >= maxConcurrent {
			return schedulerRepo.ErrCapacityConflict
		}
	}
	for _, s := range slots {
		f.counts[slotKey(booking.ProviderID, s.Date, s.Time)]++
		f.slots[booking.ID] = append(f.slots[booking.ID], models.BookingTimeSlot{
			BookingID:  booking.ID,
			ProviderID: booking.ProviderID,
			Date:       s.Date,
			Time:       s.Time,
			Status:     models.TimeSlotStatusBooked,
		})
	}
	booking.SlotsReserved = len(slots)
	f.bookings[booking.ID] = booking
	return nil
}

func (f *fakeSchedulerRepo) GetBookingByID(id string) (*models.Booking, error) {
	if b, ok := f.bookings[id]; ok {
		return b, nil
	}
	for _, b := range f.bookings {
		if b.Reference == id {
			return b, nil
		}
	}
	return nil, schedulerRepo.ErrNotFound
}

func (f *fakeSchedulerRepo) GetBookingSlots(bookingID string) ([]models.BookingTimeSlot, error) {
	return f.slots[bookingID], nil
}

func testProvider(maxConcurrent int) *models.Provider {
	return &models.Provider{
		ID:                "prov-1",
		BusinessName:      "Acme Plumbing",
		WorkingHoursStart: "08:00",
		WorkingHoursEnd:   "18:00",
		MaxConcurrentJobs: maxConcurrent,
		Active:            true,
	}
}

func newTestAllocator(providers *fakeProviderRepo, scheduler *fakeSchedulerRepo) *Allocator {
	return &Allocator{
		Checker: &AvailabilityChecker{Providers: providers, Scheduler: scheduler},
		Logger:  zap.NewNop(),
	}
}

func TestAllocateSingleDay(t *testing.T) {
	prov := testProvider(1)
	alloc := newTestAllocator(newFakeProviderRepo(prov), newFakeSchedulerRepo())

	reserved, err := alloc.Allocate(prov, 3, "2026-04-01", "09:00")
	require.NoError(t, err)
	assert.Equal(t, []models.SlotRef{
		{Date: "2026-04-01", Time: "09:00"},
		{Date: "2026-04-01", Time: "09:30"},
		{Date: "2026-04-01", Time: "10:00"},
	}, reserved)
}

func TestAllocateSpillsOverAtDailyCeiling(t *testing.T) {
	prov := testProvider(1)
	alloc := newTestAllocator(newFakeProviderRepo(prov), newFakeSchedulerRepo())

	// 25 slots: 20 on day one, remainder restarts at 09:00 the next day.
	reserved, err := alloc.Allocate(prov, 25, "2026-04-01", "09:00")
	require.NoError(t, err)
	require.Len(t, reserved, 25)

	assert.Equal(t, models.SlotRef{Date: "2026-04-01", Time: "09:00"}, reserved[0])
	assert.Equal(t, models.SlotRef{Date: "2026-04-01", Time: "18:30"}, reserved[19])
	assert.Equal(t, models.SlotRef{Date: "2026-04-02", Time: "09:00"}, reserved[20])
	assert.Equal(t, models.SlotRef{Date: "2026-04-02", Time: "11:00"}, reserved[24])
}

func TestAllocateStopsAtFirstUnavailableSlot(t *testing.T) {
	prov := testProvider(1)
	scheduler := newFakeSchedulerRepo()
	// 10:00 is taken, so the day yields only 09:00 and 09:30 even though 10:30
	// onward is free.
	scheduler.book(prov.ID, "2026-04-01", "10:00")
	alloc := newTestAllocator(newFakeProviderRepo(prov), scheduler)

	reserved, err := alloc.Allocate(prov, 4, "2026-04-01", "09:00")
	require.NoError(t, err)
	assert.Equal(t, []models.SlotRef{
		{Date: "2026-04-01", Time: "09:00"},
		{Date: "2026-04-01", Time: "09:30"},
		{Date: "2026-04-02", Time: "09:00"},
		{Date: "2026-04-02", Time: "09:30"},
	}, reserved)
}

func TestAllocateFailsWhenFirstSlotUnavailable(t *testing.T) {
	prov := testProvider(1)
	scheduler := newFakeSchedulerRepo()
	scheduler.book(prov.ID, "2026-04-01", "09:00")
	alloc := newTestAllocator(newFakeProviderRepo(prov), scheduler)

	_, err := alloc.Allocate(prov, 2, "2026-04-01", "09:00")
	require.Error(t, err)
	assert.Equal(t, KindCapacity, KindOf(err))
	assert.Contains(t, err.Error(), "no availability on 2026-04-01")
}

func TestAllocateRespectsUnavailabilityOverride(t *testing.T) {
	prov := testProvider(1)
	providers := newFakeProviderRepo(prov)
	require.NoError(t, providers.AddUnavailability(&models.ProviderAvailability{
		ProviderID: prov.ID,
		Date:       "2026-04-01",
		StartTime:  "10:00",
		EndTime:    "12:00",
		Available:  false,
	}))
	alloc := newTestAllocator(providers, newFakeSchedulerRepo())

	reserved, err := alloc.Allocate(prov, 3, "2026-04-01", "09:00")
	require.NoError(t, err)
	assert.Equal(t, []models.SlotRef{
		{Date: "2026-04-01", Time: "09:00"},
		{Date: "2026-04-01", Time: "09:30"},
		{Date: "2026-04-02", Time: "09:00"},
	}, reserved)
}

func TestAllocateExhaustsHorizon(t *testing.T) {
	prov := testProvider(1)
	scheduler := newFakeSchedulerRepo()
	// Only 09:00 is free each day; everything after is booked out.
	for day := 1; day <= 30; day++ {
		date := fmt.Sprintf("2026-04-%02d", day)
		scheduler.book(prov.ID, date, "09:30")
	}
	alloc := newTestAllocator(newFakeProviderRepo(prov), scheduler)

	// One slot per day over a 30-day horizon cannot satisfy 40 slots.
	_, err := alloc.Allocate(prov, 40, "2026-04-01", "09:00")
	require.Error(t, err)
	assert.Equal(t, KindCapacity, KindOf(err))
	assert.Contains(t, err.Error(), "not enough availability within 30 days")
}

func TestAllocateRejectsNonPositiveCount(t *testing.T) {
	prov := testProvider(1)
	alloc := newTestAllocator(newFakeProviderRepo(prov), newFakeSchedulerRepo())

	_, err := alloc.Allocate(prov, 0, "2026-04-01", "09:00")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestIsSlotAvailableCapacityCheckedBeforeOverride(t *testing.T) {
	prov := testProvider(2)
	providers := newFakeProviderRepo(prov)
	scheduler := newFakeSchedulerRepo()
	checker := &AvailabilityChecker{Providers: providers, Scheduler: scheduler}

	ok, reason, err := checker.IsSlotAvailable(prov.ID, "2026-04-01", "09:00")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, reason)

	// At capacity and overridden: the capacity reason wins.
	scheduler.book(prov.ID, "2026-04-01", "09:00")
	scheduler.book(prov.ID, "2026-04-01", "09:00")
	require.NoError(t, providers.AddUnavailability(&models.ProviderAvailability{
		ProviderID: prov.ID,
		Date:       "2026-04-01",
		StartTime:  "09:00",
		EndTime:    "10:00",
		Available:  false,
	}))

	ok, reason, err = checker.IsSlotAvailable(prov.ID, "2026-04-01", "09:00")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "provider at capacity (2/2)", reason)

	// Override alone blocks a slot with spare capacity.
	ok, reason, err = checker.IsSlotAvailable(prov.ID, "2026-04-01", "09:30")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "provider unavailable at this time", reason)
}

func TestIsSlotAvailableIdempotent(t *testing.T) {
	prov := testProvider(1)
	checker := &AvailabilityChecker{
		Providers: newFakeProviderRepo(prov),
		Scheduler: newFakeSchedulerRepo(),
	}

	for i := 0; i < 3; i++ {
		ok, _, err := checker.IsSlotAvailable(prov.ID, "2026-04-01", "09:00")
		require.NoError(t, err)
		assert.True(t, ok, "read-only check must not consume capacity")
	}
}

func TestIsSlotAvailableUnknownProvider(t *testing.T) {
	checker := &AvailabilityChecker{
		Providers: newFakeProviderRepo(),
		Scheduler: newFakeSchedulerRepo(),
	}

	_, _, err := checker.IsSlotAvailable("ghost", "2026-04-01", "09:00")
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}
