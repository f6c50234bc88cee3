package booking

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"homeserve/models"
	"homeserve/services/scheduling"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	catalog     *memCatalogRepo
	providers   *memProviderRepo
	scheduler   *memSchedulerRepo
	inspections *memInspectionRepo
	service     *DefaultBookingService
}

func newTestEnv(t *testing.T, packages []*models.ServicePackage, providers []*models.Provider) *testEnv {
	t.Helper()

	catalog := newMemCatalogRepo(packages...)
	providerStore := newMemProviderRepo(providers...)
	inspections := newMemInspectionRepo()
	scheduler := newMemSchedulerRepo()
	scheduler.inspections = inspections

	matching := &DefaultMatchingService{Catalog: catalog, Providers: providerStore}
	allocator := &scheduling.Allocator{
		Checker: &scheduling.AvailabilityChecker{
			Providers: providerStore,
			Scheduler: scheduler,
		},
		Logger: zap.NewNop(),
	}

	return &testEnv{
		catalog:     catalog,
		providers:   providerStore,
		scheduler:   scheduler,
		inspections: inspections,
		service: &DefaultBookingService{
			Catalog:     catalog,
			Providers:   providerStore,
			Scheduler:   scheduler,
			Inspections: inspections,
			Matching:    matching,
			Allocator:   allocator,
			Logger:      zap.NewNop(),
		},
	}
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format(scheduling.DateLayout)
}

func singlePackage(id string, duration int) *models.ServicePackage {
	return &models.ServicePackage{
		ID:              id,
		Name:            "Package " + id,
		PackageType:     models.PackageTypeSingle,
		DurationMinutes: duration,
		BasePrice:       120,
		Active:          true,
	}
}

func activeProvider(id string, maxConcurrent int) *models.Provider {
	return &models.Provider{
		ID:                id,
		BusinessName:      "Provider " + id,
		WorkingHoursStart: "09:00",
		WorkingHoursEnd:   "17:00",
		MaxConcurrentJobs: maxConcurrent,
		Active:            true,
	}
}

func TestCreateBookingReservesContiguousSlots(t *testing.T) {
	env := newTestEnv(t,
		[]*models.ServicePackage{singlePackage("pkg-clean", 90)},
		[]*models.Provider{activeProvider("prov-a", 2)},
	)
	date := futureDate(7)

	conf, err := env.service.CreateBooking(context.Background(), "user-1", models.BookingInput{
		PackageID:      "pkg-clean",
		ProviderID:     "prov-a",
		ScheduledDate:  date,
		ScheduledTime:  "09:00",
		ServiceAddress: "12 Elm Street",
	})
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusPending, conf.Status)
	assert.Equal(t, "prov-a", conf.ProviderID)
	assert.Equal(t, 3, conf.SlotsReserved, "90 minutes needs three 30-minute slots")
	assert.Regexp(t, `^HS-[0-9A-F]{10}$`, conf.Reference)

	slots, err := env.scheduler.GetBookingSlots(conf.BookingID)
	require.NoError(t, err)
	require.Len(t, slots, 3)
	for i, want := range []string{"09:00", "09:30", "10:00"} {
		assert.Equal(t, date, slots[i].Date)
		assert.Equal(t, want, slots[i].Time)
		assert.Equal(t, models.TimeSlotStatusBooked, slots[i].Status)
	}

	stored, storedSlots, err := env.service.GetBooking(conf.Reference)
	require.NoError(t, err, "bookings are fetchable by reference")
	assert.Equal(t, conf.BookingID, stored.ID)
	assert.Len(t, storedSlots, 3)
}

func TestCreateBookingPicksLowestEligibleProvider(t *testing.T) {
	env := newTestEnv(t,
		[]*models.ServicePackage{singlePackage("pkg-clean", 30)},
		[]*models.Provider{activeProvider("prov-b", 1), activeProvider("prov-a", 1)},
	)
	for _, id := range []string{"prov-a", "prov-b"} {
		require.NoError(t, env.providers.SetService(&models.ProviderService{
			ProviderID: id, PackageID: "pkg-clean", Available: true,
		}))
	}

	conf, err := env.service.CreateBooking(context.Background(), "user-1", models.BookingInput{
		PackageID:      "pkg-clean",
		ScheduledDate:  futureDate(3),
		ScheduledTime:  "10:00",
		ServiceAddress: "12 Elm Street",
	})
	require.NoError(t, err)
	assert.Equal(t, "prov-a", conf.ProviderID, "candidate order is by id, not insertion")
}

func TestCreateBookingNoEligibleProviders(t *testing.T) {
	env := newTestEnv(t,
		[]*models.ServicePackage{singlePackage("pkg-clean", 30)},
		[]*models.Provider{activeProvider("prov-a", 1)},
	)

	_, err := env.service.CreateBooking(context.Background(), "user-1", models.BookingInput{
		PackageID:      "pkg-clean",
		ScheduledDate:  futureDate(3),
		ScheduledTime:  "10:00",
		ServiceAddress: "12 Elm Street",
	})
	require.Error(t, err)
	assert.Equal(t, scheduling.KindCapacity, scheduling.KindOf(err))
}

func TestCreateBookingValidation(t *testing.T) {
	env := newTestEnv(t,
		[]*models.ServicePackage{singlePackage("pkg-clean", 60)},
		[]*models.Provider{activeProvider("prov-a", 1)},
	)
	valid := models.BookingInput{
		PackageID:      "pkg-clean",
		ProviderID:     "prov-a",
		ScheduledDate:  futureDate(3),
		ScheduledTime:  "10:00",
		ServiceAddress: "12 Elm Street",
	}

	tests := []struct {
		name   string
		mutate func(*models.BookingInput)
		kind   scheduling.Kind
	}{
		{"missing package", func(in *models.BookingInput) { in.PackageID = " " }, scheduling.KindValidation},
		{"missing address", func(in *models.BookingInput) { in.ServiceAddress = "" }, scheduling.KindValidation},
		{"past date", func(in *models.BookingInput) { in.ScheduledDate = "2020-01-01" }, scheduling.KindValidation},
		{"malformed date", func(in *models.BookingInput) { in.ScheduledDate = "01/01/2030" }, scheduling.KindValidation},
		{"unaligned time", func(in *models.BookingInput) { in.ScheduledTime = "10:15" }, scheduling.KindValidation},
		{"unknown package", func(in *models.BookingInput) { in.PackageID = "ghost" }, scheduling.KindNotFound},
		{"unknown provider", func(in *models.BookingInput) { in.ProviderID = "ghost" }, scheduling.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			tt.mutate(&input)
			_, err := env.service.CreateBooking(context.Background(), "user-1", input)
			require.Error(t, err)
			assert.Equal(t, tt.kind, scheduling.KindOf(err))
		})
	}

	assert.Zero(t, env.scheduler.totalSlotUnits(), "failed bookings must not leave slots behind")
}

func TestCreateBookingRejectsInactiveProvider(t *testing.T) {
	inactive := activeProvider("prov-a", 1)
	inactive.Active = false
	env := newTestEnv(t,
		[]*models.ServicePackage{singlePackage("pkg-clean", 30)},
		[]*models.Provider{inactive},
	)

	_, err := env.service.CreateBooking(context.Background(), "user-1", models.BookingInput{
		PackageID:      "pkg-clean",
		ProviderID:     "prov-a",
		ScheduledDate:  futureDate(3),
		ScheduledTime:  "10:00",
		ServiceAddress: "12 Elm Street",
	})
	require.Error(t, err)
	assert.Equal(t, scheduling.KindValidation, scheduling.KindOf(err))
}

func TestCreateBookingSequentialCapacityExhaustion(t *testing.T) {
	env := newTestEnv(t,
		[]*models.ServicePackage{singlePackage("pkg-clean", 60)},
		[]*models.Provider{activeProvider("prov-a", 1)},
	)
	date := futureDate(5)
	input := models.BookingInput{
		PackageID:      "pkg-clean",
		ProviderID:     "prov-a",
		ScheduledDate:  date,
		ScheduledTime:  "09:00",
		ServiceAddress: "12 Elm Street",
	}

	_, err := env.service.CreateBooking(context.Background(), "user-1", input)
	require.NoError(t, err)

	_, err = env.service.CreateBooking(context.Background(), "user-2", input)
	require.Error(t, err, "capacity 1 means the same start slot cannot be booked twice")
	assert.Equal(t, scheduling.KindCapacity, scheduling.KindOf(err))
	assert.Equal(t, 2, env.scheduler.totalSlotUnits(), "loser must not reserve anything")
}

func TestCreateBookingConcurrentOnlyOneWins(t *testing.T) {
	env := newTestEnv(t,
		[]*models.ServicePackage{singlePackage("pkg-clean", 90)},
		[]*models.Provider{activeProvider("prov-a", 1)},
	)
	date := futureDate(5)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.service.CreateBooking(context.Background(), fmt.Sprintf("user-%d", i), models.BookingInput{
				PackageID:      "pkg-clean",
				ProviderID:     "prov-a",
				ScheduledDate:  date,
				ScheduledTime:  "09:00",
				ServiceAddress: "12 Elm Street",
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.Equal(t, scheduling.KindCapacity, scheduling.KindOf(err))
		}
	}
	assert.Equal(t, 1, successes, "exactly one racing booking may win the slot")
	assert.Equal(t, 3, env.scheduler.totalSlotUnits(), "losers must leave no partial reservations")
}

func TestCreateBookingResolvesWorkItemOnce(t *testing.T) {
	env := newTestEnv(t,
		[]*models.ServicePackage{singlePackage("pkg-repair", 30)},
		[]*models.Provider{activeProvider("prov-a", 5)},
	)
	env.inspections.workItems["wi-1"] = &models.WorkItem{
		ID:              "wi-1",
		PackageID:       "pkg-repair",
		Description:     "replace valve",
		DiscountPercent: 10,
	}
	date := futureDate(4)

	conf, err := env.service.CreateBooking(context.Background(), "user-1", models.BookingInput{
		PackageID:      "pkg-repair",
		ProviderID:     "prov-a",
		ScheduledDate:  date,
		ScheduledTime:  "09:00",
		ServiceAddress: "12 Elm Street",
		WorkItemID:     "wi-1",
	})
	require.NoError(t, err)

	item, err := env.inspections.GetWorkItem("wi-1")
	require.NoError(t, err)
	assert.True(t, item.Resolved)
	assert.Equal(t, conf.BookingID, item.ResolvedBy)

	// A second booking against the now-resolved item fails before reserving.
	before := env.scheduler.totalSlotUnits()
	_, err = env.service.CreateBooking(context.Background(), "user-2", models.BookingInput{
		PackageID:      "pkg-repair",
		ProviderID:     "prov-a",
		ScheduledDate:  date,
		ScheduledTime:  "11:00",
		ServiceAddress: "12 Elm Street",
		WorkItemID:     "wi-1",
	})
	require.Error(t, err)
	assert.Equal(t, scheduling.KindValidation, scheduling.KindOf(err))
	assert.Equal(t, before, env.scheduler.totalSlotUnits())
}

func TestCreateBookingSpillsOverMultipleDays(t *testing.T) {
	// 750 minutes is 25 slots: a full 20-slot day plus 5 starting at 09:00 the
	// next day.
	env := newTestEnv(t,
		[]*models.ServicePackage{singlePackage("pkg-renovation", 750)},
		[]*models.Provider{activeProvider("prov-a", 1)},
	)
	date := futureDate(10)

	conf, err := env.service.CreateBooking(context.Background(), "user-1", models.BookingInput{
		PackageID:      "pkg-renovation",
		ProviderID:     "prov-a",
		ScheduledDate:  date,
		ScheduledTime:  "09:00",
		ServiceAddress: "12 Elm Street",
	})
	require.NoError(t, err)
	assert.Equal(t, 25, conf.SlotsReserved)

	slots, err := env.scheduler.GetBookingSlots(conf.BookingID)
	require.NoError(t, err)
	require.Len(t, slots, 25)
	assert.Equal(t, date, slots[19].Date)
	nextDay := futureDate(11)
	assert.Equal(t, nextDay, slots[20].Date)
	assert.Equal(t, "09:00", slots[20].Time)
	assert.Equal(t, "11:00", slots[24].Time)
}
