package booking

import (
	"context"
	"testing"

	"homeserve/models"
	"homeserve/services/scheduling"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bundlePackage(id string) *models.ServicePackage {
	return &models.ServicePackage{
		ID:          id,
		Name:        "Bundle " + id,
		PackageType: models.PackageTypeBundle,
		BasePrice:   300,
		Active:      true,
	}
}

// setupBundleEnv builds a move-out bundle of three services and three
// providers: one covering all services, one covering two, one inactive but
// covering all.
func setupBundleEnv(t *testing.T) *testEnv {
	t.Helper()

	full := activeProvider("prov-full", 2)
	partial := activeProvider("prov-partial", 2)
	dormant := activeProvider("prov-dormant", 2)
	dormant.Active = false

	env := newTestEnv(t,
		[]*models.ServicePackage{
			bundlePackage("bundle-moveout"),
			singlePackage("pkg-clean", 60),
			singlePackage("pkg-carpet", 45),
			singlePackage("pkg-windows", 30),
		},
		[]*models.Provider{full, partial, dormant},
	)

	for order, pkgID := range []string{"pkg-clean", "pkg-carpet", "pkg-windows"} {
		require.NoError(t, env.catalog.AddBundleItem(&models.BundleItem{
			BundleID:          "bundle-moveout",
			IncludedPackageID: pkgID,
			DisplayOrder:      order,
		}))
		require.NoError(t, env.providers.SetService(&models.ProviderService{
			ProviderID: "prov-full", PackageID: pkgID, Available: true,
		}))
		require.NoError(t, env.providers.SetService(&models.ProviderService{
			ProviderID: "prov-dormant", PackageID: pkgID, Available: true,
		}))
	}
	for _, pkgID := range []string{"pkg-clean", "pkg-carpet"} {
		require.NoError(t, env.providers.SetService(&models.ProviderService{
			ProviderID: "prov-partial", PackageID: pkgID, Available: true,
		}))
	}
	return env
}

func TestEligibleProvidersBundleRequiresFullCoverage(t *testing.T) {
	env := setupBundleEnv(t)

	ids, err := env.service.Matching.EligibleProviders("bundle-moveout")
	require.NoError(t, err)
	assert.Equal(t, []string{"prov-full"}, ids,
		"partial coverage and inactive providers are excluded; full coverage appears once")
}

func TestEligibleProvidersEmptyBundleMatchesNobody(t *testing.T) {
	env := newTestEnv(t,
		[]*models.ServicePackage{bundlePackage("bundle-empty")},
		[]*models.Provider{activeProvider("prov-a", 1)},
	)

	ids, err := env.service.Matching.EligibleProviders("bundle-empty")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestEligibleProvidersUnknownPackage(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	_, err := env.service.Matching.EligibleProviders("ghost")
	require.Error(t, err)
	assert.Equal(t, scheduling.KindNotFound, scheduling.KindOf(err))
}

func TestBundleBookingUsesSummedDuration(t *testing.T) {
	env := setupBundleEnv(t)

	// 60 + 45 + 30 = 135 minutes, which rounds up to 5 slots.
	conf, err := env.service.CreateBooking(context.Background(), "user-1", models.BookingInput{
		PackageID:      "bundle-moveout",
		ScheduledDate:  futureDate(6),
		ScheduledTime:  "09:00",
		ServiceAddress: "12 Elm Street",
	})
	require.NoError(t, err)
	assert.Equal(t, "prov-full", conf.ProviderID)
	assert.Equal(t, 5, conf.SlotsReserved)
}

func TestEffectiveDurationBundleFallsBackToOwn(t *testing.T) {
	bundle := bundlePackage("bundle-empty")
	bundle.DurationMinutes = 120
	env := newTestEnv(t, []*models.ServicePackage{bundle}, nil)

	duration, err := env.service.EffectiveDuration(bundle)
	require.NoError(t, err)
	assert.Equal(t, 120, duration, "itemless bundle uses its own stored duration")
}

func TestEffectivePrice(t *testing.T) {
	pkg := singlePackage("pkg-repair", 60)
	pkg.BasePrice = 200

	assert.InDelta(t, 200, EffectivePrice(pkg, nil), 0.001)
	assert.InDelta(t, 170, EffectivePrice(pkg, &models.WorkItem{DiscountPercent: 15}), 0.001)
	assert.InDelta(t, 200, EffectivePrice(pkg, &models.WorkItem{}), 0.001)
}

func TestNearbyProvidersSortedByDistance(t *testing.T) {
	near := activeProvider("prov-near", 1)
	near.LocationGeo = &models.GeoPoint{Type: "Point", Coordinates: []float64{36.8172, -1.2864}}
	far := activeProvider("prov-far", 1)
	far.LocationGeo = &models.GeoPoint{Type: "Point", Coordinates: []float64{36.9000, -1.2864}}
	remote := activeProvider("prov-remote", 1)
	remote.LocationGeo = &models.GeoPoint{Type: "Point", Coordinates: []float64{37.8000, -1.2864}}
	unlocated := activeProvider("prov-unlocated", 1)

	env := newTestEnv(t, nil, []*models.Provider{far, near, remote, unlocated})

	center := models.GeoPoint{Type: "Point", Coordinates: []float64{36.8219, -1.2921}}
	dtos, err := env.service.Matching.NearbyProviders(center, 25)
	require.NoError(t, err)

	require.Len(t, dtos, 2, "providers beyond the radius or without a location are excluded")
	assert.Equal(t, "prov-near", dtos[0].ID)
	assert.Equal(t, "prov-far", dtos[1].ID)
	assert.Less(t, dtos[0].Proximity, dtos[1].Proximity)
}
