package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicletrack/internal/domain"
	"vehicletrack/internal/repository"
)

func newVehicleTestRepos(t *testing.T) (repository.VehicleRepository, repository.DamageReportRepository) {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "vehicles.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	vehicles := NewVehicleRepository(db)
	reports := NewDamageReportRepository(db)
	require.NoError(t, vehicles.Init(context.Background()))
	require.NoError(t, reports.Init(context.Background()))
	return vehicles, reports
}

func TestVehicleRoundTrip(t *testing.T) {
	vehicles, _ := newVehicleTestRepos(t)
	ctx := context.Background()

	interval := 180
	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	vehicle := &domain.Vehicle{
		ID:                "v-1",
		UserID:            "u-1",
		PlateNumber:       "AB123CD",
		Type:              domain.VehicleTypeB,
		InsuranceInterval: &interval,
		InsuranceDue:      &due,
	}
	require.NoError(t, vehicles.Create(ctx, vehicle))

	got, err := vehicles.GetByID(ctx, "v-1")
	require.NoError(t, err)
	assert.Equal(t, domain.VehicleTypeB, got.Type)
	require.NotNil(t, got.InsuranceInterval)
	assert.Equal(t, 180, *got.InsuranceInterval)
	require.NotNil(t, got.InsuranceDue)
	assert.WithinDuration(t, due, *got.InsuranceDue, time.Second)

	// untracked fields stay NULL end to end
	assert.Nil(t, got.TaxInterval)
	assert.Nil(t, got.TaxDue)
	assert.Nil(t, got.InspectionDue)
}

func TestVehicleListByUser(t *testing.T) {
	vehicles, _ := newVehicleTestRepos(t)
	ctx := context.Background()

	for _, id := range []string{"v-1", "v-2"} {
		require.NoError(t, vehicles.Create(ctx, &domain.Vehicle{
			ID: id, UserID: "owner", PlateNumber: "AB123CD", Type: domain.VehicleTypeB,
		}))
	}
	require.NoError(t, vehicles.Create(ctx, &domain.Vehicle{
		ID: "v-3", UserID: "other", PlateNumber: "CD456EF", Type: domain.VehicleTypeC,
	}))

	listed, err := vehicles.ListByUser(ctx, "owner")
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	empty, err := vehicles.ListByUser(ctx, "stranger")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestVehicleUpdateAndDelete(t *testing.T) {
	vehicles, _ := newVehicleTestRepos(t)
	ctx := context.Background()

	vehicle := &domain.Vehicle{ID: "v-1", UserID: "u-1", PlateNumber: "AB123CD", Type: domain.VehicleTypeB}
	require.NoError(t, vehicles.Create(ctx, vehicle))

	vehicle.PlateNumber = "ZX987YW"
	interval := 365
	vehicle.TaxInterval = &interval
	require.NoError(t, vehicles.Update(ctx, vehicle))

	got, err := vehicles.GetByID(ctx, "v-1")
	require.NoError(t, err)
	assert.Equal(t, "ZX987YW", got.PlateNumber)
	require.NotNil(t, got.TaxInterval)
	assert.Equal(t, 365, *got.TaxInterval)

	assert.ErrorIs(t, vehicles.Update(ctx, &domain.Vehicle{ID: "missing"}), repository.ErrNotFound)

	require.NoError(t, vehicles.Delete(ctx, "v-1"))
	assert.ErrorIs(t, vehicles.Delete(ctx, "v-1"), repository.ErrNotFound)
	_, err = vehicles.GetByID(ctx, "v-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteVehicleCascadesReports(t *testing.T) {
	vehicles, reports := newVehicleTestRepos(t)
	ctx := context.Background()

	require.NoError(t, vehicles.Create(ctx, &domain.Vehicle{
		ID: "v-1", UserID: "u-1", PlateNumber: "AB123CD", Type: domain.VehicleTypeB,
	}))
	require.NoError(t, reports.Create(ctx, &domain.DamageReport{
		ID:          "r-1",
		VehicleID:   "v-1",
		Description: "scratched bumper in the parking lot",
		Severity:    domain.SeverityMinor,
		ReportedAt:  time.Now().UTC(),
	}))

	require.NoError(t, vehicles.Delete(ctx, "v-1"))
	_, err := reports.GetByID(ctx, "r-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
