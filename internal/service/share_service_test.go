package service

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicletrack/internal/domain"
	"vehicletrack/internal/repository"
	"vehicletrack/internal/repository/sqlite"
)

var hexTokenRe = regexp.MustCompile(`^[a-f0-9]{16}$`)

func newShareFixture(t *testing.T) (*shareService, repository.VehicleRepository) {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "share.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	vehicles := sqlite.NewVehicleRepository(db)
	links := sqlite.NewSharedLinkRepository(db)
	require.NoError(t, vehicles.Init(context.Background()))
	require.NoError(t, links.Init(context.Background()))

	return NewShareService(links, vehicles, "https://track.example.com/").(*shareService), vehicles
}

func addVehicle(t *testing.T, vehicles repository.VehicleRepository, userID, plate string) *domain.Vehicle {
	t.Helper()
	vehicle := &domain.Vehicle{
		ID:          plate + "-id",
		UserID:      userID,
		PlateNumber: plate,
		Type:        domain.VehicleTypeB,
	}
	require.NoError(t, vehicles.Create(context.Background(), vehicle))
	return vehicle
}

func TestGenerateShareLink(t *testing.T) {
	svc, vehicles := newShareFixture(t)
	ctx := context.Background()
	vehicle := addVehicle(t, vehicles, "owner", "AB123CD")

	link, err := svc.Generate(ctx, "owner", vehicle.ID, 48, "for the buyer")
	require.NoError(t, err)

	assert.Regexp(t, hexTokenRe, link.Token)
	assert.Equal(t, "https://track.example.com/share/"+link.Token, link.URL)
	assert.Equal(t, "for the buyer", link.Description)
	assert.WithinDuration(t, time.Now().Add(48*time.Hour), link.ExpiresAt, time.Minute)

	// only the owner can share a vehicle
	_, err = svc.Generate(ctx, "intruder", vehicle.ID, 48, "")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Generate(ctx, "owner", "no-such-vehicle", 48, "")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestResolveShareLink(t *testing.T) {
	svc, vehicles := newShareFixture(t)
	ctx := context.Background()

	due := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	vehicle := &domain.Vehicle{
		ID:           "v-1",
		UserID:       "owner",
		PlateNumber:  "ZX987YW",
		Type:         domain.VehicleTypeC,
		InsuranceDue: &due,
	}
	require.NoError(t, vehicles.Create(ctx, vehicle))

	link, err := svc.Generate(ctx, "owner", vehicle.ID, 24, "")
	require.NoError(t, err)

	resolved, err := svc.Resolve(ctx, link.Token)
	require.NoError(t, err)
	assert.False(t, resolved.IsExpired)
	assert.Equal(t, "ZX987YW", resolved.Vehicle.PlateNumber)
	require.NotNil(t, resolved.Vehicle.InsuranceDue)
	assert.Equal(t, due, resolved.Vehicle.InsuranceDue.UTC())

	// expired links still resolve, flagged
	svc.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	resolved, err = svc.Resolve(ctx, link.Token)
	require.NoError(t, err)
	assert.True(t, resolved.IsExpired)

	_, err = svc.Resolve(ctx, "0123456789abcdef")
	assert.ErrorIs(t, err, ErrLinkNotFound)
}

func TestListShareLinks(t *testing.T) {
	svc, vehicles := newShareFixture(t)
	ctx := context.Background()
	vehicle := addVehicle(t, vehicles, "owner", "AB123CD")
	foreign := addVehicle(t, vehicles, "other", "CD456EF")

	for i := 0; i < 5; i++ {
		_, err := svc.Generate(ctx, "owner", vehicle.ID, 24, "")
		require.NoError(t, err)
	}
	_, err := svc.Generate(ctx, "other", foreign.ID, 24, "")
	require.NoError(t, err)

	result, err := svc.List(ctx, "owner", ListLinksQuery{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, result.Total)
	assert.Len(t, result.Links, 2)
	assert.True(t, result.HasMore)

	result, err = svc.List(ctx, "owner", ListLinksQuery{Page: 3, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, result.Links, 1)
	assert.False(t, result.HasMore)

	// expired links drop out of the default filter
	svc.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	result, err = svc.List(ctx, "owner", ListLinksQuery{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)

	result, err = svc.List(ctx, "owner", ListLinksQuery{Status: repository.LinkStatusExpired})
	require.NoError(t, err)
	assert.Equal(t, 5, result.Total)
}

func TestRevokeShareLink(t *testing.T) {
	svc, vehicles := newShareFixture(t)
	ctx := context.Background()
	vehicle := addVehicle(t, vehicles, "owner", "AB123CD")

	link, err := svc.Generate(ctx, "owner", vehicle.ID, 24, "")
	require.NoError(t, err)

	// foreign links read as missing
	err = svc.Revoke(ctx, "intruder", link.Token)
	assert.ErrorIs(t, err, ErrLinkNotFound)

	require.NoError(t, svc.Revoke(ctx, "owner", link.Token))
	_, err = svc.Resolve(ctx, link.Token)
	assert.ErrorIs(t, err, ErrLinkNotFound)
}
