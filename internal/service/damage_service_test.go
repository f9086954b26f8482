package service

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicletrack/internal/domain"
	"vehicletrack/internal/repository"
	"vehicletrack/internal/repository/sqlite"
	"vehicletrack/internal/storage"
)

// memStorage keeps uploaded objects in a map, keyed bucket-wide.
type memStorage struct {
	objects map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}}
}

func (m *memStorage) UploadObject(_ context.Context, _, key, _ string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

func (m *memStorage) ListObjects(_ context.Context, _, prefix string) ([]storage.ObjectInfo, error) {
	var infos []storage.ObjectInfo
	for key, data := range m.objects {
		if strings.HasPrefix(key, prefix) {
			infos = append(infos, storage.ObjectInfo{Key: key, Size: int64(len(data))})
		}
	}
	return infos, nil
}

func (m *memStorage) DeletePrefix(_ context.Context, _, prefix string) error {
	for key := range m.objects {
		if strings.HasPrefix(key, prefix) {
			delete(m.objects, key)
		}
	}
	return nil
}

func (m *memStorage) GetObjectURL(_ context.Context, _, key string, _ time.Duration) (string, error) {
	return "https://storage.example.com/" + key, nil
}

func newDamageFixture(t *testing.T, store storage.Service) (*damageService, repository.VehicleRepository) {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "damage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	vehicles := sqlite.NewVehicleRepository(db)
	reports := sqlite.NewDamageReportRepository(db)
	require.NoError(t, vehicles.Init(context.Background()))
	require.NoError(t, reports.Init(context.Background()))

	bucket := ""
	if store != nil {
		bucket = "photos"
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	svc := NewDamageService(reports, vehicles, store, bucket, "damage-reports", logger).(*damageService)
	return svc, vehicles
}

func TestDamageReportLifecycle(t *testing.T) {
	svc, vehicles := newDamageFixture(t, nil)
	ctx := context.Background()
	vehicle := addVehicle(t, vehicles, "owner", "AB123CD")

	report, err := svc.Create(ctx, "owner", vehicle.ID, DamageReportInput{
		Description: "scratched rear bumper after parking",
		Severity:    domain.SeverityMinor,
	})
	require.NoError(t, err)
	assert.Nil(t, report.ResolvedAt)

	listed, err := svc.ListByVehicle(ctx, "owner", vehicle.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, report.ID, listed[0].ID)

	resolved := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	updated, err := svc.Update(ctx, "owner", report.ID, DamageReportInput{
		Description: "scratched rear bumper, repaired at the shop",
		Severity:    domain.SeverityModerate,
		ResolvedAt:  &resolved,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SeverityModerate, updated.Severity)
	require.NotNil(t, updated.ResolvedAt)

	require.NoError(t, svc.Delete(ctx, "owner", report.ID))
	_, err = svc.Update(ctx, "owner", report.ID, DamageReportInput{})
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestDamageReportOwnership(t *testing.T) {
	svc, vehicles := newDamageFixture(t, nil)
	ctx := context.Background()
	vehicle := addVehicle(t, vehicles, "owner", "AB123CD")

	report, err := svc.Create(ctx, "owner", vehicle.ID, DamageReportInput{
		Description: "cracked windshield on the highway",
		Severity:    domain.SeveritySevere,
	})
	require.NoError(t, err)

	// foreign vehicles and reports read as missing, never as forbidden
	_, err = svc.Create(ctx, "intruder", vehicle.ID, DamageReportInput{
		Description: "does not matter, wrong account",
		Severity:    domain.SeverityMinor,
	})
	assert.ErrorIs(t, err, ErrVehicleNotFound)

	_, err = svc.ListByVehicle(ctx, "intruder", vehicle.ID)
	assert.ErrorIs(t, err, ErrVehicleNotFound)

	_, err = svc.Update(ctx, "intruder", report.ID, DamageReportInput{})
	assert.ErrorIs(t, err, ErrReportNotFound)

	err = svc.Delete(ctx, "intruder", report.ID)
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestDamagePhotos(t *testing.T) {
	store := newMemStorage()
	svc, vehicles := newDamageFixture(t, store)
	ctx := context.Background()
	vehicle := addVehicle(t, vehicles, "owner", "AB123CD")

	report, err := svc.Create(ctx, "owner", vehicle.ID, DamageReportInput{
		Description: "dented door from a shopping cart",
		Severity:    domain.SeverityMinor,
	})
	require.NoError(t, err)

	key, err := svc.AddPhoto(ctx, "owner", report.ID, "door.JPG", "image/jpeg", strings.NewReader("fake-jpeg"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "damage-reports/"+report.ID+"/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))

	photos, err := svc.ListPhotos(ctx, "owner", report.ID)
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.Equal(t, key, photos[0].Key)
	assert.Equal(t, int64(len("fake-jpeg")), photos[0].Size)
	assert.Equal(t, "https://storage.example.com/"+key, photos[0].URL)

	_, err = svc.ListPhotos(ctx, "intruder", report.ID)
	assert.ErrorIs(t, err, ErrReportNotFound)

	// deleting the report sweeps its objects
	require.NoError(t, svc.Delete(ctx, "owner", report.ID))
	assert.Empty(t, store.objects)
}

func TestPhotosWithoutStorage(t *testing.T) {
	svc, vehicles := newDamageFixture(t, nil)
	ctx := context.Background()
	vehicle := addVehicle(t, vehicles, "owner", "AB123CD")

	report, err := svc.Create(ctx, "owner", vehicle.ID, DamageReportInput{
		Description: "hail damage across the hood",
		Severity:    domain.SeverityModerate,
	})
	require.NoError(t, err)

	_, err = svc.AddPhoto(ctx, "owner", report.ID, "hood.png", "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	_, err = svc.ListPhotos(ctx, "owner", report.ID)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}
