package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"vehicletrack/internal/domain"
	"vehicletrack/internal/repository"
	"vehicletrack/internal/storage"
)

const photoURLValidity = 15 * time.Minute

// DamageReportInput carries a validated report payload.
type DamageReportInput struct {
	Description string
	Severity    domain.Severity
	ResolvedAt  *time.Time
}

// Photo is a stored attachment with a presigned download URL.
type Photo struct {
	Key  string
	Size int64
	URL  string
}

// DamageService manages damage reports and their photo attachments. All
// operations are scoped to the owner of the underlying vehicle.
type DamageService interface {
	Create(ctx context.Context, userID, vehicleID string, in DamageReportInput) (*domain.DamageReport, error)
	ListByVehicle(ctx context.Context, userID, vehicleID string) ([]domain.DamageReport, error)
	Update(ctx context.Context, userID, reportID string, in DamageReportInput) (*domain.DamageReport, error)
	Delete(ctx context.Context, userID, reportID string) error
	AddPhoto(ctx context.Context, userID, reportID, filename, contentType string, body io.Reader) (string, error)
	ListPhotos(ctx context.Context, userID, reportID string) ([]Photo, error)
}

type damageService struct {
	reports  repository.DamageReportRepository
	vehicles repository.VehicleRepository
	storage  storage.Service
	bucket   string
	prefix   string
	logger   *logrus.Logger
}

// NewDamageService builds a damage service; store may be nil when no object
// storage is configured, in which case photo operations are unavailable.
func NewDamageService(
	reports repository.DamageReportRepository,
	vehicles repository.VehicleRepository,
	store storage.Service,
	bucket, prefix string,
	logger *logrus.Logger,
) DamageService {
	return &damageService{
		reports:  reports,
		vehicles: vehicles,
		storage:  store,
		bucket:   bucket,
		prefix:   strings.Trim(prefix, "/"),
		logger:   logger,
	}
}

func (s *damageService) Create(ctx context.Context, userID, vehicleID string, in DamageReportInput) (*domain.DamageReport, error) {
	if err := s.ownedVehicle(ctx, userID, vehicleID); err != nil {
		return nil, err
	}

	report := &domain.DamageReport{
		ID:          uuid.NewString(),
		VehicleID:   vehicleID,
		Description: in.Description,
		Severity:    in.Severity,
		ReportedAt:  time.Now().UTC(),
		ResolvedAt:  in.ResolvedAt,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *damageService) ListByVehicle(ctx context.Context, userID, vehicleID string) ([]domain.DamageReport, error) {
	if err := s.ownedVehicle(ctx, userID, vehicleID); err != nil {
		return nil, err
	}
	return s.reports.ListByVehicle(ctx, vehicleID)
}

func (s *damageService) Update(ctx context.Context, userID, reportID string, in DamageReportInput) (*domain.DamageReport, error) {
	report, err := s.ownedReport(ctx, userID, reportID)
	if err != nil {
		return nil, err
	}

	report.Description = in.Description
	report.Severity = in.Severity
	report.ResolvedAt = in.ResolvedAt

	if err := s.reports.Update(ctx, report); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return report, nil
}

func (s *damageService) Delete(ctx context.Context, userID, reportID string) error {
	report, err := s.ownedReport(ctx, userID, reportID)
	if err != nil {
		return err
	}
	if err := s.reports.Delete(ctx, reportID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrReportNotFound
		}
		return err
	}

	// photos are best effort: orphaned objects are logged, not fatal
	if s.storage != nil && s.bucket != "" {
		if err := s.storage.DeletePrefix(ctx, s.bucket, s.photoPrefix(report.ID)); err != nil {
			s.logger.WithError(err).Warnf("delete photos for report %s", report.ID)
		}
	}
	return nil
}

func (s *damageService) AddPhoto(ctx context.Context, userID, reportID, filename, contentType string, body io.Reader) (string, error) {
	if s.storage == nil || s.bucket == "" {
		return "", ErrStorageUnavailable
	}
	if _, err := s.ownedReport(ctx, userID, reportID); err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s%s", s.photoPrefix(reportID), uuid.NewString(), strings.ToLower(path.Ext(filename)))
	if err := s.storage.UploadObject(ctx, s.bucket, key, contentType, body); err != nil {
		return "", err
	}
	return key, nil
}

func (s *damageService) ListPhotos(ctx context.Context, userID, reportID string) ([]Photo, error) {
	if s.storage == nil || s.bucket == "" {
		return nil, ErrStorageUnavailable
	}
	if _, err := s.ownedReport(ctx, userID, reportID); err != nil {
		return nil, err
	}

	objects, err := s.storage.ListObjects(ctx, s.bucket, s.photoPrefix(reportID)+"/")
	if err != nil {
		return nil, err
	}

	photos := make([]Photo, 0, len(objects))
	for _, obj := range objects {
		url, err := s.storage.GetObjectURL(ctx, s.bucket, obj.Key, photoURLValidity)
		if err != nil {
			return nil, err
		}
		photos = append(photos, Photo{Key: obj.Key, Size: obj.Size, URL: url})
	}
	return photos, nil
}

func (s *damageService) photoPrefix(reportID string) string {
	if s.prefix == "" {
		return reportID
	}
	return s.prefix + "/" + reportID
}

// ownedVehicle enforces that the vehicle exists and belongs to the caller.
// Foreign vehicles read as missing so report routes don't leak ownership.
func (s *damageService) ownedVehicle(ctx context.Context, userID, vehicleID string) error {
	vehicle, err := s.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrVehicleNotFound
		}
		return err
	}
	if vehicle.UserID != userID {
		return ErrVehicleNotFound
	}
	return nil
}

func (s *damageService) ownedReport(ctx context.Context, userID, reportID string) (*domain.DamageReport, error) {
	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	if err := s.ownedVehicle(ctx, userID, report.VehicleID); err != nil {
		return nil, ErrReportNotFound
	}
	return report, nil
}
