package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"vehicletrack/internal/domain"
	"vehicletrack/internal/repository"
)

// romeLocation renders due dates in the jurisdiction's local time.
var romeLocation = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		return time.UTC
	}
	return loc
}()

// CreateVehicleInput carries a validated vehicle registration. Paid dates
// are only consulted for fields whose tracking is enabled.
type CreateVehicleInput struct {
	Plate             string
	Type              domain.VehicleType
	InsuranceInterval *int
	TaxInterval       *int
	LastInsurancePaid time.Time
	LastTaxPaid       time.Time
	LastInspectionPaid *time.Time
}

// UpdateVehicleInput carries a partial update; nil fields keep their value.
// Supplying an interval recomputes the matching due date from today.
type UpdateVehicleInput struct {
	Plate             *string
	Type              *domain.VehicleType
	InsuranceInterval *int
	TaxInterval       *int
}

// VehicleStatus is the per-field traffic-light classification.
type VehicleStatus struct {
	Insurance  domain.DueStatus
	Tax        domain.DueStatus
	Inspection domain.DueStatus
}

// VehicleView pairs a vehicle with its computed status.
type VehicleView struct {
	domain.Vehicle
	Status VehicleStatus
}

// VehicleService manages vehicle registration and compliance status.
type VehicleService interface {
	Create(ctx context.Context, userID string, in CreateVehicleInput) (*VehicleView, error)
	List(ctx context.Context, userID string) ([]VehicleView, error)
	Get(ctx context.Context, userID, vehicleID string) (*VehicleView, error)
	Update(ctx context.Context, userID, vehicleID string, in UpdateVehicleInput) (*VehicleView, error)
	Delete(ctx context.Context, userID, vehicleID string) error
}

type vehicleService struct {
	vehicles repository.VehicleRepository
	settings repository.SettingsRepository
	now      func() time.Time
}

func NewVehicleService(vehicles repository.VehicleRepository, settings repository.SettingsRepository) VehicleService {
	return &vehicleService{
		vehicles: vehicles,
		settings: settings,
		now:      time.Now,
	}
}

func (s *vehicleService) Create(ctx context.Context, userID string, in CreateVehicleInput) (*VehicleView, error) {
	vehicle := &domain.Vehicle{
		ID:                uuid.NewString(),
		UserID:            userID,
		PlateNumber:       in.Plate,
		Type:              in.Type,
		InsuranceInterval: in.InsuranceInterval,
		TaxInterval:       in.TaxInterval,
	}

	if in.InsuranceInterval != nil {
		due := dueDate(in.LastInsurancePaid, *in.InsuranceInterval)
		vehicle.InsuranceDue = &due
	}
	if in.TaxInterval != nil {
		due := dueDate(in.LastTaxPaid, *in.TaxInterval)
		vehicle.TaxDue = &due
	}
	if in.LastInspectionPaid != nil {
		due := dueDate(*in.LastInspectionPaid, in.Type.InspectionIntervalDays())
		vehicle.InspectionDue = &due
	}

	if err := s.vehicles.Create(ctx, vehicle); err != nil {
		return nil, err
	}
	return s.withStatus(ctx, vehicle)
}

func (s *vehicleService) List(ctx context.Context, userID string) ([]VehicleView, error) {
	vehicles, err := s.vehicles.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	thresholds := s.thresholds(ctx, userID)
	views := make([]VehicleView, len(vehicles))
	for i := range vehicles {
		views[i] = VehicleView{
			Vehicle: vehicles[i],
			Status:  s.status(&vehicles[i], thresholds),
		}
	}
	return views, nil
}

func (s *vehicleService) Get(ctx context.Context, userID, vehicleID string) (*VehicleView, error) {
	vehicle, err := s.owned(ctx, userID, vehicleID)
	if err != nil {
		return nil, err
	}
	return s.withStatus(ctx, vehicle)
}

func (s *vehicleService) Update(ctx context.Context, userID, vehicleID string, in UpdateVehicleInput) (*VehicleView, error) {
	vehicle, err := s.owned(ctx, userID, vehicleID)
	if err != nil {
		return nil, err
	}

	if in.Plate != nil {
		vehicle.PlateNumber = *in.Plate
	}
	if in.Type != nil {
		vehicle.Type = *in.Type
	}
	if in.InsuranceInterval != nil {
		vehicle.InsuranceInterval = in.InsuranceInterval
		due := dueDate(s.now(), *in.InsuranceInterval)
		vehicle.InsuranceDue = &due
	}
	if in.TaxInterval != nil {
		vehicle.TaxInterval = in.TaxInterval
		due := dueDate(s.now(), *in.TaxInterval)
		vehicle.TaxDue = &due
	}

	if err := s.vehicles.Update(ctx, vehicle); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return s.withStatus(ctx, vehicle)
}

func (s *vehicleService) Delete(ctx context.Context, userID, vehicleID string) error {
	if _, err := s.owned(ctx, userID, vehicleID); err != nil {
		return err
	}
	if err := s.vehicles.Delete(ctx, vehicleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrVehicleNotFound
		}
		return err
	}
	return nil
}

// owned fetches a vehicle and enforces that it belongs to the caller.
func (s *vehicleService) owned(ctx context.Context, userID, vehicleID string) (*domain.Vehicle, error) {
	vehicle, err := s.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	if vehicle.UserID != userID {
		return nil, ErrForbidden
	}
	return vehicle, nil
}

func (s *vehicleService) withStatus(ctx context.Context, vehicle *domain.Vehicle) (*VehicleView, error) {
	thresholds := s.thresholds(ctx, vehicle.UserID)
	return &VehicleView{
		Vehicle: *vehicle,
		Status:  s.status(vehicle, thresholds),
	}, nil
}

// thresholds loads the owner's settings, falling back to defaults.
func (s *vehicleService) thresholds(ctx context.Context, userID string) domain.UserSettings {
	settings, err := s.settings.Get(ctx, userID)
	if err != nil {
		return domain.DefaultSettings(userID)
	}
	return *settings
}

func (s *vehicleService) status(vehicle *domain.Vehicle, settings domain.UserSettings) VehicleStatus {
	return VehicleStatus{
		Insurance:  s.statusFor(vehicle.InsuranceDue, settings),
		Tax:        s.statusFor(vehicle.TaxDue, settings),
		Inspection: s.statusFor(vehicle.InspectionDue, settings),
	}
}

func (s *vehicleService) statusFor(due *time.Time, settings domain.UserSettings) domain.DueStatus {
	if due == nil {
		return domain.StatusGray
	}
	days := int(math.Ceil(due.Sub(s.now()).Hours() / 24))
	switch {
	case days <= settings.RedThreshold:
		return domain.StatusRed
	case days <= settings.OrangeThreshold:
		return domain.StatusOrange
	default:
		return domain.StatusGreen
	}
}

// dueDate adds intervalDays to the start date's midnight and renders the
// result in the Europe/Rome zone.
func dueDate(start time.Time, intervalDays int) time.Time {
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, intervalDays).In(romeLocation)
}
