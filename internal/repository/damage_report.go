package repository

import (
	"context"

	"vehicletrack/internal/domain"
)

// DamageReportRepository defines persistence operations for DamageReport entities.
type DamageReportRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, report *domain.DamageReport) error
	GetByID(ctx context.Context, id string) (*domain.DamageReport, error)
	// ListByVehicle returns reports newest first.
	ListByVehicle(ctx context.Context, vehicleID string) ([]domain.DamageReport, error)
	Update(ctx context.Context, report *domain.DamageReport) error
	Delete(ctx context.Context, id string) error
}
