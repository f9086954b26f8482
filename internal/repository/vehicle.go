package repository

import (
	"context"

	"vehicletrack/internal/domain"
)

// VehicleRepository defines persistence operations for Vehicle entities.
// Update persists the full row; callers read-modify-write.
type VehicleRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, vehicle *domain.Vehicle) error
	GetByID(ctx context.Context, id string) (*domain.Vehicle, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Vehicle, error)
	Update(ctx context.Context, vehicle *domain.Vehicle) error
	Delete(ctx context.Context, id string) error
}
