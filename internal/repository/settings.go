package repository

import (
	"context"

	"vehicletrack/internal/domain"
)

// SettingsRepository defines persistence operations for UserSettings.
type SettingsRepository interface {
	Init(ctx context.Context) error
	Get(ctx context.Context, userID string) (*domain.UserSettings, error)
	Upsert(ctx context.Context, settings *domain.UserSettings) error
}
