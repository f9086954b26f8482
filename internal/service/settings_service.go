package service

import (
	"context"
	"errors"

	"vehicletrack/internal/domain"
	"vehicletrack/internal/repository"
)

// ErrInvalidThresholds rejects settings where the red threshold does not
// come before the orange one.
var ErrInvalidThresholds = errors.New("red threshold must be below orange threshold")

// SettingsService manages per-user notification settings.
type SettingsService interface {
	Get(ctx context.Context, userID string) (*domain.UserSettings, error)
	Update(ctx context.Context, settings domain.UserSettings) (*domain.UserSettings, error)
}

type settingsService struct {
	settings repository.SettingsRepository
}

func NewSettingsService(settings repository.SettingsRepository) SettingsService {
	return &settingsService{settings: settings}
}

// Get returns stored settings or the defaults when the user never saved any.
func (s *settingsService) Get(ctx context.Context, userID string) (*domain.UserSettings, error) {
	settings, err := s.settings.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			defaults := domain.DefaultSettings(userID)
			return &defaults, nil
		}
		return nil, err
	}
	return settings, nil
}

func (s *settingsService) Update(ctx context.Context, settings domain.UserSettings) (*domain.UserSettings, error) {
	if settings.RedThreshold >= settings.OrangeThreshold {
		return nil, ErrInvalidThresholds
	}
	if err := s.settings.Upsert(ctx, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}
