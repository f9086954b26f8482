package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"vehicletrack/internal/domain"
	"vehicletrack/internal/repository"
)

const createUserSettingsTable = `
CREATE TABLE IF NOT EXISTS user_settings (
	user_id TEXT PRIMARY KEY,
	notification_days INTEGER NOT NULL,
	red_threshold INTEGER NOT NULL,
	orange_threshold INTEGER NOT NULL
);
`

type SettingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) repository.SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUserSettingsTable); err != nil {
		return fmt.Errorf("create user settings table: %w", err)
	}
	return nil
}

func (r *SettingsRepository) Get(ctx context.Context, userID string) (*domain.UserSettings, error) {
	var settings domain.UserSettings
	err := r.db.QueryRowContext(ctx, `
SELECT user_id, notification_days, red_threshold, orange_threshold
FROM user_settings
WHERE user_id = ?`,
		userID,
	).Scan(
		&settings.UserID,
		&settings.NotificationDays,
		&settings.RedThreshold,
		&settings.OrangeThreshold,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user settings: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan user settings: %w", err)
	}
	return &settings, nil
}

func (r *SettingsRepository) Upsert(ctx context.Context, settings *domain.UserSettings) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO user_settings (user_id, notification_days, red_threshold, orange_threshold)
VALUES (?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
	notification_days = excluded.notification_days,
	red_threshold = excluded.red_threshold,
	orange_threshold = excluded.orange_threshold`,
		settings.UserID,
		settings.NotificationDays,
		settings.RedThreshold,
		settings.OrangeThreshold,
	)
	if err != nil {
		return fmt.Errorf("upsert user settings: %w", err)
	}
	return nil
}
