package repository

import (
	"context"
	"time"

	"vehicletrack/internal/domain"
)

// UserRepository defines persistence operations for User entities. Mutations
// beyond Create are partial single-row updates.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// SetOTP overwrites the open verification window for the user.
	SetOTP(ctx context.Context, id, code string, expiresAt time.Time) error
	// ClearOTP closes the verification window and marks the user verified.
	ClearOTP(ctx context.Context, id string) error
	SetLastLogin(ctx context.Context, id string, at time.Time) error
}
