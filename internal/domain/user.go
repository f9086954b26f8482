package domain

import "time"

// User represents an account holder. OTPCode and OTPExpiresAt are set only
// while a verification window is open: both nil or both non-nil.
type User struct {
	ID               string
	Email            string
	Name             string
	PasswordHash     string
	OTPCode          *string
	OTPExpiresAt     *time.Time
	TwoFactorEnabled bool
	LastLoginAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
