package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUserAlreadyExists is returned when signing up with a taken email.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrUserNotFound is returned by lookup endpoints for unknown emails.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials covers unknown email and wrong password alike,
	// so login responses never reveal whether an account exists.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrOTPMismatch indicates the submitted code does not match the open
	// verification window (including no window being open).
	ErrOTPMismatch = errors.New("invalid otp")
	// ErrOTPExpired indicates the code matched but its window has closed.
	ErrOTPExpired = errors.New("otp expired")

	// ErrVehicleNotFound is returned for missing vehicles and, in nested
	// resources, for vehicles owned by someone else.
	ErrVehicleNotFound = errors.New("vehicle not found")
	// ErrForbidden is returned when a caller addresses a resource they can
	// see exists but do not own.
	ErrForbidden = errors.New("forbidden")
	// ErrReportNotFound is returned for missing damage reports.
	ErrReportNotFound = errors.New("damage report not found")
	// ErrLinkNotFound is returned for missing or foreign shared links.
	ErrLinkNotFound = errors.New("shared link not found")
	// ErrStorageUnavailable is returned by photo operations when no object
	// storage bucket is configured.
	ErrStorageUnavailable = errors.New("object storage not configured")
)

// RateLimitedError denies a request under a rate-limit policy and carries
// the retry hint surfaced to the client.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}
