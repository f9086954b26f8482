package domain

import "time"

// SharedLink is a public, expiring handle onto one vehicle's compliance
// summary. Token is 16 lowercase hex characters.
type SharedLink struct {
	ID          string
	VehicleID   string
	Token       string
	Description string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// Expired reports whether the link is past its expiry at the given instant.
func (l SharedLink) Expired(now time.Time) bool {
	return l.ExpiresAt.Before(now)
}
