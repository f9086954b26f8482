package repository

import (
	"context"
	"time"

	"vehicletrack/internal/domain"
)

// LinkStatus filters shared-link listings by expiry.
type LinkStatus string

const (
	LinkStatusActive  LinkStatus = "active"
	LinkStatusExpired LinkStatus = "expired"
	LinkStatusAll     LinkStatus = "all"
)

// LinkFilter selects and orders a page of a user's shared links.
type LinkFilter struct {
	UserID string
	Status LinkStatus
	Now    time.Time
	// Sort is "createdAt" or "expiresAt"; Order is "asc" or "desc".
	Sort   string
	Order  string
	Offset int
	Limit  int
}

// SharedLinkRepository defines persistence operations for SharedLink entities.
type SharedLinkRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, link *domain.SharedLink) error
	GetByToken(ctx context.Context, token string) (*domain.SharedLink, error)
	// List returns the selected page and the total row count for the filter.
	List(ctx context.Context, filter LinkFilter) ([]domain.SharedLink, int, error)
	DeleteByToken(ctx context.Context, token string) error
}
