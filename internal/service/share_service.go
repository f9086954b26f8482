package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"vehicletrack/internal/domain"
	"vehicletrack/internal/repository"
)

const shareTokenBytes = 8

// LinkView is a shared link with its public URL.
type LinkView struct {
	domain.SharedLink
	URL string
}

// ListLinksQuery selects a page of the caller's links. Zero values take the
// defaults: page 1, limit 20, active links, newest first.
type ListLinksQuery struct {
	Page   int
	Limit  int
	Status repository.LinkStatus
	Sort   string
	Order  string
}

// ListLinksResult is one page plus paging metadata.
type ListLinksResult struct {
	Links   []LinkView
	Total   int
	Page    int
	Limit   int
	HasMore bool
}

// SharedVehicle is the public compliance summary exposed through a link.
type SharedVehicle struct {
	ID            string
	PlateNumber   string
	Type          domain.VehicleType
	InsuranceDue  *time.Time
	TaxDue        *time.Time
	InspectionDue *time.Time
}

// ResolvedLink is the public view of a shared link. Expired links still
// resolve, flagged as such.
type ResolvedLink struct {
	LinkView
	IsExpired bool
	Vehicle   SharedVehicle
}

// ShareService manages expiring public links onto vehicles.
type ShareService interface {
	Generate(ctx context.Context, userID, vehicleID string, expiresInHours int, description string) (*LinkView, error)
	List(ctx context.Context, userID string, q ListLinksQuery) (*ListLinksResult, error)
	Resolve(ctx context.Context, tokenValue string) (*ResolvedLink, error)
	Revoke(ctx context.Context, userID, tokenValue string) error
}

type shareService struct {
	links    repository.SharedLinkRepository
	vehicles repository.VehicleRepository
	baseURL  string
	now      func() time.Time
}

func NewShareService(links repository.SharedLinkRepository, vehicles repository.VehicleRepository, baseURL string) ShareService {
	return &shareService{
		links:    links,
		vehicles: vehicles,
		baseURL:  strings.TrimRight(baseURL, "/"),
		now:      time.Now,
	}
}

func (s *shareService) Generate(ctx context.Context, userID, vehicleID string, expiresInHours int, description string) (*LinkView, error) {
	vehicle, err := s.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	if vehicle.UserID != userID {
		return nil, ErrForbidden
	}

	tokenValue, err := generateShareToken()
	if err != nil {
		return nil, fmt.Errorf("generate share token: %w", err)
	}

	link := &domain.SharedLink{
		ID:          uuid.NewString(),
		VehicleID:   vehicleID,
		Token:       tokenValue,
		Description: description,
		ExpiresAt:   s.now().Add(time.Duration(expiresInHours) * time.Hour),
	}
	if err := s.links.Create(ctx, link); err != nil {
		return nil, err
	}
	return s.view(link), nil
}

func (s *shareService) List(ctx context.Context, userID string, q ListLinksQuery) (*ListLinksResult, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 20
	}
	if q.Status == "" {
		q.Status = repository.LinkStatusActive
	}

	links, total, err := s.links.List(ctx, repository.LinkFilter{
		UserID: userID,
		Status: q.Status,
		Now:    s.now(),
		Sort:   q.Sort,
		Order:  q.Order,
		Offset: (q.Page - 1) * q.Limit,
		Limit:  q.Limit,
	})
	if err != nil {
		return nil, err
	}

	views := make([]LinkView, len(links))
	for i := range links {
		views[i] = *s.view(&links[i])
	}
	return &ListLinksResult{
		Links:   views,
		Total:   total,
		Page:    q.Page,
		Limit:   q.Limit,
		HasMore: q.Page*q.Limit < total,
	}, nil
}

func (s *shareService) Resolve(ctx context.Context, tokenValue string) (*ResolvedLink, error) {
	link, err := s.links.GetByToken(ctx, tokenValue)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}

	vehicle, err := s.vehicles.GetByID(ctx, link.VehicleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}

	return &ResolvedLink{
		LinkView:  *s.view(link),
		IsExpired: link.Expired(s.now()),
		Vehicle: SharedVehicle{
			ID:            vehicle.ID,
			PlateNumber:   vehicle.PlateNumber,
			Type:          vehicle.Type,
			InsuranceDue:  vehicle.InsuranceDue,
			TaxDue:        vehicle.TaxDue,
			InspectionDue: vehicle.InspectionDue,
		},
	}, nil
}

func (s *shareService) Revoke(ctx context.Context, userID, tokenValue string) error {
	link, err := s.links.GetByToken(ctx, tokenValue)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrLinkNotFound
		}
		return err
	}

	vehicle, err := s.vehicles.GetByID(ctx, link.VehicleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrLinkNotFound
		}
		return err
	}
	if vehicle.UserID != userID {
		// foreign links read as missing
		return ErrLinkNotFound
	}

	if err := s.links.DeleteByToken(ctx, tokenValue); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrLinkNotFound
		}
		return err
	}
	return nil
}

func (s *shareService) view(link *domain.SharedLink) *LinkView {
	return &LinkView{
		SharedLink: *link,
		URL:        fmt.Sprintf("%s/share/%s", s.baseURL, link.Token),
	}
}

// generateShareToken returns 16 lowercase hex characters.
func generateShareToken() (string, error) {
	buf := make([]byte, shareTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
