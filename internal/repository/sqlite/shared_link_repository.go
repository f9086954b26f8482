package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"vehicletrack/internal/domain"
	"vehicletrack/internal/repository"
)

const createSharedLinksTable = `
CREATE TABLE IF NOT EXISTS shared_links (
	id TEXT PRIMARY KEY,
	vehicle_id TEXT NOT NULL REFERENCES vehicles(id) ON DELETE CASCADE,
	token TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	expires_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_shared_links_vehicle ON shared_links(vehicle_id);
`

type SharedLinkRepository struct {
	db *sql.DB
}

func NewSharedLinkRepository(db *sql.DB) repository.SharedLinkRepository {
	return &SharedLinkRepository{db: db}
}

func (r *SharedLinkRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createSharedLinksTable); err != nil {
		return fmt.Errorf("create shared links table: %w", err)
	}
	return nil
}

func (r *SharedLinkRepository) Create(ctx context.Context, link *domain.SharedLink) error {
	link.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
INSERT INTO shared_links (id, vehicle_id, token, description, created_at, expires_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		link.ID,
		link.VehicleID,
		link.Token,
		link.Description,
		link.CreatedAt,
		link.ExpiresAt.UTC(),
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return fmt.Errorf("insert shared link: %w", repository.ErrDuplicate)
		}
		return fmt.Errorf("insert shared link: %w", err)
	}
	return nil
}

func (r *SharedLinkRepository) GetByToken(ctx context.Context, token string) (*domain.SharedLink, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, vehicle_id, token, description, created_at, expires_at
FROM shared_links
WHERE token = ?`,
		token,
	)
	return scanSharedLink(row)
}

func (r *SharedLinkRepository) List(ctx context.Context, filter repository.LinkFilter) ([]domain.SharedLink, int, error) {
	where := `WHERE vehicle_id IN (SELECT id FROM vehicles WHERE user_id = ?)`
	args := []any{filter.UserID}

	switch filter.Status {
	case repository.LinkStatusActive:
		where += ` AND expires_at > ?`
		args = append(args, filter.Now.UTC())
	case repository.LinkStatusExpired:
		where += ` AND expires_at <= ?`
		args = append(args, filter.Now.UTC())
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shared_links `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count shared links: %w", err)
	}

	// sort/order are whitelisted here, never interpolated from raw input
	sortColumn := "created_at"
	if filter.Sort == "expiresAt" {
		sortColumn = "expires_at"
	}
	direction := "DESC"
	if strings.EqualFold(filter.Order, "asc") {
		direction = "ASC"
	}

	query := fmt.Sprintf(`
SELECT id, vehicle_id, token, description, created_at, expires_at
FROM shared_links %s
ORDER BY %s %s
LIMIT ? OFFSET ?`, where, sortColumn, direction)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list shared links: %w", err)
	}
	defer rows.Close()

	var links []domain.SharedLink
	for rows.Next() {
		link, err := scanSharedLink(rows)
		if err != nil {
			return nil, 0, err
		}
		links = append(links, *link)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list shared links rows: %w", err)
	}
	return links, total, nil
}

func (r *SharedLinkRepository) DeleteByToken(ctx context.Context, token string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shared_links WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("delete shared link: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete shared link rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete shared link: %w", repository.ErrNotFound)
	}
	return nil
}

func scanSharedLink(row interface {
	Scan(dest ...any) error
}) (*domain.SharedLink, error) {
	var link domain.SharedLink
	if err := row.Scan(
		&link.ID,
		&link.VehicleID,
		&link.Token,
		&link.Description,
		&link.CreatedAt,
		&link.ExpiresAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("shared link: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan shared link: %w", err)
	}
	return &link, nil
}
