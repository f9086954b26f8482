package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"vehicletrack/internal/domain"
	"vehicletrack/internal/repository"
)

const createDamageReportsTable = `
CREATE TABLE IF NOT EXISTS damage_reports (
	id TEXT PRIMARY KEY,
	vehicle_id TEXT NOT NULL REFERENCES vehicles(id) ON DELETE CASCADE,
	description TEXT NOT NULL,
	severity TEXT NOT NULL,
	reported_at DATETIME NOT NULL,
	resolved_at DATETIME
);
CREATE INDEX IF NOT EXISTS idx_damage_reports_vehicle ON damage_reports(vehicle_id);
`

type DamageReportRepository struct {
	db *sql.DB
}

func NewDamageReportRepository(db *sql.DB) repository.DamageReportRepository {
	return &DamageReportRepository{db: db}
}

func (r *DamageReportRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createDamageReportsTable); err != nil {
		return fmt.Errorf("create damage reports table: %w", err)
	}
	return nil
}

func (r *DamageReportRepository) Create(ctx context.Context, report *domain.DamageReport) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO damage_reports (id, vehicle_id, description, severity, reported_at, resolved_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		report.ID,
		report.VehicleID,
		report.Description,
		string(report.Severity),
		report.ReportedAt,
		report.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("insert damage report: %w", err)
	}
	return nil
}

func (r *DamageReportRepository) GetByID(ctx context.Context, id string) (*domain.DamageReport, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, vehicle_id, description, severity, reported_at, resolved_at
FROM damage_reports
WHERE id = ?`,
		id,
	)
	return scanDamageReport(row)
}

func (r *DamageReportRepository) ListByVehicle(ctx context.Context, vehicleID string) ([]domain.DamageReport, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, vehicle_id, description, severity, reported_at, resolved_at
FROM damage_reports
WHERE vehicle_id = ?
ORDER BY reported_at DESC`,
		vehicleID,
	)
	if err != nil {
		return nil, fmt.Errorf("list damage reports: %w", err)
	}
	defer rows.Close()

	var reports []domain.DamageReport
	for rows.Next() {
		report, err := scanDamageReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list damage reports rows: %w", err)
	}
	return reports, nil
}

func (r *DamageReportRepository) Update(ctx context.Context, report *domain.DamageReport) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE damage_reports
SET description = ?, severity = ?, resolved_at = ?
WHERE id = ?`,
		report.Description,
		string(report.Severity),
		report.ResolvedAt,
		report.ID,
	)
	if err != nil {
		return fmt.Errorf("update damage report: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update damage report rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update damage report: %w", repository.ErrNotFound)
	}
	return nil
}

func (r *DamageReportRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM damage_reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete damage report: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete damage report rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete damage report: %w", repository.ErrNotFound)
	}
	return nil
}

func scanDamageReport(row interface {
	Scan(dest ...any) error
}) (*domain.DamageReport, error) {
	var (
		report     domain.DamageReport
		severity   string
		resolvedAt sql.NullTime
	)
	if err := row.Scan(
		&report.ID,
		&report.VehicleID,
		&report.Description,
		&severity,
		&report.ReportedAt,
		&resolvedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("damage report: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan damage report: %w", err)
	}
	report.Severity = domain.Severity(severity)
	if resolvedAt.Valid {
		t := resolvedAt.Time
		report.ResolvedAt = &t
	}
	return &report, nil
}
