package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"vehicletrack/internal/domain"
	"vehicletrack/internal/repository"
)

const createVehiclesTable = `
CREATE TABLE IF NOT EXISTS vehicles (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	plate_number TEXT NOT NULL,
	type TEXT NOT NULL,
	insurance_interval INTEGER,
	tax_interval INTEGER,
	insurance_due DATETIME,
	tax_due DATETIME,
	inspection_due DATETIME,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_vehicles_user ON vehicles(user_id);
`

type VehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(db *sql.DB) repository.VehicleRepository {
	return &VehicleRepository{db: db}
}

func (r *VehicleRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createVehiclesTable); err != nil {
		return fmt.Errorf("create vehicles table: %w", err)
	}
	return nil
}

func (r *VehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	now := time.Now().UTC()
	vehicle.CreatedAt = now
	vehicle.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO vehicles (id, user_id, plate_number, type, insurance_interval, tax_interval, insurance_due, tax_due, inspection_due, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		vehicle.ID,
		vehicle.UserID,
		vehicle.PlateNumber,
		string(vehicle.Type),
		vehicle.InsuranceInterval,
		vehicle.TaxInterval,
		vehicle.InsuranceDue,
		vehicle.TaxDue,
		vehicle.InspectionDue,
		vehicle.CreatedAt,
		vehicle.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert vehicle: %w", err)
	}
	return nil
}

func (r *VehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	row := r.db.QueryRowContext(ctx, selectVehicle+` WHERE id = ?`, id)
	return scanVehicle(row)
}

func (r *VehicleRepository) ListByUser(ctx context.Context, userID string) ([]domain.Vehicle, error) {
	rows, err := r.db.QueryContext(ctx, selectVehicle+` WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		vehicle, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, *vehicle)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list vehicles rows: %w", err)
	}
	return vehicles, nil
}

func (r *VehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	vehicle.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
UPDATE vehicles
SET plate_number = ?, type = ?, insurance_interval = ?, tax_interval = ?, insurance_due = ?, tax_due = ?, inspection_due = ?, updated_at = ?
WHERE id = ?`,
		vehicle.PlateNumber,
		string(vehicle.Type),
		vehicle.InsuranceInterval,
		vehicle.TaxInterval,
		vehicle.InsuranceDue,
		vehicle.TaxDue,
		vehicle.InspectionDue,
		vehicle.UpdatedAt,
		vehicle.ID,
	)
	if err != nil {
		return fmt.Errorf("update vehicle: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update vehicle rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update vehicle: %w", repository.ErrNotFound)
	}
	return nil
}

func (r *VehicleRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete vehicle rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete vehicle: %w", repository.ErrNotFound)
	}
	return nil
}

const selectVehicle = `
SELECT id, user_id, plate_number, type, insurance_interval, tax_interval, insurance_due, tax_due, inspection_due, created_at, updated_at
FROM vehicles`

func scanVehicle(row interface {
	Scan(dest ...any) error
}) (*domain.Vehicle, error) {
	var (
		vehicle           domain.Vehicle
		vehicleType       string
		insuranceInterval sql.NullInt64
		taxInterval       sql.NullInt64
		insuranceDue      sql.NullTime
		taxDue            sql.NullTime
		inspectionDue     sql.NullTime
	)
	if err := row.Scan(
		&vehicle.ID,
		&vehicle.UserID,
		&vehicle.PlateNumber,
		&vehicleType,
		&insuranceInterval,
		&taxInterval,
		&insuranceDue,
		&taxDue,
		&inspectionDue,
		&vehicle.CreatedAt,
		&vehicle.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("vehicle: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan vehicle: %w", err)
	}
	vehicle.Type = domain.VehicleType(vehicleType)
	if insuranceInterval.Valid {
		v := int(insuranceInterval.Int64)
		vehicle.InsuranceInterval = &v
	}
	if taxInterval.Valid {
		v := int(taxInterval.Int64)
		vehicle.TaxInterval = &v
	}
	if insuranceDue.Valid {
		t := insuranceDue.Time
		vehicle.InsuranceDue = &t
	}
	if taxDue.Valid {
		t := taxDue.Time
		vehicle.TaxDue = &t
	}
	if inspectionDue.Valid {
		t := inspectionDue.Time
		vehicle.InspectionDue = &t
	}
	return &vehicle, nil
}
