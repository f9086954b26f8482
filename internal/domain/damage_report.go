package domain

import "time"

// Severity grades a damage report.
type Severity string

const (
	SeverityMinor    Severity = "MINOR"
	SeverityModerate Severity = "MODERATE"
	SeveritySevere   Severity = "SEVERE"
)

func (s Severity) Valid() bool {
	return s == SeverityMinor || s == SeverityModerate || s == SeveritySevere
}

// DamageReport records damage observed on a vehicle. ResolvedAt is nil while
// the damage is outstanding.
type DamageReport struct {
	ID          string
	VehicleID   string
	Description string
	Severity    Severity
	ReportedAt  time.Time
	ResolvedAt  *time.Time
}
