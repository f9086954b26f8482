package domain

import "time"

// VehicleType distinguishes inspection cadence: type "c" vehicles are
// inspected yearly, type "b" every two years.
type VehicleType string

const (
	VehicleTypeB VehicleType = "b"
	VehicleTypeC VehicleType = "c"
)

func (t VehicleType) Valid() bool {
	return t == VehicleTypeB || t == VehicleTypeC
}

// InspectionIntervalDays returns the statutory inspection interval for the type.
func (t VehicleType) InspectionIntervalDays() int {
	if t == VehicleTypeC {
		return 365
	}
	return 730
}

// Vehicle is a registered vehicle with its recurring compliance due dates.
// Interval fields are in days; a nil interval means the corresponding due
// date is not tracked.
type Vehicle struct {
	ID                string
	UserID            string
	PlateNumber       string
	Type              VehicleType
	InsuranceInterval *int
	TaxInterval       *int
	InsuranceDue      *time.Time
	TaxDue            *time.Time
	InspectionDue     *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// DueStatus is the traffic-light classification of a due date.
type DueStatus string

const (
	StatusGray   DueStatus = "gray"
	StatusRed    DueStatus = "red"
	StatusOrange DueStatus = "orange"
	StatusGreen  DueStatus = "green"
)
