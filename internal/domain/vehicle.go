package domain

import "time"

// Vehicle status values
const (
	VehicleAvailable     = "available"
	VehicleInMaintenance = "in_maintenance"
	VehicleOnRoute       = "on_route"
	VehicleSold          = "sold"
)

// ChassisLen is the fixed length of a vehicle chassis number.
const ChassisLen = 17

// Vehicle represents a motorcycle in the fleet
type Vehicle struct {
	ID              int64     `json:"id,string" form:"id"`
	Chassis         string    `gorm:"uniqueIndex;size:32" json:"chassis" form:"chassis"`
	Plate           string    `gorm:"uniqueIndex;size:16" json:"plate" form:"plate"`
	Model           string    `gorm:"size:100" json:"model" form:"model"`
	ManufactureYear int       `json:"manufacture_year" form:"manufacture_year"`
	Status          string    `gorm:"index;size:30" json:"status" form:"status"`
	Odometer        int       `json:"odometer" form:"odometer"`
	RegisteredAt    time.Time `json:"registered_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName returns table name
func (Vehicle) TableName() string {
	return "fleet_vehicle"
}

// ValidVehicleStatus reports whether s is one of the known status values.
func ValidVehicleStatus(s string) bool {
	switch s {
	case VehicleAvailable, VehicleInMaintenance, VehicleOnRoute, VehicleSold:
		return true
	}
	return false
}
