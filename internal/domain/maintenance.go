package domain

import "time"

// MaintenanceOrder status values
const (
	MaintenanceOpen       = "open"
	MaintenanceInProgress = "in_progress"
	MaintenanceCompleted  = "completed"
)

// MaintenanceOrder is a work-order record linked to exactly one vehicle.
type MaintenanceOrder struct {
	ID          int64     `json:"id,string" form:"id"`
	Status      string    `gorm:"index;size:30" json:"status" form:"status"`
	ProblemDesc string    `gorm:"size:500" json:"problem_desc" form:"problem_desc"`
	OpenedAt    time.Time `json:"opened_at"`
	VehicleID   int64     `gorm:"index;not null" json:"vehicle_id,string" form:"vehicle_id"`
	Vehicle     *Vehicle  `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns table name
func (MaintenanceOrder) TableName() string {
	return "fleet_maintenance_order"
}

// maintenanceTransitions is the allowed status flow for a maintenance order.
// open -> completed is permitted directly for trivial fixes.
var maintenanceTransitions = map[string][]string{
	MaintenanceOpen:       {MaintenanceInProgress, MaintenanceCompleted},
	MaintenanceInProgress: {MaintenanceCompleted},
	MaintenanceCompleted:  {},
}

// CanTransitionMaintenance reports whether from -> to is an allowed
// maintenance order status transition. A no-op transition is always allowed.
func CanTransitionMaintenance(from, to string) bool {
	if from == to {
		return true
	}
	for _, s := range maintenanceTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
