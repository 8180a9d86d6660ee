package domain

import "testing"

func TestCanTransitionMaintenance(t *testing.T) {
	if !CanTransitionMaintenance(MaintenanceOpen, MaintenanceInProgress) {
		t.Fatalf("expected open -> in_progress allowed")
	}
	if !CanTransitionMaintenance(MaintenanceOpen, MaintenanceCompleted) {
		t.Fatalf("expected open -> completed allowed")
	}
	if !CanTransitionMaintenance(MaintenanceInProgress, MaintenanceCompleted) {
		t.Fatalf("expected in_progress -> completed allowed")
	}
	if CanTransitionMaintenance(MaintenanceCompleted, MaintenanceOpen) {
		t.Fatalf("expected completed -> open not allowed")
	}
	if CanTransitionMaintenance(MaintenanceCompleted, MaintenanceInProgress) {
		t.Fatalf("expected completed -> in_progress not allowed")
	}
	// No-op transitions are always fine.
	if !CanTransitionMaintenance(MaintenanceCompleted, MaintenanceCompleted) {
		t.Fatalf("expected no-op transition allowed")
	}
}

func TestValidVehicleStatus(t *testing.T) {
	for _, s := range []string{VehicleAvailable, VehicleInMaintenance, VehicleOnRoute, VehicleSold} {
		if !ValidVehicleStatus(s) {
			t.Fatalf("expected %s valid", s)
		}
	}
	if ValidVehicleStatus("scrapped") {
		t.Fatalf("expected scrapped invalid")
	}
}

func TestPartBelowMinimum(t *testing.T) {
	p := Part{CurrentStock: 5, MinimumStock: 5}
	if p.BelowMinimum() {
		t.Fatalf("stock equal to minimum is not below")
	}
	p.CurrentStock = 4
	if !p.BelowMinimum() {
		t.Fatalf("expected below minimum")
	}
}
