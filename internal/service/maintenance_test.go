package service

import (
	"context"
	"errors"
	"testing"

	"github.com/motofleet/motofleet/internal/domain"
	"github.com/motofleet/motofleet/internal/store"
	"github.com/motofleet/motofleet/internal/store/memstore"
)

func newMaintenanceFixture(t *testing.T) (*MaintenanceService, *domain.Vehicle) {
	t.Helper()
	s := memstore.New()
	vehicle, err := NewVehicleService(s).Create(context.Background(), &domain.Vehicle{
		Chassis: testChassis,
		Plate:   "AAA0A00",
	})
	if err != nil {
		t.Fatalf("vehicle fixture: %v", err)
	}
	return NewMaintenanceService(s), vehicle
}

func TestMaintenanceCreateMissingReference(t *testing.T) {
	svc, _ := newMaintenanceFixture(t)

	_, err := svc.Create(context.Background(), &domain.MaintenanceOrder{ProblemDesc: "flat tire"})
	if !errors.Is(err, store.ErrMissingReference) {
		t.Fatalf("expected ErrMissingReference, got %v", err)
	}
}

func TestMaintenanceCreateUnknownVehicle(t *testing.T) {
	svc, _ := newMaintenanceFixture(t)

	_, err := svc.Create(context.Background(), &domain.MaintenanceOrder{
		VehicleID:   99999,
		ProblemDesc: "flat tire",
	})
	if !errors.Is(err, store.ErrReferenceNotFound) {
		t.Fatalf("expected ErrReferenceNotFound, got %v", err)
	}
}

func TestMaintenanceCreateRebindsVehicle(t *testing.T) {
	svc, vehicle := newMaintenanceFixture(t)

	// The caller supplies a stale partial snapshot of the vehicle; the
	// persisted order must carry the stored entity instead.
	stale := &domain.Vehicle{ID: vehicle.ID, Chassis: "WRONG"}
	mo, err := svc.Create(context.Background(), &domain.MaintenanceOrder{
		VehicleID:   vehicle.ID,
		Vehicle:     stale,
		ProblemDesc: "  oil leak  ",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if mo.Vehicle == nil || mo.Vehicle.Chassis != vehicle.Chassis {
		t.Fatalf("expected order rebound to stored vehicle, got %+v", mo.Vehicle)
	}
	if mo.Status != domain.MaintenanceOpen {
		t.Fatalf("expected new order to start open, got %s", mo.Status)
	}
	if mo.ProblemDesc != "oil leak" {
		t.Fatalf("expected trimmed description, got %q", mo.ProblemDesc)
	}
	if mo.OpenedAt.IsZero() {
		t.Fatalf("expected opened time to be set")
	}
}

func TestMaintenanceCreateMustStartOpen(t *testing.T) {
	svc, vehicle := newMaintenanceFixture(t)

	_, err := svc.Create(context.Background(), &domain.MaintenanceOrder{
		VehicleID: vehicle.ID,
		Status:    domain.MaintenanceCompleted,
	})
	if !errors.Is(err, store.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue for non-open new order, got %v", err)
	}
}

func TestMaintenanceVehicleRefImmutable(t *testing.T) {
	svc, vehicle := newMaintenanceFixture(t)
	ctx := context.Background()

	mo, err := svc.Create(ctx, &domain.MaintenanceOrder{VehicleID: vehicle.ID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = svc.Update(ctx, mo.ID, &domain.MaintenanceOrder{VehicleID: vehicle.ID + 1})
	if !errors.Is(err, store.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue when changing vehicle reference, got %v", err)
	}
}

func TestMaintenanceStatusTransitions(t *testing.T) {
	svc, vehicle := newMaintenanceFixture(t)
	ctx := context.Background()

	mo, err := svc.Create(ctx, &domain.MaintenanceOrder{VehicleID: vehicle.ID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	mo, err = svc.Update(ctx, mo.ID, &domain.MaintenanceOrder{Status: domain.MaintenanceInProgress})
	if err != nil {
		t.Fatalf("open -> in_progress: %v", err)
	}
	mo, err = svc.Update(ctx, mo.ID, &domain.MaintenanceOrder{Status: domain.MaintenanceCompleted})
	if err != nil {
		t.Fatalf("in_progress -> completed: %v", err)
	}

	_, err = svc.Update(ctx, mo.ID, &domain.MaintenanceOrder{Status: domain.MaintenanceOpen})
	if !errors.Is(err, store.ErrInvalidValue) {
		t.Fatalf("expected completed -> open to be rejected, got %v", err)
	}
}

func TestMaintenanceUpdateNotFound(t *testing.T) {
	svc, _ := newMaintenanceFixture(t)

	_, err := svc.Update(context.Background(), 31337, &domain.MaintenanceOrder{
		Status: domain.MaintenanceCompleted,
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
