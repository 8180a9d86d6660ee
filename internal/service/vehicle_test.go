package service

import (
	"context"
	"errors"
	"testing"

	"github.com/motofleet/motofleet/internal/domain"
	"github.com/motofleet/motofleet/internal/store"
	"github.com/motofleet/motofleet/internal/store/memstore"
)

const testChassis = "9C2JC4110GR123456"

func TestVehicleCreateDefaults(t *testing.T) {
	svc := NewVehicleService(memstore.New())

	v, err := svc.Create(context.Background(), &domain.Vehicle{
		Chassis: " 9c2jc4110gr123456 ",
		Plate:   "abc1d23",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if v.ID == 0 {
		t.Fatalf("expected id to be assigned")
	}
	if v.Chassis != testChassis {
		t.Fatalf("expected chassis normalized to %s, got %s", testChassis, v.Chassis)
	}
	if v.Plate != "ABC1D23" {
		t.Fatalf("expected plate uppercased, got %s", v.Plate)
	}
	if v.Status != domain.VehicleAvailable {
		t.Fatalf("expected default status available, got %s", v.Status)
	}
	if v.RegisteredAt.IsZero() {
		t.Fatalf("expected registration time to be set")
	}
}

func TestVehicleChassisLength(t *testing.T) {
	svc := NewVehicleService(memstore.New())

	_, err := svc.Create(context.Background(), &domain.Vehicle{
		Chassis: "TOOSHORT",
		Plate:   "ABC1D23",
	})
	if !errors.Is(err, store.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue for short chassis, got %v", err)
	}
}

func TestVehicleDuplicateChassis(t *testing.T) {
	svc := NewVehicleService(memstore.New())
	ctx := context.Background()

	if _, err := svc.Create(ctx, &domain.Vehicle{Chassis: testChassis, Plate: "AAA0A00"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := svc.Create(ctx, &domain.Vehicle{Chassis: testChassis, Plate: "BBB0B00"})
	if !errors.Is(err, store.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey for duplicate chassis, got %v", err)
	}
}

func TestVehicleDuplicatePlate(t *testing.T) {
	svc := NewVehicleService(memstore.New())
	ctx := context.Background()

	if _, err := svc.Create(ctx, &domain.Vehicle{Chassis: testChassis, Plate: "AAA0A00"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := svc.Create(ctx, &domain.Vehicle{Chassis: "9C2JC4110GR654321", Plate: "AAA0A00"})
	if !errors.Is(err, store.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey for duplicate plate, got %v", err)
	}
}

func TestVehicleUpdateKeepsOwnKeys(t *testing.T) {
	svc := NewVehicleService(memstore.New())
	ctx := context.Background()

	v, err := svc.Create(ctx, &domain.Vehicle{Chassis: testChassis, Plate: "AAA0A00"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Resubmitting the vehicle's own chassis and plate must not trip the
	// uniqueness checks.
	updated, err := svc.Update(ctx, v.ID, &domain.Vehicle{
		Chassis:  testChassis,
		Plate:    "AAA0A00",
		Model:    "CG 160 Titan",
		Odometer: 1200,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Model != "CG 160 Titan" || updated.Odometer != 1200 {
		t.Fatalf("expected mutable fields updated, got %+v", updated)
	}
}

func TestVehicleUpdateStealsKey(t *testing.T) {
	svc := NewVehicleService(memstore.New())
	ctx := context.Background()

	if _, err := svc.Create(ctx, &domain.Vehicle{Chassis: testChassis, Plate: "AAA0A00"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	other, err := svc.Create(ctx, &domain.Vehicle{Chassis: "9C2JC4110GR654321", Plate: "BBB0B00"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = svc.Update(ctx, other.ID, &domain.Vehicle{Chassis: testChassis, Plate: "BBB0B00"})
	if !errors.Is(err, store.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey when taking another vehicle's chassis, got %v", err)
	}
}

func TestVehicleFindByStatusUnknown(t *testing.T) {
	svc := NewVehicleService(memstore.New())

	_, err := svc.FindByStatus(context.Background(), "scrapped")
	if !errors.Is(err, store.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue for unknown status, got %v", err)
	}
}

func TestVehicleDeleteNotFound(t *testing.T) {
	svc := NewVehicleService(memstore.New())

	err := svc.Delete(context.Background(), 42)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
