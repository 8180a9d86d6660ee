package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/motofleet/motofleet/internal/domain"
	"github.com/motofleet/motofleet/internal/store"
)

func TestSaveAssignsID(t *testing.T) {
	s := New()
	ctx := context.Background()

	v := &domain.Vehicle{Chassis: "9C2JC4110GR123456", Plate: "AAA0A00"}
	if err := s.SaveVehicle(ctx, v); err != nil {
		t.Fatalf("SaveVehicle: %v", err)
	}
	if v.ID == 0 {
		t.Fatalf("expected id assigned on insert")
	}

	got, err := s.GetVehicle(ctx, v.ID)
	if err != nil {
		t.Fatalf("GetVehicle: %v", err)
	}
	if got.Chassis != v.Chassis {
		t.Fatalf("expected stored chassis %s, got %s", v.Chassis, got.Chassis)
	}
}

func TestCopyOnRead(t *testing.T) {
	s := New()
	ctx := context.Background()

	v := &domain.Vehicle{Chassis: "9C2JC4110GR123456", Plate: "AAA0A00"}
	if err := s.SaveVehicle(ctx, v); err != nil {
		t.Fatalf("SaveVehicle: %v", err)
	}

	got, _ := s.GetVehicle(ctx, v.ID)
	got.Plate = "MUTATED"

	again, _ := s.GetVehicle(ctx, v.ID)
	if again.Plate != "AAA0A00" {
		t.Fatalf("expected stored value isolated from caller mutation, got %s", again.Plate)
	}
}

func TestUpdatePartStockCAS(t *testing.T) {
	s := New()
	ctx := context.Background()

	p := &domain.Part{ManufacturerCode: "FO-M001", CurrentStock: 40}
	if err := s.SavePart(ctx, p); err != nil {
		t.Fatalf("SavePart: %v", err)
	}

	swapped, err := s.UpdatePartStockCAS(ctx, p.ID, 40, 10)
	if err != nil || !swapped {
		t.Fatalf("expected swap to land, got swapped=%v err=%v", swapped, err)
	}

	// Stale expected value must not land.
	swapped, err = s.UpdatePartStockCAS(ctx, p.ID, 40, 0)
	if err != nil || swapped {
		t.Fatalf("expected stale swap rejected, got swapped=%v err=%v", swapped, err)
	}

	got, _ := s.GetPart(ctx, p.ID)
	if got.CurrentStock != 10 {
		t.Fatalf("expected stock 10, got %d", got.CurrentStock)
	}

	// Unknown part is a failed swap, not an error.
	swapped, err = s.UpdatePartStockCAS(ctx, 999999, 0, 1)
	if err != nil || swapped {
		t.Fatalf("expected swap on missing part to fail cleanly, got swapped=%v err=%v", swapped, err)
	}
}

func TestOrderItemsOwnedByOrder(t *testing.T) {
	s := New()
	ctx := context.Background()

	o := &domain.Order{
		UserID: 7,
		Status: domain.OrderPending,
		Items:  []domain.OrderItem{{ProductID: 1, Quantity: 2, UnitPrice: 9.9}},
	}
	if err := s.SaveOrder(ctx, o); err != nil {
		t.Fatalf("SaveOrder: %v", err)
	}
	if o.Items[0].ID == 0 || o.Items[0].OrderID != o.ID {
		t.Fatalf("expected items keyed to order, got %+v", o.Items[0])
	}

	if err := s.DeleteOrder(ctx, o.ID); err != nil {
		t.Fatalf("DeleteOrder: %v", err)
	}
	if _, err := s.GetOrder(ctx, o.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
