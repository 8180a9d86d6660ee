package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/motofleet/motofleet/internal/domain"
	"github.com/motofleet/motofleet/internal/store"
)

// MaintenanceService manages maintenance work orders. The owning vehicle
// reference must resolve to a persisted vehicle at the moment of save; a new
// order is rebound to the store-backed vehicle so a stale caller-supplied
// snapshot is never persisted.
type MaintenanceService struct {
	store store.Store
}

func NewMaintenanceService(s store.Store) *MaintenanceService {
	return &MaintenanceService{store: s}
}

// Create validates the vehicle reference, resolves it, and persists the
// order bound to the resolved vehicle.
func (s *MaintenanceService) Create(ctx context.Context, mo *domain.MaintenanceOrder) (*domain.MaintenanceOrder, error) {
	if mo.VehicleID == 0 {
		return nil, fmt.Errorf("maintenance order requires a vehicle reference: %w", store.ErrMissingReference)
	}

	vehicle, err := s.store.GetVehicle(ctx, mo.VehicleID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("vehicle %d does not exist: %w", mo.VehicleID, store.ErrReferenceNotFound)
		}
		return nil, err
	}

	mo.ID = 0
	// Rebind to the resolved entity, not the caller-supplied partial one.
	mo.Vehicle = vehicle
	mo.ProblemDesc = strings.TrimSpace(mo.ProblemDesc)
	if mo.Status == "" {
		mo.Status = domain.MaintenanceOpen
	}
	if mo.Status != domain.MaintenanceOpen {
		return nil, fmt.Errorf("new maintenance orders start open, got %q: %w", mo.Status, store.ErrInvalidValue)
	}
	if mo.OpenedAt.IsZero() {
		mo.OpenedAt = time.Now()
	}

	if err := s.store.SaveMaintenanceOrder(ctx, mo); err != nil {
		return nil, err
	}
	return mo, nil
}

// Update changes the problem description and status of an existing order.
// The vehicle reference is immutable once created: a candidate carrying a
// different vehicle id is rejected rather than silently re-resolved.
func (s *MaintenanceService) Update(ctx context.Context, id int64, candidate *domain.MaintenanceOrder) (*domain.MaintenanceOrder, error) {
	current, err := s.store.GetMaintenanceOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if candidate.VehicleID != 0 && candidate.VehicleID != current.VehicleID {
		return nil, fmt.Errorf("maintenance order vehicle reference is immutable: %w", store.ErrInvalidValue)
	}

	if candidate.Status != "" && candidate.Status != current.Status {
		if !domain.CanTransitionMaintenance(current.Status, candidate.Status) {
			return nil, fmt.Errorf("invalid maintenance status transition %s -> %s: %w",
				current.Status, candidate.Status, store.ErrInvalidValue)
		}
		current.Status = candidate.Status
	}
	if desc := strings.TrimSpace(candidate.ProblemDesc); desc != "" {
		current.ProblemDesc = desc
	}

	if err := s.store.SaveMaintenanceOrder(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

// Delete removes a maintenance order by id.
func (s *MaintenanceService) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteMaintenanceOrder(ctx, id)
}

func (s *MaintenanceService) Get(ctx context.Context, id int64) (*domain.MaintenanceOrder, error) {
	return s.store.GetMaintenanceOrder(ctx, id)
}

func (s *MaintenanceService) List(ctx context.Context) ([]domain.MaintenanceOrder, error) {
	return s.store.ListMaintenanceOrders(ctx)
}

func (s *MaintenanceService) FindByStatus(ctx context.Context, status string) ([]domain.MaintenanceOrder, error) {
	return s.store.FindMaintenanceOrdersByStatus(ctx, status)
}
