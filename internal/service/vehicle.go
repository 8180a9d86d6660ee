package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nakabonne/tstorage"

	"github.com/motofleet/motofleet/internal/domain"
	"github.com/motofleet/motofleet/internal/store"
	"github.com/motofleet/motofleet/pkg/metrics"
)

// VehicleService enforces the fleet vehicle rules: chassis and plate are
// unique natural keys checked before every save, excluding the candidate's
// own id on update so a self-collision never fails.
type VehicleService struct {
	store store.Store
}

func NewVehicleService(s store.Store) *VehicleService {
	return &VehicleService{store: s}
}

// Create validates and persists a new vehicle. The status defaults to
// available and the registration timestamp is set server-side.
func (s *VehicleService) Create(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error) {
	v.ID = 0
	v.Chassis = strings.ToUpper(strings.TrimSpace(v.Chassis))
	v.Plate = strings.ToUpper(strings.TrimSpace(v.Plate))
	v.Model = strings.TrimSpace(v.Model)
	if v.Status == "" {
		v.Status = domain.VehicleAvailable
	}
	if v.RegisteredAt.IsZero() {
		v.RegisteredAt = time.Now()
	}

	if err := s.validateForSave(ctx, v, true); err != nil {
		return nil, err
	}
	if err := s.store.SaveVehicle(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Update overwrites the mutable fields of an existing vehicle after
// repeating the uniqueness checks with the vehicle's own id excluded.
func (s *VehicleService) Update(ctx context.Context, id int64, candidate *domain.Vehicle) (*domain.Vehicle, error) {
	current, err := s.store.GetVehicle(ctx, id)
	if err != nil {
		return nil, err
	}

	current.Chassis = strings.ToUpper(strings.TrimSpace(candidate.Chassis))
	current.Plate = strings.ToUpper(strings.TrimSpace(candidate.Plate))
	current.Model = strings.TrimSpace(candidate.Model)
	current.ManufactureYear = candidate.ManufactureYear
	current.Odometer = candidate.Odometer
	if candidate.Status != "" {
		current.Status = candidate.Status
	}

	if err := s.validateForSave(ctx, current, false); err != nil {
		return nil, err
	}
	if err := s.store.SaveVehicle(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

// Delete removes a vehicle by id.
func (s *VehicleService) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteVehicle(ctx, id)
}

func (s *VehicleService) Get(ctx context.Context, id int64) (*domain.Vehicle, error) {
	return s.store.GetVehicle(ctx, id)
}

func (s *VehicleService) List(ctx context.Context) ([]domain.Vehicle, error) {
	return s.store.ListVehicles(ctx)
}

// FindByStatus lists vehicles filtered on a known status value.
func (s *VehicleService) FindByStatus(ctx context.Context, status string) ([]domain.Vehicle, error) {
	if !domain.ValidVehicleStatus(status) {
		return nil, fmt.Errorf("unknown vehicle status %q: %w", status, store.ErrInvalidValue)
	}
	return s.store.FindVehiclesByStatus(ctx, status)
}

// validateForSave is the pure read-then-decide rule set. It never writes;
// the caller persists only when no error comes back.
func (s *VehicleService) validateForSave(ctx context.Context, v *domain.Vehicle, isNew bool) error {
	if len(v.Chassis) != domain.ChassisLen {
		s.reject("chassis_length")
		return fmt.Errorf("chassis must be exactly %d characters: %w", domain.ChassisLen, store.ErrInvalidValue)
	}
	if v.Plate == "" {
		s.reject("plate_blank")
		return fmt.Errorf("plate is required: %w", store.ErrInvalidValue)
	}
	if v.Odometer < 0 {
		s.reject("odometer_negative")
		return fmt.Errorf("odometer must not be negative: %w", store.ErrInvalidValue)
	}
	if !domain.ValidVehicleStatus(v.Status) {
		s.reject("status_unknown")
		return fmt.Errorf("unknown vehicle status %q: %w", v.Status, store.ErrInvalidValue)
	}

	byChassis, err := s.store.FindVehicleByChassis(ctx, v.Chassis)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if byChassis != nil && (isNew || byChassis.ID != v.ID) {
		s.reject("chassis_duplicate")
		return fmt.Errorf("chassis %s already registered: %w", v.Chassis, store.ErrDuplicateKey)
	}

	byPlate, err := s.store.FindVehicleByPlate(ctx, v.Plate)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if byPlate != nil && (isNew || byPlate.ID != v.ID) {
		s.reject("plate_duplicate")
		return fmt.Errorf("plate %s already registered: %w", v.Plate, store.ErrDuplicateKey)
	}

	return nil
}

func (s *VehicleService) reject(rule string) {
	metrics.CounterIncr(metrics.MetricsRuleReject,
		tstorage.Label{Name: "entity", Value: "vehicle"},
		tstorage.Label{Name: "rule", Value: rule},
	)
}
