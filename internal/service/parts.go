package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nakabonne/tstorage"
	"go.uber.org/zap"

	"github.com/motofleet/motofleet/internal/domain"
	"github.com/motofleet/motofleet/internal/store"
	"github.com/motofleet/motofleet/pkg/metrics"
)

// stockAdjustRetries bounds the optimistic retry loop in AdjustStock.
const stockAdjustRetries = 5

// PartService is the spare-part stock engine. Stock is only ever mutated
// through AdjustStock, whose read-compute-write sequence is serialized per
// manufacturer code by a compare-and-swap on the stored stock value.
type PartService struct {
	store store.Store
	bus   EventPublisher
}

func NewPartService(s store.Store, bus EventPublisher) *PartService {
	if bus == nil {
		bus = nopPublisher{}
	}
	return &PartService{store: s, bus: bus}
}

// Create validates and persists a new part.
func (s *PartService) Create(ctx context.Context, p *domain.Part) (*domain.Part, error) {
	p.ID = 0
	p.Name = strings.TrimSpace(p.Name)
	p.ManufacturerCode = strings.TrimSpace(p.ManufacturerCode)

	if p.ManufacturerCode == "" {
		return nil, fmt.Errorf("manufacturer code is required: %w", store.ErrInvalidValue)
	}
	if p.CurrentStock < 0 {
		s.reject("stock_negative")
		return nil, fmt.Errorf("current stock must not be negative: %w", store.ErrInvalidValue)
	}
	if p.UnitPrice < 0 {
		s.reject("price_negative")
		return nil, fmt.Errorf("unit price must not be negative: %w", store.ErrInvalidValue)
	}

	existing, err := s.store.FindPartByCode(ctx, p.ManufacturerCode)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		s.reject("code_duplicate")
		return nil, fmt.Errorf("manufacturer code %s already registered: %w", p.ManufacturerCode, store.ErrDuplicateKey)
	}

	if err := s.store.SavePart(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update overwrites all mutable fields of an existing part with the
// candidate's values. This is a full overwrite, not a delta.
func (s *PartService) Update(ctx context.Context, id int64, candidate *domain.Part) (*domain.Part, error) {
	current, err := s.store.GetPart(ctx, id)
	if err != nil {
		return nil, err
	}

	code := strings.TrimSpace(candidate.ManufacturerCode)
	if code == "" {
		return nil, fmt.Errorf("manufacturer code is required: %w", store.ErrInvalidValue)
	}
	if candidate.CurrentStock < 0 {
		s.reject("stock_negative")
		return nil, fmt.Errorf("current stock must not be negative: %w", store.ErrInvalidValue)
	}
	if candidate.UnitPrice < 0 {
		s.reject("price_negative")
		return nil, fmt.Errorf("unit price must not be negative: %w", store.ErrInvalidValue)
	}

	byCode, err := s.store.FindPartByCode(ctx, code)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if byCode != nil && byCode.ID != id {
		s.reject("code_duplicate")
		return nil, fmt.Errorf("manufacturer code %s already registered: %w", code, store.ErrDuplicateKey)
	}

	current.Name = strings.TrimSpace(candidate.Name)
	current.Description = candidate.Description
	current.ManufacturerCode = code
	current.UnitPrice = candidate.UnitPrice
	current.CurrentStock = candidate.CurrentStock
	current.MinimumStock = candidate.MinimumStock
	current.Location = candidate.Location

	if err := s.store.SavePart(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

// Delete removes a part by id. There is no referential check here: no other
// entity holds a foreign key onto parts.
func (s *PartService) Delete(ctx context.Context, id int64) error {
	return s.store.DeletePart(ctx, id)
}

func (s *PartService) Get(ctx context.Context, id int64) (*domain.Part, error) {
	return s.store.GetPart(ctx, id)
}

func (s *PartService) FindByCode(ctx context.Context, code string) (*domain.Part, error) {
	return s.store.FindPartByCode(ctx, code)
}

func (s *PartService) List(ctx context.Context) ([]domain.Part, error) {
	return s.store.ListParts(ctx)
}

// AdjustStock applies a signed delta to the part identified by its
// manufacturer code. A delta that would take the stock negative is rejected
// atomically with the stored value left unchanged. The read-compute-write
// sequence runs as an optimistic loop: the conditional write only lands
// while the stock still equals the value read, so concurrent adjustments to
// the same code can never lose an update. Retry exhaustion surfaces as
// ErrConflict instead of looping forever.
func (s *PartService) AdjustStock(ctx context.Context, code string, delta int) (*domain.Part, error) {
	code = strings.TrimSpace(code)

	for attempt := 0; attempt < stockAdjustRetries; attempt++ {
		part, err := s.store.FindPartByCode(ctx, code)
		if err != nil {
			return nil, err
		}

		newStock := part.CurrentStock + delta
		if newStock < 0 {
			s.reject("stock_negative")
			return nil, fmt.Errorf("stock adjustment %+d on %s would result in %d: %w",
				delta, code, newStock, store.ErrInvalidValue)
		}

		swapped, err := s.store.UpdatePartStockCAS(ctx, part.ID, part.CurrentStock, newStock)
		if err != nil {
			return nil, err
		}
		if !swapped {
			// Someone else moved the stock (or deleted the part) between
			// our read and write. Re-read and try again.
			continue
		}

		part.CurrentStock = newStock
		metrics.CounterIncr(metrics.MetricsStockAdjust,
			tstorage.Label{Name: "code", Value: code})
		metrics.RecordValue(metrics.MetricsStockLevel, float64(newStock),
			tstorage.Label{Name: "code", Value: code})

		if part.BelowMinimum() {
			zap.L().Warn("part stock below minimum",
				zap.String("code", part.ManufacturerCode),
				zap.Int("current", part.CurrentStock),
				zap.Int("minimum", part.MinimumStock),
			)
			s.bus.Publish(TopicStockLow, *part)
		}
		return part, nil
	}

	return nil, fmt.Errorf("stock adjustment on %s lost %d races: %w", code, stockAdjustRetries, store.ErrConflict)
}

// LowStockParts returns the parts currently under their minimum threshold.
func (s *PartService) LowStockParts(ctx context.Context) ([]domain.Part, error) {
	parts, err := s.store.ListParts(ctx)
	if err != nil {
		return nil, err
	}
	var low []domain.Part
	for _, p := range parts {
		if p.BelowMinimum() {
			low = append(low, p)
		}
	}
	return low, nil
}

func (s *PartService) reject(rule string) {
	metrics.CounterIncr(metrics.MetricsRuleReject,
		tstorage.Label{Name: "entity", Value: "part"},
		tstorage.Label{Name: "rule", Value: rule},
	)
}
