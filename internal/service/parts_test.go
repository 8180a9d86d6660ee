package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/motofleet/motofleet/internal/domain"
	"github.com/motofleet/motofleet/internal/store"
	"github.com/motofleet/motofleet/internal/store/memstore"
)

type captureBus struct {
	mu     sync.Mutex
	topics []string
	parts  []domain.Part
}

func (b *captureBus) Publish(topic string, args ...interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.topics = append(b.topics, topic)
	if len(args) > 0 {
		if p, ok := args[0].(domain.Part); ok {
			b.parts = append(b.parts, p)
		}
	}
}

func newPartFixture(t *testing.T, stock, minimum int) (*PartService, *captureBus) {
	t.Helper()
	bus := &captureBus{}
	svc := NewPartService(memstore.New(), bus)
	_, err := svc.Create(context.Background(), &domain.Part{
		Name:             "brake pad",
		ManufacturerCode: "FO-M001",
		CurrentStock:     stock,
		MinimumStock:     minimum,
	})
	if err != nil {
		t.Fatalf("part fixture: %v", err)
	}
	return svc, bus
}

func TestPartDuplicateCode(t *testing.T) {
	svc, _ := newPartFixture(t, 10, 1)

	_, err := svc.Create(context.Background(), &domain.Part{ManufacturerCode: "FO-M001"})
	if !errors.Is(err, store.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestAdjustStockSequence(t *testing.T) {
	svc, _ := newPartFixture(t, 50, 5)
	ctx := context.Background()

	p, err := svc.AdjustStock(ctx, "FO-M001", -10)
	if err != nil {
		t.Fatalf("AdjustStock(-10): %v", err)
	}
	if p.CurrentStock != 40 {
		t.Fatalf("expected stock 40, got %d", p.CurrentStock)
	}

	// A delta that would go negative is rejected with the stored value
	// left untouched.
	_, err = svc.AdjustStock(ctx, "FO-M001", -41)
	if !errors.Is(err, store.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue for negative result, got %v", err)
	}
	p, err = svc.FindByCode(ctx, "FO-M001")
	if err != nil {
		t.Fatalf("FindByCode: %v", err)
	}
	if p.CurrentStock != 40 {
		t.Fatalf("expected stock unchanged at 40 after rejection, got %d", p.CurrentStock)
	}
}

func TestAdjustStockUnknownCode(t *testing.T) {
	svc, _ := newPartFixture(t, 10, 1)

	_, err := svc.AdjustStock(context.Background(), "NO-SUCH", -1)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAdjustStockConcurrent(t *testing.T) {
	svc, _ := newPartFixture(t, 40, 0)
	ctx := context.Background()

	// Two concurrent withdrawals of 30 from a stock of 40: exactly one can
	// land, the other must observe the new value and be rejected.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.AdjustStock(ctx, "FO-M001", -30)
		}(i)
	}
	wg.Wait()

	var okCount, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			okCount++
		case errors.Is(err, store.ErrInvalidValue):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if okCount != 1 || rejected != 1 {
		t.Fatalf("expected one success and one rejection, got %d/%d", okCount, rejected)
	}

	p, err := svc.FindByCode(ctx, "FO-M001")
	if err != nil {
		t.Fatalf("FindByCode: %v", err)
	}
	if p.CurrentStock != 10 {
		t.Fatalf("expected final stock 10, got %d", p.CurrentStock)
	}
}

func TestAdjustStockPublishesLowStock(t *testing.T) {
	svc, bus := newPartFixture(t, 10, 8)

	p, err := svc.AdjustStock(context.Background(), "FO-M001", -5)
	if err != nil {
		t.Fatalf("AdjustStock: %v", err)
	}
	if !p.BelowMinimum() {
		t.Fatalf("expected part below minimum, got %+v", p)
	}
	if len(bus.topics) != 1 || bus.topics[0] != TopicStockLow {
		t.Fatalf("expected one %s event, got %v", TopicStockLow, bus.topics)
	}
	if len(bus.parts) != 1 || bus.parts[0].CurrentStock != 5 {
		t.Fatalf("expected published part with stock 5, got %+v", bus.parts)
	}
}

func TestPartUpdateFullOverwrite(t *testing.T) {
	svc, _ := newPartFixture(t, 10, 1)
	ctx := context.Background()

	p, err := svc.FindByCode(ctx, "FO-M001")
	if err != nil {
		t.Fatalf("FindByCode: %v", err)
	}

	updated, err := svc.Update(ctx, p.ID, &domain.Part{
		Name:             "brake pad set",
		ManufacturerCode: "FO-M001",
		UnitPrice:        19.9,
		CurrentStock:     12,
		MinimumStock:     3,
		Location:         "A-01",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "brake pad set" || updated.CurrentStock != 12 || updated.Location != "A-01" {
		t.Fatalf("expected full overwrite, got %+v", updated)
	}
}

func TestLowStockParts(t *testing.T) {
	svc, _ := newPartFixture(t, 2, 5)
	ctx := context.Background()

	if _, err := svc.Create(ctx, &domain.Part{
		ManufacturerCode: "FO-M002",
		CurrentStock:     50,
		MinimumStock:     5,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	low, err := svc.LowStockParts(ctx)
	if err != nil {
		t.Fatalf("LowStockParts: %v", err)
	}
	if len(low) != 1 || low[0].ManufacturerCode != "FO-M001" {
		t.Fatalf("expected only FO-M001 below minimum, got %+v", low)
	}
}

func TestPartDeleteNotFound(t *testing.T) {
	svc, _ := newPartFixture(t, 10, 1)

	err := svc.Delete(context.Background(), 424242)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
