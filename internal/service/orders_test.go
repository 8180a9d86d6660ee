package service

import (
	"context"
	"errors"
	"testing"

	"github.com/motofleet/motofleet/internal/domain"
	"github.com/motofleet/motofleet/internal/store"
	"github.com/motofleet/motofleet/internal/store/memstore"
)

func newOrderFixture(t *testing.T) (*OrderService, *ProductService, *domain.Product) {
	t.Helper()
	s := memstore.New()
	products := NewProductService(s)
	product, err := products.Save(context.Background(), &domain.Product{
		Name:  "chain kit",
		Price: 150.0,
	})
	if err != nil {
		t.Fatalf("product fixture: %v", err)
	}
	return NewOrderService(s), products, product
}

func TestOrderCreateMissingUser(t *testing.T) {
	orders, _, product := newOrderFixture(t)

	_, err := orders.Create(context.Background(), 0, []OrderLine{{ProductID: product.ID, Quantity: 1}})
	if !errors.Is(err, store.ErrMissingReference) {
		t.Fatalf("expected ErrMissingReference, got %v", err)
	}
}

func TestOrderCreateNoLines(t *testing.T) {
	orders, _, _ := newOrderFixture(t)

	_, err := orders.Create(context.Background(), 7, nil)
	if !errors.Is(err, store.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue for empty order, got %v", err)
	}
}

func TestOrderCreateBadQuantity(t *testing.T) {
	orders, _, product := newOrderFixture(t)

	_, err := orders.Create(context.Background(), 7, []OrderLine{{ProductID: product.ID, Quantity: 0}})
	if !errors.Is(err, store.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue for zero quantity, got %v", err)
	}
}

func TestOrderCreateUnknownProduct(t *testing.T) {
	orders, _, _ := newOrderFixture(t)

	_, err := orders.Create(context.Background(), 7, []OrderLine{{ProductID: 99999, Quantity: 1}})
	if !errors.Is(err, store.ErrReferenceNotFound) {
		t.Fatalf("expected ErrReferenceNotFound, got %v", err)
	}
}

func TestOrderPriceSnapshot(t *testing.T) {
	orders, products, product := newOrderFixture(t)
	ctx := context.Background()

	o, err := orders.Create(ctx, 7, []OrderLine{{ProductID: product.ID, Quantity: 2}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if o.Status != domain.OrderPending {
		t.Fatalf("expected pending order, got %s", o.Status)
	}
	if len(o.Items) != 1 || o.Items[0].UnitPrice != 150.0 || o.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items: %+v", o.Items)
	}

	// Changing the catalog price afterwards must not touch the snapshot.
	product.Price = 999.0
	if _, err := products.Save(ctx, product); err != nil {
		t.Fatalf("Save product: %v", err)
	}

	stored, err := orders.Get(ctx, o.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Items[0].UnitPrice != 150.0 {
		t.Fatalf("expected snapshot price 150, got %v", stored.Items[0].UnitPrice)
	}
}

func TestOrderApprove(t *testing.T) {
	orders, _, product := newOrderFixture(t)
	ctx := context.Background()

	o, err := orders.Create(ctx, 7, []OrderLine{{ProductID: product.ID, Quantity: 1}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	approved, err := orders.Approve(ctx, o.ID)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if approved.Status != domain.OrderApproved {
		t.Fatalf("expected approved status, got %s", approved.Status)
	}
}

func TestOrderApproveNotFound(t *testing.T) {
	orders, _, _ := newOrderFixture(t)

	_, err := orders.Approve(context.Background(), 88888)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOrderDeleteRemovesItems(t *testing.T) {
	orders, _, product := newOrderFixture(t)
	ctx := context.Background()

	o, err := orders.Create(ctx, 7, []OrderLine{{ProductID: product.ID, Quantity: 1}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := orders.Delete(ctx, o.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := orders.Get(ctx, o.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestOrderListByUser(t *testing.T) {
	orders, _, product := newOrderFixture(t)
	ctx := context.Background()

	if _, err := orders.Create(ctx, 7, []OrderLine{{ProductID: product.ID, Quantity: 1}}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := orders.Create(ctx, 8, []OrderLine{{ProductID: product.ID, Quantity: 1}}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	mine, err := orders.ListByUser(ctx, 7)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(mine) != 1 || mine[0].UserID != 7 {
		t.Fatalf("expected one order for user 7, got %+v", mine)
	}
}

func TestProductNegativePrice(t *testing.T) {
	_, products, _ := newOrderFixture(t)

	_, err := products.Save(context.Background(), &domain.Product{Name: "bad", Price: -1})
	if !errors.Is(err, store.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
}
