package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/motofleet/motofleet/internal/domain"
	"github.com/motofleet/motofleet/internal/store"
	"github.com/motofleet/motofleet/pkg/metrics"
)

// OrderLine is one requested line of a new order.
type OrderLine struct {
	ProductID int64 `json:"product_id,string"`
	Quantity  int   `json:"quantity"`
}

// OrderService handles the generic product/order flow. Line items capture
// the product's unit price at order-creation time; the stored snapshot never
// follows later price changes. No stock check runs against the parts
// inventory, since the catalog and inventory are decoupled in this subsystem.
type OrderService struct {
	store store.Store
}

func NewOrderService(s store.Store) *OrderService {
	return &OrderService{store: s}
}

// Create builds and persists an order for the user, snapshotting each
// product's current price into its line item.
func (s *OrderService) Create(ctx context.Context, userID int64, lines []OrderLine) (*domain.Order, error) {
	if userID == 0 {
		return nil, fmt.Errorf("order requires a user reference: %w", store.ErrMissingReference)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("order requires at least one line: %w", store.ErrInvalidValue)
	}

	o := &domain.Order{
		UserID:    userID,
		Status:    domain.OrderPending,
		CreatedAt: time.Now(),
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("line quantity must be positive: %w", store.ErrInvalidValue)
		}
		product, err := s.store.GetProduct(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, fmt.Errorf("product %d does not exist: %w", line.ProductID, store.ErrReferenceNotFound)
			}
			return nil, err
		}
		o.Items = append(o.Items, domain.OrderItem{
			ProductID: product.ID,
			Quantity:  line.Quantity,
			UnitPrice: product.Price,
		})
	}

	if err := s.store.SaveOrder(ctx, o); err != nil {
		return nil, err
	}
	metrics.CounterIncr(metrics.MetricsOrdersCreated)
	return o, nil
}

// Approve transitions an order to approved from any status.
func (s *OrderService) Approve(ctx context.Context, id int64) (*domain.Order, error) {
	o, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Status = domain.OrderApproved
	if err := s.store.SaveOrder(ctx, o); err != nil {
		return nil, err
	}
	metrics.CounterIncr(metrics.MetricsOrdersApproved)
	return o, nil
}

func (s *OrderService) Get(ctx context.Context, id int64) (*domain.Order, error) {
	return s.store.GetOrder(ctx, id)
}

func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	return s.store.ListOrders(ctx)
}

func (s *OrderService) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	return s.store.ListOrdersByUser(ctx, userID)
}

// Delete removes the order and its owned line items in one atomic store
// operation.
func (s *OrderService) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteOrder(ctx, id)
}

// ProductService is a thin catalog passthrough with no extra invariants.
type ProductService struct {
	store store.Store
}

func NewProductService(s store.Store) *ProductService {
	return &ProductService{store: s}
}

func (s *ProductService) Save(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if p.Price < 0 {
		return nil, fmt.Errorf("product price must not be negative: %w", store.ErrInvalidValue)
	}
	if err := s.store.SaveProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.store.GetProduct(ctx, id)
}

func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	return s.store.ListProducts(ctx)
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteProduct(ctx, id)
}
