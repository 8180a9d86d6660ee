package memstore

import (
	"context"
	"sync"

	"github.com/google/btree"

	"github.com/motofleet/motofleet/internal/domain"
	"github.com/motofleet/motofleet/internal/store"
	"github.com/motofleet/motofleet/pkg/common"
)

// MemStore is an in-memory store.Store keeping each entity kind in a btree
// ordered by id. It is safe for concurrent use and is the substitute the
// service tests run against.
type MemStore struct {
	mu          sync.RWMutex
	vehicles    *btree.BTree
	maintenance *btree.BTree
	parts       *btree.BTree
	products    *btree.BTree
	orders      *btree.BTree
	users       *btree.BTree
}

var _ store.Store = (*MemStore)(nil)

type item struct {
	id  int64
	val interface{}
}

func (a item) Less(b btree.Item) bool {
	return a.id < b.(item).id
}

func New() *MemStore {
	return &MemStore{
		vehicles:    btree.New(2),
		maintenance: btree.New(2),
		parts:       btree.New(2),
		products:    btree.New(2),
		orders:      btree.New(2),
		users:       btree.New(2),
	}
}

func get(t *btree.BTree, id int64) (interface{}, bool) {
	it := t.Get(item{id: id})
	if it == nil {
		return nil, false
	}
	return it.(item).val, true
}

// ---------------------------------------------------------------- vehicles

func (s *MemStore) GetVehicle(ctx context.Context, id int64) (*domain.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := get(s.vehicles, id); ok {
		cp := *(v.(*domain.Vehicle))
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (s *MemStore) FindVehicleByChassis(ctx context.Context, chassis string) (*domain.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found *domain.Vehicle
	s.vehicles.Ascend(func(it btree.Item) bool {
		v := it.(item).val.(*domain.Vehicle)
		if v.Chassis == chassis {
			cp := *v
			found = &cp
			return false
		}
		return true
	})
	if found == nil {
		return nil, store.ErrNotFound
	}
	return found, nil
}

func (s *MemStore) FindVehicleByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found *domain.Vehicle
	s.vehicles.Ascend(func(it btree.Item) bool {
		v := it.(item).val.(*domain.Vehicle)
		if v.Plate == plate {
			cp := *v
			found = &cp
			return false
		}
		return true
	})
	if found == nil {
		return nil, store.ErrNotFound
	}
	return found, nil
}

func (s *MemStore) FindVehiclesByStatus(ctx context.Context, status string) ([]domain.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Vehicle
	s.vehicles.Ascend(func(it btree.Item) bool {
		v := it.(item).val.(*domain.Vehicle)
		if v.Status == status {
			out = append(out, *v)
		}
		return true
	})
	return out, nil
}

func (s *MemStore) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Vehicle
	s.vehicles.Ascend(func(it btree.Item) bool {
		out = append(out, *(it.(item).val.(*domain.Vehicle)))
		return true
	})
	return out, nil
}

func (s *MemStore) SaveVehicle(ctx context.Context, v *domain.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v.ID == 0 {
		v.ID = common.UUIDint64()
	}
	cp := *v
	s.vehicles.ReplaceOrInsert(item{id: v.ID, val: &cp})
	return nil
}

func (s *MemStore) DeleteVehicle(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.vehicles.Delete(item{id: id}) == nil {
		return store.ErrNotFound
	}
	return nil
}

// ------------------------------------------------------- maintenance orders

func (s *MemStore) GetMaintenanceOrder(ctx context.Context, id int64) (*domain.MaintenanceOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := get(s.maintenance, id); ok {
		cp := *(v.(*domain.MaintenanceOrder))
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (s *MemStore) FindMaintenanceOrdersByStatus(ctx context.Context, status string) ([]domain.MaintenanceOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.MaintenanceOrder
	s.maintenance.Ascend(func(it btree.Item) bool {
		mo := it.(item).val.(*domain.MaintenanceOrder)
		if mo.Status == status {
			out = append(out, *mo)
		}
		return true
	})
	return out, nil
}

func (s *MemStore) ListMaintenanceOrders(ctx context.Context) ([]domain.MaintenanceOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.MaintenanceOrder
	s.maintenance.Ascend(func(it btree.Item) bool {
		out = append(out, *(it.(item).val.(*domain.MaintenanceOrder)))
		return true
	})
	return out, nil
}

func (s *MemStore) SaveMaintenanceOrder(ctx context.Context, mo *domain.MaintenanceOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mo.ID == 0 {
		mo.ID = common.UUIDint64()
	}
	cp := *mo
	s.maintenance.ReplaceOrInsert(item{id: mo.ID, val: &cp})
	return nil
}

func (s *MemStore) DeleteMaintenanceOrder(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.maintenance.Delete(item{id: id}) == nil {
		return store.ErrNotFound
	}
	return nil
}

// ------------------------------------------------------------------ parts

func (s *MemStore) GetPart(ctx context.Context, id int64) (*domain.Part, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := get(s.parts, id); ok {
		cp := *(v.(*domain.Part))
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (s *MemStore) FindPartByCode(ctx context.Context, code string) (*domain.Part, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found *domain.Part
	s.parts.Ascend(func(it btree.Item) bool {
		p := it.(item).val.(*domain.Part)
		if p.ManufacturerCode == code {
			cp := *p
			found = &cp
			return false
		}
		return true
	})
	if found == nil {
		return nil, store.ErrNotFound
	}
	return found, nil
}

func (s *MemStore) ListParts(ctx context.Context) ([]domain.Part, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Part
	s.parts.Ascend(func(it btree.Item) bool {
		out = append(out, *(it.(item).val.(*domain.Part)))
		return true
	})
	return out, nil
}

func (s *MemStore) SavePart(ctx context.Context, p *domain.Part) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = common.UUIDint64()
	}
	cp := *p
	s.parts.ReplaceOrInsert(item{id: p.ID, val: &cp})
	return nil
}

func (s *MemStore) DeletePart(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.parts.Delete(item{id: id}) == nil {
		return store.ErrNotFound
	}
	return nil
}

func (s *MemStore) UpdatePartStockCAS(ctx context.Context, id int64, oldStock, newStock int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := get(s.parts, id)
	if !ok {
		return false, nil
	}
	p := v.(*domain.Part)
	if p.CurrentStock != oldStock {
		return false, nil
	}
	p.CurrentStock = newStock
	return true, nil
}

// --------------------------------------------------------------- products

func (s *MemStore) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := get(s.products, id); ok {
		cp := *(v.(*domain.Product))
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (s *MemStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Product
	s.products.Ascend(func(it btree.Item) bool {
		out = append(out, *(it.(item).val.(*domain.Product)))
		return true
	})
	return out, nil
}

func (s *MemStore) SaveProduct(ctx context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = common.UUIDint64()
	}
	cp := *p
	s.products.ReplaceOrInsert(item{id: p.ID, val: &cp})
	return nil
}

func (s *MemStore) DeleteProduct(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.products.Delete(item{id: id}) == nil {
		return store.ErrNotFound
	}
	return nil
}

// ----------------------------------------------------------------- orders

func (s *MemStore) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := get(s.orders, id); ok {
		o := v.(*domain.Order)
		cp := *o
		cp.Items = append([]domain.OrderItem(nil), o.Items...)
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (s *MemStore) ListOrders(ctx context.Context) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Order
	s.orders.Ascend(func(it btree.Item) bool {
		o := it.(item).val.(*domain.Order)
		cp := *o
		cp.Items = append([]domain.OrderItem(nil), o.Items...)
		out = append(out, cp)
		return true
	})
	return out, nil
}

func (s *MemStore) ListOrdersByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	all, _ := s.ListOrders(ctx)
	var out []domain.Order
	for _, o := range all {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *MemStore) SaveOrder(ctx context.Context, o *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID == 0 {
		o.ID = common.UUIDint64()
	}
	for i := range o.Items {
		if o.Items[i].ID == 0 {
			o.Items[i].ID = common.UUIDint64()
		}
		o.Items[i].OrderID = o.ID
	}
	cp := *o
	cp.Items = append([]domain.OrderItem(nil), o.Items...)
	s.orders.ReplaceOrInsert(item{id: o.ID, val: &cp})
	return nil
}

func (s *MemStore) DeleteOrder(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.orders.Delete(item{id: id}) == nil {
		return store.ErrNotFound
	}
	return nil
}

// ------------------------------------------------------------------ users

func (s *MemStore) GetUser(ctx context.Context, id int64) (*domain.SysUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := get(s.users, id); ok {
		cp := *(v.(*domain.SysUser))
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (s *MemStore) FindUserByUsername(ctx context.Context, username string) (*domain.SysUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found *domain.SysUser
	s.users.Ascend(func(it btree.Item) bool {
		u := it.(item).val.(*domain.SysUser)
		if u.Username == username {
			cp := *u
			found = &cp
			return false
		}
		return true
	})
	if found == nil {
		return nil, store.ErrNotFound
	}
	return found, nil
}

func (s *MemStore) SaveUser(ctx context.Context, u *domain.SysUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = common.UUIDint64()
	}
	cp := *u
	s.users.ReplaceOrInsert(item{id: u.ID, val: &cp})
	return nil
}
