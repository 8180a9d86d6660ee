package store

import (
	"context"

	"github.com/motofleet/motofleet/internal/domain"
)

// Store is the persistence abstraction the services operate against. It is
// always injected, never a process global, so tests can substitute the
// in-memory implementation. Lookup methods return ErrNotFound on a miss;
// they never return a nil entity with a nil error.
type Store interface {
	VehicleStore
	MaintenanceOrderStore
	PartStore
	ProductStore
	OrderStore
	UserStore
}

// VehicleStore persists fleet vehicles.
type VehicleStore interface {
	GetVehicle(ctx context.Context, id int64) (*domain.Vehicle, error)
	FindVehicleByChassis(ctx context.Context, chassis string) (*domain.Vehicle, error)
	FindVehicleByPlate(ctx context.Context, plate string) (*domain.Vehicle, error)
	FindVehiclesByStatus(ctx context.Context, status string) ([]domain.Vehicle, error)
	ListVehicles(ctx context.Context) ([]domain.Vehicle, error)
	SaveVehicle(ctx context.Context, v *domain.Vehicle) error
	DeleteVehicle(ctx context.Context, id int64) error
}

// MaintenanceOrderStore persists maintenance work orders.
type MaintenanceOrderStore interface {
	GetMaintenanceOrder(ctx context.Context, id int64) (*domain.MaintenanceOrder, error)
	FindMaintenanceOrdersByStatus(ctx context.Context, status string) ([]domain.MaintenanceOrder, error)
	ListMaintenanceOrders(ctx context.Context) ([]domain.MaintenanceOrder, error)
	SaveMaintenanceOrder(ctx context.Context, mo *domain.MaintenanceOrder) error
	DeleteMaintenanceOrder(ctx context.Context, id int64) error
}

// PartStore persists spare parts. UpdatePartStockCAS is the conditional
// write the stock adjustment loop relies on: it sets the stock to newStock
// only while the stored value still equals oldStock, reporting whether the
// swap happened. Adjustments to the same manufacturer code are thereby
// serialized without locking the whole table.
type PartStore interface {
	GetPart(ctx context.Context, id int64) (*domain.Part, error)
	FindPartByCode(ctx context.Context, code string) (*domain.Part, error)
	ListParts(ctx context.Context) ([]domain.Part, error)
	SavePart(ctx context.Context, p *domain.Part) error
	DeletePart(ctx context.Context, id int64) error
	UpdatePartStockCAS(ctx context.Context, id int64, oldStock, newStock int) (bool, error)
}

// ProductStore persists catalog products.
type ProductStore interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	SaveProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

// OrderStore persists orders together with their owned line items.
// SaveOrder writes the order and its items as one atomic operation;
// DeleteOrder removes the owned items in the same operation.
type OrderStore interface {
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	SaveOrder(ctx context.Context, o *domain.Order) error
	DeleteOrder(ctx context.Context, id int64) error
}

// UserStore persists console accounts.
type UserStore interface {
	GetUser(ctx context.Context, id int64) (*domain.SysUser, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.SysUser, error)
	SaveUser(ctx context.Context, u *domain.SysUser) error
}
