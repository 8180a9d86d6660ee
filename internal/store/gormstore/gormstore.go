package gormstore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/motofleet/motofleet/internal/domain"
	"github.com/motofleet/motofleet/internal/store"
	"github.com/motofleet/motofleet/pkg/common"
)

// GormStore implements store.Store on top of a gorm database handle.
type GormStore struct {
	db *gorm.DB
}

var _ store.Store = (*GormStore)(nil)

func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) withCtx(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// wrapLookup maps gorm record misses onto the shared taxonomy.
func wrapLookup(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return errors.Wrap(err, what)
}

// ---------------------------------------------------------------- vehicles

func (s *GormStore) GetVehicle(ctx context.Context, id int64) (*domain.Vehicle, error) {
	var v domain.Vehicle
	if err := s.withCtx(ctx).Where("id = ?", id).First(&v).Error; err != nil {
		return nil, wrapLookup(err, "query vehicle")
	}
	return &v, nil
}

func (s *GormStore) FindVehicleByChassis(ctx context.Context, chassis string) (*domain.Vehicle, error) {
	var v domain.Vehicle
	if err := s.withCtx(ctx).Where("chassis = ?", chassis).First(&v).Error; err != nil {
		return nil, wrapLookup(err, "query vehicle by chassis")
	}
	return &v, nil
}

func (s *GormStore) FindVehicleByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	var v domain.Vehicle
	if err := s.withCtx(ctx).Where("plate = ?", plate).First(&v).Error; err != nil {
		return nil, wrapLookup(err, "query vehicle by plate")
	}
	return &v, nil
}

func (s *GormStore) FindVehiclesByStatus(ctx context.Context, status string) ([]domain.Vehicle, error) {
	var vehicles []domain.Vehicle
	err := s.withCtx(ctx).Where("status = ?", status).Order("id").Find(&vehicles).Error
	return vehicles, errors.Wrap(err, "query vehicles by status")
}

func (s *GormStore) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	var vehicles []domain.Vehicle
	err := s.withCtx(ctx).Order("id").Find(&vehicles).Error
	return vehicles, errors.Wrap(err, "list vehicles")
}

func (s *GormStore) SaveVehicle(ctx context.Context, v *domain.Vehicle) error {
	if v.ID == 0 {
		v.ID = common.UUIDint64()
		return errors.Wrap(s.withCtx(ctx).Create(v).Error, "create vehicle")
	}
	return errors.Wrap(s.withCtx(ctx).Save(v).Error, "update vehicle")
}

func (s *GormStore) DeleteVehicle(ctx context.Context, id int64) error {
	res := s.withCtx(ctx).Where("id = ?", id).Delete(&domain.Vehicle{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete vehicle")
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ------------------------------------------------------- maintenance orders

func (s *GormStore) GetMaintenanceOrder(ctx context.Context, id int64) (*domain.MaintenanceOrder, error) {
	var mo domain.MaintenanceOrder
	if err := s.withCtx(ctx).Preload("Vehicle").Where("id = ?", id).First(&mo).Error; err != nil {
		return nil, wrapLookup(err, "query maintenance order")
	}
	return &mo, nil
}

func (s *GormStore) FindMaintenanceOrdersByStatus(ctx context.Context, status string) ([]domain.MaintenanceOrder, error) {
	var orders []domain.MaintenanceOrder
	err := s.withCtx(ctx).Preload("Vehicle").Where("status = ?", status).Order("id").Find(&orders).Error
	return orders, errors.Wrap(err, "query maintenance orders by status")
}

func (s *GormStore) ListMaintenanceOrders(ctx context.Context) ([]domain.MaintenanceOrder, error) {
	var orders []domain.MaintenanceOrder
	err := s.withCtx(ctx).Preload("Vehicle").Order("id").Find(&orders).Error
	return orders, errors.Wrap(err, "list maintenance orders")
}

func (s *GormStore) SaveMaintenanceOrder(ctx context.Context, mo *domain.MaintenanceOrder) error {
	if mo.ID == 0 {
		mo.ID = common.UUIDint64()
		return errors.Wrap(s.withCtx(ctx).Create(mo).Error, "create maintenance order")
	}
	return errors.Wrap(s.withCtx(ctx).Save(mo).Error, "update maintenance order")
}

func (s *GormStore) DeleteMaintenanceOrder(ctx context.Context, id int64) error {
	res := s.withCtx(ctx).Where("id = ?", id).Delete(&domain.MaintenanceOrder{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete maintenance order")
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ------------------------------------------------------------------ parts

func (s *GormStore) GetPart(ctx context.Context, id int64) (*domain.Part, error) {
	var p domain.Part
	if err := s.withCtx(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, wrapLookup(err, "query part")
	}
	return &p, nil
}

func (s *GormStore) FindPartByCode(ctx context.Context, code string) (*domain.Part, error) {
	var p domain.Part
	if err := s.withCtx(ctx).Where("manufacturer_code = ?", code).First(&p).Error; err != nil {
		return nil, wrapLookup(err, "query part by code")
	}
	return &p, nil
}

func (s *GormStore) ListParts(ctx context.Context) ([]domain.Part, error) {
	var parts []domain.Part
	err := s.withCtx(ctx).Order("id").Find(&parts).Error
	return parts, errors.Wrap(err, "list parts")
}

func (s *GormStore) SavePart(ctx context.Context, p *domain.Part) error {
	if p.ID == 0 {
		p.ID = common.UUIDint64()
		return errors.Wrap(s.withCtx(ctx).Create(p).Error, "create part")
	}
	return errors.Wrap(s.withCtx(ctx).Save(p).Error, "update part")
}

func (s *GormStore) DeletePart(ctx context.Context, id int64) error {
	res := s.withCtx(ctx).Where("id = ?", id).Delete(&domain.Part{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete part")
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// UpdatePartStockCAS performs the conditional stock write: the update only
// lands while the stored stock still equals oldStock.
func (s *GormStore) UpdatePartStockCAS(ctx context.Context, id int64, oldStock, newStock int) (bool, error) {
	res := s.withCtx(ctx).Model(&domain.Part{}).
		Where("id = ? AND current_stock = ?", id, oldStock).
		Updates(map[string]interface{}{
			"current_stock": newStock,
			"updated_at":    time.Now(),
		})
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "cas part stock")
	}
	return res.RowsAffected > 0, nil
}

// --------------------------------------------------------------- products

func (s *GormStore) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	if err := s.withCtx(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, wrapLookup(err, "query product")
	}
	return &p, nil
}

func (s *GormStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	err := s.withCtx(ctx).Order("id").Find(&products).Error
	return products, errors.Wrap(err, "list products")
}

func (s *GormStore) SaveProduct(ctx context.Context, p *domain.Product) error {
	if p.ID == 0 {
		p.ID = common.UUIDint64()
		return errors.Wrap(s.withCtx(ctx).Create(p).Error, "create product")
	}
	return errors.Wrap(s.withCtx(ctx).Save(p).Error, "update product")
}

func (s *GormStore) DeleteProduct(ctx context.Context, id int64) error {
	res := s.withCtx(ctx).Where("id = ?", id).Delete(&domain.Product{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete product")
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ----------------------------------------------------------------- orders

func (s *GormStore) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	var o domain.Order
	if err := s.withCtx(ctx).Preload("Items").Where("id = ?", id).First(&o).Error; err != nil {
		return nil, wrapLookup(err, "query order")
	}
	return &o, nil
}

func (s *GormStore) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	err := s.withCtx(ctx).Preload("Items").Order("id").Find(&orders).Error
	return orders, errors.Wrap(err, "list orders")
}

func (s *GormStore) ListOrdersByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	var orders []domain.Order
	err := s.withCtx(ctx).Preload("Items").Where("user_id = ?", userID).Order("id").Find(&orders).Error
	return orders, errors.Wrap(err, "list orders by user")
}

// SaveOrder writes the order and its owned items in one transaction.
func (s *GormStore) SaveOrder(ctx context.Context, o *domain.Order) error {
	return s.withCtx(ctx).Transaction(func(tx *gorm.DB) error {
		isNew := o.ID == 0
		if isNew {
			o.ID = common.UUIDint64()
		}
		for i := range o.Items {
			if o.Items[i].ID == 0 {
				o.Items[i].ID = common.UUIDint64()
			}
			o.Items[i].OrderID = o.ID
		}
		if isNew {
			return errors.Wrap(tx.Create(o).Error, "create order")
		}
		if err := tx.Omit("Items").Save(o).Error; err != nil {
			return errors.Wrap(err, "update order")
		}
		for i := range o.Items {
			if err := tx.Save(&o.Items[i]).Error; err != nil {
				return errors.Wrap(err, "update order item")
			}
		}
		return nil
	})
}

// DeleteOrder removes the order and its owned items as one atomic operation.
func (s *GormStore) DeleteOrder(ctx context.Context, id int64) error {
	return s.withCtx(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&domain.Order{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete order")
		}
		if res.RowsAffected == 0 {
			return store.ErrNotFound
		}
		if err := tx.Where("order_id = ?", id).Delete(&domain.OrderItem{}).Error; err != nil {
			return errors.Wrap(err, "delete order items")
		}
		return nil
	})
}

// ------------------------------------------------------------------ users

func (s *GormStore) GetUser(ctx context.Context, id int64) (*domain.SysUser, error) {
	var u domain.SysUser
	if err := s.withCtx(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, wrapLookup(err, "query user")
	}
	return &u, nil
}

func (s *GormStore) FindUserByUsername(ctx context.Context, username string) (*domain.SysUser, error) {
	var u domain.SysUser
	if err := s.withCtx(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, wrapLookup(err, "query user by username")
	}
	return &u, nil
}

func (s *GormStore) SaveUser(ctx context.Context, u *domain.SysUser) error {
	if u.ID == 0 {
		u.ID = common.UUIDint64()
		return errors.Wrap(s.withCtx(ctx).Create(u).Error, "create user")
	}
	return errors.Wrap(s.withCtx(ctx).Save(u).Error, "update user")
}
