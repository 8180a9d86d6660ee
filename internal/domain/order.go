package domain

import "time"

// Order status values
const (
	OrderPending  = "pending"
	OrderApproved = "approved"
)

// Product is a generic catalog item, decoupled from the parts inventory.
type Product struct {
	ID          int64     `json:"id,string" form:"id"`
	Name        string    `gorm:"size:200" json:"name" form:"name"`
	Description string    `gorm:"size:500" json:"description" form:"description"`
	Price       float64   `json:"price" form:"price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns table name
func (Product) TableName() string {
	return "crm_product"
}

// Order holds a user's order with its owned line items. Items are
// cascade-deleted with the order at the store boundary.
type Order struct {
	ID        int64       `json:"id,string" form:"id"`
	UserID    int64       `gorm:"index;not null" json:"user_id,string" form:"user_id"`
	Status    string      `gorm:"index;size:30" json:"status" form:"status"`
	Items     []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// TableName returns table name
func (Order) TableName() string {
	return "crm_order"
}

// OrderItem is one order line. UnitPrice is the price snapshot captured at
// order creation time, not a live product reference.
type OrderItem struct {
	ID        int64   `json:"id,string"`
	OrderID   int64   `gorm:"index;not null" json:"order_id,string"`
	ProductID int64   `json:"product_id,string"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// TableName returns table name
func (OrderItem) TableName() string {
	return "crm_order_item"
}
