package domain

import "time"

// Part is a spare-part inventory line item. CurrentStock is only ever
// mutated through the stock adjustment path in the parts service.
type Part struct {
	ID               int64     `json:"id,string" form:"id"`
	Name             string    `gorm:"size:200" json:"name" form:"name"`
	Description      string    `gorm:"size:500" json:"description" form:"description"`
	ManufacturerCode string    `gorm:"uniqueIndex;size:50" json:"manufacturer_code" form:"manufacturer_code"`
	UnitPrice        float64   `json:"unit_price" form:"unit_price"`
	CurrentStock     int       `json:"current_stock" form:"current_stock"`
	MinimumStock     int       `json:"minimum_stock" form:"minimum_stock"`
	Location         string    `gorm:"size:100" json:"location" form:"location"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName returns table name
func (Part) TableName() string {
	return "inventory_part"
}

// BelowMinimum reports whether the part stock has fallen under its threshold.
func (p *Part) BelowMinimum() bool {
	return p.CurrentStock < p.MinimumStock
}
