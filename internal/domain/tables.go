package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysUser{},
	// Fleet
	&Vehicle{},
	&MaintenanceOrder{},
	// Inventory
	&Part{},
	// CRM
	&Product{},
	&Order{},
	&OrderItem{},
}
