package app

import (
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/motofleet/motofleet/config"
	"github.com/motofleet/motofleet/internal/store"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// StoreProvider provides the entity store abstraction
type StoreProvider interface {
	Store() store.Store
}

// SettingsProvider provides system settings access
type SettingsProvider interface {
	GetSettingsStringValue(category, key string) string
	GetSettingsInt64Value(category, key string) int64
	GetSettingsBoolValue(category, key string) bool
	SaveSettings(settings map[string]interface{}) error
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// AppContext combines all provider interfaces for full application context.
// Handlers should depend on specific providers or this combined interface.
type AppContext interface {
	DBProvider
	ConfigProvider
	StoreProvider
	SettingsProvider
	SchedulerProvider

	// Application lifecycle methods
	MigrateDB(track bool) error
	InitDb()
	DropAll()
	// RunLowStockScanNow triggers an immediate low-stock scan
	RunLowStockScanNow() error
	// RunInventoryReportNow builds and archives an inventory report immediately
	RunInventoryReportNow() error
}
