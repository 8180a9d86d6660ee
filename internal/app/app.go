package app

import (
	"os"
	"runtime/debug"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/panjf2000/ants/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"

	"github.com/motofleet/motofleet/config"
	"github.com/motofleet/motofleet/internal/domain"
	"github.com/motofleet/motofleet/internal/service"
	"github.com/motofleet/motofleet/internal/store"
	"github.com/motofleet/motofleet/internal/store/gormstore"
	"github.com/motofleet/motofleet/pkg/archive"
	"github.com/motofleet/motofleet/pkg/metrics"
)

// Application owns the process-wide resources: configuration, database,
// store, services, scheduler, event bus and report archive.
type Application struct {
	appConfig *config.AppConfig
	gormDB    *gorm.DB
	store     store.Store
	sched     *cron.Cron
	bus       EventBus.Bus
	reports   *archive.Archive
	alertPool *ants.Pool

	vehicleSvc     *service.VehicleService
	maintenanceSvc *service.MaintenanceService
	partSvc        *service.PartService
	productSvc     *service.ProductService
	orderSvc       *service.OrderService
	userSvc        *service.UserService
}

// Ensure Application implements all provider interfaces
var (
	_ DBProvider        = (*Application)(nil)
	_ ConfigProvider    = (*Application)(nil)
	_ StoreProvider     = (*Application)(nil)
	_ SettingsProvider  = (*Application)(nil)
	_ SchedulerProvider = (*Application)(nil)
	_ AppContext        = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) DB() *gorm.DB {
	return a.gormDB
}

func (a *Application) Store() store.Store {
	return a.store
}

// OverrideStore replaces the application's store (used in tests).
func (a *Application) OverrideStore(s store.Store) {
	a.store = s
	a.buildServices()
}

func (a *Application) Init(cfg *config.AppConfig) {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	cfg.InitDirs()

	// Initialize zap logger
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	zapConfig.OutputPaths = []string{"stdout"}

	// Build logger with file rotation if enabled
	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		logger, err = zapConfig.Build(zap.AddCaller(), zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)

	// Metrics live in an embedded time-series store under the workdir
	if err := metrics.InitMetrics(cfg.System.Workdir); err != nil {
		zap.S().Warnf("failed to initialize metrics: %v", err)
	}

	if reports, err := archive.Open(cfg.System.Workdir); err != nil {
		zap.S().Warnf("failed to open report archive: %v", err)
	} else {
		a.reports = reports
	}

	a.gormDB = getDatabase(cfg.Database)
	zap.S().Infof("database connection successful, type: %s", cfg.Database.Type)

	if err := a.MigrateDB(false); err != nil {
		zap.S().Errorf("database migration failed: %v", err)
	}

	a.store = gormstore.New(a.gormDB)
	a.bus = EventBus.New()
	a.buildServices()

	a.checkSuper()
	a.checkSettings()

	a.initJob()
}

func (a *Application) buildServices() {
	a.vehicleSvc = service.NewVehicleService(a.store)
	a.maintenanceSvc = service.NewMaintenanceService(a.store)
	a.partSvc = service.NewPartService(a.store, a.bus)
	a.productSvc = service.NewProductService(a.store)
	a.orderSvc = service.NewOrderService(a.store)
	a.userSvc = service.NewUserService(a.store)
}

func (a *Application) MigrateDB(track bool) (err error) {
	defer func() {
		if err1 := recover(); err1 != nil {
			if os.Getenv("GO_DEBUG_TRACE") != "" {
				debug.PrintStack()
			}
			err2, ok := err1.(error)
			if ok {
				err = err2
				zap.S().Error(err2.Error())
			}
		}
	}()
	if track {
		if err := a.gormDB.Debug().Migrator().AutoMigrate(domain.Tables...); err != nil {
			zap.S().Error(err)
		}
	} else {
		if err := a.gormDB.Migrator().AutoMigrate(domain.Tables...); err != nil {
			zap.S().Error(err)
		}
	}
	return nil
}

func (a *Application) DropAll() {
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
}

func (a *Application) InitDb() {
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
	err := a.gormDB.Migrator().AutoMigrate(domain.Tables...)
	if err != nil {
		zap.S().Error(err)
	}
}

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

// Bus returns the process-local event bus
func (a *Application) Bus() EventBus.Bus {
	return a.bus
}

// Reports returns the report archive, nil when it failed to open.
func (a *Application) Reports() *archive.Archive {
	return a.reports
}

func (a *Application) VehicleService() *service.VehicleService         { return a.vehicleSvc }
func (a *Application) MaintenanceService() *service.MaintenanceService { return a.maintenanceSvc }
func (a *Application) PartService() *service.PartService               { return a.partSvc }
func (a *Application) ProductService() *service.ProductService         { return a.productSvc }
func (a *Application) OrderService() *service.OrderService             { return a.orderSvc }
func (a *Application) UserService() *service.UserService               { return a.userSvc }

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.alertPool != nil {
		a.alertPool.Release()
	}
	if a.reports != nil {
		_ = a.reports.Close()
	}
	metrics.Close()
	_ = zap.L().Sync()
}
