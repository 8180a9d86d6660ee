package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/guonaihong/gout"
	"github.com/montanaflynn/stats"
	"github.com/nakabonne/tstorage"
	"github.com/panjf2000/ants/v2"
	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/gomail.v2"

	"github.com/motofleet/motofleet/internal/domain"
	"github.com/motofleet/motofleet/internal/service"
	"github.com/motofleet/motofleet/pkg/metrics"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// lastAlerted implements the per-part alert cooldown.
var (
	lastAlertedMu sync.Mutex
	lastAlerted   = map[string]time.Time{}
)

func (a *Application) initJob() {
	loc, err := time.LoadLocation(a.appConfig.System.Location)
	if err != nil {
		loc = time.Local
	}
	a.sched = cron.New(cron.WithParser(cronParser), cron.WithLocation(loc))

	a.alertPool, err = ants.NewPool(8)
	if err != nil {
		zap.S().Errorf("failed to create alert pool: %v", err)
	}

	// Immediate alerts ride the event bus; the periodic scan is the backstop
	// for parts that crossed the threshold outside the adjustment path.
	if err := a.bus.Subscribe(service.TopicStockLow, func(p domain.Part) {
		a.dispatchLowStockAlert(p)
	}); err != nil {
		zap.S().Errorf("failed to subscribe stock.low: %v", err)
	}

	_, _ = a.sched.AddFunc("@every 1h", func() {
		if err := a.RunLowStockScanNow(); err != nil {
			zap.L().Error("low stock scan failed", zap.Error(err))
		}
	})

	_, _ = a.sched.AddFunc("0 30 6 * * *", func() {
		if err := a.RunInventoryReportNow(); err != nil {
			zap.L().Error("inventory report failed", zap.Error(err))
		}
	})

	_, _ = a.sched.AddFunc("@every 60s", a.collectSystemMetrics)

	a.sched.Start()
}

// RunLowStockScanNow walks the parts inventory and dispatches an alert for
// every part under its minimum threshold.
func (a *Application) RunLowStockScanNow() error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	low, err := a.partSvc.LowStockParts(ctx)
	if err != nil {
		return err
	}
	if len(low) == 0 {
		return nil
	}

	batch := int(a.AlertSettingsValue().ScanBatch)
	if batch <= 0 {
		batch = 100
	}
	if len(low) > batch {
		low = low[:batch]
	}

	zap.L().Info("low stock scan", zap.Int("parts_below_minimum", len(low)))

	var g errgroup.Group
	g.SetLimit(8)
	for _, part := range low {
		part := part
		g.Go(func() error {
			a.dispatchLowStockAlert(part)
			return nil
		})
	}
	return g.Wait()
}

// dispatchLowStockAlert hands the notification work to the alert pool so
// callers (the stock adjustment path in particular) never block on SMTP
// or HTTP round trips.
func (a *Application) dispatchLowStockAlert(p domain.Part) {
	cooldown := time.Duration(a.AlertSettingsValue().CooldownMinutes) * time.Minute
	lastAlertedMu.Lock()
	if last, ok := lastAlerted[p.ManufacturerCode]; ok && time.Since(last) < cooldown {
		lastAlertedMu.Unlock()
		return
	}
	lastAlerted[p.ManufacturerCode] = time.Now()
	lastAlertedMu.Unlock()

	if a.alertPool == nil {
		a.sendLowStockAlert(p)
		return
	}
	if err := a.alertPool.Submit(func() { a.sendLowStockAlert(p) }); err != nil {
		zap.L().Error("failed to submit alert task", zap.Error(err))
	}
}

func (a *Application) sendLowStockAlert(p domain.Part) {
	settings := a.AlertSettingsValue()

	if settings.WebhookEnabled && a.appConfig.Alerting.WebhookURL != "" {
		err := gout.POST(a.appConfig.Alerting.WebhookURL).
			SetJSON(gout.H{
				"event":             service.TopicStockLow,
				"manufacturer_code": p.ManufacturerCode,
				"name":              p.Name,
				"current_stock":     p.CurrentStock,
				"minimum_stock":     p.MinimumStock,
				"location":          p.Location,
			}).
			SetTimeout(10 * time.Second).
			Do()
		if err != nil {
			zap.L().Error("low stock webhook failed",
				zap.String("code", p.ManufacturerCode), zap.Error(err))
		}
	}

	if settings.MailEnabled && a.appConfig.Smtp.Host != "" {
		m := gomail.NewMessage()
		m.SetHeader("From", a.appConfig.Smtp.From)
		m.SetHeader("To", a.appConfig.Smtp.To)
		m.SetHeader("Subject", fmt.Sprintf("[motofleet] low stock: %s", p.ManufacturerCode))
		m.SetBody("text/plain", fmt.Sprintf(
			"Part %s (%s) is below its minimum stock level.\n\ncurrent: %d\nminimum: %d\nlocation: %s\n",
			p.ManufacturerCode, p.Name, p.CurrentStock, p.MinimumStock, p.Location))

		d := gomail.NewDialer(a.appConfig.Smtp.Host, a.appConfig.Smtp.Port,
			a.appConfig.Smtp.Username, a.appConfig.Smtp.Password)
		if err := d.DialAndSend(m); err != nil {
			zap.L().Error("low stock mail failed",
				zap.String("code", p.ManufacturerCode), zap.Error(err))
		}
	}
}

// InventoryReport is the archived daily snapshot of the parts inventory.
type InventoryReport struct {
	GeneratedAt  time.Time `json:"generated_at"`
	PartCount    int       `json:"part_count"`
	TotalStock   int       `json:"total_stock"`
	BelowMinimum int       `json:"below_minimum"`
	MeanStock    float64   `json:"mean_stock"`
	MedianStock  float64   `json:"median_stock"`
	MinStock     float64   `json:"min_stock"`
}

// RunInventoryReportNow aggregates current stock levels and stores the
// rendered report in the local archive.
func (a *Application) RunInventoryReportNow() error {
	if a.reports == nil {
		return fmt.Errorf("report archive not available")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	parts, err := a.store.ListParts(ctx)
	if err != nil {
		return err
	}

	report := InventoryReport{
		GeneratedAt: time.Now(),
		PartCount:   len(parts),
	}
	levels := make([]float64, 0, len(parts))
	for _, p := range parts {
		levels = append(levels, float64(p.CurrentStock))
		report.TotalStock += p.CurrentStock
		if p.BelowMinimum() {
			report.BelowMinimum++
		}
	}
	if len(levels) > 0 {
		report.MeanStock, _ = stats.Mean(levels)
		report.MedianStock, _ = stats.Median(levels)
		report.MinStock, _ = stats.Min(levels)
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return err
	}
	name := "inventory-" + report.GeneratedAt.Format("2006-01-02")
	if err := a.reports.SaveReport(name, payload); err != nil {
		return err
	}
	zap.L().Info("inventory report archived",
		zap.String("name", name),
		zap.Int("parts", report.PartCount),
		zap.Int("below_minimum", report.BelowMinimum))
	return nil
}

// collectSystemMetrics samples host cpu/mem into the metrics store.
func (a *Application) collectSystemMetrics() {
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		metrics.RecordValue(metrics.MetricsSystemCpuuse, percents[0],
			tstorage.Label{Name: "host", Value: a.appConfig.System.Appid})
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		metrics.RecordValue(metrics.MetricsSystemMemuse, vm.UsedPercent,
			tstorage.Label{Name: "host", Value: a.appConfig.System.Appid})
	}
}
