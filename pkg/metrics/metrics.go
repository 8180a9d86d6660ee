package metrics

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
)

// Metric names recorded by the services and jobs.
const (
	MetricsStockAdjust    = "inventory_stock_adjust"
	MetricsStockLevel     = "inventory_stock_level"
	MetricsRuleReject     = "inventory_rule_reject"
	MetricsSystemCpuuse   = "system_cpuuse"
	MetricsSystemMemuse   = "system_memuse"
	MetricsOrdersCreated  = "crm_orders_created"
	MetricsOrdersApproved = "crm_orders_approved"
)

var (
	mu      sync.RWMutex
	storage tstorage.Storage
)

// InitMetrics opens the embedded time-series store under the workdir.
// Recording functions are no-ops until this succeeds, so unit tests and
// tools can run without a workdir.
func InitMetrics(workdir string) error {
	s, err := tstorage.NewStorage(
		tstorage.WithDataPath(filepath.Join(workdir, "metrics")),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithRetention(30*24*time.Hour),
	)
	if err != nil {
		return err
	}
	mu.Lock()
	storage = s
	mu.Unlock()
	return nil
}

// CounterIncr records a single count for the metric.
func CounterIncr(metric string, labels ...tstorage.Label) {
	RecordValue(metric, 1, labels...)
}

// RecordValue appends one data point to the metric series.
func RecordValue(metric string, value float64, labels ...tstorage.Label) {
	mu.RLock()
	s := storage
	mu.RUnlock()
	if s == nil {
		return
	}
	_ = s.InsertRows([]tstorage.Row{
		{
			Metric: metric,
			Labels: labels,
			DataPoint: tstorage.DataPoint{
				Timestamp: time.Now().Unix(),
				Value:     value,
			},
		},
	})
}

// Query returns the raw points of a metric in [start, end].
func Query(metric string, start, end int64, labels ...tstorage.Label) ([]*tstorage.DataPoint, error) {
	mu.RLock()
	s := storage
	mu.RUnlock()
	if s == nil {
		return nil, nil
	}
	return s.Select(metric, labels, start, end)
}

// Close flushes and closes the store.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if storage != nil {
		_ = storage.Close()
		storage = nil
	}
}
