package adminapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/motofleet/motofleet/internal/domain"
	"github.com/motofleet/motofleet/internal/webserver"
	"github.com/motofleet/motofleet/pkg/metrics"
)

func registerSystemRoutes() {
	webserver.ApiGET("/health", health)
	webserver.ApiGET("/settings", listSettings)
	webserver.ApiPOST("/settings", saveSettings)
	webserver.ApiGET("/reports", listReports)
	webserver.ApiGET("/reports/:name", getReport)
	webserver.ApiPOST("/reports/run", runInventoryReport)
	webserver.ApiPOST("/inventory/scan", runLowStockScan)
	webserver.ApiGET("/metrics/:name", queryMetric)
}

func health(c echo.Context) error {
	return ok(c, echo.Map{"status": "up", "time": time.Now()})
}

func listSettings(c echo.Context) error {
	var settings []domain.SysConfig
	if err := GetDB(c).Order("type, name").Find(&settings).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query settings", err.Error())
	}
	return ok(c, settings)
}

func saveSettings(c echo.Context) error {
	if currentUserLevel(c) != "admin" {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Only administrators can change settings", nil)
	}
	var values map[string]interface{}
	if err := c.Bind(&values); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse settings", nil)
	}
	if err := GetApp(c).SaveSettings(values); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save settings", err.Error())
	}
	return ok(c, echo.Map{"saved": len(values)})
}

func listReports(c echo.Context) error {
	reports := GetApp(c).Reports()
	if reports == nil {
		return fail(c, http.StatusServiceUnavailable, "ARCHIVE_ERROR", "Report archive is not available", nil)
	}
	names, err := reports.ListReports()
	if err != nil {
		return fail(c, http.StatusInternalServerError, "ARCHIVE_ERROR", "Failed to list reports", err.Error())
	}
	return ok(c, names)
}

func getReport(c echo.Context) error {
	reports := GetApp(c).Reports()
	if reports == nil {
		return fail(c, http.StatusServiceUnavailable, "ARCHIVE_ERROR", "Report archive is not available", nil)
	}
	payload, err := reports.GetReport(c.Param("name"))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "ARCHIVE_ERROR", "Failed to read report", err.Error())
	}
	if payload == nil {
		return fail(c, http.StatusNotFound, "REPORT_NOT_FOUND", "Report not found", nil)
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, payload)
}

func runInventoryReport(c echo.Context) error {
	if currentUserLevel(c) != "admin" {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Only administrators can run reports", nil)
	}
	if err := GetApp(c).RunInventoryReportNow(); err != nil {
		return fail(c, http.StatusInternalServerError, "REPORT_ERROR", "Failed to generate report", err.Error())
	}
	return ok(c, echo.Map{"generated": true})
}

func runLowStockScan(c echo.Context) error {
	if currentUserLevel(c) != "admin" {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Only administrators can trigger scans", nil)
	}
	if err := GetApp(c).RunLowStockScanNow(); err != nil {
		return fail(c, http.StatusInternalServerError, "SCAN_ERROR", "Low-stock scan failed", err.Error())
	}
	return ok(c, echo.Map{"scanned": true})
}

// queryMetric returns raw datapoints for one metric over the requested
// window (default: the last 24 hours).
func queryMetric(c echo.Context) error {
	name := c.Param("name")
	end := time.Now().Unix()
	start := end - 86400
	if v := c.QueryParam("start"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			start = t.Unix()
		}
	}
	if v := c.QueryParam("end"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			end = t.Unix()
		}
	}

	points, err := metrics.Query(name, start, end)
	if err != nil {
		return ok(c, []interface{}{})
	}
	return ok(c, points)
}
