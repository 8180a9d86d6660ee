package adminapi

import (
	"net/http"
	"testing"
)

func TestReportsUnavailableWithoutArchive(t *testing.T) {
	// An Application whose report archive never opened serves reports
	// as unavailable instead of panicking on the nil archive.
	application := newTestApplication()

	c, rec := newAPIContext(application, http.MethodGet, "/reports", "")
	if err := listReports(c); err != nil {
		t.Fatalf("listReports: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without archive, got %d: %s", rec.Code, rec.Body.String())
	}

	c, rec = newAPIContext(application, http.MethodGet, "/reports/inventory-2026-08-29", "")
	c.SetParamNames("name")
	c.SetParamValues("inventory-2026-08-29")
	if err := getReport(c); err != nil {
		t.Fatalf("getReport: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without archive, got %d: %s", rec.Code, rec.Body.String())
	}
}
