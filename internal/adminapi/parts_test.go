package adminapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/motofleet/motofleet/config"
	"github.com/motofleet/motofleet/internal/app"
	"github.com/motofleet/motofleet/internal/domain"
	"github.com/motofleet/motofleet/internal/store/memstore"
	"github.com/motofleet/motofleet/internal/webserver"
)

type apiValidator struct {
	validate *validator.Validate
}

func (v *apiValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func newTestApplication() *app.Application {
	application := app.NewApplication(&config.AppConfig{})
	application.OverrideStore(memstore.New())
	return application
}

func newAPIContext(application *app.Application, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = &apiValidator{validate: validator.New()}

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(webserver.ContextAppKey, application)
	return c, rec
}

func TestUpdatePartKeepsStock(t *testing.T) {
	ctx := context.Background()
	application := newTestApplication()

	seed, err := application.PartService().Create(ctx, &domain.Part{
		Name:             "Oil filter",
		ManufacturerCode: "FO-M001",
		UnitPrice:        9.5,
		CurrentStock:     50,
		MinimumStock:     5,
	})
	if err != nil {
		t.Fatalf("seed part: %v", err)
	}

	body := `{"name":"Oil filter","manufacturer_code":"FO-M001","unit_price":9.5,"current_stock":50,"minimum_stock":5}`
	c, rec := newAPIContext(application, http.MethodPut, "/inventory/parts/"+strconv.FormatInt(seed.ID, 10), body)
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatInt(seed.ID, 10))

	if err := updatePart(c); err != nil {
		t.Fatalf("updatePart: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	stored, err := application.PartService().Get(ctx, seed.ID)
	if err != nil {
		t.Fatalf("get part: %v", err)
	}
	if stored.CurrentStock != 50 {
		t.Fatalf("expected stock 50 after update, got %d", stored.CurrentStock)
	}
}

func TestUpdatePartOverwritesStock(t *testing.T) {
	ctx := context.Background()
	application := newTestApplication()

	seed, err := application.PartService().Create(ctx, &domain.Part{
		Name:             "Brake pad",
		ManufacturerCode: "FO-B002",
		CurrentStock:     20,
	})
	if err != nil {
		t.Fatalf("seed part: %v", err)
	}

	body := `{"manufacturer_code":"FO-B002","current_stock":35}`
	c, _ := newAPIContext(application, http.MethodPut, "/inventory/parts/"+strconv.FormatInt(seed.ID, 10), body)
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatInt(seed.ID, 10))

	if err := updatePart(c); err != nil {
		t.Fatalf("updatePart: %v", err)
	}

	stored, err := application.PartService().Get(ctx, seed.ID)
	if err != nil {
		t.Fatalf("get part: %v", err)
	}
	if stored.CurrentStock != 35 {
		t.Fatalf("expected stock 35 after update, got %d", stored.CurrentStock)
	}
}

func TestAdjustPartStockZeroDelta(t *testing.T) {
	ctx := context.Background()
	application := newTestApplication()

	if _, err := application.PartService().Create(ctx, &domain.Part{
		Name:             "Chain kit",
		ManufacturerCode: "FO-C003",
		CurrentStock:     12,
		MinimumStock:     2,
	}); err != nil {
		t.Fatalf("seed part: %v", err)
	}

	c, rec := newAPIContext(application, http.MethodPatch, "/inventory/parts/FO-C003/stock", `{"delta":0}`)
	c.SetParamNames("code")
	c.SetParamValues("FO-C003")

	if err := adjustPartStock(c); err != nil {
		t.Fatalf("adjustPartStock: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected zero delta to be accepted, got %d: %s", rec.Code, rec.Body.String())
	}

	stored, err := application.PartService().FindByCode(ctx, "FO-C003")
	if err != nil {
		t.Fatalf("find part: %v", err)
	}
	if stored.CurrentStock != 12 {
		t.Fatalf("expected stock 12 after zero delta, got %d", stored.CurrentStock)
	}
}

func TestAdjustPartStockMissingDelta(t *testing.T) {
	ctx := context.Background()
	application := newTestApplication()

	if _, err := application.PartService().Create(ctx, &domain.Part{
		ManufacturerCode: "FO-C004",
		CurrentStock:     3,
	}); err != nil {
		t.Fatalf("seed part: %v", err)
	}

	c, rec := newAPIContext(application, http.MethodPatch, "/inventory/parts/FO-C004/stock", `{}`)
	c.SetParamNames("code")
	c.SetParamValues("FO-C004")

	if err := adjustPartStock(c); err != nil {
		t.Fatalf("adjustPartStock: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing delta, got %d: %s", rec.Code, rec.Body.String())
	}
}
