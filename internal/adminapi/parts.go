package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/motofleet/motofleet/internal/domain"
	"github.com/motofleet/motofleet/internal/webserver"
)

type partPayload struct {
	Name             string  `json:"name" validate:"omitempty,max=200"`
	Description      string  `json:"description" validate:"omitempty,max=500"`
	ManufacturerCode string  `json:"manufacturer_code" validate:"required,min=1,max=50"`
	UnitPrice        float64 `json:"unit_price" validate:"omitempty,min=0"`
	CurrentStock     int     `json:"current_stock" validate:"omitempty,min=0"`
	MinimumStock     int     `json:"minimum_stock" validate:"omitempty,min=0"`
	Location         string  `json:"location" validate:"omitempty,max=100"`
}

type stockAdjustPayload struct {
	Delta *int `json:"delta" validate:"required"`
}

func registerPartRoutes() {
	webserver.ApiGET("/inventory/parts", listParts)
	webserver.ApiGET("/inventory/parts/export", exportParts)
	webserver.ApiGET("/inventory/parts/low-stock", listLowStockParts)
	webserver.ApiGET("/inventory/parts/:id", getPart)
	webserver.ApiPOST("/inventory/parts", createPart)
	webserver.ApiPUT("/inventory/parts/:id", updatePart)
	webserver.ApiPATCH("/inventory/parts/:code/stock", adjustPartStock)
	webserver.ApiDELETE("/inventory/parts/:id", deletePart)
}

func listParts(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.Part{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		qq := "%" + strings.ToLower(q) + "%"
		db = db.Where("LOWER(manufacturer_code) LIKE ? OR LOWER(name) LIKE ?", qq, qq)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query parts", err.Error())
	}

	order := parseSort(c, map[string]bool{
		"id": true, "manufacturer_code": true, "current_stock": true, "unit_price": true,
	}, "id DESC")

	var parts []domain.Part
	if err := db.Order(order).Offset((page - 1) * pageSize).Limit(pageSize).Find(&parts).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query parts", err.Error())
	}

	return paged(c, parts, total, page, pageSize)
}

func listLowStockParts(c echo.Context) error {
	parts, err := GetApp(c).PartService().LowStockParts(c.Request().Context())
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, parts)
}

func getPart(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid part ID", nil)
	}
	p, err := GetApp(c).PartService().Get(c.Request().Context(), id)
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, p)
}

func createPart(c echo.Context) error {
	var payload partPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse part parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	p, err := GetApp(c).PartService().Create(c.Request().Context(), &domain.Part{
		Name:             payload.Name,
		Description:      payload.Description,
		ManufacturerCode: payload.ManufacturerCode,
		UnitPrice:        payload.UnitPrice,
		CurrentStock:     payload.CurrentStock,
		MinimumStock:     payload.MinimumStock,
		Location:         payload.Location,
	})
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, p)
}

func updatePart(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid part ID", nil)
	}

	var payload partPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse part parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	p, err := GetApp(c).PartService().Update(c.Request().Context(), id, &domain.Part{
		Name:             payload.Name,
		Description:      payload.Description,
		ManufacturerCode: payload.ManufacturerCode,
		UnitPrice:        payload.UnitPrice,
		CurrentStock:     payload.CurrentStock,
		MinimumStock:     payload.MinimumStock,
		Location:         payload.Location,
	})
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, p)
}

// adjustPartStock applies a signed delta to the part identified by its
// manufacturer code. Stock never goes below zero; concurrent adjustments
// are serialized by the parts service.
func adjustPartStock(c echo.Context) error {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		return fail(c, http.StatusBadRequest, "INVALID_CODE", "Missing manufacturer code", nil)
	}

	var payload stockAdjustPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse stock parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	p, err := GetApp(c).PartService().AdjustStock(c.Request().Context(), code, *payload.Delta)
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, p)
}

func deletePart(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid part ID", nil)
	}
	if err := GetApp(c).PartService().Delete(c.Request().Context(), id); err != nil {
		return failFromService(c, err)
	}
	return ok(c, echo.Map{"id": id})
}

func exportParts(c echo.Context) error {
	parts, err := GetApp(c).PartService().List(c.Request().Context())
	if err != nil {
		return failFromService(c, err)
	}
	if c.QueryParam("format") == "xlsx" {
		return exportXlsx(c, "parts", parts)
	}
	return exportCsv(c, "parts", parts)
}
