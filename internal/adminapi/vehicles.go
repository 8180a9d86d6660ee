package adminapi

import (
	"net/http"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"

	"github.com/motofleet/motofleet/internal/domain"
	"github.com/motofleet/motofleet/internal/webserver"
)

type vehiclePayload struct {
	Chassis         string `json:"chassis" validate:"required,len=17"`
	Plate           string `json:"plate" validate:"required,min=1,max=16"`
	Model           string `json:"model" validate:"omitempty,max=100"`
	ManufactureYear int    `json:"manufacture_year" validate:"omitempty,min=1900"`
	Status          string `json:"status" validate:"omitempty,oneof=available in_maintenance on_route sold"`
	Odometer        int    `json:"odometer" validate:"omitempty,min=0"`
}

func registerVehicleRoutes() {
	webserver.ApiGET("/fleet/vehicles", listVehicles)
	webserver.ApiGET("/fleet/vehicles/export", exportVehicles)
	webserver.ApiGET("/fleet/vehicles/:id", getVehicle)
	webserver.ApiPOST("/fleet/vehicles", createVehicle)
	webserver.ApiPUT("/fleet/vehicles/:id", updateVehicle)
	webserver.ApiDELETE("/fleet/vehicles/:id", deleteVehicle)
}

func listVehicles(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.Vehicle{})
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		if !domain.ValidVehicleStatus(status) {
			return fail(c, http.StatusBadRequest, "INVALID_STATUS", "Unknown vehicle status", nil)
		}
		db = db.Where("status = ?", status)
	}
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		qq := "%" + strings.ToUpper(q) + "%"
		db = db.Where("chassis LIKE ? OR plate LIKE ? OR UPPER(model) LIKE ?", qq, qq, qq)
	}
	if after := strings.TrimSpace(c.QueryParam("registered_after")); after != "" {
		t, err := dateparse.ParseAny(after)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse registered_after", nil)
		}
		db = db.Where("registered_at >= ?", t)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query vehicles", err.Error())
	}

	order := parseSort(c, map[string]bool{
		"id": true, "chassis": true, "plate": true, "registered_at": true, "odometer": true,
	}, "id DESC")

	var vehicles []domain.Vehicle
	if err := db.Order(order).Offset((page - 1) * pageSize).Limit(pageSize).Find(&vehicles).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query vehicles", err.Error())
	}

	return paged(c, vehicles, total, page, pageSize)
}

func getVehicle(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid vehicle ID", nil)
	}
	v, err := GetApp(c).VehicleService().Get(c.Request().Context(), id)
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, v)
}

func createVehicle(c echo.Context) error {
	var payload vehiclePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse vehicle parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	v, err := GetApp(c).VehicleService().Create(c.Request().Context(), &domain.Vehicle{
		Chassis:         payload.Chassis,
		Plate:           payload.Plate,
		Model:           payload.Model,
		ManufactureYear: payload.ManufactureYear,
		Status:          payload.Status,
		Odometer:        payload.Odometer,
	})
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, v)
}

func updateVehicle(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid vehicle ID", nil)
	}

	var payload vehiclePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse vehicle parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	v, err := GetApp(c).VehicleService().Update(c.Request().Context(), id, &domain.Vehicle{
		Chassis:         payload.Chassis,
		Plate:           payload.Plate,
		Model:           payload.Model,
		ManufactureYear: payload.ManufactureYear,
		Status:          payload.Status,
		Odometer:        payload.Odometer,
	})
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, v)
}

func deleteVehicle(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid vehicle ID", nil)
	}
	if err := GetApp(c).VehicleService().Delete(c.Request().Context(), id); err != nil {
		return failFromService(c, err)
	}
	return ok(c, echo.Map{"id": id})
}

func exportVehicles(c echo.Context) error {
	vehicles, err := GetApp(c).VehicleService().List(c.Request().Context())
	if err != nil {
		return failFromService(c, err)
	}
	if c.QueryParam("format") == "xlsx" {
		return exportXlsx(c, "vehicles", vehicles)
	}
	return exportCsv(c, "vehicles", vehicles)
}
