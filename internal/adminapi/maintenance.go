package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/motofleet/motofleet/internal/domain"
	"github.com/motofleet/motofleet/internal/webserver"
)

type maintenancePayload struct {
	VehicleID   int64  `json:"vehicle_id,string" validate:"required"`
	Status      string `json:"status" validate:"omitempty,oneof=open in_progress completed"`
	ProblemDesc string `json:"problem_desc" validate:"omitempty,max=500"`
}

type maintenanceUpdatePayload struct {
	VehicleID   int64  `json:"vehicle_id,string"`
	Status      string `json:"status" validate:"omitempty,oneof=open in_progress completed"`
	ProblemDesc string `json:"problem_desc" validate:"omitempty,max=500"`
}

func registerMaintenanceRoutes() {
	webserver.ApiGET("/fleet/maintenance", listMaintenance)
	webserver.ApiGET("/fleet/maintenance/:id", getMaintenance)
	webserver.ApiPOST("/fleet/maintenance", createMaintenance)
	webserver.ApiPUT("/fleet/maintenance/:id", updateMaintenance)
	webserver.ApiDELETE("/fleet/maintenance/:id", deleteMaintenance)
}

func listMaintenance(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.MaintenanceOrder{})
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		db = db.Where("status = ?", status)
	}
	if vid := strings.TrimSpace(c.QueryParam("vehicle_id")); vid != "" {
		db = db.Where("vehicle_id = ?", vid)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query maintenance orders", err.Error())
	}

	var orders []domain.MaintenanceOrder
	if err := db.Preload("Vehicle").Order("id DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&orders).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query maintenance orders", err.Error())
	}

	return paged(c, orders, total, page, pageSize)
}

func getMaintenance(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid maintenance order ID", nil)
	}
	mo, err := GetApp(c).MaintenanceService().Get(c.Request().Context(), id)
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, mo)
}

func createMaintenance(c echo.Context) error {
	var payload maintenancePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse maintenance parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	mo, err := GetApp(c).MaintenanceService().Create(c.Request().Context(), &domain.MaintenanceOrder{
		VehicleID:   payload.VehicleID,
		Status:      payload.Status,
		ProblemDesc: payload.ProblemDesc,
	})
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, mo)
}

func updateMaintenance(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid maintenance order ID", nil)
	}

	var payload maintenanceUpdatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse maintenance parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	mo, err := GetApp(c).MaintenanceService().Update(c.Request().Context(), id, &domain.MaintenanceOrder{
		VehicleID:   payload.VehicleID,
		Status:      payload.Status,
		ProblemDesc: payload.ProblemDesc,
	})
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, mo)
}

func deleteMaintenance(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid maintenance order ID", nil)
	}
	if err := GetApp(c).MaintenanceService().Delete(c.Request().Context(), id); err != nil {
		return failFromService(c, err)
	}
	return ok(c, echo.Map{"id": id})
}
