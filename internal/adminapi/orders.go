package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/motofleet/motofleet/internal/domain"
	"github.com/motofleet/motofleet/internal/service"
	"github.com/motofleet/motofleet/internal/webserver"
)

type orderLinePayload struct {
	ProductID int64 `json:"product_id,string" validate:"required"`
	Quantity  int   `json:"quantity" validate:"required,min=1"`
}

type orderPayload struct {
	Lines []orderLinePayload `json:"lines" validate:"required,min=1,dive"`
}

func registerOrderRoutes() {
	webserver.ApiGET("/crm/orders", listOrders)
	webserver.ApiGET("/crm/orders/mine", listMyOrders)
	webserver.ApiGET("/crm/orders/:id", getOrder)
	webserver.ApiPOST("/crm/orders", createOrder)
	webserver.ApiPOST("/crm/orders/:id/approve", approveOrder)
	webserver.ApiDELETE("/crm/orders/:id", deleteOrder)
}

func listOrders(c echo.Context) error {
	if currentUserLevel(c) != "admin" {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Only administrators can list all orders", nil)
	}
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.Order{})
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}

	var orders []domain.Order
	if err := db.Preload("Items").Order("id DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&orders).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}

	return paged(c, orders, total, page, pageSize)
}

func listMyOrders(c echo.Context) error {
	uid := currentUserID(c)
	if uid == 0 {
		return fail(c, http.StatusUnauthorized, "NO_SESSION", "Not logged in", nil)
	}
	orders, err := GetApp(c).OrderService().ListByUser(c.Request().Context(), uid)
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, orders)
}

func getOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	order, err := GetApp(c).OrderService().Get(c.Request().Context(), id)
	if err != nil {
		return failFromService(c, err)
	}
	if currentUserLevel(c) != "admin" && order.UserID != currentUserID(c) {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Order belongs to another user", nil)
	}
	return ok(c, order)
}

func createOrder(c echo.Context) error {
	uid := currentUserID(c)
	if uid == 0 {
		return fail(c, http.StatusUnauthorized, "NO_SESSION", "Not logged in", nil)
	}

	var payload orderPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	lines := make([]service.OrderLine, 0, len(payload.Lines))
	for _, l := range payload.Lines {
		lines = append(lines, service.OrderLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}

	order, err := GetApp(c).OrderService().Create(c.Request().Context(), uid, lines)
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, order)
}

func approveOrder(c echo.Context) error {
	if currentUserLevel(c) != "admin" {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Only administrators can approve orders", nil)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	order, err := GetApp(c).OrderService().Approve(c.Request().Context(), id)
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, order)
}

func deleteOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}

	order, err := GetApp(c).OrderService().Get(c.Request().Context(), id)
	if err != nil {
		return failFromService(c, err)
	}
	if currentUserLevel(c) != "admin" && order.UserID != currentUserID(c) {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Order belongs to another user", nil)
	}

	if err := GetApp(c).OrderService().Delete(c.Request().Context(), id); err != nil {
		return failFromService(c, err)
	}
	return ok(c, echo.Map{"id": id})
}
