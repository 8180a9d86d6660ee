// Package adminapi exposes the management REST API: fleet vehicles,
// maintenance orders, spare-part inventory, products and purchase orders.
package adminapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"gorm.io/gorm"

	"github.com/motofleet/motofleet/internal/app"
	"github.com/motofleet/motofleet/internal/store"
	"github.com/motofleet/motofleet/internal/webserver"
)

// InitRouter registers every admin API route on the web server.
func InitRouter() {
	registerAuthRoutes()
	registerVehicleRoutes()
	registerMaintenanceRoutes()
	registerPartRoutes()
	registerProductRoutes()
	registerOrderRoutes()
	registerSystemRoutes()
}

// GetDB returns the request-scoped gorm handle injected by the web server.
func GetDB(c echo.Context) *gorm.DB {
	return c.Get(webserver.ContextDBKey).(*gorm.DB)
}

// GetApp returns the application injected by the web server.
func GetApp(c echo.Context) *app.Application {
	return c.Get(webserver.ContextAppKey).(*app.Application)
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, echo.Map{"data": data})
}

func fail(c echo.Context, status int, code, message string, details interface{}) error {
	body := echo.Map{"code": code, "message": message}
	if details != nil {
		body["details"] = details
	}
	return c.JSON(status, echo.Map{"error": body})
}

func paged(c echo.Context, items interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, echo.Map{
		"data": items,
		"meta": echo.Map{"total": total, "page": page, "page_size": pageSize},
	})
}

func parsePagination(c echo.Context) (page, pageSize int) {
	page = cast.ToInt(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize = cast.ToInt(c.QueryParam("page_size"))
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// parseSort builds an ORDER BY clause from the sort/dir query params,
// accepting only whitelisted column names.
func parseSort(c echo.Context, allowed map[string]bool, def string) string {
	col := c.QueryParam("sort")
	if !allowed[col] {
		return def
	}
	if c.QueryParam("dir") == "asc" {
		return col + " ASC"
	}
	return col + " DESC"
}

func handleValidationError(c echo.Context, err error) error {
	return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Request validation failed", err.Error())
}

// failFromService translates service-layer errors into HTTP failures.
func failFromService(c echo.Context, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, store.ErrDuplicateKey):
		return fail(c, http.StatusConflict, "DUPLICATE_KEY", err.Error(), nil)
	case errors.Is(err, store.ErrConflict):
		return fail(c, http.StatusConflict, "CONFLICT", err.Error(), nil)
	case errors.Is(err, store.ErrReferenceNotFound):
		return fail(c, http.StatusUnprocessableEntity, "REFERENCE_NOT_FOUND", err.Error(), nil)
	case errors.Is(err, store.ErrMissingReference):
		return fail(c, http.StatusBadRequest, "MISSING_REFERENCE", err.Error(), nil)
	case errors.Is(err, store.ErrInvalidValue):
		return fail(c, http.StatusBadRequest, "INVALID_VALUE", err.Error(), nil)
	default:
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Operation failed", err.Error())
	}
}

// Session keys stamped at login.
const (
	sessionUserID   = "uid"
	sessionUsername = "username"
	sessionLevel    = "level"
)

func currentUserID(c echo.Context) int64 {
	sess, err := session.Get("motofleet", c)
	if err != nil {
		return 0
	}
	return cast.ToInt64(sess.Values[sessionUserID])
}

func currentUserLevel(c echo.Context) string {
	sess, err := session.Get("motofleet", c)
	if err != nil {
		return ""
	}
	return cast.ToString(sess.Values[sessionLevel])
}
