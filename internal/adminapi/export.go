package adminapi

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
)

// exportCsv streams the record slice as a CSV attachment.
func exportCsv(c echo.Context, name string, records interface{}) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s-%s.csv"`, name, time.Now().Format("20060102")))
	c.Response().WriteHeader(http.StatusOK)
	return gocsv.Marshal(records, c.Response())
}

// exportXlsx renders the record slice into a single-sheet workbook. Column
// headers come from the json tags so the file matches the API field names.
func exportXlsx(c echo.Context, name string, records interface{}) error {
	rv := reflect.ValueOf(records)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Export source is not a list", nil)
	}

	rt := rv.Type().Elem()
	cols := make([]int, 0, rt.NumField())
	headers := make([]string, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := strings.Split(field.Tag.Get("json"), ",")[0]
		if tag == "" || tag == "-" {
			continue
		}
		if field.Type.Kind() == reflect.Slice || field.Type.Kind() == reflect.Ptr {
			continue
		}
		cols = append(cols, i)
		headers = append(headers, tag)
	}

	xlsx := excelize.NewFile()
	sheet := "Sheet1"
	for col, header := range headers {
		xlsx.SetCellValue(sheet, fmt.Sprintf("%s1", excelize.ToAlphaString(col)), header)
	}
	for row := 0; row < rv.Len(); row++ {
		item := rv.Index(row)
		for col, fi := range cols {
			val := item.Field(fi).Interface()
			if t, isTime := val.(time.Time); isTime {
				val = t.Format(time.RFC3339)
			}
			xlsx.SetCellValue(sheet, fmt.Sprintf("%s%d", excelize.ToAlphaString(col), row+2), val)
		}
	}

	c.Response().Header().Set(echo.HeaderContentType,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s-%s.xlsx"`, name, time.Now().Format("20060102")))
	c.Response().WriteHeader(http.StatusOK)
	return xlsx.Write(c.Response())
}
