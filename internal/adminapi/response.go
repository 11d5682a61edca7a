package adminapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/moticosolutions/bms/internal/webserver"
	"github.com/moticosolutions/bms/pkg/apperr"
	"gorm.io/gorm"
)

// GetDB returns the request-scoped gorm handle injected by the web server
func GetDB(c echo.Context) *gorm.DB {
	return c.Get(webserver.DbContextKey).(*gorm.DB)
}

// ok writes a success envelope
func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code": "OK",
		"data": data,
	})
}

// paged writes a paginated list envelope
func paged(c echo.Context, rows interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code":     "OK",
		"data":     rows,
		"total":    total,
		"page":     page,
		"per_page": pageSize,
	})
}

// fail writes an error envelope with an explicit status and error code
func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, map[string]interface{}{
		"code":    code,
		"message": message,
		"detail":  detail,
	})
}

// failErr maps a service error kind onto an HTTP response. Errors always
// surface to the caller as-is, nothing is retried here.
func failErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, apperr.ErrConflict):
		return fail(c, http.StatusConflict, "CONFLICT", err.Error(), nil)
	case errors.Is(err, apperr.ErrInvalidOperation):
		return fail(c, http.StatusUnprocessableEntity, "INVALID_OPERATION", err.Error(), nil)
	case errors.Is(err, apperr.ErrValidation):
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	default:
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error", err.Error())
	}
}

// parseIDParam parses an int64 path parameter
func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// parsePagination reads page/perPage query params with sane bounds.
// Accepts the legacy pageSize param for backwards compatibility.
func parsePagination(c echo.Context) (page, pageSize int) {
	page = 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	pageSize = 20
	perPage := c.QueryParam("perPage")
	if perPage == "" {
		perPage = c.QueryParam("pageSize")
	}
	if ps, err := strconv.Atoi(perPage); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}
