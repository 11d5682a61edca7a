package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/moticosolutions/bms/internal/commerce/quote"
	"github.com/moticosolutions/bms/internal/domain"
	"github.com/moticosolutions/bms/internal/webserver"
)

type quoteStatusPayload struct {
	Status string `json:"status"`
}

type quoteConvertPayload struct {
	OrderId int64 `json:"order_id,string"`
}

// registerQuoteRoutes registers quote lifecycle endpoints
func registerQuoteRoutes() {
	webserver.ApiGET("/crm/quotes", listQuotes)
	webserver.ApiGET("/crm/quotes/:id", getQuote)
	webserver.ApiPOST("/crm/quotes", createQuote)
	webserver.ApiPUT("/crm/quotes/:id/pricing", applyQuotePricing)
	webserver.ApiPUT("/crm/quotes/:id/status", updateQuoteStatus)
	webserver.ApiPUT("/crm/quotes/:id/convert", convertQuote)
	webserver.ApiDELETE("/crm/quotes/:id", deleteQuote)
}

func listQuotes(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.CrmQuote{})
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		if !domain.ValidQuoteStatus(status) {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unknown quote status", nil)
		}
		db = db.Where("status = ?", status)
	}
	if cid := strings.TrimSpace(c.QueryParam("customer_id")); cid != "" {
		db = db.Where("customer_id = ?", cast.ToInt64(cid))
	}
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") { //nolint:staticcheck
			db = db.Where("quote_number ILIKE ? OR customer_name ILIKE ?", "%"+q+"%", "%"+q+"%")
		} else {
			lq := "%" + strings.ToLower(q) + "%"
			db = db.Where("LOWER(quote_number) LIKE ? OR LOWER(customer_name) LIKE ?", lq, lq)
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query quotes", err.Error())
	}

	var quotes []domain.CrmQuote
	if err := db.Order("created_at DESC").Offset((page-1)*pageSize).Limit(pageSize).Find(&quotes).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query quotes", err.Error())
	}
	return paged(c, quotes, total, page, pageSize)
}

func getQuote(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid quote ID", nil)
	}
	q, items, err := services.Quotes.Get(c.Request().Context(), id)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, map[string]interface{}{"quote": q, "items": items})
}

func createQuote(c echo.Context) error {
	var input quote.CreateInput
	if err := c.Bind(&input); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse quote", err.Error())
	}
	q, err := services.Quotes.Create(c.Request().Context(), input)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, q)
}

func applyQuotePricing(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid quote ID", nil)
	}
	var input quote.PricingInput
	if err := c.Bind(&input); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse pricing", err.Error())
	}
	q, err := services.Quotes.ApplyPricing(c.Request().Context(), id, input)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, q)
}

func updateQuoteStatus(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid quote ID", nil)
	}
	var payload quoteStatusPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse status", err.Error())
	}
	q, err := services.Quotes.UpdateStatus(c.Request().Context(), id, payload.Status)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, q)
}

func convertQuote(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid quote ID", nil)
	}
	var payload quoteConvertPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse conversion", err.Error())
	}
	if payload.OrderId == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "order_id is required", nil)
	}
	q, err := services.Quotes.MarkConverted(c.Request().Context(), id, payload.OrderId)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, q)
}

func deleteQuote(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid quote ID", nil)
	}
	if err := services.Quotes.Delete(c.Request().Context(), id); err != nil {
		return failErr(c, err)
	}
	return ok(c, map[string]interface{}{"id": id})
}
