package adminapi

import (
	"net/http"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/moticosolutions/bms/internal/commerce/order"
	"github.com/moticosolutions/bms/internal/domain"
	"github.com/moticosolutions/bms/internal/webserver"
)

type orderStatusPayload struct {
	Status string `json:"status"`
}

type orderPaymentPayload struct {
	PaymentStatus string `json:"payment_status"`
}

// registerOrderRoutes registers order lifecycle endpoints
func registerOrderRoutes() {
	webserver.ApiGET("/crm/orders", listOrders)
	webserver.ApiGET("/crm/orders/:id", getOrder)
	webserver.ApiPOST("/crm/orders", createOrder)
	webserver.ApiPUT("/crm/orders/:id/status", updateOrderStatus)
	webserver.ApiPUT("/crm/orders/:id/payment", updateOrderPayment)
	webserver.ApiPUT("/crm/orders/:id/charges", updateOrderCharges)
	webserver.ApiDELETE("/crm/orders/:id", deleteOrder)
}

func listOrders(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.CrmOrder{})
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		if !domain.ValidOrderStatus(status) {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unknown order status", nil)
		}
		db = db.Where("status = ?", status)
	}
	if ps := strings.TrimSpace(c.QueryParam("payment_status")); ps != "" {
		if !domain.ValidPaymentStatus(ps) {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unknown payment status", nil)
		}
		db = db.Where("payment_status = ?", ps)
	}
	if cid := strings.TrimSpace(c.QueryParam("customer_id")); cid != "" {
		db = db.Where("customer_id = ?", cast.ToInt64(cid))
	}
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") { //nolint:staticcheck
			db = db.Where("order_number ILIKE ?", "%"+q+"%")
		} else {
			db = db.Where("LOWER(order_number) LIKE ?", "%"+strings.ToLower(q)+"%")
		}
	}
	if from := strings.TrimSpace(c.QueryParam("from")); from != "" {
		t, err := dateparse.ParseLocal(from)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse 'from' date", err.Error())
		}
		db = db.Where("created_at >= ?", t)
	}
	if to := strings.TrimSpace(c.QueryParam("to")); to != "" {
		t, err := dateparse.ParseLocal(to)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse 'to' date", err.Error())
		}
		db = db.Where("created_at <= ?", t)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}

	var orders []domain.CrmOrder
	if err := db.Order("created_at DESC").Offset((page-1)*pageSize).Limit(pageSize).Find(&orders).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}
	return paged(c, orders, total, page, pageSize)
}

func getOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	o, items, err := services.Orders.Get(c.Request().Context(), id)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, map[string]interface{}{"order": o, "items": items})
}

func createOrder(c echo.Context) error {
	var input order.CreateInput
	if err := c.Bind(&input); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order", err.Error())
	}
	o, err := services.Orders.Create(c.Request().Context(), input)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, o)
}

func updateOrderStatus(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var payload orderStatusPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse status", err.Error())
	}
	o, err := services.Orders.UpdateStatus(c.Request().Context(), id, payload.Status)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, o)
}

func updateOrderPayment(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var payload orderPaymentPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse payment status", err.Error())
	}
	o, err := services.Orders.UpdatePaymentStatus(c.Request().Context(), id, payload.PaymentStatus)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, o)
}

func updateOrderCharges(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var input order.ChargesInput
	if err := c.Bind(&input); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse charges", err.Error())
	}
	o, err := services.Orders.UpdateCharges(c.Request().Context(), id, input)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, o)
}

func deleteOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	if err := services.Orders.Delete(c.Request().Context(), id); err != nil {
		return failErr(c, err)
	}
	return ok(c, map[string]interface{}{"id": id})
}
