package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/moticosolutions/bms/internal/domain"
	"github.com/moticosolutions/bms/internal/webserver"
	"github.com/moticosolutions/bms/pkg/common"
)

func registerCustomerRoutes() {
	webserver.ApiGET("/crm/customers", listCustomers)
	webserver.ApiGET("/crm/customers/:id", getCustomer)
	webserver.ApiPOST("/crm/customers", createCustomer)
	webserver.ApiPUT("/crm/customers/:id", updateCustomer)
	webserver.ApiDELETE("/crm/customers/:id", deleteCustomer)
}

func listCustomers(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.CrmCustomer{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") { //nolint:staticcheck
			db = db.Where("name ILIKE ? OR company ILIKE ? OR email ILIKE ?", "%"+q+"%", "%"+q+"%", "%"+q+"%")
		} else {
			lq := "%" + strings.ToLower(q) + "%"
			db = db.Where("LOWER(name) LIKE ? OR LOWER(company) LIKE ? OR LOWER(email) LIKE ?", lq, lq, lq)
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customers", err.Error())
	}

	var customers []domain.CrmCustomer
	if err := db.Order("id DESC").Offset((page-1)*pageSize).Limit(pageSize).Find(&customers).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customers", err.Error())
	}
	return paged(c, customers, total, page, pageSize)
}

func getCustomer(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}
	var p domain.CrmCustomer
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "CUSTOMER_NOT_FOUND", "Customer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customer", err.Error())
	}
	return ok(c, p)
}

type customerPayload struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Email   string `json:"email"`
	Mobile  string `json:"mobile"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
	Remark  string `json:"remark"`
}

func createCustomer(c echo.Context) error {
	var payload customerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse customer parameters", nil)
	}
	if strings.TrimSpace(payload.Name) == "" {
		return fail(c, http.StatusBadRequest, "MISSING_NAME", "Customer name is required", nil)
	}
	// ensure mobile/phone uniqueness
	if payload.Mobile != "" {
		var dup domain.CrmCustomer
		if err := GetDB(c).Where("mobile = ? OR phone = ?", payload.Mobile, payload.Mobile).First(&dup).Error; err == nil {
			return fail(c, http.StatusConflict, "DUPLICATE_CUSTOMER", "Customer with this phone/mobile already exists", nil)
		}
	}

	p := domain.CrmCustomer{
		ID:        common.UUIDint64(),
		Name:      strings.TrimSpace(payload.Name),
		Company:   payload.Company,
		Email:     payload.Email,
		Mobile:    payload.Mobile,
		Phone:     payload.Phone,
		Address:   payload.Address,
		City:      payload.City,
		Country:   payload.Country,
		Remark:    payload.Remark,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := GetDB(c).Create(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create customer", err.Error())
	}
	return ok(c, p)
}

// updateCustomer patches contact fields only. The order aggregates
// (total_orders/total_spent/last_order_at) are owned by the order lifecycle
// and never appear in the updates map here.
func updateCustomer(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}
	var payload customerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse customer parameters", nil)
	}
	var p domain.CrmCustomer
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "CUSTOMER_NOT_FOUND", "Customer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customer", err.Error())
	}
	updates := map[string]interface{}{}
	if payload.Name != "" {
		updates["name"] = strings.TrimSpace(payload.Name)
	}
	if payload.Company != "" {
		updates["company"] = payload.Company
	}
	if payload.Email != "" {
		updates["email"] = payload.Email
	}
	if payload.Mobile != "" {
		// ensure new mobile value is not used by another customer
		var dup domain.CrmCustomer
		if err := GetDB(c).Where("(mobile = ? OR phone = ?) AND id != ?", payload.Mobile, payload.Mobile, id).First(&dup).Error; err == nil {
			return fail(c, http.StatusConflict, "DUPLICATE_CUSTOMER", "Another customer with this phone/mobile already exists", nil)
		}
		updates["mobile"] = payload.Mobile
	}
	if payload.Phone != "" {
		var dup domain.CrmCustomer
		if err := GetDB(c).Where("(mobile = ? OR phone = ?) AND id != ?", payload.Phone, payload.Phone, id).First(&dup).Error; err == nil {
			return fail(c, http.StatusConflict, "DUPLICATE_CUSTOMER", "Another customer with this phone/mobile already exists", nil)
		}
		updates["phone"] = payload.Phone
	}
	if payload.Address != "" {
		updates["address"] = payload.Address
	}
	if payload.City != "" {
		updates["city"] = payload.City
	}
	if payload.Country != "" {
		updates["country"] = payload.Country
	}
	if payload.Remark != "" {
		updates["remark"] = payload.Remark
	}
	updates["updated_at"] = time.Now()
	if err := GetDB(c).Model(&p).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update customer", err.Error())
	}
	GetDB(c).Where("id = ?", id).First(&p)
	return ok(c, p)
}

func deleteCustomer(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}

	// Customers with order history keep their aggregates; refuse deletion
	var orderCount int64
	GetDB(c).Model(&domain.CrmOrder{}).Where("customer_id = ?", id).Count(&orderCount)
	if orderCount > 0 {
		return fail(c, http.StatusConflict, "CUSTOMER_IN_USE", "Customer has orders and cannot be deleted", map[string]interface{}{"order_count": orderCount})
	}

	if err := GetDB(c).Where("id = ?", id).Delete(&domain.CrmCustomer{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete customer", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}
