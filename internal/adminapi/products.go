package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"gorm.io/gorm"

	"github.com/moticosolutions/bms/internal/domain"
	"github.com/moticosolutions/bms/internal/webserver"
	"github.com/moticosolutions/bms/pkg/common"
)

type productPayload struct {
	Name          string  `json:"name" validate:"required,min=1,max=200"`
	Slug          string  `json:"slug" validate:"omitempty,max=200"`
	Sku           string  `json:"sku" validate:"omitempty,max=100"`
	CategoryId    *int64  `json:"category_id,string"`
	BrandId       *int64  `json:"brand_id,string"`
	Price         float64 `json:"price"`
	StockQty      *int    `json:"stock_qty"`
	MinStockLevel *int    `json:"min_stock_level"`
	Image         string  `json:"image"`
	IsActive      *bool   `json:"is_active"`
	Remark        string  `json:"remark"`
}

type stockAdjustPayload struct {
	Delta int `json:"delta"`
}

// productView decorates the stored row with the derived stock status
type productView struct {
	domain.CrmProduct
	StockStatus domain.StockStatus `json:"stock_status"`
}

func toProductView(p domain.CrmProduct) productView {
	return productView{CrmProduct: p, StockStatus: p.StockStatus()}
}

// registerProductRoutes registers product CRUD and stock endpoints
func registerProductRoutes() {
	webserver.ApiGET("/crm/products", listProducts)
	webserver.ApiGET("/crm/products/:id", getProduct)
	webserver.ApiPOST("/crm/products", createProduct)
	webserver.ApiPUT("/crm/products/:id", updateProduct)
	webserver.ApiPOST("/crm/products/:id/stock", adjustProductStock)
	webserver.ApiDELETE("/crm/products/:id", deleteProduct)
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)

	q := strings.TrimSpace(c.QueryParam("q"))
	sortField := strings.TrimSpace(c.QueryParam("sort"))
	order := strings.ToUpper(strings.TrimSpace(c.QueryParam("order")))
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	// whitelist allowed sort columns to avoid SQL injection
	allowed := map[string]string{
		"id":         "id",
		"name":       "name",
		"price":      "price",
		"stock_qty":  "stock_qty",
		"created_at": "created_at",
		"updated_at": "updated_at",
	}
	sortCol, found := allowed[sortField]
	if !found || sortCol == "" {
		sortCol = "id"
	}

	db := GetDB(c).Model(&domain.CrmProduct{})
	if q != "" {
		if strings.EqualFold(db.Name(), "postgres") { //nolint:staticcheck
			db = db.Where("name ILIKE ? OR sku ILIKE ?", "%"+q+"%", "%"+q+"%")
		} else {
			db = db.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", "%"+strings.ToLower(q)+"%", "%"+strings.ToLower(q)+"%")
		}
	}
	if cid := strings.TrimSpace(c.QueryParam("category_id")); cid != "" {
		db = db.Where("category_id = ?", cast.ToInt64(cid))
	}
	if bid := strings.TrimSpace(c.QueryParam("brand_id")); bid != "" {
		db = db.Where("brand_id = ?", cast.ToInt64(bid))
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	var rows []domain.CrmProduct
	if err := db.Order(sortCol + " " + order).Offset((page-1)*pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	views := make([]productView, 0, len(rows))
	for _, p := range rows {
		views = append(views, toProductView(p))
	}
	return paged(c, views, total, page, pageSize)
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.CrmProduct
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}
	return ok(c, toProductView(p))
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name is required", nil)
	}
	if payload.Price < 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Price must be >= 0", nil)
	}

	slug := common.Slugify(payload.Slug)
	if slug == "" {
		slug = common.Slugify(payload.Name)
	}
	var exists int64
	GetDB(c).Model(&domain.CrmProduct{}).Where("slug = ?", slug).Count(&exists)
	if exists > 0 {
		return fail(c, http.StatusConflict, "PRODUCT_EXISTS", "Product slug already exists", nil)
	}

	if payload.CategoryId != nil {
		var catCount int64
		GetDB(c).Model(&domain.CrmCategory{}).Where("id = ?", *payload.CategoryId).Count(&catCount)
		if catCount == 0 {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Category does not exist", nil)
		}
	}
	if payload.BrandId != nil {
		var brandCount int64
		GetDB(c).Model(&domain.CrmBrand{}).Where("id = ?", *payload.BrandId).Count(&brandCount)
		if brandCount == 0 {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Brand does not exist", nil)
		}
	}

	now := time.Now()
	p := domain.CrmProduct{
		ID:         common.UUIDint64(),
		CategoryId: payload.CategoryId,
		BrandId:    payload.BrandId,
		Name:       payload.Name,
		Slug:       slug,
		Sku:        strings.TrimSpace(payload.Sku),
		Price:      payload.Price,
		Image:      strings.TrimSpace(payload.Image),
		IsActive:   true,
		Remark:     payload.Remark,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if payload.StockQty != nil {
		p.StockQty = *payload.StockQty
	}
	p.MinStockLevel = 10
	if payload.MinStockLevel != nil {
		p.MinStockLevel = *payload.MinStockLevel
	}
	if payload.IsActive != nil {
		p.IsActive = *payload.IsActive
	}

	if err := GetDB(c).Create(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product", err.Error())
	}
	return ok(c, toProductView(p))
}

func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.CrmProduct
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name is required", nil)
	}
	if payload.Price < 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Price must be >= 0", nil)
	}

	if payload.Slug != "" {
		slug := common.Slugify(payload.Slug)
		if slug != p.Slug {
			var exists int64
			GetDB(c).Model(&domain.CrmProduct{}).Where("slug = ? AND id != ?", slug, id).Count(&exists)
			if exists > 0 {
				return fail(c, http.StatusConflict, "PRODUCT_EXISTS", "Product slug already exists", nil)
			}
			p.Slug = slug
		}
	}
	if payload.CategoryId != nil {
		var catCount int64
		GetDB(c).Model(&domain.CrmCategory{}).Where("id = ?", *payload.CategoryId).Count(&catCount)
		if catCount == 0 {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Category does not exist", nil)
		}
	}

	p.Name = payload.Name
	p.Sku = strings.TrimSpace(payload.Sku)
	p.CategoryId = payload.CategoryId
	p.BrandId = payload.BrandId
	p.Price = payload.Price
	p.Image = strings.TrimSpace(payload.Image)
	p.Remark = payload.Remark
	if payload.StockQty != nil {
		p.StockQty = *payload.StockQty
	}
	if payload.MinStockLevel != nil {
		p.MinStockLevel = *payload.MinStockLevel
	}
	if payload.IsActive != nil {
		p.IsActive = *payload.IsActive
	}
	p.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", err.Error())
	}
	return ok(c, toProductView(p))
}

// adjustProductStock applies a relative stock delta, never dropping below zero
func adjustProductStock(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var payload stockAdjustPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse stock adjustment", err.Error())
	}

	var p domain.CrmProduct
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}
	if p.StockQty+payload.Delta < 0 {
		return fail(c, http.StatusConflict, "STOCK_UNDERFLOW", "Stock quantity cannot go negative", map[string]interface{}{"stock_qty": p.StockQty})
	}

	result := GetDB(c).Model(&domain.CrmProduct{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock_qty":  gorm.Expr("stock_qty + ?", payload.Delta),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to adjust stock", result.Error.Error())
	}

	if err := GetDB(c).Where("id = ?", id).First(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}
	return ok(c, toProductView(p))
}

func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.CrmProduct{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}
