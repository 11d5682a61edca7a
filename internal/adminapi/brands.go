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

type brandPayload struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Slug     string `json:"slug" validate:"omitempty,max=200"`
	Website  string `json:"website" validate:"omitempty,max=500"`
	IsActive *bool  `json:"is_active"`
	Remark   string `json:"remark" validate:"omitempty,max=500"`
}

type brandUpdatePayload struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	Slug     *string `json:"slug" validate:"omitempty,max=200"`
	Website  *string `json:"website" validate:"omitempty,max=500"`
	IsActive *bool   `json:"is_active"`
	Remark   *string `json:"remark" validate:"omitempty,max=500"`
}

// registerBrandRoutes registers brand CRUD routes
func registerBrandRoutes() {
	webserver.ApiGET("/crm/brands", listBrands)
	webserver.ApiGET("/crm/brands/:id", getBrand)
	webserver.ApiPOST("/crm/brands", createBrand)
	webserver.ApiPUT("/crm/brands/:id", updateBrand)
	webserver.ApiDELETE("/crm/brands/:id", deleteBrand)
}

func listBrands(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.CrmBrand{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") { //nolint:staticcheck
			db = db.Where("name ILIKE ? OR slug ILIKE ?", "%"+q+"%", "%"+q+"%")
		} else {
			db = db.Where("LOWER(name) LIKE ? OR LOWER(slug) LIKE ?", "%"+strings.ToLower(q)+"%", "%"+strings.ToLower(q)+"%")
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query brands", err.Error())
	}

	var brands []domain.CrmBrand
	if err := db.Order("name ASC").Offset((page-1)*pageSize).Limit(pageSize).Find(&brands).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query brands", err.Error())
	}

	return paged(c, brands, total, page, pageSize)
}

func getBrand(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid brand ID", nil)
	}

	var b domain.CrmBrand
	if err := GetDB(c).Where("id = ?", id).First(&b).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "BRAND_NOT_FOUND", "Brand not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query brand", err.Error())
	}

	return ok(c, b)
}

func createBrand(c echo.Context) error {
	var payload brandPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse brand parameters", nil)
	}

	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Brand name is required", nil)
	}

	slug := common.Slugify(payload.Slug)
	if slug == "" {
		slug = common.Slugify(payload.Name)
	}

	var exists int64
	GetDB(c).Model(&domain.CrmBrand{}).Where("slug = ?", slug).Count(&exists)
	if exists > 0 {
		return fail(c, http.StatusConflict, "BRAND_EXISTS", "Brand slug already exists", nil)
	}

	active := true
	if payload.IsActive != nil {
		active = *payload.IsActive
	}

	brand := domain.CrmBrand{
		ID:        common.UUIDint64(),
		Name:      payload.Name,
		Slug:      slug,
		Website:   strings.TrimSpace(payload.Website),
		IsActive:  active,
		Remark:    payload.Remark,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := GetDB(c).Create(&brand).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create brand", err.Error())
	}

	return ok(c, brand)
}

func updateBrand(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid brand ID", nil)
	}

	var payload brandUpdatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse brand parameters", nil)
	}

	var b domain.CrmBrand
	if err := GetDB(c).Where("id = ?", id).First(&b).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "BRAND_NOT_FOUND", "Brand not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query brand", err.Error())
	}

	if payload.Slug != nil {
		slug := common.Slugify(*payload.Slug)
		if slug != b.Slug {
			var exists int64
			GetDB(c).Model(&domain.CrmBrand{}).Where("slug = ? AND id != ?", slug, id).Count(&exists)
			if exists > 0 {
				return fail(c, http.StatusConflict, "BRAND_EXISTS", "Brand slug already exists", nil)
			}
			b.Slug = slug
		}
	}
	if payload.Name != nil {
		b.Name = strings.TrimSpace(*payload.Name)
	}
	if payload.Website != nil {
		b.Website = strings.TrimSpace(*payload.Website)
	}
	if payload.IsActive != nil {
		b.IsActive = *payload.IsActive
	}
	if payload.Remark != nil {
		b.Remark = *payload.Remark
	}
	b.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&b).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update brand", err.Error())
	}

	return ok(c, b)
}

func deleteBrand(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid brand ID", nil)
	}

	var b domain.CrmBrand
	if err := GetDB(c).Where("id = ?", id).First(&b).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "BRAND_NOT_FOUND", "Brand not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query brand", err.Error())
	}

	// Products keep their brand reference alive; refuse to orphan them
	var productCount int64
	GetDB(c).Model(&domain.CrmProduct{}).Where("brand_id = ?", id).Count(&productCount)
	if productCount > 0 {
		return fail(c, http.StatusConflict, "BRAND_IN_USE", "Brand is referenced by products and cannot be deleted", map[string]interface{}{"product_count": productCount})
	}

	if err := GetDB(c).Where("id = ?", id).Delete(&domain.CrmBrand{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete brand", err.Error())
	}

	return ok(c, map[string]interface{}{"id": id})
}
