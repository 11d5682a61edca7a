package adminapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"gorm.io/gorm"

	"github.com/moticosolutions/bms/internal/catalog"
	"github.com/moticosolutions/bms/internal/domain"
	"github.com/moticosolutions/bms/internal/webserver"
)

type categoryPayload struct {
	Name      string `json:"name" validate:"required,min=1,max=200"`
	Slug      string `json:"slug" validate:"omitempty,max=200"`
	ParentId  *int64 `json:"parent_id,string"`
	SortOrder int    `json:"sort_order"`
	IsActive  *bool  `json:"is_active"`
	Remark    string `json:"remark"`
}

// categoryUpdatePayload is a partial patch; parent_id = 0 moves the category
// to the root level, an absent parent_id leaves the parent untouched.
type categoryUpdatePayload struct {
	Name      *string `json:"name"`
	Slug      *string `json:"slug"`
	ParentId  *int64  `json:"parent_id,string"`
	SortOrder *int    `json:"sort_order"`
	IsActive  *bool   `json:"is_active"`
	Remark    *string `json:"remark"`
}

// registerCategoryRoutes registers category CRUD and tree endpoints
func registerCategoryRoutes() {
	webserver.ApiGET("/crm/categories", listCategories)
	webserver.ApiGET("/crm/categories/tree", getCategoryTree)
	webserver.ApiGET("/crm/categories/:id", getCategory)
	webserver.ApiGET("/crm/categories/:id/breadcrumb", getCategoryBreadcrumb)
	webserver.ApiPOST("/crm/categories", createCategory)
	webserver.ApiPUT("/crm/categories/:id", updateCategory)
	webserver.ApiDELETE("/crm/categories/:id", deleteCategory)
}

func listCategories(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.CrmCategory{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") { //nolint:staticcheck
			db = db.Where("name ILIKE ? OR slug ILIKE ?", "%"+q+"%", "%"+q+"%")
		} else {
			db = db.Where("LOWER(name) LIKE ? OR LOWER(slug) LIKE ?", "%"+strings.ToLower(q)+"%", "%"+strings.ToLower(q)+"%")
		}
	}
	if parent := strings.TrimSpace(c.QueryParam("parent_id")); parent != "" {
		db = db.Where("parent_id = ?", cast.ToInt64(parent))
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}

	var rows []domain.CrmCategory
	if err := db.Order("sort_order ASC, id ASC").Offset((page-1)*pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func getCategoryTree(c echo.Context) error {
	tree, err := services.Categories.Tree(c.Request().Context())
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, tree)
}

func getCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	var cat domain.CrmCategory
	if err := GetDB(c).Where("id = ?", id).First(&cat).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "CATEGORY_NOT_FOUND", "Category not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query category", err.Error())
	}
	return ok(c, cat)
}

func getCategoryBreadcrumb(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	path, err := services.Categories.Breadcrumb(c.Request().Context(), id)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, path)
}

func createCategory(c echo.Context) error {
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", err.Error())
	}

	cat, err := services.Categories.Create(c.Request().Context(), catalog.CreateInput{
		Name:      payload.Name,
		Slug:      payload.Slug,
		ParentId:  payload.ParentId,
		SortOrder: payload.SortOrder,
		IsActive:  payload.IsActive,
		Remark:    payload.Remark,
	})
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, cat)
}

func updateCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	var payload categoryUpdatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", err.Error())
	}

	input := catalog.UpdateInput{
		Name:      payload.Name,
		Slug:      payload.Slug,
		SortOrder: payload.SortOrder,
		IsActive:  payload.IsActive,
		Remark:    payload.Remark,
	}
	if payload.ParentId != nil {
		input.ParentProvided = true
		if *payload.ParentId != 0 {
			input.ParentId = payload.ParentId
		}
	}

	cat, err := services.Categories.Update(c.Request().Context(), id, input)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, cat)
}

func deleteCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	if err := services.Categories.Delete(c.Request().Context(), id); err != nil {
		return failErr(c, err)
	}
	return ok(c, map[string]interface{}{"id": id})
}
