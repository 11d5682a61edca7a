package catalog

import (
	"context"
	"sort"
	"testing"

	"github.com/moticosolutions/bms/internal/domain"
	"github.com/moticosolutions/bms/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store used by the service tests
type memStore struct {
	categories map[int64]*domain.CrmCategory
	products   map[int64]int64 // product id -> category id
}

func newMemStore() *memStore {
	return &memStore{
		categories: make(map[int64]*domain.CrmCategory),
		products:   make(map[int64]int64),
	}
}

func (m *memStore) Atomic(ctx context.Context, fn func(Store) error) error {
	return fn(m)
}

func (m *memStore) Get(ctx context.Context, id int64) (*domain.CrmCategory, error) {
	if cat, ok := m.categories[id]; ok {
		cp := *cat
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) GetBySlug(ctx context.Context, slug string) (*domain.CrmCategory, error) {
	for _, cat := range m.categories {
		if cat.Slug == slug {
			cp := *cat
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) All(ctx context.Context) ([]domain.CrmCategory, error) {
	out := make([]domain.CrmCategory, 0, len(m.categories))
	for _, cat := range m.categories {
		out = append(out, *cat)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memStore) Children(ctx context.Context, parentID int64) ([]domain.CrmCategory, error) {
	var out []domain.CrmCategory
	for _, cat := range m.categories {
		if cat.ParentId != nil && *cat.ParentId == parentID {
			out = append(out, *cat)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memStore) ChildCount(ctx context.Context, id int64) (int64, error) {
	children, _ := m.Children(ctx, id)
	return int64(len(children)), nil
}

func (m *memStore) ProductCount(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	for _, catID := range m.products {
		if catID == categoryID {
			count++
		}
	}
	return count, nil
}

func (m *memStore) Create(ctx context.Context, cat *domain.CrmCategory) error {
	cp := *cat
	m.categories[cat.ID] = &cp
	return nil
}

func (m *memStore) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	cat := m.categories[id]
	for key, value := range updates {
		switch key {
		case "name":
			cat.Name = value.(string)
		case "slug":
			cat.Slug = value.(string)
		case "parent_id":
			if value == nil {
				cat.ParentId = nil
			} else {
				v := value.(int64)
				cat.ParentId = &v
			}
		case "sort_order":
			cat.SortOrder = value.(int)
		case "is_active":
			cat.IsActive = value.(bool)
		case "remark":
			cat.Remark = value.(string)
		}
	}
	return nil
}

func (m *memStore) Delete(ctx context.Context, id int64) error {
	delete(m.categories, id)
	return nil
}

func (m *memStore) seed(id int64, name, slug string, parentID *int64, sortOrder int) *domain.CrmCategory {
	cat := &domain.CrmCategory{
		ID: id, Name: name, Slug: slug, ParentId: parentID,
		SortOrder: sortOrder, IsActive: true,
	}
	m.categories[id] = cat
	return cat
}

func ptr(v int64) *int64 { return &v }

func newTestService() (*Service, *memStore) {
	store := newMemStore()
	return NewService(store), store
}

func TestCreate_DerivesSlugFromName(t *testing.T) {
	service, store := newTestService()

	cat, err := service.Create(context.Background(), CreateInput{Name: "Power Tools"})

	require.NoError(t, err)
	assert.Equal(t, "power-tools", cat.Slug)
	assert.Nil(t, cat.ParentId)
	assert.True(t, cat.IsActive)
	assert.Len(t, store.categories, 1)
}

func TestCreate_EmptyNameFails(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Create(context.Background(), CreateInput{Name: "   "})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreate_SlugConflict(t *testing.T) {
	service, store := newTestService()
	store.seed(1, "Fasteners", "fasteners", nil, 0)

	_, err := service.Create(context.Background(), CreateInput{Name: "Fasteners"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestCreate_MissingParent(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Create(context.Background(), CreateInput{Name: "Anchors", ParentId: ptr(999)})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreate_WithParent(t *testing.T) {
	service, store := newTestService()
	store.seed(1, "Fasteners", "fasteners", nil, 0)

	cat, err := service.Create(context.Background(), CreateInput{Name: "Anchors", ParentId: ptr(1)})

	require.NoError(t, err)
	require.NotNil(t, cat.ParentId)
	assert.Equal(t, int64(1), *cat.ParentId)
}

func TestUpdate_NotFound(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Update(context.Background(), 42, UpdateInput{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdate_SelfParentRejected(t *testing.T) {
	service, store := newTestService()
	store.seed(1, "Fasteners", "fasteners", nil, 0)

	_, err := service.Update(context.Background(), 1, UpdateInput{ParentId: ptr(1), ParentProvided: true})
	assert.ErrorIs(t, err, apperr.ErrInvalidOperation)
}

func TestUpdate_DescendantCycleRejected(t *testing.T) {
	service, store := newTestService()
	// fasteners -> anchors -> wedge-anchors
	store.seed(1, "Fasteners", "fasteners", nil, 0)
	store.seed(2, "Anchors", "anchors", ptr(1), 0)
	store.seed(3, "Wedge Anchors", "wedge-anchors", ptr(2), 0)

	// direct child
	_, err := service.Update(context.Background(), 1, UpdateInput{ParentId: ptr(2), ParentProvided: true})
	assert.ErrorIs(t, err, apperr.ErrInvalidOperation)

	// deep descendant
	_, err = service.Update(context.Background(), 1, UpdateInput{ParentId: ptr(3), ParentProvided: true})
	assert.ErrorIs(t, err, apperr.ErrInvalidOperation)
}

func TestUpdate_ReparentToSibling(t *testing.T) {
	service, store := newTestService()
	store.seed(1, "Fasteners", "fasteners", nil, 0)
	store.seed(2, "Adhesives", "adhesives", nil, 0)
	store.seed(3, "Anchors", "anchors", ptr(1), 0)

	cat, err := service.Update(context.Background(), 3, UpdateInput{ParentId: ptr(2), ParentProvided: true})

	require.NoError(t, err)
	require.NotNil(t, cat.ParentId)
	assert.Equal(t, int64(2), *cat.ParentId)
}

func TestUpdate_ReparentToRoot(t *testing.T) {
	service, store := newTestService()
	store.seed(1, "Fasteners", "fasteners", nil, 0)
	store.seed(2, "Anchors", "anchors", ptr(1), 0)

	cat, err := service.Update(context.Background(), 2, UpdateInput{ParentId: nil, ParentProvided: true})

	require.NoError(t, err)
	assert.Nil(t, cat.ParentId)
}

func TestUpdate_MissingNewParent(t *testing.T) {
	service, store := newTestService()
	store.seed(1, "Fasteners", "fasteners", nil, 0)

	_, err := service.Update(context.Background(), 1, UpdateInput{ParentId: ptr(404), ParentProvided: true})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdate_SlugConflict(t *testing.T) {
	service, store := newTestService()
	store.seed(1, "Fasteners", "fasteners", nil, 0)
	store.seed(2, "Adhesives", "adhesives", nil, 0)

	slug := "fasteners"
	_, err := service.Update(context.Background(), 2, UpdateInput{Slug: &slug})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestUpdate_SlugUnchangedIsNotConflict(t *testing.T) {
	service, store := newTestService()
	store.seed(1, "Fasteners", "fasteners", nil, 0)

	slug := "fasteners"
	cat, err := service.Update(context.Background(), 1, UpdateInput{Slug: &slug})

	require.NoError(t, err)
	assert.Equal(t, "fasteners", cat.Slug)
}

func TestDelete_NotFound(t *testing.T) {
	service, _ := newTestService()

	err := service.Delete(context.Background(), 7)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDelete_WithChildRejected(t *testing.T) {
	service, store := newTestService()
	store.seed(1, "Fasteners", "fasteners", nil, 0)
	store.seed(2, "Anchors", "anchors", ptr(1), 0)

	err := service.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, apperr.ErrInvalidOperation)
	assert.Len(t, store.categories, 2)
}

func TestDelete_WithProductsRejected(t *testing.T) {
	service, store := newTestService()
	store.seed(1, "Fasteners", "fasteners", nil, 0)
	store.products[100] = 1

	err := service.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, apperr.ErrInvalidOperation)
}

func TestDelete_EmptyCategory(t *testing.T) {
	service, store := newTestService()
	store.seed(1, "Fasteners", "fasteners", nil, 0)

	err := service.Delete(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, store.categories)
}

func TestTree_NestingAndOrder(t *testing.T) {
	service, store := newTestService()
	store.seed(1, "Fasteners", "fasteners", nil, 2)
	store.seed(2, "Adhesives", "adhesives", nil, 1)
	store.seed(3, "Anchors", "anchors", ptr(1), 2)
	store.seed(4, "Bolts", "bolts", ptr(1), 1)
	store.seed(5, "Wedge Anchors", "wedge-anchors", ptr(3), 0)

	tree, err := service.Tree(context.Background())
	require.NoError(t, err)

	require.Len(t, tree, 2)
	assert.Equal(t, "adhesives", tree[0].Slug) // sort_order 1 before 2
	assert.Equal(t, "fasteners", tree[1].Slug)

	fasteners := tree[1]
	require.Len(t, fasteners.Children, 2)
	assert.Equal(t, "bolts", fasteners.Children[0].Slug)
	assert.Equal(t, "anchors", fasteners.Children[1].Slug)

	anchors := fasteners.Children[1]
	require.Len(t, anchors.Children, 1)
	assert.Equal(t, "wedge-anchors", anchors.Children[0].Slug)
}

func TestBreadcrumb_Root(t *testing.T) {
	service, store := newTestService()
	store.seed(1, "Fasteners", "fasteners", nil, 0)

	path, err := service.Breadcrumb(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, path, 1)
	assert.Equal(t, int64(1), path[0].ID)
}

func TestBreadcrumb_Nested(t *testing.T) {
	service, store := newTestService()
	store.seed(1, "Fasteners", "fasteners", nil, 0)
	store.seed(2, "Anchors", "anchors", ptr(1), 0)
	store.seed(3, "Wedge Anchors", "wedge-anchors", ptr(2), 0)

	path, err := service.Breadcrumb(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, path, 3)
	assert.Equal(t, int64(1), path[0].ID)
	assert.Equal(t, int64(2), path[1].ID)
	assert.Equal(t, int64(3), path[2].ID)
}

func TestBreadcrumb_NotFound(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Breadcrumb(context.Background(), 404)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
