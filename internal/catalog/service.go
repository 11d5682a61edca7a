package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/moticosolutions/bms/internal/domain"
	"github.com/moticosolutions/bms/pkg/apperr"
	"github.com/moticosolutions/bms/pkg/common"
	"go.uber.org/zap"
)

// Service owns the category tree: creation with slug uniqueness, parent
// reassignment with cycle prevention, deletion guarded by child/product
// usage, and the read-side tree/breadcrumb materializations.
type Service struct {
	store Store
}

// NewService creates a new category hierarchy service
func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateInput carries the fields accepted on category creation
type CreateInput struct {
	Name      string
	Slug      string
	ParentId  *int64
	SortOrder int
	IsActive  *bool
	Remark    string
}

// UpdateInput carries a partial category patch. ParentProvided distinguishes
// "reassign parent" (possibly to nil = root) from "leave parent untouched".
type UpdateInput struct {
	Name           *string
	Slug           *string
	ParentId       *int64
	ParentProvided bool
	SortOrder      *int
	IsActive       *bool
	Remark         *string
}

// Create validates input, derives a slug when none is given and persists the
// category. The slug check and the insert run in one transaction.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.CrmCategory, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperr.Validationf("category name is required")
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = common.Slugify(name)
	} else {
		slug = common.Slugify(slug)
	}
	if slug == "" {
		return nil, apperr.Validationf("category name %q yields an empty slug", name)
	}

	cat := &domain.CrmCategory{
		ID:        common.UUIDint64(),
		Name:      name,
		Slug:      slug,
		ParentId:  input.ParentId,
		SortOrder: input.SortOrder,
		IsActive:  true,
		Remark:    input.Remark,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if input.IsActive != nil {
		cat.IsActive = *input.IsActive
	}

	err := s.store.Atomic(ctx, func(st Store) error {
		dup, err := st.GetBySlug(ctx, slug)
		if err != nil {
			return err
		}
		if dup != nil {
			return apperr.Conflictf("category slug %q already exists", slug)
		}
		if input.ParentId != nil {
			parent, err := st.Get(ctx, *input.ParentId)
			if err != nil {
				return err
			}
			if parent == nil {
				return apperr.NotFoundf("parent category %d", *input.ParentId)
			}
		}
		return st.Create(ctx, cat)
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("category created",
		zap.Int64("category_id", cat.ID),
		zap.String("slug", cat.Slug))
	return cat, nil
}

// Update applies a partial patch. A parent reassignment re-checks the cycle
// invariant against live data: the new parent must not be the category itself
// nor any of its current descendants.
func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) (*domain.CrmCategory, error) {
	var updated *domain.CrmCategory
	err := s.store.Atomic(ctx, func(st Store) error {
		cat, err := st.Get(ctx, id)
		if err != nil {
			return err
		}
		if cat == nil {
			return apperr.NotFoundf("category %d", id)
		}

		updates := map[string]interface{}{"updated_at": time.Now()}

		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return apperr.Validationf("category name cannot be empty")
			}
			updates["name"] = name
		}

		if input.Slug != nil {
			slug := common.Slugify(*input.Slug)
			if slug == "" {
				return apperr.Validationf("slug %q is not valid", *input.Slug)
			}
			if slug != cat.Slug {
				dup, err := st.GetBySlug(ctx, slug)
				if err != nil {
					return err
				}
				if dup != nil && dup.ID != id {
					return apperr.Conflictf("category slug %q already exists", slug)
				}
			}
			updates["slug"] = slug
		}

		if input.ParentProvided {
			if input.ParentId == nil {
				updates["parent_id"] = nil
			} else {
				newParent := *input.ParentId
				if newParent == id {
					return apperr.InvalidOperationf("category %d cannot be its own parent", id)
				}
				descendants, err := descendantSet(ctx, st, id)
				if err != nil {
					return err
				}
				if descendants[newParent] {
					return apperr.InvalidOperationf("category %d is a descendant of %d, reparenting would create a cycle", newParent, id)
				}
				parent, err := st.Get(ctx, newParent)
				if err != nil {
					return err
				}
				if parent == nil {
					return apperr.NotFoundf("parent category %d", newParent)
				}
				updates["parent_id"] = newParent
			}
		}

		if input.SortOrder != nil {
			updates["sort_order"] = *input.SortOrder
		}
		if input.IsActive != nil {
			updates["is_active"] = *input.IsActive
		}
		if input.Remark != nil {
			updates["remark"] = *input.Remark
		}

		if err := st.Update(ctx, id, updates); err != nil {
			return err
		}
		updated, err = st.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a category. Child and product counts are read fresh inside
// the transaction; a category in use cannot be removed.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.store.Atomic(ctx, func(st Store) error {
		cat, err := st.Get(ctx, id)
		if err != nil {
			return err
		}
		if cat == nil {
			return apperr.NotFoundf("category %d", id)
		}

		children, err := st.ChildCount(ctx, id)
		if err != nil {
			return err
		}
		if children > 0 {
			return apperr.InvalidOperationf("category %d has %d child categories", id, children)
		}

		products, err := st.ProductCount(ctx, id)
		if err != nil {
			return err
		}
		if products > 0 {
			return apperr.InvalidOperationf("category %d has %d assigned products", id, products)
		}

		return st.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	zap.L().Info("category deleted", zap.Int64("category_id", id))
	return nil
}

// Tree returns root categories with children nested recursively, ordered by
// sort_order at every level. Built from the flat table on every call.
func (s *Service) Tree(ctx context.Context) ([]*domain.CategoryNode, error) {
	cats, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}

	nodes := make(map[int64]*domain.CategoryNode, len(cats))
	for i := range cats {
		nodes[cats[i].ID] = &domain.CategoryNode{CrmCategory: cats[i], Children: []*domain.CategoryNode{}}
	}

	roots := make([]*domain.CategoryNode, 0)
	for i := range cats {
		node := nodes[cats[i].ID]
		if cats[i].ParentId == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*cats[i].ParentId]
		if !ok {
			// orphaned parent pointer, surface the node at the root level
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}
	return roots, nil
}

// Breadcrumb walks parent links upward from id and returns the path
// root -> ... -> id. A root category yields a single-element path.
func (s *Service) Breadcrumb(ctx context.Context, id int64) ([]domain.CrmCategory, error) {
	cat, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, apperr.NotFoundf("category %d", id)
	}

	path := []domain.CrmCategory{*cat}
	seen := map[int64]bool{id: true}
	for cat.ParentId != nil {
		parent, err := s.store.Get(ctx, *cat.ParentId)
		if err != nil {
			return nil, err
		}
		if parent == nil || seen[parent.ID] {
			// dangling or corrupt parent link, stop the walk
			break
		}
		seen[parent.ID] = true
		path = append([]domain.CrmCategory{*parent}, path...)
		cat = parent
	}
	return path, nil
}

// descendantSet collects every id reachable from root by following child
// links, one level of live queries at a time.
func descendantSet(ctx context.Context, st Store, root int64) (map[int64]bool, error) {
	set := make(map[int64]bool)
	queue := []int64{root}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		children, err := st.Children(ctx, current)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			if set[child.ID] {
				continue
			}
			set[child.ID] = true
			queue = append(queue, child.ID)
		}
	}
	return set, nil
}
