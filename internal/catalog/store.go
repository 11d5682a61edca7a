package catalog

import (
	"context"

	"github.com/moticosolutions/bms/internal/domain"
)

// Store is the category persistence contract used by the hierarchy service.
// Lookups return (nil, nil) when the row does not exist; only infrastructure
// failures surface as errors.
type Store interface {
	// Atomic runs fn against a store bound to a single transaction, so a
	// check-then-write sequence cannot interleave with another writer.
	Atomic(ctx context.Context, fn func(Store) error) error

	Get(ctx context.Context, id int64) (*domain.CrmCategory, error)
	GetBySlug(ctx context.Context, slug string) (*domain.CrmCategory, error)

	// All returns every category ordered by sort_order asc, id asc
	All(ctx context.Context) ([]domain.CrmCategory, error)
	// Children returns direct children of a node ordered by sort_order asc
	Children(ctx context.Context, parentID int64) ([]domain.CrmCategory, error)

	ChildCount(ctx context.Context, id int64) (int64, error)
	ProductCount(ctx context.Context, categoryID int64) (int64, error)

	Create(ctx context.Context, cat *domain.CrmCategory) error
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
}
