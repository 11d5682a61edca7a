package catalog

import (
	"context"
	"errors"

	"github.com/moticosolutions/bms/internal/domain"
	"gorm.io/gorm"
)

// GormStore is the GORM implementation of Store
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-based category store
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Atomic(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) Get(ctx context.Context, id int64) (*domain.CrmCategory, error) {
	var cat domain.CrmCategory
	err := s.db.WithContext(ctx).First(&cat, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

func (s *GormStore) GetBySlug(ctx context.Context, slug string) (*domain.CrmCategory, error) {
	var cat domain.CrmCategory
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&cat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

func (s *GormStore) All(ctx context.Context) ([]domain.CrmCategory, error) {
	var cats []domain.CrmCategory
	err := s.db.WithContext(ctx).
		Order("sort_order ASC, id ASC").
		Find(&cats).Error
	return cats, err
}

func (s *GormStore) Children(ctx context.Context, parentID int64) ([]domain.CrmCategory, error) {
	var cats []domain.CrmCategory
	err := s.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("sort_order ASC, id ASC").
		Find(&cats).Error
	return cats, err
}

func (s *GormStore) ChildCount(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&domain.CrmCategory{}).
		Where("parent_id = ?", id).
		Count(&count).Error
	return count, err
}

func (s *GormStore) ProductCount(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&domain.CrmProduct{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

func (s *GormStore) Create(ctx context.Context, cat *domain.CrmCategory) error {
	return s.db.WithContext(ctx).Create(cat).Error
}

func (s *GormStore) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	return s.db.WithContext(ctx).
		Model(&domain.CrmCategory{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (s *GormStore) Delete(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Delete(&domain.CrmCategory{}, id).Error
}
