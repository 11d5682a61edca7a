package quote

import (
	"context"
	"errors"
	"time"

	"github.com/moticosolutions/bms/internal/domain"
	"gorm.io/gorm"
)

// GormStore is the GORM implementation of Store
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-based quote store
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Atomic(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) GetQuote(ctx context.Context, id int64) (*domain.CrmQuote, error) {
	var q domain.CrmQuote
	err := s.db.WithContext(ctx).First(&q, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *GormStore) GetQuoteByNumber(ctx context.Context, number string) (*domain.CrmQuote, error) {
	var q domain.CrmQuote
	err := s.db.WithContext(ctx).Where("quote_number = ?", number).First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *GormStore) Items(ctx context.Context, quoteID int64) ([]domain.CrmQuoteItem, error) {
	var items []domain.CrmQuoteItem
	err := s.db.WithContext(ctx).
		Where("quote_id = ?", quoteID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (s *GormStore) StaleQuotes(ctx context.Context, before time.Time) ([]domain.CrmQuote, error) {
	var quotes []domain.CrmQuote
	err := s.db.WithContext(ctx).
		Where("status IN ?", []string{
			domain.QuoteStatusPending,
			domain.QuoteStatusReviewed,
			domain.QuoteStatusSent,
		}).
		Where("valid_until IS NOT NULL AND valid_until < ?", before).
		Find(&quotes).Error
	return quotes, err
}

func (s *GormStore) CreateQuote(ctx context.Context, quote *domain.CrmQuote) error {
	return s.db.WithContext(ctx).Create(quote).Error
}

func (s *GormStore) CreateItems(ctx context.Context, items []domain.CrmQuoteItem) error {
	return s.db.WithContext(ctx).Create(&items).Error
}

func (s *GormStore) UpdateQuote(ctx context.Context, id int64, updates map[string]interface{}) error {
	return s.db.WithContext(ctx).
		Model(&domain.CrmQuote{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (s *GormStore) UpdateItem(ctx context.Context, id int64, updates map[string]interface{}) error {
	return s.db.WithContext(ctx).
		Model(&domain.CrmQuoteItem{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (s *GormStore) DeleteQuote(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Delete(&domain.CrmQuote{}, id).Error
}

func (s *GormStore) DeleteItems(ctx context.Context, quoteID int64) error {
	return s.db.WithContext(ctx).
		Where("quote_id = ?", quoteID).
		Delete(&domain.CrmQuoteItem{}).Error
}
