package order

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

// NewGormStore creates a new GORM-based order store
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Atomic(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) GetOrder(ctx context.Context, id int64) (*domain.CrmOrder, error) {
	var order domain.CrmOrder
	err := s.db.WithContext(ctx).First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *GormStore) GetOrderByNumber(ctx context.Context, number string) (*domain.CrmOrder, error) {
	var order domain.CrmOrder
	err := s.db.WithContext(ctx).Where("order_number = ?", number).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *GormStore) Items(ctx context.Context, orderID int64) ([]domain.CrmOrderItem, error) {
	var items []domain.CrmOrderItem
	err := s.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (s *GormStore) CreateOrder(ctx context.Context, order *domain.CrmOrder) error {
	return s.db.WithContext(ctx).Create(order).Error
}

func (s *GormStore) CreateItems(ctx context.Context, items []domain.CrmOrderItem) error {
	return s.db.WithContext(ctx).Create(&items).Error
}

func (s *GormStore) UpdateOrder(ctx context.Context, id int64, updates map[string]interface{}) error {
	return s.db.WithContext(ctx).
		Model(&domain.CrmOrder{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (s *GormStore) DeleteOrder(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Delete(&domain.CrmOrder{}, id).Error
}

func (s *GormStore) DeleteItems(ctx context.Context, orderID int64) error {
	return s.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Delete(&domain.CrmOrderItem{}).Error
}

func (s *GormStore) GetCustomer(ctx context.Context, id int64) (*domain.CrmCustomer, error) {
	var cust domain.CrmCustomer
	err := s.db.WithContext(ctx).First(&cust, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cust, nil
}

func (s *GormStore) ApplyStats(ctx context.Context, customerID int64, orderDelta int, spentDelta float64, lastOrderAt *time.Time) error {
	updates := map[string]interface{}{
		"total_orders": gorm.Expr("total_orders + ?", orderDelta),
		"total_spent":  gorm.Expr("total_spent + ?", spentDelta),
		"updated_at":   time.Now(),
	}
	if lastOrderAt != nil {
		updates["last_order_at"] = *lastOrderAt
	}
	return s.db.WithContext(ctx).
		Model(&domain.CrmCustomer{}).
		Where("id = ?", customerID).
		Updates(updates).Error
}
