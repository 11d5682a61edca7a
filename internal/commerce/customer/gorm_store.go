package customer

import (
	"context"
	"errors"
	"time"

	"github.com/moticosolutions/bms/internal/domain"
	"gorm.io/gorm"
)

// GormStatsStore is the GORM implementation of StatsStore
type GormStatsStore struct {
	db *gorm.DB
}

// NewGormStatsStore creates a new GORM-based stats store
func NewGormStatsStore(db *gorm.DB) *GormStatsStore {
	return &GormStatsStore{db: db}
}

func (s *GormStatsStore) GetCustomer(ctx context.Context, id int64) (*domain.CrmCustomer, error) {
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

func (s *GormStatsStore) ApplyStats(ctx context.Context, customerID int64, orderDelta int, spentDelta float64, lastOrderAt *time.Time) error {
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
