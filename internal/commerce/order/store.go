package order

import (
	"context"

	"github.com/moticosolutions/bms/internal/commerce/customer"
	"github.com/moticosolutions/bms/internal/domain"
)

// Store is the order persistence contract. It embeds the customer stats
// store so aggregate deltas run in the same transaction as the order write.
// Lookups return (nil, nil) when the row does not exist.
type Store interface {
	customer.StatsStore

	// Atomic runs fn against a store bound to a single transaction
	Atomic(ctx context.Context, fn func(Store) error) error

	GetOrder(ctx context.Context, id int64) (*domain.CrmOrder, error)
	GetOrderByNumber(ctx context.Context, number string) (*domain.CrmOrder, error)
	Items(ctx context.Context, orderID int64) ([]domain.CrmOrderItem, error)

	CreateOrder(ctx context.Context, order *domain.CrmOrder) error
	CreateItems(ctx context.Context, items []domain.CrmOrderItem) error
	UpdateOrder(ctx context.Context, id int64, updates map[string]interface{}) error
	DeleteOrder(ctx context.Context, id int64) error
	DeleteItems(ctx context.Context, orderID int64) error
}
