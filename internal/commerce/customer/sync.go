// Package customer keeps the denormalized customer aggregates
// (total_orders, total_spent, last_order_at) in step with the order
// lifecycle. Nothing else in the system may write these columns.
package customer

import (
	"context"
	"time"

	"github.com/moticosolutions/bms/internal/domain"
)

// StatsStore applies an aggregate delta to one customer row. The delta must
// be executed as a single relative UPDATE (total_orders = total_orders + ?)
// so concurrent order events serialize at the database.
type StatsStore interface {
	ApplyStats(ctx context.Context, customerID int64, orderDelta int, spentDelta float64, lastOrderAt *time.Time) error
	GetCustomer(ctx context.Context, id int64) (*domain.CrmCustomer, error)
}

// Synchronizer performs unconditional aggregate increments. Callers own the
// exactly-once contract: one OrderPlaced per order that counts, one
// OrderRemoved per counted order that goes away, both inside the same
// transaction as the order write.
type Synchronizer struct{}

// NewSynchronizer creates a new aggregate synchronizer
func NewSynchronizer() *Synchronizer {
	return &Synchronizer{}
}

// OrderPlaced credits an order to the customer: +1 orders, +amount spent,
// last_order_at = now.
func (s *Synchronizer) OrderPlaced(ctx context.Context, st StatsStore, customerID int64, amount float64) error {
	now := time.Now()
	return st.ApplyStats(ctx, customerID, 1, amount, &now)
}

// OrderRemoved reverses a previously credited order: -1 orders, -amount
// spent. last_order_at is left as-is.
func (s *Synchronizer) OrderRemoved(ctx context.Context, st StatsStore, customerID int64, amount float64) error {
	return st.ApplyStats(ctx, customerID, -1, -amount, nil)
}
