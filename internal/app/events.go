package app

import (
	"go.uber.org/zap"

	"github.com/moticosolutions/bms/internal/domain"
)

// TopicLowStock is published once per product found at or below its
// low-stock threshold
const TopicLowStock = "catalog.lowstock"

// LowStockEvent is the payload published on TopicLowStock
type LowStockEvent struct {
	ProductId   int64              `json:"product_id,string"`
	Sku         string             `json:"sku"`
	Name        string             `json:"name"`
	StockQty    int                `json:"stock_qty"`
	Threshold   int                `json:"threshold"`
	StockStatus domain.StockStatus `json:"stock_status"`
}

// initEvents wires the default bus subscribers. Alert delivery channels hook
// in here by subscribing to the same topics.
func (a *Application) initEvents() {
	err := a.bus.SubscribeAsync(TopicLowStock, func(ev LowStockEvent) {
		zap.L().Warn("low stock alert",
			zap.Int64("product_id", ev.ProductId),
			zap.String("sku", ev.Sku),
			zap.String("name", ev.Name),
			zap.Int("stock_qty", ev.StockQty),
			zap.Int("threshold", ev.Threshold),
			zap.String("stock_status", string(ev.StockStatus)))
	}, false)
	if err != nil {
		zap.S().Errorf("event subscription error %s", err.Error())
	}
}
