package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/moticosolutions/bms/internal/domain"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@hourly", func() {
		a.SchedExpireQuotes()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@every 10m", func() {
		a.SchedLowStockScan()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@daily", func() {
		a.SchedPruneDeadQuotes()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// SchedExpireQuotes marks stale open quotes expired
func (a *Application) SchedExpireQuotes() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	n, err := a.quoteService.ExpireStale(context.Background())
	if err != nil {
		zap.S().Errorf("quote expiry sweep failed: %v", err)
		return
	}
	if n > 0 {
		zap.L().Info("expired stale quotes", zap.Int("count", n))
	}
}

// SchedLowStockScan publishes a low-stock event for every active product at
// or below its threshold
func (a *Application) SchedLowStockScan() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	batch := a.configManager.GetInt(ConfigCatalog, ConfigLowStockScanBatch)
	if batch <= 0 {
		batch = 500
	}

	var products []domain.CrmProduct
	err := a.gormDB.
		Where("is_active = ? AND stock_qty <= min_stock_level", true).
		Order("stock_qty ASC").
		Limit(batch).
		Find(&products).Error
	if err != nil {
		zap.S().Errorf("low-stock scan failed: %v", err)
		return
	}

	for _, p := range products {
		a.bus.Publish(TopicLowStock, LowStockEvent{
			ProductId:   p.ID,
			Sku:         p.Sku,
			Name:        p.Name,
			StockQty:    p.StockQty,
			Threshold:   p.MinStockLevel,
			StockStatus: p.StockStatus(),
		})
	}
}

// SchedPruneDeadQuotes removes quotes that died over a year ago. Converted
// quotes carry an order reference and are never pruned.
func (a *Application) SchedPruneDeadQuotes() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	cutoff := time.Now().Add(-time.Hour * 24 * 365)

	var ids []int64
	a.gormDB.Model(&domain.CrmQuote{}).
		Where("status IN ? AND order_id IS NULL AND updated_at < ?",
			[]string{domain.QuoteStatusRejected, domain.QuoteStatusExpired}, cutoff).
		Pluck("id", &ids)
	if len(ids) == 0 {
		return
	}

	a.gormDB.Where("quote_id IN ?", ids).Delete(&domain.CrmQuoteItem{})
	a.gormDB.Where("id IN ?", ids).Delete(&domain.CrmQuote{})
	zap.L().Info("pruned dead quotes", zap.Int("count", len(ids)))
}
