package app

import (
	"time"

	"go.uber.org/zap"

	"github.com/moticosolutions/bms/internal/domain"
	"github.com/moticosolutions/bms/pkg/common"
)

type settingSeed struct {
	Category    string
	Name        string
	Default     string
	Description string
}

var settingSeeds = []settingSeed{
	{ConfigCommerce, ConfigOrderNumberPrefix, "ORD", "Prefix used for generated order numbers"},
	{ConfigCommerce, ConfigQuoteNumberPrefix, "QT", "Prefix used for generated quote numbers"},
	{ConfigCommerce, ConfigQuoteValidityDays, "30", "Days before an unanswered quote expires"},
	{ConfigCatalog, ConfigLowStockScanBatch, "500", "Max products examined per low-stock scan"},
}

// checkSettings seeds missing sys_config rows with their defaults. Existing
// values are never overwritten.
func (a *Application) checkSettings() {
	for sortid, seed := range settingSeeds {
		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", seed.Category, seed.Name).
			Count(&count)
		if count > 0 {
			continue
		}

		if err := a.gormDB.Create(&domain.SysConfig{
			ID:        common.UUIDint64(),
			Sort:      sortid,
			Type:      seed.Category,
			Name:      seed.Name,
			Value:     seed.Default,
			Remark:    seed.Description,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to seed setting",
				zap.String("key", seed.Category+"."+seed.Name), zap.Error(err))
			continue
		}
		zap.L().Info("initialized config",
			zap.String("key", seed.Category+"."+seed.Name),
			zap.String("default", seed.Default))
	}
}
