package app

import (
	"sync"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/moticosolutions/bms/internal/domain"
)

// Settings categories and keys stored in sys_config
const (
	ConfigCommerce = "commerce"
	ConfigCatalog  = "catalog"

	ConfigOrderNumberPrefix = "OrderNumberPrefix"
	ConfigQuoteNumberPrefix = "QuoteNumberPrefix"
	ConfigQuoteValidityDays = "QuoteValidityDays"
	ConfigLowStockScanBatch = "LowStockScanBatch"
)

const settingsCacheTTL = 30 * time.Second

// ConfigManager reads typed settings from the sys_config table with a short
// lived in-memory cache.
type ConfigManager struct {
	app *Application

	mu       sync.RWMutex
	cache    map[string]string
	cachedAt time.Time
}

func NewConfigManager(app *Application) *ConfigManager {
	return &ConfigManager{app: app, cache: map[string]string{}}
}

func (m *ConfigManager) load() map[string]string {
	m.mu.RLock()
	if time.Since(m.cachedAt) < settingsCacheTTL {
		defer m.mu.RUnlock()
		return m.cache
	}
	m.mu.RUnlock()

	var rows []domain.SysConfig
	if err := m.app.DB().Find(&rows).Error; err != nil {
		zap.S().Errorf("failed to load settings: %v", err)
		return m.cache
	}

	fresh := make(map[string]string, len(rows))
	for _, r := range rows {
		fresh[r.Type+"."+r.Name] = r.Value
	}

	m.mu.Lock()
	m.cache = fresh
	m.cachedAt = time.Now()
	m.mu.Unlock()
	return fresh
}

func (m *ConfigManager) GetString(category, key string) string {
	return m.load()[category+"."+key]
}

func (m *ConfigManager) GetInt(category, key string) int {
	return cast.ToInt(m.load()[category+"."+key])
}

func (m *ConfigManager) GetInt64(category, key string) int64 {
	return cast.ToInt64(m.load()[category+"."+key])
}

func (m *ConfigManager) GetBool(category, key string) bool {
	return cast.ToBool(m.load()[category+"."+key])
}

// SetValue upserts a setting and drops the cache
func (m *ConfigManager) SetValue(category, key, value string) error {
	var row domain.SysConfig
	err := m.app.DB().Where("type = ? AND name = ?", category, key).First(&row).Error
	if err != nil {
		err = m.app.DB().Create(&domain.SysConfig{
			Type:      category,
			Name:      key,
			Value:     value,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}).Error
	} else {
		err = m.app.DB().Model(&domain.SysConfig{}).Where("id = ?", row.ID).
			Updates(map[string]interface{}{"value": value, "updated_at": time.Now()}).Error
	}
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.cachedAt = time.Time{}
	m.mu.Unlock()
	return nil
}
