package app

import (
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/motofleet/motofleet/internal/domain"
)

// Settings categories and keys stored in sys_config.
const (
	SettingsAlert = "alert"

	AlertWebhookEnabled  = "webhook_enabled"
	AlertMailEnabled     = "mail_enabled"
	AlertScanBatch       = "scan_batch"
	AlertCooldownMinutes = "cooldown_minutes"
)

// AlertSettings is the decoded view of the "alert" settings category.
type AlertSettings struct {
	WebhookEnabled  bool  `mapstructure:"webhook_enabled"`
	MailEnabled     bool  `mapstructure:"mail_enabled"`
	ScanBatch       int   `mapstructure:"scan_batch"`
	CooldownMinutes int64 `mapstructure:"cooldown_minutes"`
}

// GetSettingsStringValue retrieves a string configuration value
func (a *Application) GetSettingsStringValue(category, key string) string {
	var cfg domain.SysConfig
	err := a.gormDB.Where("type = ? and name = ?", category, key).First(&cfg).Error
	if err != nil {
		return ""
	}
	return cfg.Value
}

// GetSettingsInt64Value retrieves an int64 configuration value
func (a *Application) GetSettingsInt64Value(category, key string) int64 {
	return cast.ToInt64(a.GetSettingsStringValue(category, key))
}

// GetSettingsBoolValue retrieves a boolean configuration value
func (a *Application) GetSettingsBoolValue(category, key string) bool {
	return cast.ToBool(a.GetSettingsStringValue(category, key))
}

// SaveSettings updates sys_config rows from a flat "category.name" -> value map.
func (a *Application) SaveSettings(settings map[string]interface{}) error {
	for key, value := range settings {
		parts := splitKey(key)
		if parts == nil {
			zap.L().Warn("invalid settings key", zap.String("key", key))
			continue
		}
		category, name := parts[0], parts[1]
		err := a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", category, name).
			Updates(map[string]interface{}{
				"value":      cast.ToString(value),
				"updated_at": time.Now(),
			}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// AlertSettingsValue loads the alert category into a typed struct.
func (a *Application) AlertSettingsValue() AlertSettings {
	raw := map[string]interface{}{}
	var rows []domain.SysConfig
	a.gormDB.Where("type = ?", SettingsAlert).Find(&rows)
	for _, row := range rows {
		raw[row.Name] = row.Value
	}

	out := AlertSettings{ScanBatch: 100, CooldownMinutes: 60}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err == nil {
		_ = decoder.Decode(raw)
	}
	return out
}

func splitKey(key string) []string {
	for i := 0; i < len(key); i++ {
		if key[i] == '.' {
			if i == 0 || i == len(key)-1 {
				return nil
			}
			return []string{key[:i], key[i+1:]}
		}
	}
	return nil
}
