package senddealalert

import (
	"fmt"
	"time"

	"rewards-workers/internal/common/config"
)

type Config struct {
	Enabled       bool
	MaxJobsActive int
	Timeout       time.Duration
	SMSEnabled    bool
	EmailEnabled  bool
	DailyWindow   time.Duration
	WeeklyWindow  time.Duration
	MaxDeals      int // deals listed in one message
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       10 * time.Second,
		SMSEnabled:    true,
		EmailEnabled:  true,
		DailyWindow:   24 * time.Hour,
		WeeklyWindow:  7 * 24 * time.Hour,
		MaxDeals:      3,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.DailyWindow <= 0 || c.WeeklyWindow <= 0 {
		return fmt.Errorf("throttle windows must be positive")
	}
	if c.MaxDeals <= 0 {
		return fmt.Errorf("max_deals must be positive")
	}
	return nil
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()
	if appConfig == nil {
		return cfg
	}

	if workerCfg, exists := appConfig.Workers[TaskType]; exists {
		cfg.Enabled = workerCfg.Enabled
		if workerCfg.MaxJobsActive > 0 {
			cfg.MaxJobsActive = workerCfg.MaxJobsActive
		}
		if workerCfg.Timeout > 0 {
			cfg.Timeout = config.GetDuration(workerCfg.Timeout)
		}
	}
	cfg.SMSEnabled = appConfig.Alerts.SMS.Enabled
	cfg.EmailEnabled = appConfig.Alerts.Email.Enabled
	return cfg
}
