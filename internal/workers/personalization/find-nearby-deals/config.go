package findnearbydeals

import (
	"fmt"
	"time"

	"rewards-workers/internal/common/config"
	"rewards-workers/internal/personalization/proximity"
)

type Config struct {
	Enabled        bool
	MaxJobsActive  int
	Timeout        time.Duration
	MaxResults     int
	RadiusKm       float64 // 0 disables the radius filter
	Timezone       string
	CatalogSource  string
	AliasOverrides map[string]string
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:        true,
		MaxJobsActive:  5,
		Timeout:        10 * time.Second,
		MaxResults:     proximity.DefaultMaxResults,
		Timezone:       "UTC",
		CatalogSource:  config.CatalogSourcePostgres,
		AliasOverrides: proximity.DefaultOverrides(),
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.MaxResults <= 0 {
		return fmt.Errorf("max_results must be positive")
	}
	if c.RadiusKm < 0 {
		return fmt.Errorf("radius_km must be non-negative")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone: %w", err)
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

	if appConfig.Proximity.MaxResults > 0 {
		cfg.MaxResults = appConfig.Proximity.MaxResults
	}
	cfg.RadiusKm = appConfig.Proximity.RadiusKm
	cfg.AliasOverrides = appConfig.Proximity.AliasOverrides()
	if appConfig.Ranking.Timezone != "" {
		cfg.Timezone = appConfig.Ranking.Timezone
	}
	if appConfig.Catalog.Source != "" {
		cfg.CatalogSource = appConfig.Catalog.Source
	}
	return cfg
}
