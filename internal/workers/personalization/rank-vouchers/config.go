package rankvouchers

import (
	"fmt"
	"time"

	"rewards-workers/internal/common/config"
	"rewards-workers/internal/personalization/scoring"
)

type Config struct {
	Enabled       bool
	MaxJobsActive int
	Timeout       time.Duration
	MaxResults    int
	Weights       scoring.Weights
	Calendar      scoring.Calendar
	Timezone      string
	CatalogSource string
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       15 * time.Second,
		MaxResults:    scoring.DefaultMaxResults,
		Weights:       scoring.DefaultWeights(),
		Calendar:      scoring.DefaultCalendar(),
		Timezone:      "UTC",
		CatalogSource: config.CatalogSourcePostgres,
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
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("weights: %w", err)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	return nil
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) (*Config, error) {
	if customConfig != nil {
		return customConfig, nil
	}

	cfg := DefaultConfig()
	if appConfig == nil {
		return cfg, nil
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

	ranking := appConfig.Ranking
	if ranking.Weights != (scoring.Weights{}) {
		cfg.Weights = ranking.Weights
	}
	if ranking.MaxResults > 0 {
		cfg.MaxResults = ranking.MaxResults
	}
	if ranking.Timezone != "" {
		cfg.Timezone = ranking.Timezone
	}
	cal, err := ranking.ToCalendar()
	if err != nil {
		return nil, err
	}
	cfg.Calendar = cal
	if appConfig.Catalog.Source != "" {
		cfg.CatalogSource = appConfig.Catalog.Source
	}
	return cfg, nil
}
