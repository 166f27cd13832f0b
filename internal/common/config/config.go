// internal/common/config/config.go
package config

import (
	"fmt"
	"time"

	"rewards-workers/internal/personalization/scoring"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Ranking       RankingConfig           `mapstructure:"ranking"`
	Proximity     ProximityConfig         `mapstructure:"proximity"`
	Catalog       CatalogConfig           `mapstructure:"catalog"`
	Cache         CacheConfig             `mapstructure:"cache"`
	Alerts        AlertsConfig            `mapstructure:"alerts"`
	Observability ObservabilityConfig     `mapstructure:"observability"`
	Server        ServerConfig            `mapstructure:"server"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
	UsePlaintext   bool   `mapstructure:"use_plaintext"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// --- Personalization ---

// RankingConfig tunes the scoring engine.
type RankingConfig struct {
	Weights    scoring.Weights `mapstructure:"weights"`
	MaxResults int             `mapstructure:"max_results"`
	Timezone   string          `mapstructure:"timezone"`
	Calendar   CalendarConfig  `mapstructure:"calendar"`
}

// CalendarConfig names weekdays and months ("friday", "jun") so that
// markets with a different weekend or holiday season can be configured.
type CalendarConfig struct {
	WeekendDays    []string            `mapstructure:"weekend_days"`
	SummerMonths   []string            `mapstructure:"summer_months"`
	HolidayWindows []MonthWindowConfig `mapstructure:"holiday_windows"`
}

type MonthWindowConfig struct {
	Start string `mapstructure:"start"`
	End   string `mapstructure:"end"`
}

// ProximityConfig tunes nearby-deal matching.
type ProximityConfig struct {
	MaxResults      int                  `mapstructure:"max_results"`
	RadiusKm        float64              `mapstructure:"radius_km"`
	MerchantAliases []MerchantAliasEntry `mapstructure:"merchant_aliases"`
}

// MerchantAliasEntry maps a voucher merchant name to a business id. Entries
// are a list rather than a map because viper lower-cases map keys.
type MerchantAliasEntry struct {
	Merchant   string `mapstructure:"merchant"`
	BusinessID string `mapstructure:"business_id"`
}

// CatalogConfig selects where the voucher catalog is read from.
type CatalogConfig struct {
	Source string `mapstructure:"source"` // postgres | elasticsearch
	Index  string `mapstructure:"index"`
}

const (
	CatalogSourcePostgres      = "postgres"
	CatalogSourceElasticsearch = "elasticsearch"
)

// CacheConfig holds Redis TTLs for read-through repositories.
type CacheConfig struct {
	ProfileTTL    time.Duration `mapstructure:"profile_ttl"`
	EnrichmentTTL time.Duration `mapstructure:"enrichment_ttl"`
	DirectoryTTL  time.Duration `mapstructure:"directory_ttl"`
}

// AlertsConfig holds settings for the send-deal-alert worker.
type AlertsConfig struct {
	Region string `mapstructure:"region"`
	SMS    struct {
		Enabled  bool   `mapstructure:"enabled"`
		SenderID string `mapstructure:"sender_id"`
	} `mapstructure:"sms"`
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"email"`
}

type ObservabilityConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}
