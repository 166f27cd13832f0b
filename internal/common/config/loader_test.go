package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rewards-workers/internal/personalization/scoring"
)

const minimalYAML = `
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: rewards
    user: rewards
  redis:
    address: localhost:6379
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, scoring.DefaultWeights(), cfg.Ranking.Weights)
	assert.Equal(t, scoring.DefaultMaxResults, cfg.Ranking.MaxResults)
	assert.Equal(t, 10, cfg.Proximity.MaxResults)
	assert.Equal(t, CatalogSourcePostgres, cfg.Catalog.Source)
	assert.Equal(t, "vouchers", cfg.Catalog.Index)
	assert.Equal(t, 10*time.Minute, cfg.Cache.ProfileTTL)
	assert.Equal(t, time.Hour, cfg.Cache.EnrichmentTTL)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, ":8080", cfg.Server.Address)
}

func TestLoadFromFile_RankingOverrides(t *testing.T) {
	body := minimalYAML + `
ranking:
  max_results: 5
  timezone: Asia/Jerusalem
  weights:
    category_match: 0.5
    deal_preference_match: 0.5
  calendar:
    weekend_days: [saturday, sunday]
    summer_months: [jul, aug]
workers:
  rank-vouchers:
    enabled: false
`
	cfg, err := LoadFromFile(writeConfig(t, body))
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Ranking.MaxResults)
	assert.Equal(t, 0.5, cfg.Ranking.Weights.CategoryMatch)
	assert.Equal(t, 0.0, cfg.Ranking.Weights.PopularitySignal)

	cal, err := cfg.Ranking.ToCalendar()
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Saturday, time.Sunday}, cal.WeekendDays)
	assert.Equal(t, []time.Month{time.July, time.August}, cal.SummerMonths)
	assert.Equal(t, scoring.DefaultCalendar().HolidayWindows, cal.HolidayWindows)

	assert.False(t, IsWorkerEnabled(cfg, "rank-vouchers"))
	assert.True(t, IsWorkerEnabled(cfg, "find-nearby-deals"))
	wc := GetWorkerConfig(cfg, "rank-vouchers")
	assert.Equal(t, 30000, wc.Timeout)
	assert.Equal(t, 3, wc.MaxRetries)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing broker",
			body:    "database:\n  postgres:\n    host: h\n",
			wantErr: "camunda.broker_address",
		},
		{
			name:    "negative weight",
			body:    minimalYAML + "ranking:\n  weights:\n    category_match: -0.1\n",
			wantErr: "ranking.weights",
		},
		{
			name:    "unknown weekday",
			body:    minimalYAML + "ranking:\n  calendar:\n    weekend_days: [funday]\n",
			wantErr: "ranking.calendar",
		},
		{
			name:    "bad timezone",
			body:    minimalYAML + "ranking:\n  timezone: Mars/Olympus\n",
			wantErr: "ranking.timezone",
		},
		{
			name:    "elasticsearch without addresses",
			body:    minimalYAML + "catalog:\n  source: elasticsearch\n",
			wantErr: "database.elasticsearch.addresses",
		},
		{
			name:    "unknown catalog source",
			body:    minimalYAML + "catalog:\n  source: mongo\n",
			wantErr: "catalog.source",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseMonth(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Month
		wantErr bool
	}{
		{in: "March", want: time.March},
		{in: "sep", want: time.September},
		{in: "10", want: time.October},
		{in: "13", wantErr: true},
		{in: "ju", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseMonth(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAliasOverrides_ConfiguredEntriesWin(t *testing.T) {
	p := ProximityConfig{MerchantAliases: []MerchantAliasEntry{
		{Merchant: "Aroma", BusinessID: "aroma-tlv"},
		{Merchant: "Cafe Cafe", BusinessID: "cafe-cafe"},
	}}
	overrides := p.AliasOverrides()
	assert.Equal(t, "aroma-tlv", overrides["Aroma"])
	assert.Equal(t, "cafe-cafe", overrides["Cafe Cafe"])
	assert.Equal(t, "golda-ice-cream", overrides["Golda"])
}
