package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.DataDir)
	assert.Equal(t, "COVID-19/csse_covid_19_data/csse_covid_19_daily_reports", cfg.ReportsSubdir)
	assert.Empty(t, cfg.LookupTablesPath)
	assert.Empty(t, cfg.OutputPath)
	assert.Equal(t, FormatJSONL, cfg.OutputFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "covid-case-counts", cfg.KafkaSinkTopic)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Empty(t, cfg.PushgatewayURL)
	assert.Equal(t, "covid-case-etl", cfg.MetricsJob)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("DATA_DIR", "/data/jhu")
	t.Setenv("REPORTS_SUBDIR", "daily")
	t.Setenv("LOOKUP_TABLES_PATH", "/etc/caseload/tables.yaml")
	t.Setenv("OUTPUT_PATH", "/tmp/cases.csv")
	t.Setenv("OUTPUT_FORMAT", "csv")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("PUSHGATEWAY_URL", "http://pushgateway:9091")
	t.Setenv("METRICS_JOB", "nightly-cases")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/jhu", cfg.DataDir)
	assert.Equal(t, "daily", cfg.ReportsSubdir)
	assert.Equal(t, filepath.Join("/data/jhu", "daily"), cfg.ReportsDir())
	assert.Equal(t, "/etc/caseload/tables.yaml", cfg.LookupTablesPath)
	assert.Equal(t, "/tmp/cases.csv", cfg.OutputPath)
	assert.Equal(t, FormatCSV, cfg.OutputFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, "http://pushgateway:9091", cfg.PushgatewayURL)
	assert.Equal(t, "nightly-cases", cfg.MetricsJob)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidBatchSize(t *testing.T) {
	t.Setenv("BATCH_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoad_InvalidOutputFormat(t *testing.T) {
	t.Setenv("OUTPUT_FORMAT", "parquet")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OUTPUT_FORMAT")
}

func TestLoad_KafkaDisabledUnlessExplicit(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "yes")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			DataDir:        ".",
			OutputFormat:   FormatJSONL,
			KafkaBrokers:   []string{defaultBroker},
			KafkaSinkTopic: "covid-case-counts",
			MetricsJob:     "covid-case-etl",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"empty data dir", func(c *Config) { c.DataDir = "" }, "DATA_DIR"},
		{"bad format", func(c *Config) { c.OutputFormat = "xml" }, "OUTPUT_FORMAT"},
		{"kafka without brokers", func(c *Config) { c.KafkaEnabled = true; c.KafkaBrokers = nil }, "KAFKA_BROKERS"},
		{"kafka without topic", func(c *Config) { c.KafkaEnabled = true; c.KafkaSinkTopic = "" }, "KAFKA_SINK_TOPIC"},
		{"push without job", func(c *Config) { c.PushgatewayURL = "http://pg:9091"; c.MetricsJob = "" }, "METRICS_JOB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
