package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Output formats accepted by OUTPUT_FORMAT.
const (
	FormatJSONL = "jsonl"
	FormatCSV   = "csv"
)

// Config holds all loader settings, populated from environment variables.
type Config struct {
	DataDir          string
	ReportsSubdir    string
	LookupTablesPath string

	OutputPath   string
	OutputFormat string

	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Optional Kafka sink for the cleaned records.
	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaSinkTopic string
	BatchSize      int

	// Optional Prometheus Pushgateway for end-of-run metrics.
	PushgatewayURL string
	MetricsJob     string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataDir:          sharedcfg.EnvOrDefault("DATA_DIR", "."),
		ReportsSubdir:    sharedcfg.EnvOrDefault("REPORTS_SUBDIR", "COVID-19/csse_covid_19_data/csse_covid_19_daily_reports"),
		LookupTablesPath: os.Getenv("LOOKUP_TABLES_PATH"),
		OutputPath:       os.Getenv("OUTPUT_PATH"),
		OutputFormat:     sharedcfg.EnvOrDefault("OUTPUT_FORMAT", FormatJSONL),
		LogLevel:         sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:        sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:  shutdownTimeout,
		KafkaEnabled:     os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:     sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic:   sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "covid-case-counts"),
		BatchSize:        batchSize,
		PushgatewayURL:   os.Getenv("PUSHGATEWAY_URL"),
		MetricsJob:       sharedcfg.EnvOrDefault("METRICS_JOB", "covid-case-etl"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that flags may have overridden after Load.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("DATA_DIR is required")
	}
	if c.OutputFormat != FormatJSONL && c.OutputFormat != FormatCSV {
		return errors.New("OUTPUT_FORMAT must be jsonl or csv")
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if c.KafkaEnabled && c.KafkaSinkTopic == "" {
		return errors.New("KAFKA_ENABLED is true but KAFKA_SINK_TOPIC is empty")
	}
	if c.PushgatewayURL != "" && c.MetricsJob == "" {
		return errors.New("METRICS_JOB is required when PUSHGATEWAY_URL is set")
	}
	return nil
}

// ReportsDir is the directory holding the daily report CSVs.
func (c *Config) ReportsDir() string {
	return filepath.Join(c.DataDir, c.ReportsSubdir)
}
