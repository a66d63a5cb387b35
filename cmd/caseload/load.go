package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/covid-case-etl/internal/adapter/csvdir"
	"github.com/couchcryptid/covid-case-etl/internal/adapter/filesink"
	kafkaadapter "github.com/couchcryptid/covid-case-etl/internal/adapter/kafka"
	"github.com/couchcryptid/covid-case-etl/internal/config"
	"github.com/couchcryptid/covid-case-etl/internal/domain"
	"github.com/couchcryptid/covid-case-etl/internal/observability"
	"github.com/couchcryptid/covid-case-etl/internal/pipeline"
)

func newLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Build the dataset and write it to the configured sinks",
		Long: "Read every daily report, clean it, and write the dataset as JSON lines\n" +
			"or CSV. With KAFKA_ENABLED=true the records are also published to\n" +
			"KAFKA_SINK_TOPIC. With PUSHGATEWAY_URL set, run metrics are pushed\n" +
			"when the run ends.\n\n" +
			"Examples:\n" +
			"  caseload load --data-dir ~/jhu --output cases.jsonl\n" +
			"  caseload load --format csv > cases.csv",
		Args:         cobra.NoArgs,
		RunE:         runLoadCmd,
		SilenceUsage: true,
	}

	cmd.Flags().String("data-dir", "", "Directory holding the COVID-19 repository checkout (DATA_DIR)")
	cmd.Flags().String("reports-subdir", "", "Daily reports path under the data dir (REPORTS_SUBDIR)")
	cmd.Flags().StringP("output", "o", "", "Output file; stdout when empty (OUTPUT_PATH)")
	cmd.Flags().String("format", "", "Output format: jsonl or csv (OUTPUT_FORMAT)")
	cmd.Flags().String("tables", "", "YAML lookup tables overriding the built-in ones (LOOKUP_TABLES_PATH)")

	return cmd
}

func runLoadCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return runLoad(ctx, cfg, logger, metrics, cmd.OutOrStdout())
}

// applyFlags copies explicitly set flags over the environment config.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	overrides := []struct {
		flag string
		dst  *string
	}{
		{"data-dir", &cfg.DataDir},
		{"reports-subdir", &cfg.ReportsSubdir},
		{"output", &cfg.OutputPath},
		{"format", &cfg.OutputFormat},
		{"tables", &cfg.LookupTablesPath},
	}
	for _, o := range overrides {
		if cmd.Flags().Changed(o.flag) {
			*o.dst, _ = cmd.Flags().GetString(o.flag)
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func runLoad(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics, stdout io.Writer) error {
	tables, err := domain.LoadTablesFile(cfg.LookupTablesPath)
	if err != nil {
		return fmt.Errorf("load lookup tables: %w", err)
	}

	loaders := []pipeline.Loader{filesink.New(cfg.OutputPath, cfg.OutputFormat, stdout, logger)}

	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		loaders = append(loaders, writer)
		logger.Info("kafka sink enabled", "topic", cfg.KafkaSinkTopic, "batch_size", cfg.BatchSize)
	}

	p := pipeline.New(csvdir.NewReader(cfg.ReportsDir(), logger), tables, logger, metrics, loaders...)
	_, runErr := p.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()

	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if cfg.PushgatewayURL != "" {
		if err := metrics.Push(shutdownCtx, cfg.PushgatewayURL, cfg.MetricsJob); err != nil {
			logger.Error("metrics push error", "error", err)
		}
	}

	if runErr != nil {
		return runErr
	}
	logger.Info("shutdown complete")
	return nil
}
