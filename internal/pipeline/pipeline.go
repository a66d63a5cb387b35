package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/covid-case-etl/internal/domain"
	"github.com/couchcryptid/covid-case-etl/internal/frame"
	"github.com/couchcryptid/covid-case-etl/internal/observability"
)

// Extractor reads every daily report from the source.
type Extractor interface {
	Extract(ctx context.Context) ([]domain.DailyReport, error)
}

// Loader writes a finished dataset to a destination.
type Loader interface {
	Name() string
	Load(ctx context.Context, ds *domain.Dataset) error
}

// Pipeline runs one extract-clean-load pass.
type Pipeline struct {
	extractor Extractor
	tables    *domain.Tables
	loaders   []Loader
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Pipeline. With no loaders, Run only builds the dataset.
func New(e Extractor, tables *domain.Tables, logger *slog.Logger, metrics *observability.Metrics, loaders ...Loader) *Pipeline {
	return &Pipeline{
		extractor: e,
		tables:    tables,
		loaders:   loaders,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run builds the dataset and hands it to every loader in order. The first
// failure aborts the run; there is no partial result.
func (p *Pipeline) Run(ctx context.Context) (*domain.Dataset, error) {
	start := time.Now()
	p.logger.Info("load run started", "loaders", len(p.loaders))

	ds, err := p.Build(ctx)
	if err != nil {
		return nil, err
	}

	for _, l := range p.loaders {
		if err := l.Load(ctx, ds); err != nil {
			return nil, fmt.Errorf("load %s: %w", l.Name(), err)
		}
		p.metrics.RecordsLoaded.WithLabelValues(l.Name()).Add(float64(ds.Len()))
		p.logger.Info("dataset loaded", "sink", l.Name(), "records", ds.Len())
	}

	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	p.metrics.LastSuccess.SetToCurrentTime()
	p.logger.Info("load run complete", "records", ds.Len(), "duration", time.Since(start))
	return ds, nil
}

// Build extracts all reports and cleans them into a sorted, indexed dataset.
func (p *Pipeline) Build(ctx context.Context) (*domain.Dataset, error) {
	reports, err := p.extractor.Extract(ctx)
	if err != nil {
		return nil, fmt.Errorf("extract reports: %w", err)
	}

	frames := make([]frame.Frame, len(reports))
	for i, r := range reports {
		frames[i] = r.Frame
	}
	combined := frame.Concat(frames...)
	p.metrics.FilesRead.Add(float64(len(reports)))
	p.metrics.RowsRead.Add(float64(combined.Len()))
	p.logger.Info("reports extracted", "files", len(reports), "rows", combined.Len())

	f, err := domain.NormalizeSchema(combined)
	if err != nil {
		return nil, fmt.Errorf("normalize schema: %w", err)
	}

	f, stats, err := domain.ReconcileLocations(f, p.tables)
	if err != nil {
		return nil, fmt.Errorf("reconcile locations: %w", err)
	}
	p.metrics.RowsDropped.Add(float64(stats.Dropped))
	p.metrics.FieldFallbacks.WithLabelValues(domain.ColCity).Add(float64(stats.LocalityFallbacks))
	p.metrics.FieldFallbacks.WithLabelValues(domain.ColProvinceState).Add(float64(stats.StateFallbacks))
	p.logger.Info("locations reconciled",
		"rows_in", stats.RowsIn,
		"dropped", stats.Dropped,
		"locality_fallbacks", stats.LocalityFallbacks,
		"state_fallbacks", stats.StateFallbacks,
	)

	ds, err := domain.NormalizeDates(f)
	if err != nil {
		return nil, fmt.Errorf("normalize dates: %w", err)
	}
	p.metrics.RecordsBuilt.Add(float64(ds.Len()))
	p.logger.Info("dataset built", "records", ds.Len(), "locations", len(ds.Locations()))

	return ds, nil
}
