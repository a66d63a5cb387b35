package csvdir

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/couchcryptid/covid-case-etl/internal/domain"
	"github.com/couchcryptid/covid-case-etl/internal/frame"
)

// ErrNoReports is returned when the reports directory holds no CSV files.
var ErrNoReports = errors.New("no daily report CSV files found")

// Reader loads every daily report CSV from a directory.
// It implements pipeline.Extractor.
type Reader struct {
	dir    string
	logger *slog.Logger
}

// NewReader creates a Reader for dir. Subdirectories are not scanned.
func NewReader(dir string, logger *slog.Logger) *Reader {
	return &Reader{dir: dir, logger: logger}
}

// Extract reads each *.csv file in name order and maps its headers onto the
// canonical schema.
func (r *Reader) Extract(ctx context.Context) ([]domain.DailyReport, error) {
	paths, err := r.list()
	if err != nil {
		return nil, err
	}

	reports := make([]domain.DailyReport, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := readFile(path)
		if err != nil {
			return nil, err
		}
		name := filepath.Base(path)
		r.logger.Debug("read daily report", "file", name, "rows", f.Len(), "columns", len(f.Columns()))
		reports = append(reports, domain.DailyReport{Name: name, Frame: domain.CanonicalizeColumns(f)})
	}
	return reports, nil
}

func (r *Reader) list() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		paths = append(paths, filepath.Join(r.dir, e.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoReports, r.dir)
	}
	slices.Sort(paths)
	return paths, nil
}

func readFile(path string) (frame.Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return frame.Frame{}, fmt.Errorf("open report: %w", err)
	}
	defer file.Close()

	f, err := frame.ReadCSV(file)
	if err != nil {
		return frame.Frame{}, fmt.Errorf("parse report %s: %w", filepath.Base(path), err)
	}
	return f, nil
}
