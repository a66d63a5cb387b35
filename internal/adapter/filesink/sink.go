// Package filesink writes the cleaned dataset to a local file or stdout.
package filesink

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/covid-case-etl/internal/config"
	"github.com/couchcryptid/covid-case-etl/internal/domain"
)

// Sink writes a dataset as JSON lines or CSV. It implements pipeline.Loader.
type Sink struct {
	path   string
	format string
	stdout io.Writer
	logger *slog.Logger
}

// New creates a Sink for path in the given format. An empty path writes to
// stdout, or to os.Stdout when stdout is nil.
func New(path, format string, stdout io.Writer, logger *slog.Logger) *Sink {
	if stdout == nil {
		stdout = os.Stdout
	}
	return &Sink{path: path, format: format, stdout: stdout, logger: logger}
}

// Name identifies the sink in logs and metrics.
func (s *Sink) Name() string { return "file" }

// Load writes every record of ds in key order, replacing any existing file.
func (s *Sink) Load(ctx context.Context, ds *domain.Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.path == "" {
		return s.write(s.stdout, ds)
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := s.write(f, ds); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	s.logger.Debug("output written", "path", s.path, "format", s.format, "records", ds.Len())
	return nil
}

func (s *Sink) write(w io.Writer, ds *domain.Dataset) error {
	bw := bufio.NewWriter(w)
	var err error
	switch s.format {
	case config.FormatCSV:
		err = WriteCSV(bw, ds)
	case config.FormatJSONL, "":
		err = WriteJSONL(bw, ds)
	default:
		return fmt.Errorf("unsupported output format %q", s.format)
	}
	if err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}

// WriteJSONL writes one JSON object per record.
func WriteJSONL(w io.Writer, ds *domain.Dataset) error {
	enc := json.NewEncoder(w)
	for _, rec := range ds.Records() {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode record %s: %w", rec.Key(), err)
		}
	}
	return nil
}

// WriteCSV writes a header of ds.Columns() followed by one row per record.
// Missing values are empty cells.
func WriteCSV(w io.Writer, ds *domain.Dataset) error {
	cw := csv.NewWriter(w)
	cols := ds.Columns()
	if err := cw.Write(cols); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(cols))
	for _, rec := range ds.Records() {
		for i, c := range cols {
			row[i] = rec.Field(c)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record %s: %w", rec.Key(), err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// ReadJSONL decodes records written by WriteJSONL, in file order.
func ReadJSONL(r io.Reader) ([]domain.CaseRecord, error) {
	dec := json.NewDecoder(r)
	var out []domain.CaseRecord
	for {
		var rec domain.CaseRecord
		err := dec.Decode(&rec)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode record %d: %w", len(out)+1, err)
		}
		out = append(out, rec)
	}
}
