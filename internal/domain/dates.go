package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/couchcryptid/covid-case-etl/internal/frame"
)

// DateLayout formats the short report date, e.g. "20-03-22".
const DateLayout = "06-01-02"

// ParseTimestamp parses a last_update value. The reports use several
// layouts over time ("1/22/2020 17:00", "2020-02-01T19:43:03",
// "2020-03-22 23:45:00"); values without a zone are read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrBadTimestamp)
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %w", ErrBadTimestamp, s, err)
	}
	return t.UTC(), nil
}

// NormalizeDates converts reconciled rows into case records: last_update is
// parsed, date is derived, and the result is sorted by (location,
// last_update). Any unparseable timestamp fails the whole batch.
func NormalizeDates(f frame.Frame) (*Dataset, error) {
	var passthrough []string
	for _, c := range f.Columns() {
		if !slices.Contains(CoreColumns, c) {
			passthrough = append(passthrough, c)
		}
	}

	records := make([]CaseRecord, 0, f.Len())
	for i, row := range f.Rows() {
		ts, err := ParseTimestamp(row[ColLastUpdate])
		if err != nil {
			return nil, fmt.Errorf("row %d (%s): %w", i, row[ColLocation], err)
		}
		records = append(records, newCaseRecord(row, ts, passthrough))
	}

	return NewDataset(records, passthrough), nil
}

func newCaseRecord(row frame.Row, ts time.Time, passthrough []string) CaseRecord {
	rec := CaseRecord{
		Location:      row[ColLocation],
		LastUpdate:    ts,
		Date:          ts.Format(DateLayout),
		CountryRegion: row[ColCountryRegion],
		ProvinceState: row[ColProvinceState],
		County:        row[ColCounty],
		City:          row[ColCity],
		CityCounty:    row[ColCityCounty],
	}
	for _, c := range passthrough {
		if v, ok := row.Get(c); ok {
			if rec.Values == nil {
				rec.Values = make(map[string]string)
			}
			rec.Values[c] = v
		}
	}
	return rec
}
