package domain

import (
	"slices"
	"strings"
	"time"
)

// CoreColumns are the typed fields of a CaseRecord in output order.
var CoreColumns = []string{
	ColLocation,
	ColLastUpdate,
	ColDate,
	ColCountryRegion,
	ColProvinceState,
	ColCounty,
	ColCity,
	ColCityCounty,
}

// CaseRecord is one cleaned observation for a location at a report time.
// Count columns (confirmed, deaths, ...) and coordinates are carried in
// Values exactly as they appeared in the source.
type CaseRecord struct {
	Location      string            `json:"location"`
	LastUpdate    time.Time         `json:"last_update"`
	Date          string            `json:"date"`
	CountryRegion string            `json:"country_region,omitempty"`
	ProvinceState string            `json:"province_state,omitempty"`
	County        string            `json:"county,omitempty"`
	City          string            `json:"city,omitempty"`
	CityCounty    string            `json:"city_county,omitempty"`
	Values        map[string]string `json:"values,omitempty"`
}

// Key identifies a record by location and report time.
type Key struct {
	Location   string
	LastUpdate time.Time
}

// String renders the key as "<location>|<RFC3339 time>".
func (k Key) String() string {
	return k.Location + "|" + k.LastUpdate.UTC().Format(time.RFC3339)
}

// Key returns the record's index key.
func (r CaseRecord) Key() Key {
	return Key{Location: r.Location, LastUpdate: r.LastUpdate}
}

// Field returns the value of a core or passthrough column as text.
func (r CaseRecord) Field(col string) string {
	switch col {
	case ColLocation:
		return r.Location
	case ColLastUpdate:
		if r.LastUpdate.IsZero() {
			return ""
		}
		return r.LastUpdate.UTC().Format(time.RFC3339)
	case ColDate:
		return r.Date
	case ColCountryRegion:
		return r.CountryRegion
	case ColProvinceState:
		return r.ProvinceState
	case ColCounty:
		return r.County
	case ColCity:
		return r.City
	case ColCityCounty:
		return r.CityCounty
	default:
		return r.Values[col]
	}
}

// CompareRecords orders records by location, then last_update.
func CompareRecords(a, b CaseRecord) int {
	if c := strings.Compare(a.Location, b.Location); c != 0 {
		return c
	}
	return a.LastUpdate.Compare(b.LastUpdate)
}

// SortRecords sorts records in place by (location, last_update). The sort is
// stable, so duplicate keys keep their input order.
func SortRecords(records []CaseRecord) {
	slices.SortStableFunc(records, CompareRecords)
}

type indexKey struct {
	location string
	ts       int64
}

func indexKeyOf(location string, ts time.Time) indexKey {
	return indexKey{location: location, ts: ts.UnixNano()}
}

// Dataset is the cleaned case-count table, sorted and indexed by
// (location, last_update). Duplicate keys are kept.
type Dataset struct {
	records []CaseRecord
	index   map[indexKey][]int
	columns []string
	builtAt time.Time
}

// NewDataset sorts records and indexes them. passthrough lists the
// non-core columns carried in CaseRecord.Values, in output order.
func NewDataset(records []CaseRecord, passthrough []string) *Dataset {
	sorted := slices.Clone(records)
	SortRecords(sorted)

	ds := &Dataset{
		records: sorted,
		index:   make(map[indexKey][]int, len(sorted)),
		columns: slices.Clone(passthrough),
		builtAt: clock.Now(),
	}
	for i, r := range sorted {
		k := indexKeyOf(r.Location, r.LastUpdate)
		ds.index[k] = append(ds.index[k], i)
	}
	return ds
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// Records returns the records in key order. The slice is a copy.
func (d *Dataset) Records() []CaseRecord { return slices.Clone(d.records) }

// BuiltAt is when the dataset was assembled.
func (d *Dataset) BuiltAt() time.Time { return d.builtAt }

// Lookup returns every record stored under (location, lastUpdate).
func (d *Dataset) Lookup(location string, lastUpdate time.Time) []CaseRecord {
	idx := d.index[indexKeyOf(location, lastUpdate)]
	out := make([]CaseRecord, len(idx))
	for i, j := range idx {
		out[i] = d.records[j]
	}
	return out
}

// Locations returns the distinct locations in sorted order.
func (d *Dataset) Locations() []string {
	var out []string
	for _, r := range d.records {
		if len(out) == 0 || out[len(out)-1] != r.Location {
			out = append(out, r.Location)
		}
	}
	return out
}

// Columns returns the core columns followed by the passthrough columns.
func (d *Dataset) Columns() []string {
	return append(slices.Clone(CoreColumns), d.columns...)
}

// IsSorted reports whether records are in (location, last_update) order.
func IsSorted(records []CaseRecord) bool {
	return slices.IsSortedFunc(records, CompareRecords)
}
