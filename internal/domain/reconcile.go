package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/couchcryptid/covid-case-etl/internal/frame"
)

// Sentinel strings the reports use in place of an empty cell.
const (
	provinceNone     = "None"
	countyUnassigned = "unassigned"
)

// ReconcileStats summarizes one ReconcileLocations pass.
type ReconcileStats struct {
	RowsIn            int
	Dropped           int
	LocalityFallbacks int // malformed locality values; missing cells excluded
	StateFallbacks    int // malformed or unknown state values; missing cells excluded
}

// ReconcileLocations cleans the location columns and derives the location
// key. Steps run in order:
//
//  1. correct country_region aliases; "None" provinces and "unassigned"
//     counties become missing
//  2. city is the locality part of province_state
//  3. city_county is the first present of city, county
//  4. province_state state abbreviations are expanded
//  5. combined_key, trimmed, becomes location
//  6. rows without a location are dropped
//
// Rows are never added.
func ReconcileLocations(f frame.Frame, tables *Tables) (frame.Frame, ReconcileStats, error) {
	stats := ReconcileStats{RowsIn: f.Len()}

	f = f.Replace(ColCountryRegion, tables.CountryCorrections).
		Replace(ColProvinceState, map[string]string{provinceNone: ""}).
		Replace(ColCounty, map[string]string{countyUnassigned: ""})

	extract := LocalityExtractor(countFailures(&stats.LocalityFallbacks))
	f, err := f.Apply(ColProvinceState, ColCity, extract)
	if err != nil {
		return frame.Frame{}, stats, fmt.Errorf("extract locality: %w", err)
	}

	f = f.Coalesce(ColCityCounty, ColCity, ColCounty)

	normalize := tables.StateNormalizer(countFailures(&stats.StateFallbacks))
	f, err = f.Apply(ColProvinceState, ColProvinceState, normalize)
	if err != nil {
		return frame.Frame{}, stats, fmt.Errorf("normalize state: %w", err)
	}

	f, err = f.Apply(ColCombinedKey, ColLocation, trimSpace)
	if err != nil {
		return frame.Frame{}, stats, fmt.Errorf("derive location: %w", err)
	}
	f = f.Drop(ColCombinedKey)
	f, stats.Dropped = f.DropMissing(ColLocation)

	return f, stats, nil
}

// countFailures counts caught transform errors. Missing cells are not
// failures and are not counted.
func countFailures(n *int) func(string, error) {
	return func(_ string, err error) {
		if !errors.Is(err, ErrMissingValue) {
			*n++
		}
	}
}

func trimSpace(s string) (string, error) {
	return strings.TrimSpace(s), nil
}
