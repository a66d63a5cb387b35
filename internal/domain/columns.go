package domain

import (
	"fmt"

	"github.com/couchcryptid/covid-case-etl/internal/frame"
)

// Canonical column names after NormalizeSchema.
const (
	ColProvinceState = "province_state"
	ColCountryRegion = "country_region"
	ColCounty        = "county"
	ColCity          = "city"
	ColCityCounty    = "city_county"
	ColCombinedKey   = "combined_key"
	ColLocation      = "location"
	ColLastUpdate    = "last_update"
	ColDate          = "date"
	ColLatitude      = "latitude"
	ColLongitude     = "longitude"
)

// headerAliases maps the newer report headers onto the original ones so
// files from both schema revisions line up when concatenated.
var headerAliases = map[string]string{
	"Province_State": "Province/State",
	"Country_Region": "Country/Region",
	"Lat":            "Latitude",
	"Long_":          "Longitude",
	"Last_Update":    "Last Update",
}

// requiredColumns must exist in at least one report.
var requiredColumns = []string{ColCountryRegion, ColLastUpdate, ColCombinedKey}

// CanonicalHeader returns the canonical name for a raw report header.
func CanonicalHeader(name string) string {
	if to, ok := headerAliases[name]; ok {
		return to
	}
	return name
}

// CanonicalizeColumns renames known header variants of a single report.
func CanonicalizeColumns(f frame.Frame) frame.Frame {
	return f.RenameFunc(CanonicalHeader)
}

// NormalizeSchema cleans the column names of the concatenated reports,
// renames admin2 to county, drops fips, checks required columns, and removes
// rows and columns that are entirely empty.
func NormalizeSchema(f frame.Frame) (frame.Frame, error) {
	f = f.CleanNames().
		Rename(map[string]string{"admin2": ColCounty}).
		Drop("fips")

	for _, col := range requiredColumns {
		if !f.HasColumn(col) {
			return frame.Frame{}, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	return f.RemoveEmpty(), nil
}
