package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/covid-case-etl/internal/frame"
)

func TestCanonicalHeader(t *testing.T) {
	tests := map[string]string{
		"Province_State": "Province/State",
		"Country_Region": "Country/Region",
		"Lat":            "Latitude",
		"Long_":          "Longitude",
		"Last_Update":    "Last Update",
		"Confirmed":      "Confirmed",
		"Combined_Key":   "Combined_Key",
	}
	for in, want := range tests {
		assert.Equal(t, want, CanonicalHeader(in), in)
	}
}

func TestCanonicalizeColumns_AlignsSchemas(t *testing.T) {
	oldSchema := frame.New(
		[]string{"Province/State", "Country/Region", "Last Update", "Confirmed"},
		[]frame.Row{{"Province/State": "Hubei", "Country/Region": "Mainland China", "Last Update": "1/22/2020 17:00", "Confirmed": "444"}},
	)
	newSchema := frame.New(
		[]string{"FIPS", "Admin2", "Province_State", "Country_Region", "Last_Update", "Lat", "Long_", "Confirmed", "Combined_Key"},
		[]frame.Row{{"Admin2": "Cook", "Province_State": "Illinois", "Country_Region": "US", "Last_Update": "2020-03-22 23:45:00", "Lat": "41.8", "Long_": "-87.7", "Confirmed": "1194", "Combined_Key": "Cook, Illinois, US"}},
	)

	combined := frame.Concat(CanonicalizeColumns(oldSchema), CanonicalizeColumns(newSchema))

	assert.Equal(t, []string{
		"Province/State", "Country/Region", "Last Update", "Confirmed",
		"FIPS", "Admin2", "Latitude", "Longitude", "Combined_Key",
	}, combined.Columns())
	assert.Equal(t, []string{"Hubei", "Illinois"}, combined.Column("Province/State"))
}

func TestNormalizeSchema(t *testing.T) {
	in := frame.New(
		[]string{"FIPS", "Admin2", "Province/State", "Country/Region", "Last Update", "Latitude", "Combined_Key", "Recovered"},
		[]frame.Row{
			{"FIPS": "17031", "Admin2": "Cook", "Province/State": "Illinois", "Country/Region": "US", "Last Update": "2020-03-22 23:45:00", "Combined_Key": "Cook, Illinois, US"},
			{},
		},
	)

	out, err := NormalizeSchema(in)
	require.NoError(t, err)

	assert.Equal(t, []string{ColCounty, ColProvinceState, ColCountryRegion, ColLastUpdate, ColCombinedKey}, out.Columns())
	assert.Equal(t, 1, out.Len(), "empty rows are removed")
	assert.Equal(t, []string{"Cook"}, out.Column(ColCounty))
}

func TestNormalizeSchema_MissingRequiredColumn(t *testing.T) {
	in := frame.New(
		[]string{"Province/State", "Country/Region", "Last Update"},
		[]frame.Row{{"Country/Region": "Japan", "Last Update": "1/22/2020 17:00"}},
	)

	_, err := NormalizeSchema(in)
	require.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), ColCombinedKey)
}

func TestCanonicalizeColumns_UsesCanonicalHeader(t *testing.T) {
	f := frame.New([]string{"Lat", "Long_", "Deaths"}, []frame.Row{{"Lat": "1", "Long_": "2", "Deaths": "3"}})

	out := CanonicalizeColumns(f)

	want := make([]string, 0, len(f.Columns()))
	for _, c := range f.Columns() {
		want = append(want, CanonicalHeader(c))
	}
	assert.Equal(t, want, out.Columns())
	assert.Equal(t, []string{"1"}, out.Column("Latitude"))
}
