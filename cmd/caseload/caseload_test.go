package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/covid-case-etl/internal/adapter/filesink"
	"github.com/couchcryptid/covid-case-etl/internal/config"
	"github.com/couchcryptid/covid-case-etl/internal/observability"
)

const reportCSV = "FIPS,Admin2,Province_State,Country_Region,Last_Update,Lat,Long_,Confirmed,Deaths,Recovered,Active,Combined_Key\n" +
	"17031,Cook,\"Cook, IL\",US,3/22/20 23:45,41.84,-87.81,1000,10,0,990,\"Cook, Illinois, US\"\n" +
	",,None,Austria,3/22/20 23:45,47.5,14.55,3244,16,9,3219,Austria\n"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "03-22-2020.csv"), []byte(reportCSV), 0o600))
	return &config.Config{
		DataDir:         dir,
		OutputFormat:    config.FormatJSONL,
		ShutdownTimeout: time.Second,
	}
}

// execute runs the root command with args and returns stdout and the error.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRunLoad_Stdout(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	err := runLoad(context.Background(), cfg, discardLogger(), observability.NewMetricsForTesting(), &out)
	require.NoError(t, err)

	records, err := filesink.ReadJSONL(&out)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Austria", records[0].Location)
	assert.Equal(t, "Illinois", records[1].ProvinceState)
}

func TestRunLoad_CSVFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.OutputFormat = config.FormatCSV
	cfg.OutputPath = filepath.Join(t.TempDir(), "cases.csv")

	err := runLoad(context.Background(), cfg, discardLogger(), observability.NewMetricsForTesting(), io.Discard)
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.OutputPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "location,last_update,date,"))
}

func TestRunLoad_NoReports(t *testing.T) {
	cfg := testConfig(t)
	cfg.DataDir = t.TempDir()

	err := runLoad(context.Background(), cfg, discardLogger(), observability.NewMetricsForTesting(), io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no daily report")
}

func TestRunLoad_BadTables(t *testing.T) {
	cfg := testConfig(t)
	cfg.LookupTablesPath = filepath.Join(t.TempDir(), "missing.yaml")

	err := runLoad(context.Background(), cfg, discardLogger(), observability.NewMetricsForTesting(), io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load lookup tables")
}

func TestValidate_Passes(t *testing.T) {
	cfg := testConfig(t)
	cfg.OutputPath = filepath.Join(t.TempDir(), "cases.jsonl")
	require.NoError(t, runLoad(context.Background(), cfg, discardLogger(), observability.NewMetricsForTesting(), io.Discard))

	out, err := execute(t, "validate", cfg.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, out, "All validations passed.")
	assert.Contains(t, out, "Records: 2")
}

func TestValidate_Fails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jsonl")
	content := `{"location":"Cook, Illinois, US","last_update":"2020-03-22T23:45:00Z","date":"20-03-22"}` + "\n" +
		`{"location":"Austria","last_update":"2020-03-22T23:45:00Z","date":"20-03-23"}` + "\n" +
		`{"location":"","last_update":"2020-03-22T23:45:00Z","date":"20-03-22"}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	out, err := execute(t, "validate", path)
	require.ErrorIs(t, err, errValidationFailed)
	assert.Contains(t, out, "--- Location and last_update present ---")
	assert.Contains(t, out, "--- Sorted by (location, last_update) ---")
	assert.Contains(t, out, `date "20-03-23", want "20-03-22"`)
}

func TestValidate_MissingFile(t *testing.T) {
	_, err := execute(t, "validate", filepath.Join(t.TempDir(), "nope.jsonl"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open dataset")
}

func TestApplyFlags(t *testing.T) {
	cmd := newLoadCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--data-dir", "/data", "--format", "csv", "-o", "out.csv"}))

	cfg := &config.Config{DataDir: ".", ReportsSubdir: "daily", OutputFormat: config.FormatJSONL}
	require.NoError(t, applyFlags(cmd, cfg))

	assert.Equal(t, "/data", cfg.DataDir)
	assert.Equal(t, "daily", cfg.ReportsSubdir, "unset flags keep the env value")
	assert.Equal(t, config.FormatCSV, cfg.OutputFormat)
	assert.Equal(t, "out.csv", cfg.OutputPath)
}

func TestApplyFlags_Invalid(t *testing.T) {
	cmd := newLoadCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--format", "xml"}))

	err := applyFlags(cmd, &config.Config{DataDir: "."})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OUTPUT_FORMAT")
}
