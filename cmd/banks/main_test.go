package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankscli/internal/config"
	"bankscli/internal/shared/testutil"
)

func rankingServer(t *testing.T) *httptest.Server {
	t.Helper()
	page := testutil.RankingPageHTML(
		testutil.RankingTableHTML("By market capitalization", testutil.DefaultBankRows),
		testutil.RankingTableHTML("By total assets", testutil.DefaultBankRows[:2]),
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRun(t *testing.T) {
	server := rankingServer(t)
	dir := t.TempDir()
	rates := testutil.WriteRatesFile(t, dir, testutil.DefaultRates)
	out := filepath.Join(dir, "out")

	var stdout, stderr bytes.Buffer
	code := run([]string{
		"-url", server.URL,
		"-rates", rates,
		"-out", out,
		"-xlsx",
	}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())

	assert.FileExists(t, filepath.Join(out, config.DefaultCSVFile))
	assert.FileExists(t, filepath.Join(out, config.DefaultXLSXFile))
	assert.FileExists(t, filepath.Join(out, config.DefaultDatabaseFile))

	progress, err := os.ReadFile(filepath.Join(out, config.DefaultProgressLog))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(progress), "\n"), "\n")
	require.Len(t, lines, 7)
	assert.True(t, strings.HasSuffix(lines[6], ":Process Complete."))

	text := stdout.String()
	assert.Contains(t, text, "SELECT * FROM Largest_banks")
	assert.Contains(t, text, "SELECT Name FROM Largest_banks LIMIT 5")
	assert.Contains(t, text, "JPMorgan Chase")
	assert.NotContains(t, text, `"level"`, "structured logs stay off stdout")
}

func TestRun_TableSelection(t *testing.T) {
	server := rankingServer(t)
	dir := t.TempDir()
	rates := testutil.WriteRatesFile(t, dir, testutil.DefaultRates)

	var stdout, stderr bytes.Buffer
	code := run([]string{
		"-url", server.URL,
		"-rates", rates,
		"-out", dir,
		"-caption", "total assets",
		"-table", "Banks_by_assets",
	}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "SELECT * FROM Banks_by_assets")
	assert.NotContains(t, stdout.String(), "HDFC Bank", "only the selected table is loaded")
}

func TestRun_MissingRate(t *testing.T) {
	server := rankingServer(t)
	dir := t.TempDir()
	rates := testutil.WriteRatesFile(t, dir, map[string]string{"GBP": "0.8"})

	var stdout, stderr bytes.Buffer
	code := run([]string{"-url", server.URL, "-rates", rates, "-out", dir}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "missing exchange rate for EUR, INR")
	assert.NoFileExists(t, filepath.Join(dir, config.DefaultCSVFile))
	assert.NoFileExists(t, filepath.Join(dir, config.DefaultDatabaseFile))
	assert.Empty(t, stdout.String())
}

func TestRun_TelemetryFiles(t *testing.T) {
	server := rankingServer(t)
	dir := t.TempDir()
	rates := testutil.WriteRatesFile(t, dir, testutil.DefaultRates)

	t.Setenv("BANKS_TELEMETRY_METRICS_FILE", "banks_metrics.prom")
	t.Setenv("BANKS_TELEMETRY_TRACE_FILE", "banks_trace.json")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-url", server.URL, "-rates", rates, "-out", dir}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	metrics, err := os.ReadFile(filepath.Join(dir, "banks_metrics.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "banks_rows_parsed_total 7")

	trace, err := os.ReadFile(filepath.Join(dir, "banks_trace.json"))
	require.NoError(t, err)
	assert.Contains(t, string(trace), "operation.step.load_db")
}

func TestRun_ConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"unknown flag", []string{"-nope"}, 2},
		{"invalid fetch mode", []string{"-fetch-mode", "ftp"}, 1},
		{"invalid table name", []string{"-table", "banks; DROP TABLE x"}, 1},
		{"missing config file", []string{"-config", filepath.Join(t.TempDir(), "absent.yaml")}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Equal(t, tt.code, run(tt.args, &stdout, &stderr))
			assert.NotEmpty(t, stderr.String())
		})
	}
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, run([]string{"-version"}, &stdout, &stderr))
	assert.True(t, strings.HasPrefix(stdout.String(), config.AppName+" v"+config.AppVersion+" (built: "))
}

func TestCLIFlags_OnlySetFlagsOverride(t *testing.T) {
	flags, set, err := parseFlags([]string{"-table", "Banks_2023", "-table-index", "1"}, &bytes.Buffer{})
	require.NoError(t, err)

	cfg := config.Default()
	flags.apply(cfg, set)

	assert.Equal(t, "Banks_2023", cfg.Database.Table)
	assert.Equal(t, 1, cfg.Source.TableIndex)
	assert.Equal(t, config.DefaultSourceURL, cfg.Source.URL)
	assert.Equal(t, config.DefaultRatesFile, cfg.Source.RatesFile)
	assert.False(t, cfg.Output.ExportXLSX)
}
