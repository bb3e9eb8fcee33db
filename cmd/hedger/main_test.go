package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FxHedger/internal/calculator"
	"FxHedger/internal/collector"
	"FxHedger/internal/session"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CONFIG_PATH", filepath.Join(dir, "absent.yaml"))
	t.Setenv("SQLITE_PATH", "")
	t.Setenv("HEDGER_BASE_URL", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")
	return dir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRun_DryRunWithFlags(t *testing.T) {
	dir := isolate(t)
	plot := filepath.Join(dir, "plot.csv")

	out, err := execute(t, "", "run", "--dry-run",
		"--exposure", "10000", "--commodity", "CL=F", "--forex", "EURUSD=X",
		"--start", "2024-01-01", "--end", "2024-03-29", "--plot-out", plot)
	require.NoError(t, err)

	assert.Contains(t, out, "Hedge Ratio: ")
	assert.Contains(t, out, "Recommended Forex Exposure for Hedging: ")
	assert.Contains(t, out, " USD\n")
	assert.Contains(t, out, "Correlation Between Commodity and Forex Returns: ")
	assert.NotContains(t, out, "Enter your")

	data, err := os.ReadFile(plot)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "date,commodity_return,forex_return\n"))
}

func TestRun_PromptsForMissingInputs(t *testing.T) {
	isolate(t)
	stdin := "-2500\nGC=F\nAUDUSD=X\n2024-02-01\n2024-04-30\n"

	out, err := execute(t, stdin, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Enter your commodity exposure")
	assert.Contains(t, out, "Enter the end date")
	assert.Contains(t, out, "Hedge Ratio: ")
}

func TestRun_JournalsToSQLite(t *testing.T) {
	dir := isolate(t)
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "runs.db"))

	_, err := execute(t, "", "run", "--dry-run", "--exposure", "1000", "--commodity", "CL=F",
		"--forex", "EURUSD=X", "--start", "2024-01-01", "--end", "2024-02-29")
	require.NoError(t, err)

	_, err = execute(t, "", "run", "--dry-run", "--exposure", "1000", "--commodity", "CL=F",
		"--forex", "EURUSD=X", "--start", "2024-03-01", "--end", "2024-03-01")
	require.ErrorIs(t, err, session.ErrInvalidRequest)

	out, err := execute(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "CL=F")
	assert.Contains(t, out, "2024-01-01 ~ 2024-02-29")
	assert.Contains(t, out, "failed: invalid request")
}

func TestHistory_RequiresJournal(t *testing.T) {
	isolate(t)
	_, err := execute(t, "", "history")
	assert.ErrorContains(t, err, "no run journal configured")
}

func TestRawInputs_ToRequest(t *testing.T) {
	good := rawInputs{Exposure: " -1500.5 ", Commodity: " CL=F ", Forex: "EURUSD=X", Start: "2024-01-02", End: "2024-06-28"}
	req, err := good.toRequest()
	require.NoError(t, err)
	assert.Equal(t, -1500.5, req.Exposure)
	assert.Equal(t, "CL=F", req.CommodityTicker)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), req.Start)

	tests := []struct {
		name   string
		mutate func(*rawInputs)
		field  string
	}{
		{"text exposure", func(r *rawInputs) { r.Exposure = "ten thousand" }, "exposure"},
		{"nan exposure", func(r *rawInputs) { r.Exposure = "NaN" }, "exposure"},
		{"slashed date", func(r *rawInputs) { r.Start = "2024/01/02" }, "start date"},
		{"impossible date", func(r *rawInputs) { r.End = "2024-02-30" }, "end date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := good
			tt.mutate(&in)
			_, err := in.toRequest()
			var inErr *inputError
			require.ErrorAs(t, err, &inErr)
			assert.Equal(t, tt.field, inErr.field)
		})
	}
}

func TestRun_InputErrorBeforeFetch(t *testing.T) {
	isolate(t)
	_, err := execute(t, "", "run", "--dry-run", "--exposure", "abc", "--commodity", "CL=F",
		"--forex", "EURUSD=X", "--start", "2024-01-01", "--end", "2024-02-29")
	var inErr *inputError
	require.ErrorAs(t, err, &inErr)
	assert.True(t, strings.HasPrefix(describeError(err), "Invalid input: "))
}

func TestDescribeError(t *testing.T) {
	tests := []struct {
		err    error
		prefix string
	}{
		{&collector.DataSourceError{Source: "yahoo", Ticker: "X", Reason: collector.ReasonNotFound}, "Error fetching data: "},
		{calculator.ErrInvalidPriceData, "Price data unusable: "},
		{calculator.ErrInsufficientOverlap, "Not enough overlapping trading days"},
		{calculator.ErrDegenerateVariance, "Hedge ratio undefined"},
		{session.ErrInvalidRequest, "Invalid input: "},
		{errors.New("boom"), "Error: boom"},
	}
	for _, tt := range tests {
		assert.True(t, strings.HasPrefix(describeError(tt.err), tt.prefix), describeError(tt.err))
	}
}
