package cmd

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creative-pricing/core/output"
)

func TestParsePairs(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    map[string]string
		wantErr bool
	}{
		{"empty", nil, map[string]string{}, false},
		{"single", []string{"resolution=8k"}, map[string]string{"resolution": "8k"}, false},
		{"trims and lowercases keys", []string{" Delivery = express "}, map[string]string{"delivery": "express"}, false},
		{"last wins", []string{"a=1", "a=2"}, map[string]string{"a": "2"}, false},
		{"missing equals", []string{"resolution"}, nil, true},
		{"missing value", []string{"resolution="}, nil, true},
		{"missing key", []string{"=8k"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePairs(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCounts(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    map[string]int
		wantErr bool
	}{
		{"counts", []string{"basic=4", "complex=0"}, map[string]int{"basic": 4, "complex": 0}, false},
		{"not a number", []string{"basic=four"}, nil, true},
		{"fraction", []string{"basic=1.5"}, nil, true},
		{"negative", []string{"basic=-1"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCounts(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMergeMaps(t *testing.T) {
	assert.Nil(t, mergeMaps[int](nil, nil))
	assert.Equal(t, map[string]int{"a": 1}, mergeMaps(nil, map[string]int{"a": 1}))
	assert.Equal(t, map[string]int{"a": 2, "b": 1}, mergeMaps(map[string]int{"a": 1, "b": 1}, map[string]int{"a": 2}))
}

// resetFlags puts every package-level flag variable back to its default.
// Cobra commands are globals, so values and Changed marks leak between runs.
func resetFlags() {
	cfgFile, tablePath, verbose, noColor = "", "", false, false
	estLine, estPlan, estPeriod, estCurrency = "", "starter", "", ""
	estUnits, estAddOns, estOptions = nil, nil, nil
	estFormat, estOut, estSpecFile = "", "", ""
	compareJSON = false
	plansCurrency, plansPeriod = "", "monthly"

	var visit func(c *cobra.Command)
	visit = func(c *cobra.Command) {
		unmark := func(f *pflag.Flag) { f.Changed = false }
		c.Flags().VisitAll(unmark)
		c.PersistentFlags().VisitAll(unmark)
		for _, sub := range c.Commands() {
			visit(sub)
		}
	}
	visit(rootCmd)
}

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	resetFlags()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), buf.String())
	return buf.String()
}

func TestEstimateCommandJSON(t *testing.T) {
	out := runCLI(t, "estimate", "--line", "3d", "--plan", "starter",
		"--units", "basic=3", "--add-ons", "exploded=1", "--format", "json")

	var result output.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result), out)
	assert.Equal(t, int64(16597), result.Quote.FirstPeriodTotal.Value) // 11999 + 1999 + 2599
	assert.Equal(t, int64(2500), result.Quote.OngoingTotal.Value)
	assert.Equal(t, 3, result.Configuration.Units["basic"])
}

func TestEstimateCommandSpecFileAndOut(t *testing.T) {
	dir := t.TempDir()
	spec := filepath.Join(dir, "saved.yaml")
	require.NoError(t, os.WriteFile(spec, []byte("line: vp\nplan: starter\nperiod: annual\ncurrency: usd\n"), 0o644))
	out := filepath.Join(dir, "quote.json")

	runCLI(t, "estimate", "--spec", spec, "--options", "delivery=express", "--format", "json", "--out", out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var result output.Result
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, "vp", result.Configuration.Line)
	assert.Equal(t, "annual", result.Configuration.Period)
	assert.Equal(t, "USD", result.Configuration.Currency)
	assert.Equal(t, "express", result.Configuration.Options["delivery"])
}

// runCLIErr runs the CLI and expects it to fail
func runCLIErr(t *testing.T, args ...string) error {
	t.Helper()
	resetFlags()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	require.Error(t, err, buf.String())
	return err
}

func TestEstimateCommandRejectsBadInput(t *testing.T) {
	runCLIErr(t, "estimate", "--units", "basic=lots")
}

func TestEstimateCommandFoldsPlanCase(t *testing.T) {
	out := runCLI(t, "estimate", "--line", "3D", "--plan", "Pro", "--format", "json")

	var result output.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result), out)
	assert.Equal(t, "pro", result.Configuration.Plan)
	assert.Equal(t, int64(29999), result.Quote.FirstPeriodTotal.Value)
}

func TestWriteOutput(t *testing.T) {
	dir := t.TempDir()

	t.Run("stdout", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeOutput(&buf, "", func(w io.Writer) error {
			_, err := io.WriteString(w, "quote")
			return err
		}))
		assert.Equal(t, "quote", buf.String())
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(dir, "quote.txt")
		require.NoError(t, writeOutput(nil, path, func(w io.Writer) error {
			_, err := io.WriteString(w, "quote")
			return err
		}))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "quote", string(data))
	})

	t.Run("render error is returned", func(t *testing.T) {
		err := writeOutput(nil, filepath.Join(dir, "broken.txt"), func(io.Writer) error {
			return stderrors.New("boom")
		})
		assert.EqualError(t, err, "boom")
	})

	t.Run("missing directory", func(t *testing.T) {
		err := writeOutput(nil, filepath.Join(dir, "nope", "quote.txt"), func(io.Writer) error { return nil })
		assert.Error(t, err)
	})
}

func TestPlansCommand(t *testing.T) {
	out := runCLI(t, "plans", "3d", "--currency", "usd", "--no-color")
	assert.Contains(t, out, "Starter")
	assert.Contains(t, out, "$144")
	assert.Contains(t, out, "custom")
}
