package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creative-pricing/core/cost"
	"creative-pricing/core/determinism"
	"creative-pricing/core/pricing"
	"creative-pricing/internal/config"
)

var tieredTable = filepath.Join("..", "..", "..", "core", "pricing", "testdata", "tiered.hcl")

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func compareSpecs(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	base := writeFile(t, dir, "monthly.yaml", "line: 3d\nplan: starter\n")
	head := writeFile(t, dir, "annual.json", `{"line":"3d","plan":"starter","period":"annual","units":{"basic":3}}`)
	return base, head
}

func TestCompareCommandJSON(t *testing.T) {
	base, head := compareSpecs(t)
	out := runCLI(t, "compare", base, head, "--json")

	var cmp cost.Comparison
	require.NoError(t, json.Unmarshal([]byte(out), &cmp), out)

	assert.Equal(t, "112389.8", cmp.FirstPeriodDelta.String()) // 122389.8 + 1999 - 11999
	assert.Equal(t, "28000", cmp.OngoingDelta.String())        // 5 x 500 x 12 - 4 x 500

	byItem := map[string]cost.Change{}
	for _, ch := range cmp.Changes {
		byItem[ch.Item] = ch
	}
	require.Len(t, byItem, 3)
	assert.Equal(t, "removed", byItem["plan/3d/starter/monthly"].Type)
	assert.Equal(t, "added", byItem["plan/3d/starter/annual"].Type)
	assert.Equal(t, "added", byItem["category/basic"].Type)
	assert.Equal(t, "1999", byItem["category/basic"].Delta.String())
}

func TestCompareCommandTable(t *testing.T) {
	base, head := compareSpecs(t)
	out := runCLI(t, "compare", base, head, "--no-color")

	assert.Contains(t, out, "category/basic")
	assert.Contains(t, out, "₹1,999")
	assert.Contains(t, out, "₹11,999 → ₹124,389 (₹112,390)")
	assert.Contains(t, out, "₹2,000 → ₹30,000 (₹28,000)")
}

func TestCompareCommandErrors(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.yaml", "line: 3d\nplan: starter\n")
	bad := writeFile(t, dir, "bad.yaml", "line: 3d\nplan: gold\n")

	runCLIErr(t, "compare", good)
	runCLIErr(t, "compare", good, filepath.Join(dir, "missing.yaml"))

	err := runCLIErr(t, "compare", good, bad)
	assert.Contains(t, err.Error(), "bad.yaml")
}

func TestTableExportIsFingerprinted(t *testing.T) {
	out := runCLI(t, "table", "export")

	require.True(t, strings.HasSuffix(out, "\n"))
	data := []byte(strings.TrimSuffix(out, "\n"))
	assert.Equal(t, pricing.Default().Fingerprint(), determinism.ComputeHash(data))

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "INR", doc["base_currency"])
}

func TestTableExportLoadedTable(t *testing.T) {
	table, err := pricing.LoadFile(tieredTable)
	require.NoError(t, err)

	out := runCLI(t, "table", "export", "--table", tieredTable)
	data := []byte(strings.TrimSuffix(out, "\n"))
	assert.Equal(t, table.Fingerprint(), determinism.ComputeHash(data))
}

func TestTableValidateCommand(t *testing.T) {
	out := runCLI(t, "table", "validate", tieredTable, "--no-color")
	assert.Contains(t, out, "is valid")
	assert.Contains(t, out, "2025.1-tiered")

	broken := writeFile(t, t.TempDir(), "broken.hcl", "version = \n")
	runCLIErr(t, "table", "validate", broken)
}

func TestTableCurrenciesCommand(t *testing.T) {
	out := runCLI(t, "table", "currencies", "--no-color")
	assert.Contains(t, out, "INR (base)")
	assert.Contains(t, out, "د.إ")
	assert.Contains(t, out, "0.012")
}

func TestVersionCommand(t *testing.T) {
	out := runCLI(t, "version")
	assert.Contains(t, out, "pricing version "+Version)
	assert.Contains(t, out, pricing.Default().Fingerprint().Short())

	out = runCLI(t, "version", "--table", tieredTable)
	assert.Contains(t, out, "table 2025.1-tiered")
}

func TestConfigShowCommand(t *testing.T) {
	path := writeFile(t, t.TempDir(), "pricing.yaml",
		"pricing:\n  default_currency: USD\noutput:\n  default_format: markdown\n")

	out := runCLI(t, "config", "show", "--config", path)

	var cfg config.Config
	require.NoError(t, json.Unmarshal([]byte(out), &cfg), out)
	assert.Equal(t, "USD", cfg.Pricing.DefaultCurrency)
	assert.Equal(t, "markdown", cfg.Output.DefaultFormat)
	assert.Equal(t, "3d", cfg.Pricing.DefaultLine)
}

func TestConfigInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "pricing.json")

	out := runCLI(t, "config", "init", path)
	assert.Contains(t, out, "Wrote "+path)

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), loaded)

	err = runCLIErr(t, "config", "init", path)
	assert.Contains(t, err.Error(), "already exists")
}
