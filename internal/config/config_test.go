package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creative-pricing/internal/errors"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
pricing:
  default_line: vp
  default_currency: USD
  default_period: annual
output:
  default_format: markdown
  no_color: true
server:
  addr: ":9090"
`), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "vp", c.Pricing.DefaultLine)
	assert.Equal(t, "USD", c.Pricing.DefaultCurrency)
	assert.Equal(t, "annual", c.Pricing.DefaultPeriod)
	assert.Equal(t, "markdown", c.Output.DefaultFormat)
	assert.True(t, c.Output.NoColor)
	assert.Equal(t, ":9090", c.Server.Addr)
	// untouched keys keep their defaults
	assert.Equal(t, "release", c.Server.Mode)
	assert.Equal(t, "warn", c.Logging.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PRICING_SERVER_ADDR", ":7070")
	t.Setenv("PRICING_PRICING_DEFAULT_CURRENCY", "AED")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7070", c.Server.Addr)
	assert.Equal(t, "AED", c.Pricing.DefaultCurrency)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"period", `{"pricing": {"default_period": "payg"}}`},
		{"line", `{"pricing": {"default_line": "video"}}`},
		{"format", `{"output": {"default_format": "html"}}`},
		{"mode", `{"server": {"mode": "turbo"}}`},
		{"log level", `{"logging": {"level": "loud"}}`},
		{"log format", `{"logging": {"format": "xml"}}`},
		{"syntax", `{"pricing": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "pricing.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0644))

			_, err := Load(path)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.TypeConfig), "got %v", err)
		})
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pricing.json")

	c := Default()
	c.Pricing.DefaultCurrency = "CAD"
	c.Pricing.TablePath = "tables/2025.hcl"
	require.NoError(t, c.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)
}
