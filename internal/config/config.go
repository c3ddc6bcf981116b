// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"creative-pricing/core/types"
	"creative-pricing/internal/errors"
	"creative-pricing/internal/logging"
)

// EnvPrefix prefixes every environment override, e.g. PRICING_SERVER_ADDR
const EnvPrefix = "PRICING"

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version" mapstructure:"version"`

	// Pricing contains pricing configuration
	Pricing PricingConfig `json:"pricing" mapstructure:"pricing"`

	// Output contains output configuration
	Output OutputConfig `json:"output" mapstructure:"output"`

	// Server contains HTTP API configuration
	Server ServerConfig `json:"server" mapstructure:"server"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" mapstructure:"logging"`
}

// PricingConfig contains pricing-related settings
type PricingConfig struct {
	// DefaultLine is the product line used when none is given
	DefaultLine string `json:"default_line" mapstructure:"default_line"`

	// DefaultCurrency is the default display currency
	DefaultCurrency string `json:"default_currency" mapstructure:"default_currency"`

	// DefaultPeriod is the default billing period
	DefaultPeriod string `json:"default_period" mapstructure:"default_period"`

	// TablePath is an HCL pricing table; empty uses the built-in table
	TablePath string `json:"table_path,omitempty" mapstructure:"table_path"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format
	DefaultFormat string `json:"default_format" mapstructure:"default_format"`

	// NoColor disables ANSI colors
	NoColor bool `json:"no_color" mapstructure:"no_color"`
}

// ServerConfig contains HTTP API settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr" mapstructure:"addr"`

	// Metrics exposes /metrics
	Metrics bool `json:"metrics" mapstructure:"metrics"`

	// Mode is the gin mode (debug, release, test)
	Mode string `json:"mode" mapstructure:"mode"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Pricing: PricingConfig{
			DefaultLine:     string(types.Line3D),
			DefaultCurrency: string(types.CurrencyINR),
			DefaultPeriod:   string(types.PeriodMonthly),
		},
		Output: OutputConfig{
			DefaultFormat: "cli",
		},
		Server: ServerConfig{
			Addr:    ":8080",
			Metrics: true,
			Mode:    "release",
		},
		Logging: logging.DefaultConfig(),
	}
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("version", d.Version)
	v.SetDefault("pricing.default_line", d.Pricing.DefaultLine)
	v.SetDefault("pricing.default_currency", d.Pricing.DefaultCurrency)
	v.SetDefault("pricing.default_period", d.Pricing.DefaultPeriod)
	v.SetDefault("pricing.table_path", d.Pricing.TablePath)
	v.SetDefault("output.default_format", d.Output.DefaultFormat)
	v.SetDefault("output.no_color", d.Output.NoColor)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.metrics", d.Server.Metrics)
	v.SetDefault("server.mode", d.Server.Mode)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
	v.SetDefault("logging.development", d.Logging.Development)
}

// Load reads a JSON, YAML or TOML file and applies PRICING_* environment overrides.
// A missing file (or empty path) yields the defaults plus overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, errors.Config("read config "+path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.Config("stat config "+path, err)
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, errors.Config("decode config", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks enumerated settings
func (c *Config) Validate() error {
	if _, err := types.ParseProductLine(c.Pricing.DefaultLine); err != nil {
		return errors.Config("pricing.default_line", err)
	}
	if _, err := types.ParseBillingPeriod(c.Pricing.DefaultPeriod); err != nil {
		return errors.Config("pricing.default_period", err)
	}
	if _, err := types.ParseCurrency(c.Pricing.DefaultCurrency); err != nil {
		return errors.Config("pricing.default_currency", err)
	}
	switch c.Output.DefaultFormat {
	case "cli", "json", "markdown", "xlsx":
	default:
		return errors.Newf(errors.TypeConfig, "output.default_format: unknown format %q", c.Output.DefaultFormat)
	}
	if err := c.Logging.Validate(); err != nil {
		return errors.Config("logging", err)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return errors.Newf(errors.TypeConfig, "server.mode: unknown gin mode %q", c.Server.Mode)
	}
	return nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
