// Package cmd provides the CLI commands for pricing.
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"creative-pricing/core/pricing"
	"creative-pricing/internal/config"
	"creative-pricing/internal/logging"
)

// Version is set at build time
var Version = "0.1.0"

var (
	cfgFile   string
	tablePath string
	verbose   bool
	noColor   bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pricing",
	Short: "Estimate subscription prices for 3D/AR and virtual photography",
	Long: `pricing computes first-period and ongoing totals for a plan selection.

Amounts are held in the base currency of the pricing table and converted
only for display.

Examples:
  pricing estimate --line 3d --plan starter --units basic=4
  pricing estimate --line vp --plan pro --options resolution=8k --currency usd
  pricing estimate --plan pro --period annual --format xlsx --out quote.xlsx
  pricing plans vp --currency aed`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVar(&tablePath, "table", "", "HCL pricing table (default is the built-in table)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

func initConfig() {
	_ = godotenv.Load()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if noColor {
		cfg.Output.NoColor = true
	}
	if tablePath != "" {
		cfg.Pricing.TablePath = tablePath
	}
	config.Set(cfg)

	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// loadTable returns the configured pricing table
func loadTable() (*pricing.Table, error) {
	if path := config.Get().Pricing.TablePath; path != "" {
		return pricing.LoadFile(path)
	}
	return pricing.Default(), nil
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := loadTable()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "pricing version %s (table %s, %s)\n",
			Version, table.Version(), table.Fingerprint().Short())
		return nil
	},
}

// configCmd manages configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeJSON(cmd.OutOrStdout(), config.Get())
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "pricing.json"
		if len(args) > 0 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
		if err := config.Default().Save(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}
