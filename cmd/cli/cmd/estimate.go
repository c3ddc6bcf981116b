// Package cmd - estimate command
package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"creative-pricing/core/configuration"
	"creative-pricing/core/output"
	"creative-pricing/internal/config"
	"creative-pricing/internal/errors"
	"creative-pricing/internal/logging"
)

var (
	estLine     string
	estPlan     string
	estPeriod   string
	estCurrency string
	estUnits    []string
	estAddOns   []string
	estOptions  []string
	estFormat   string
	estOut      string
	estSpecFile string
)

// estimateCmd represents the estimate command
var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Price a plan selection",
	Long: `Compute the first-period and ongoing totals for one configuration.

Unit counts below the plan inclusion are raised to it. Options and
add-ons are one-time charges; maintenance recurs monthly.

Examples:
  pricing estimate --plan starter --units basic=4,complex=1
  pricing estimate --line vp --plan pro --options delivery=express
  pricing estimate --plan pro --period annual --currency usd --format markdown
  pricing estimate --spec saved.json --format xlsx --out quote.xlsx`,
	Args: cobra.NoArgs,
	RunE: runEstimate,
}

func init() {
	rootCmd.AddCommand(estimateCmd)

	estimateCmd.Flags().StringVarP(&estLine, "line", "l", "", "product line (3d, vp); default from config")
	estimateCmd.Flags().StringVarP(&estPlan, "plan", "p", "starter", "plan tier (starter, pro, enterprise)")
	estimateCmd.Flags().StringVar(&estPeriod, "period", "", "billing period (monthly, annual); default from config")
	estimateCmd.Flags().StringVarP(&estCurrency, "currency", "c", "", "display currency; default from config")
	estimateCmd.Flags().StringSliceVarP(&estUnits, "units", "u", nil, "requested units per category, e.g. basic=4")
	estimateCmd.Flags().StringSliceVarP(&estAddOns, "add-ons", "a", nil, "add-on quantities, e.g. exploded=2")
	estimateCmd.Flags().StringSliceVarP(&estOptions, "options", "o", nil, "option choices, e.g. resolution=8k")
	estimateCmd.Flags().StringVarP(&estFormat, "format", "f", "", "output format (cli, json, markdown, xlsx)")
	estimateCmd.Flags().StringVar(&estOut, "out", "", "write output to a file instead of stdout")
	estimateCmd.Flags().StringVar(&estSpecFile, "spec", "", "read the configuration from a JSON or YAML file")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	start := time.Now()
	cfg := config.Get()

	table, err := loadTable()
	if err != nil {
		return err
	}

	spec, err := estimateSpec(cmd, cfg)
	if err != nil {
		return err
	}

	c, err := configuration.Build(table, spec)
	if err != nil {
		return err
	}

	result, err := output.NewResult(c, table)
	if err != nil {
		return err
	}
	result.ID = uuid.NewString()
	result.Metadata.Version = Version
	result.Metadata.Timestamp = time.Now().UTC().Format(time.RFC3339)

	format := estFormat
	if format == "" {
		format = cfg.Output.DefaultFormat
	}
	f, err := output.ParseFormat(format)
	if err != nil {
		return err
	}

	registry := output.NewRegistry(cfg.Output.NoColor)
	formatter, err := registry.Get(f)
	if err != nil {
		return err
	}

	logging.Debug("estimate computed",
		zap.String("line", spec.Line),
		zap.String("plan", spec.Plan),
		zap.Duration("duration", time.Since(start)),
	)

	return writeOutput(cmd.OutOrStdout(), estOut, func(w io.Writer) error {
		return formatter.Render(w, result)
	})
}

// estimateSpec merges the spec file, flags and configured defaults.
// Flags win over the file; the file wins over defaults.
func estimateSpec(cmd *cobra.Command, cfg *config.Config) (configuration.Spec, error) {
	spec := configuration.Spec{}
	if estSpecFile != "" {
		loaded, err := readSpec(estSpecFile)
		if err != nil {
			return spec, err
		}
		spec = loaded
	}

	spec.Line = firstNonEmpty(estLine, spec.Line, cfg.Pricing.DefaultLine)
	if cmd.Flags().Changed("plan") || spec.Plan == "" {
		spec.Plan = estPlan
	}
	spec.Period = firstNonEmpty(estPeriod, spec.Period, cfg.Pricing.DefaultPeriod)
	spec.Currency = firstNonEmpty(estCurrency, spec.Currency, cfg.Pricing.DefaultCurrency)

	units, err := parseCounts(estUnits)
	if err != nil {
		return spec, err
	}
	spec.Units = mergeMaps(spec.Units, units)

	addOns, err := parseCounts(estAddOns)
	if err != nil {
		return spec, err
	}
	spec.AddOns = mergeMaps(spec.AddOns, addOns)

	options, err := parsePairs(estOptions)
	if err != nil {
		return spec, err
	}
	spec.Options = mergeMaps(spec.Options, options)

	return spec, nil
}

// parsePairs parses key=value flags
func parsePairs(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if !ok || key == "" || value == "" {
			return nil, errors.Inputf("expected key=value, got %q", p)
		}
		out[key] = value
	}
	return out, nil
}

// parseCounts parses key=count flags
func parseCounts(pairs []string) (map[string]int, error) {
	raw, err := parsePairs(pairs)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(raw))
	for k, v := range raw {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.Inputf("count for %s is not an integer: %q", k, v)
		}
		if n < 0 {
			return nil, errors.Inputf("count for %s is negative: %d", k, n)
		}
		out[k] = n
	}
	return out, nil
}

func mergeMaps[V any](base, over map[string]V) map[string]V {
	if len(over) == 0 {
		return base
	}
	if base == nil {
		base = make(map[string]V, len(over))
	}
	for k, v := range over {
		base[k] = v
	}
	return base
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// writeOutput renders to path, or to stdout when path is empty
func writeOutput(stdout io.Writer, path string, render func(io.Writer) error) (err error) {
	if path == "" {
		return render(stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	w := bufio.NewWriter(f)
	if err := render(w); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	logging.Info("output written", zap.String("path", path))
	return nil
}
