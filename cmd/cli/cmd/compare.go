// Package cmd - compare command
package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"creative-pricing/core/configuration"
	"creative-pricing/core/cost"
	"creative-pricing/core/output"
	"creative-pricing/core/ui"
	"creative-pricing/internal/config"
	"creative-pricing/internal/errors"
)

var compareJSON bool

var compareCmd = &cobra.Command{
	Use:   "compare <base-spec> <head-spec>",
	Short: "Show what changes between two configurations",
	Long: `Price two saved configurations and list every line item that was
added, removed or changed. Deltas are shown in the head currency.

Examples:
  pricing compare monthly.yaml annual.yaml
  pricing compare before.json after.json --json`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().BoolVar(&compareJSON, "json", false, "print the comparison as JSON")
}

func runCompare(cmd *cobra.Command, args []string) error {
	table, err := loadTable()
	if err != nil {
		return err
	}

	results := make([]*output.Result, 0, 2)
	for _, path := range args {
		spec, err := readSpec(path)
		if err != nil {
			return err
		}
		c, err := configuration.Build(table, spec)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		r, err := output.NewResult(c, table)
		if err != nil {
			return err
		}
		results = append(results, r)
	}
	base, head := results[0], results[1]

	cmp, err := cost.Compare(base.Breakdown, head.Breakdown)
	if err != nil {
		return err
	}
	if compareJSON {
		return writeJSON(cmd.OutOrStdout(), cmp)
	}

	amount := func(v int64) string { return cost.FormatAmount(head.Quote.Symbol, v) }

	out := ui.NewWriter(cmd.OutOrStdout(), config.Get().Output.NoColor)
	out.Header(fmt.Sprintf("%s → %s", base.Quote.PlanName, head.Quote.PlanName))

	t := out.NewTable("Change", "Item", "Before", "After", "Delta").AlignRight(2, 3, 4)
	for _, ch := range cmp.Changes {
		before, err := table.Convert(ch.Before, head.Quote.Currency)
		if err != nil {
			return err
		}
		after, err := table.Convert(ch.After, head.Quote.Currency)
		if err != nil {
			return err
		}
		delta, err := table.Convert(ch.Delta, head.Quote.Currency)
		if err != nil {
			return err
		}
		t.AddRow(ch.Type, ch.Item, amount(before), amount(after), amount(delta))
	}
	t.Render()

	first, err := table.Convert(cmp.FirstPeriodDelta, head.Quote.Currency)
	if err != nil {
		return err
	}
	ongoing, err := table.Convert(cmp.OngoingDelta, head.Quote.Currency)
	if err != nil {
		return err
	}
	out.Println("")
	out.Info("First period: %s → %s (%s)", base.Quote.FirstPeriodTotal.Display, head.Quote.FirstPeriodTotal.Display, amount(first))
	out.Info("Ongoing: %s → %s (%s)", base.Quote.OngoingTotal.Display, head.Quote.OngoingTotal.Display, amount(ongoing))
	return nil
}

// readSpec loads a saved configuration from JSON, YAML or TOML
func readSpec(path string) (configuration.Spec, error) {
	v := viper.New()
	v.SetConfigFile(path)

	var spec configuration.Spec
	if err := v.ReadInConfig(); err != nil {
		return spec, errors.Wrap(errors.TypeInput, "read "+path, err)
	}
	if err := v.Unmarshal(&spec); err != nil {
		return spec, errors.Wrap(errors.TypeInput, "decode "+path, err)
	}
	return spec, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
