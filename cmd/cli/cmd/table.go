// Package cmd - Pricing table inspection
package cmd

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"creative-pricing/core/cost"
	"creative-pricing/core/determinism"
	"creative-pricing/core/pricing"
	"creative-pricing/core/types"
	"creative-pricing/core/ui"
	"creative-pricing/internal/config"
)

var (
	plansCurrency string
	plansPeriod   string
)

var plansCmd = &cobra.Command{
	Use:   "plans [line]",
	Short: "List plans, unit prices and add-ons",
	Long: `List the plans of one product line (or all lines) in a display currency.

Examples:
  pricing plans
  pricing plans vp --currency usd
  pricing plans 3d --period annual`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlans,
}

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Inspect pricing tables",
	Long: `Pricing table commands.

The built-in table is used unless --table points at an HCL file.
Every table is validated when loaded and identified by a fingerprint.`,
}

var tableValidateCmd = &cobra.Command{
	Use:   "validate <file.hcl>",
	Short: "Load and validate an HCL pricing table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := pricing.LoadFile(args[0])
		if err != nil {
			return err
		}
		out := ui.NewWriter(cmd.OutOrStdout(), config.Get().Output.NoColor)
		out.Success("%s is valid: version %s, fingerprint %s, %d lines",
			args[0], table.Version(), table.Fingerprint().Short(), len(table.Lines()))
		return nil
	},
}

var tableExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the active table as canonical JSON",
	Long: `Print the active table as compact canonical JSON. The output, less its
trailing newline, is exactly what the table fingerprint hashes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := loadTable()
		if err != nil {
			return err
		}
		data, err := table.MarshalJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
		return err
	},
}

var tableCurrenciesCmd = &cobra.Command{
	Use:   "currencies",
	Short: "List display currencies and rates",
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := loadTable()
		if err != nil {
			return err
		}
		out := ui.NewWriter(cmd.OutOrStdout(), config.Get().Output.NoColor)
		t := out.NewTable("Code", "Symbol", "Rate").AlignRight(2)
		for _, c := range table.Currencies() {
			code := string(c.Code)
			if c.Code == table.BaseCurrency() {
				code += " (base)"
			}
			t.AddRow(code, c.Symbol, c.Rate.String())
		}
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(plansCmd)
	rootCmd.AddCommand(tableCmd)
	tableCmd.AddCommand(tableValidateCmd)
	tableCmd.AddCommand(tableExportCmd)
	tableCmd.AddCommand(tableCurrenciesCmd)

	plansCmd.Flags().StringVarP(&plansCurrency, "currency", "c", "", "display currency; default from config")
	plansCmd.Flags().StringVar(&plansPeriod, "period", "monthly", "billing period (monthly, annual)")
}

func runPlans(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	table, err := loadTable()
	if err != nil {
		return err
	}

	code, err := types.ParseCurrency(firstNonEmpty(plansCurrency, cfg.Pricing.DefaultCurrency))
	if err != nil {
		return err
	}
	symbol, err := table.Symbol(code)
	if err != nil {
		return err
	}
	period, err := types.ParseBillingPeriod(plansPeriod)
	if err != nil {
		return err
	}

	lines := table.Lines()
	if len(args) > 0 {
		id, err := types.ParseProductLine(args[0])
		if err != nil {
			return err
		}
		line, err := table.Line(id)
		if err != nil {
			return err
		}
		lines = []*pricing.Line{line}
	}

	display := func(v decimal.Decimal) (string, error) {
		n, err := table.Convert(v, code)
		if err != nil {
			return "", err
		}
		return cost.FormatAmount(symbol, n), nil
	}

	out := ui.NewWriter(cmd.OutOrStdout(), cfg.Output.NoColor)
	for i, line := range lines {
		if i > 0 {
			out.Println("")
		}
		out.Header(fmt.Sprintf("%s (%s)", line.Name, line.ID))

		plans := out.NewTable("Plan", "Price/"+string(period), "Includes").AlignRight(1)
		for _, p := range line.Plans() {
			price, err := table.BasePrice(line.ID, p.Tier, period)
			if err != nil {
				return err
			}
			s, err := display(price)
			if err != nil {
				return err
			}
			if p.MonthlyPrice.IsZero() {
				s = "custom"
			}
			plans.AddRow(p.Name, s, includes(p))
		}
		plans.Render()

		out.SubHeader("Units")
		units := out.NewTable("Category", "Unit Price", "Maintenance/mo").AlignRight(1, 2)
		for _, c := range line.Categories() {
			unit, err := display(c.UnitPrice)
			if err != nil {
				return err
			}
			rate, err := line.MaintenanceRate(c.ID)
			if err != nil {
				return err
			}
			maint, err := display(rate)
			if err != nil {
				return err
			}
			units.AddRow(c.Name, unit, maint)
		}
		units.Render()

		if addOns := line.AddOns(); len(addOns) > 0 {
			out.SubHeader("Add-ons")
			t := out.NewTable("Add-on", "Unit Price", "Max").AlignRight(1, 2)
			for _, a := range addOns {
				s, err := display(a.UnitPrice)
				if err != nil {
					return err
				}
				t.AddRow(a.Name, s, fmt.Sprint(a.Max))
			}
			t.Render()
		}

		for _, g := range line.OptionGroups() {
			out.SubHeader(g.Name)
			t := out.NewTable("Choice", "Price").AlignRight(1)
			for _, ch := range g.Choices {
				s, err := display(ch.Price)
				if err != nil {
					return err
				}
				t.AddRow(ch.Name+" ("+ch.ID+")", s)
			}
			t.Render()
		}
	}
	return nil
}

// includes summarises plan inclusions, e.g. "2 basic, 2 medium"
func includes(p pricing.Plan) string {
	units := p.IncludedUnits()
	if len(units) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(units))
	for _, c := range determinism.SortedKeys(units) {
		parts = append(parts, fmt.Sprintf("%d %s", units[c], c))
	}
	return strings.Join(parts, ", ")
}
