package output

import (
	"fmt"
	"io"

	"creative-pricing/core/types"
	"creative-pricing/core/ui"
)

// CLIFormatter renders a quote as terminal tables
type CLIFormatter struct {
	noColor bool
}

// NewCLIFormatter creates a terminal formatter
func NewCLIFormatter(noColor bool) *CLIFormatter {
	return &CLIFormatter{noColor: noColor}
}

// Format returns the format type
func (f *CLIFormatter) Format() Format {
	return FormatCLI
}

// Render writes the quote tables and summary box
func (f *CLIFormatter) Render(w io.Writer, result *Result) error {
	q := result.Quote
	if q == nil {
		return fmt.Errorf("render cli: result has no quote")
	}
	out := ui.NewWriter(w, f.noColor)

	out.Header(fmt.Sprintf("%s · %s (%s)", q.PlanName, q.Period, q.Currency))

	units := out.NewTable("Category", "Requested", "Included", "Additional", "Unit Price", "Additional Cost", "Maintenance/mo").
		AlignRight(1, 2, 3, 4, 5, 6)
	for _, c := range q.Categories {
		units.AddRow(c.Name,
			fmt.Sprint(c.Requested), fmt.Sprint(c.Included), fmt.Sprint(c.Additional),
			c.UnitPrice.Display, c.AdditionalCost.Display, c.Maintenance.Display)
	}
	units.Render()

	if hasAddOns(result) {
		out.Println("")
		addOns := out.NewTable("Add-on", "Quantity", "Unit Price", "Cost").AlignRight(1, 2, 3)
		for _, a := range q.AddOns {
			if a.Quantity == 0 {
				continue
			}
			addOns.AddRow(a.Name, fmt.Sprint(a.Quantity), a.UnitPrice.Display, a.Cost.Display)
		}
		addOns.Render()
	}

	if len(q.Options) > 0 {
		out.Println("")
		opts := out.NewTable("Option", "Choice", "Price").AlignRight(2)
		for _, o := range q.Options {
			opts.AddRow(o.GroupName, o.ChoiceName, o.Price.Display)
		}
		opts.Render()
	}

	out.Println("")
	totals := out.NewTable("Item", "Amount").AlignRight(1)
	totals.AddRow("Plan ("+string(q.Period)+")", q.PlanPrice.Display)
	totals.AddRow("Additional units", q.AdditionalTotal.Display)
	if hasAddOns(result) {
		totals.AddRow("Add-ons", q.AddOnTotal.Display)
	}
	if len(q.Options) > 0 {
		totals.AddRow("Options", q.OptionTotal.Display)
	}
	totals.AddRow("Maintenance per month", q.MonthlyMaintenance.Display)
	totals.Render()

	summary := out.NewCostSummary()
	summary.Period = periodNoun(q.Period)
	summary.FirstPeriod = q.FirstPeriodTotal.Display
	summary.Ongoing = q.OngoingTotal.Display
	summary.TableVersion = q.TableVersion
	if q.Period == types.PeriodAnnual && q.AnnualSavings.Value > 0 {
		summary.Savings = q.AnnualSavings.Display
	}
	summary.Render()
	return nil
}

func hasAddOns(result *Result) bool {
	for _, a := range result.Quote.AddOns {
		if a.Quantity > 0 {
			return true
		}
	}
	return false
}

func periodNoun(p types.BillingPeriod) string {
	if p == types.PeriodAnnual {
		return "year"
	}
	return "month"
}
