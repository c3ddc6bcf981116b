package output

import (
	"fmt"
	"io"
	"strings"

	"creative-pricing/core/types"
)

// MarkdownFormatter renders a quote as a markdown document (for emails and PRs)
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a markdown formatter
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format returns the format type
func (f *MarkdownFormatter) Format() Format {
	return FormatMarkdown
}

// Render writes the quote
func (f *MarkdownFormatter) Render(w io.Writer, result *Result) error {
	q := result.Quote
	if q == nil {
		return fmt.Errorf("render markdown: result has no quote")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s estimate\n\n", q.PlanName)
	fmt.Fprintf(&b, "Billing: **%s** · Currency: **%s**\n\n", q.Period, q.Currency)

	b.WriteString("| Category | Requested | Included | Additional | Additional Cost |\n")
	b.WriteString("|---|---:|---:|---:|---:|\n")
	for _, c := range q.Categories {
		fmt.Fprintf(&b, "| %s | %d | %d | %d | %s |\n", c.Name, c.Requested, c.Included, c.Additional, c.AdditionalCost.Display)
	}
	b.WriteString("\n")

	if hasAddOns(result) {
		b.WriteString("| Add-on | Quantity | Cost |\n")
		b.WriteString("|---|---:|---:|\n")
		for _, a := range q.AddOns {
			if a.Quantity > 0 {
				fmt.Fprintf(&b, "| %s | %d | %s |\n", a.Name, a.Quantity, a.Cost.Display)
			}
		}
		b.WriteString("\n")
	}

	if len(q.Options) > 0 {
		b.WriteString("| Option | Choice | Price |\n")
		b.WriteString("|---|---|---:|\n")
		for _, o := range q.Options {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", o.GroupName, o.ChoiceName, o.Price.Display)
		}
		b.WriteString("\n")
	}

	noun := periodNoun(q.Period)
	fmt.Fprintf(&b, "**First %s: %s**  \n", noun, q.FirstPeriodTotal.Display)
	fmt.Fprintf(&b, "Then %s per %s for maintenance.\n", q.OngoingTotal.Display, noun)
	if q.Period == types.PeriodAnnual && q.AnnualSavings.Value > 0 {
		fmt.Fprintf(&b, "\nAnnual billing saves %s.\n", q.AnnualSavings.Display)
	}
	fmt.Fprintf(&b, "\n_Pricing table %s (%s)_\n", q.TableVersion, result.Metadata.Fingerprint)

	_, err := io.WriteString(w, b.String())
	return err
}
