package output

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// QuoteSheet is the worksheet name of the XLSX export
const QuoteSheet = "Quote"

// XLSXFormatter writes a single-sheet spreadsheet quote
type XLSXFormatter struct{}

// NewXLSXFormatter creates an XLSX formatter
func NewXLSXFormatter() *XLSXFormatter {
	return &XLSXFormatter{}
}

// Format returns the format type
func (f *XLSXFormatter) Format() Format {
	return FormatXLSX
}

// Render writes the workbook. Amount cells hold the rounded display integers.
func (f *XLSXFormatter) Render(w io.Writer, result *Result) error {
	q := result.Quote
	if q == nil {
		return fmt.Errorf("render xlsx: result has no quote")
	}

	x := excelize.NewFile()
	defer func() { _ = x.Close() }()

	if err := x.SetSheetName(x.GetSheetName(x.GetActiveSheetIndex()), QuoteSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Plan", q.PlanName},
		{"Billing", string(q.Period)},
		{"Currency", string(q.Currency)},
		{"Pricing table", q.TableVersion},
		{},
		{"Category", "Requested", "Included", "Additional", "Unit Price", "Additional Cost", "Maintenance/mo"},
	}
	for _, c := range q.Categories {
		rows = append(rows, []interface{}{
			c.Name, c.Requested, c.Included, c.Additional,
			c.UnitPrice.Value, c.AdditionalCost.Value, c.Maintenance.Value,
		})
	}
	if hasAddOns(result) {
		rows = append(rows, []interface{}{}, []interface{}{"Add-on", "Quantity", "Unit Price", "Cost"})
		for _, a := range q.AddOns {
			if a.Quantity > 0 {
				rows = append(rows, []interface{}{a.Name, a.Quantity, a.UnitPrice.Value, a.Cost.Value})
			}
		}
	}
	if len(q.Options) > 0 {
		rows = append(rows, []interface{}{}, []interface{}{"Option", "Choice", "Price"})
		for _, o := range q.Options {
			rows = append(rows, []interface{}{o.GroupName, o.ChoiceName, o.Price.Value})
		}
	}

	rows = append(rows,
		[]interface{}{},
		[]interface{}{"Plan price", q.PlanPrice.Value},
		[]interface{}{"Annual savings", q.AnnualSavings.Value},
		[]interface{}{"Additional units", q.AdditionalTotal.Value},
		[]interface{}{"Add-ons", q.AddOnTotal.Value},
		[]interface{}{"Options", q.OptionTotal.Value},
		[]interface{}{"Maintenance per month", q.MonthlyMaintenance.Value},
		[]interface{}{"First " + periodNoun(q.Period), q.FirstPeriodTotal.Value},
		[]interface{}{"Ongoing per " + periodNoun(q.Period), q.OngoingTotal.Value},
	)

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := x.SetSheetRow(QuoteSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	bold, err := x.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last := fmt.Sprintf("A%d", len(rows))
	if err := x.SetCellStyle(QuoteSheet, "A1", last, bold); err != nil {
		return err
	}

	return x.Write(w)
}
