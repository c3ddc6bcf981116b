package cost

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"creative-pricing/core/pricing"
	"creative-pricing/core/types"
	"creative-pricing/internal/errors"
	"creative-pricing/internal/logging"
)

var grouping = message.NewPrinter(language.English)

// Amount is a rounded display value in the quote currency
type Amount struct {
	Value   int64  `json:"value"`
	Display string `json:"display"`
}

// FormatAmount renders symbol + integer with thousands grouping
func FormatAmount(symbol string, v int64) string {
	if v < 0 {
		return "-" + symbol + grouping.Sprintf("%d", -v)
	}
	return symbol + grouping.Sprintf("%d", v)
}

// QuoteCategory is a CategoryLine in display currency
type QuoteCategory struct {
	Category       types.Category `json:"category"`
	Name           string         `json:"name"`
	Requested      int            `json:"requested"`
	Included       int            `json:"included"`
	Additional     int            `json:"additional"`
	UnitPrice      Amount         `json:"unit_price"`
	AdditionalCost Amount         `json:"additional_cost"`
	Maintenance    Amount         `json:"maintenance"`
}

// QuoteAddOn is an AddOnLine in display currency
type QuoteAddOn struct {
	AddOn     types.AddOn `json:"add_on"`
	Name      string      `json:"name"`
	Quantity  int         `json:"quantity"`
	UnitPrice Amount      `json:"unit_price"`
	Cost      Amount      `json:"cost"`
}

// QuoteOption is an OptionLine in display currency
type QuoteOption struct {
	Group      types.OptionGroup `json:"group"`
	GroupName  string            `json:"group_name"`
	Choice     string            `json:"choice"`
	ChoiceName string            `json:"choice_name"`
	Price      Amount            `json:"price"`
}

// Quote is a Breakdown rendered in its configured currency.
// Every amount is round(base x rate), half away from zero.
type Quote struct {
	Line         types.ProductLine   `json:"line"`
	Plan         types.PlanTier      `json:"plan"`
	PlanName     string              `json:"plan_name"`
	Period       types.BillingPeriod `json:"period"`
	Currency     types.Currency      `json:"currency"`
	Symbol       string              `json:"symbol"`
	TableVersion string              `json:"table_version"`
	Fingerprint  string              `json:"fingerprint"`

	Categories []QuoteCategory `json:"categories"`
	AddOns     []QuoteAddOn    `json:"add_ons,omitempty"`
	Options    []QuoteOption   `json:"options,omitempty"`

	PlanPrice          Amount `json:"plan_price"`
	AnnualSavings      Amount `json:"annual_savings"`
	AdditionalTotal    Amount `json:"additional_total"`
	AddOnTotal         Amount `json:"add_on_total"`
	OptionTotal        Amount `json:"option_total"`
	MonthlyMaintenance Amount `json:"monthly_maintenance"`
	FirstPeriodTotal   Amount `json:"first_period_total"`
	OngoingTotal       Amount `json:"ongoing_total"`
}

// converter keeps the first conversion error so Present can convert
// every field without checking each call
type converter struct {
	table    *pricing.Table
	currency types.Currency
	symbol   string
	err      error
}

func (c *converter) amount(d decimal.Decimal) Amount {
	if c.err != nil {
		return Amount{}
	}
	v, err := c.table.Convert(d, c.currency)
	if err != nil {
		c.err = err
		return Amount{}
	}
	return Amount{Value: v, Display: FormatAmount(c.symbol, v)}
}

// Present converts a breakdown into its display currency
func Present(b *Breakdown, table *pricing.Table) (*Quote, error) {
	if b == nil {
		return nil, errors.New(errors.TypeInternal, "nil breakdown")
	}
	symbol, err := table.Symbol(b.Currency)
	if err != nil {
		return nil, lookupFailed(err)
	}
	conv := &converter{table: table, currency: b.Currency, symbol: symbol}

	q := &Quote{
		Line:         b.Line,
		Plan:         b.Plan,
		PlanName:     b.PlanName,
		Period:       b.Period,
		Currency:     b.Currency,
		Symbol:       symbol,
		TableVersion: b.TableVersion,
		Fingerprint:  b.Fingerprint,
		Categories:   make([]QuoteCategory, 0, len(b.Categories)),
	}

	for _, l := range b.Categories {
		q.Categories = append(q.Categories, QuoteCategory{
			Category:       l.Category,
			Name:           l.Name,
			Requested:      l.Requested,
			Included:       l.Included,
			Additional:     l.Additional,
			UnitPrice:      conv.amount(l.UnitPrice),
			AdditionalCost: conv.amount(l.AdditionalCost),
			Maintenance:    conv.amount(l.Maintenance),
		})
	}
	for _, l := range b.AddOns {
		q.AddOns = append(q.AddOns, QuoteAddOn{
			AddOn:     l.AddOn,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: conv.amount(l.UnitPrice),
			Cost:      conv.amount(l.Cost),
		})
	}
	for _, l := range b.Options {
		q.Options = append(q.Options, QuoteOption{
			Group:      l.Group,
			GroupName:  l.GroupName,
			Choice:     l.Choice,
			ChoiceName: l.ChoiceName,
			Price:      conv.amount(l.Price),
		})
	}

	q.PlanPrice = conv.amount(b.PlanPrice)
	q.AnnualSavings = conv.amount(b.AnnualSavings)
	q.AdditionalTotal = conv.amount(b.AdditionalTotal)
	q.AddOnTotal = conv.amount(b.AddOnTotal)
	q.OptionTotal = conv.amount(b.OptionTotal)
	q.MonthlyMaintenance = conv.amount(b.MonthlyMaintenance)
	q.FirstPeriodTotal = conv.amount(b.FirstPeriodTotal)
	q.OngoingTotal = conv.amount(b.OngoingTotal)

	if conv.err != nil {
		return nil, lookupFailed(conv.err)
	}

	logging.Debug("quote presented",
		zap.String("currency", string(q.Currency)),
		zap.Int64("first", q.FirstPeriodTotal.Value),
		zap.Int64("ongoing", q.OngoingTotal.Value),
	)
	return q, nil
}
