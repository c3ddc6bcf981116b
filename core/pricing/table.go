// Package pricing provides the immutable, versioned pricing table.
// The table is built once (from the checked-in defaults or an HCL file),
// validated, fingerprinted and then only read.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"creative-pricing/core/determinism"
	"creative-pricing/core/types"
	"creative-pricing/internal/errors"
)

// CurrencyInfo is a display currency: multiplier relative to the base currency and symbol
type CurrencyInfo struct {
	Code   types.Currency  `json:"code"`
	Rate   decimal.Decimal `json:"rate"`
	Symbol string          `json:"symbol"`
}

// Category is a priced unit category of a product line
type Category struct {
	ID   types.Category `json:"id"`
	Name string         `json:"name"`

	// UnitPrice is the one-time price of each unit above the plan inclusion
	UnitPrice decimal.Decimal `json:"unit_price"`

	// Max is the presentation upper bound for the requested count (0 = unbounded)
	Max int `json:"max,omitempty"`
}

// AddOn is a per-quantity extra
type AddOn struct {
	ID        types.AddOn     `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Max       int             `json:"max"`
}

// OptionChoice is one selectable value of an option group
type OptionChoice struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// OptionGroup is a single-choice upgrade with a flat one-time price per choice
type OptionGroup struct {
	ID      types.OptionGroup `json:"id"`
	Name    string            `json:"name"`
	Choices []OptionChoice    `json:"choices"`
}

// Choice looks up a choice by id
func (g OptionGroup) Choice(id string) (OptionChoice, bool) {
	for _, c := range g.Choices {
		if c.ID == id {
			return c, true
		}
	}
	return OptionChoice{}, false
}

// Plan is a subscription tier of a product line
type Plan struct {
	Tier         types.PlanTier  `json:"tier"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	MonthlyPrice decimal.Decimal `json:"monthly_price"`

	included       map[types.Category]int
	defaultOptions map[types.OptionGroup]string
}

// Included returns the units of c bundled into the plan price
func (p Plan) Included(c types.Category) int {
	return p.included[c]
}

// IncludedUnits returns a copy of the inclusion map
func (p Plan) IncludedUnits() map[types.Category]int {
	out := make(map[types.Category]int, len(p.included))
	for k, v := range p.included {
		out[k] = v
	}
	return out
}

// DefaultOption returns the plan's default choice for a group
func (p Plan) DefaultOption(g types.OptionGroup) (string, bool) {
	v, ok := p.defaultOptions[g]
	return v, ok
}

// MaintenanceSchedule is the recurring per-unit monthly charge of a product line.
// It is either one flat rate for every category or one rate per category.
type MaintenanceSchedule struct {
	flat        *decimal.Decimal
	perCategory map[types.Category]decimal.Decimal
}

// FlatMaintenance charges the same rate for every unit
func FlatMaintenance(rate decimal.Decimal) MaintenanceSchedule {
	return MaintenanceSchedule{flat: &rate}
}

// PerCategoryMaintenance charges a category-specific rate
func PerCategoryMaintenance(rates map[types.Category]decimal.Decimal) MaintenanceSchedule {
	m := make(map[types.Category]decimal.Decimal, len(rates))
	for k, v := range rates {
		m[k] = v
	}
	return MaintenanceSchedule{perCategory: m}
}

// IsFlat reports whether the schedule uses a single rate
func (m MaintenanceSchedule) IsFlat() bool {
	return m.flat != nil
}

// Rate returns the monthly maintenance rate for one unit of c
func (m MaintenanceSchedule) Rate(c types.Category) (decimal.Decimal, bool) {
	if m.flat != nil {
		return *m.flat, true
	}
	r, ok := m.perCategory[c]
	return r, ok
}

// Line is the pricing of one product family
type Line struct {
	ID          types.ProductLine
	Name        string
	Maintenance MaintenanceSchedule

	plans      []Plan
	categories []Category
	addOns     []AddOn
	options    []OptionGroup
}

// Plans returns the plans in display order
func (l *Line) Plans() []Plan {
	return append([]Plan(nil), l.plans...)
}

// Categories returns the categories in display order
func (l *Line) Categories() []Category {
	return append([]Category(nil), l.categories...)
}

// AddOns returns the add-ons in display order
func (l *Line) AddOns() []AddOn {
	return append([]AddOn(nil), l.addOns...)
}

// OptionGroups returns the option groups in display order
func (l *Line) OptionGroups() []OptionGroup {
	out := make([]OptionGroup, len(l.options))
	for i, g := range l.options {
		out[i] = OptionGroup{ID: g.ID, Name: g.Name, Choices: append([]OptionChoice(nil), g.Choices...)}
	}
	return out
}

// Plan looks up a tier
func (l *Line) Plan(tier types.PlanTier) (Plan, error) {
	for _, p := range l.plans {
		if p.Tier == tier {
			return p, nil
		}
	}
	return Plan{}, errors.NotFound("plan", fmt.Sprintf("%s/%s", l.ID, tier))
}

// Category looks up a category
func (l *Line) Category(id types.Category) (Category, error) {
	for _, c := range l.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return Category{}, errors.NotFound("category", fmt.Sprintf("%s/%s", l.ID, id))
}

// AddOn looks up an add-on
func (l *Line) AddOn(id types.AddOn) (AddOn, error) {
	for _, a := range l.addOns {
		if a.ID == id {
			return a, nil
		}
	}
	return AddOn{}, errors.NotFound("add-on", fmt.Sprintf("%s/%s", l.ID, id))
}

// OptionGroup looks up an option group
func (l *Line) OptionGroup(id types.OptionGroup) (OptionGroup, error) {
	for _, g := range l.options {
		if g.ID == id {
			return g, nil
		}
	}
	return OptionGroup{}, errors.NotFound("option group", fmt.Sprintf("%s/%s", l.ID, id))
}

// OptionChoice looks up a choice within a group
func (l *Line) OptionChoice(group types.OptionGroup, choice string) (OptionChoice, error) {
	g, err := l.OptionGroup(group)
	if err != nil {
		return OptionChoice{}, err
	}
	c, ok := g.Choice(choice)
	if !ok {
		return OptionChoice{}, errors.NotFound("option", fmt.Sprintf("%s/%s=%s", l.ID, group, choice))
	}
	return c, nil
}

// MaintenanceRate returns the monthly per-unit maintenance rate of a category
func (l *Line) MaintenanceRate(c types.Category) (decimal.Decimal, error) {
	r, ok := l.Maintenance.Rate(c)
	if !ok {
		return decimal.Zero, errors.NotFound("maintenance rate", fmt.Sprintf("%s/%s", l.ID, c))
	}
	return r, nil
}

// Table is the complete, immutable pricing table
type Table struct {
	version        string
	baseCurrency   types.Currency
	annualDiscount decimal.Decimal
	currencies     []CurrencyInfo
	lines          []*Line
	fingerprint    determinism.ContentHash
}

// Version returns the table version label
func (t *Table) Version() string {
	return t.version
}

// Fingerprint returns the content hash of the table
func (t *Table) Fingerprint() determinism.ContentHash {
	return t.fingerprint
}

// BaseCurrency returns the currency every amount is stored in
func (t *Table) BaseCurrency() types.Currency {
	return t.baseCurrency
}

// AnnualDiscount returns the fraction taken off the annualised plan price
func (t *Table) AnnualDiscount() decimal.Decimal {
	return t.annualDiscount
}

// Currencies returns the supported display currencies in order
func (t *Table) Currencies() []CurrencyInfo {
	return append([]CurrencyInfo(nil), t.currencies...)
}

// Lines returns the product lines in order
func (t *Table) Lines() []*Line {
	return append([]*Line(nil), t.lines...)
}

// Line looks up a product line
func (t *Table) Line(id types.ProductLine) (*Line, error) {
	for _, l := range t.lines {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, errors.NotFound("product line", string(id))
}

// Currency looks up a display currency
func (t *Table) Currency(code types.Currency) (CurrencyInfo, error) {
	for _, c := range t.currencies {
		if c.Code == code {
			return c, nil
		}
	}
	return CurrencyInfo{}, errors.NotFound("currency", string(code))
}

// Rate returns the conversion multiplier for a currency
func (t *Table) Rate(code types.Currency) (decimal.Decimal, error) {
	c, err := t.Currency(code)
	if err != nil {
		return decimal.Zero, err
	}
	return c.Rate, nil
}

// Symbol returns the display symbol for a currency
func (t *Table) Symbol(code types.Currency) (string, error) {
	c, err := t.Currency(code)
	if err != nil {
		return "", err
	}
	return c.Symbol, nil
}

// BasePrice returns the subscription price of a plan for one billing period.
// Annual is the monthly price x 12 less the annual discount.
func (t *Table) BasePrice(line types.ProductLine, tier types.PlanTier, period types.BillingPeriod) (decimal.Decimal, error) {
	l, err := t.Line(line)
	if err != nil {
		return decimal.Zero, err
	}
	p, err := l.Plan(tier)
	if err != nil {
		return decimal.Zero, err
	}
	switch period {
	case types.PeriodMonthly:
		return p.MonthlyPrice, nil
	case types.PeriodAnnual:
		return t.Annualize(p.MonthlyPrice), nil
	default:
		return decimal.Zero, errors.NotFound("billing period", string(period))
	}
}

// Annualize turns a monthly price into the discounted yearly price
func (t *Table) Annualize(monthly decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(t.annualDiscount)
	return monthly.Mul(decimal.NewFromInt(12)).Mul(factor)
}

// Convert renders a base-currency amount in the display currency: round(amount x rate).
// Rounding is half away from zero. A result outside int64 is an error, never a wrapped value.
func (t *Table) Convert(amount decimal.Decimal, code types.Currency) (int64, error) {
	rate, err := t.Rate(code)
	if err != nil {
		return 0, err
	}
	v := amount.Mul(rate).Round(0)
	if !v.BigInt().IsInt64() {
		return 0, errors.Newf(errors.TypePricing, "amount %s %s does not fit a display value", v, code).
			WithContext("currency", string(code))
	}
	return v.IntPart(), nil
}

// ToBase maps a displayed amount back to the base currency through the inverse rate
func (t *Table) ToBase(display int64, code types.Currency) (decimal.Decimal, error) {
	rate, err := t.Rate(code)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromInt(display).DivRound(rate, 8), nil
}

// MustLine is Line that panics on a missing key
func (t *Table) MustLine(id types.ProductLine) *Line {
	l, err := t.Line(id)
	if err != nil {
		panic(err.Error())
	}
	return l
}

// MustRate is Rate that panics on a missing key
func (t *Table) MustRate(code types.Currency) decimal.Decimal {
	r, err := t.Rate(code)
	if err != nil {
		panic(err.Error())
	}
	return r
}

// MustConvert is Convert that panics on a missing currency
func (t *Table) MustConvert(amount decimal.Decimal, code types.Currency) int64 {
	v, err := t.Convert(amount, code)
	if err != nil {
		panic(err.Error())
	}
	return v
}
