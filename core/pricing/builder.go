package pricing

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"creative-pricing/core/determinism"
	"creative-pricing/core/types"
	"creative-pricing/internal/errors"
)

// TableBuilder assembles a Table. Build validates and seals it.
type TableBuilder struct {
	version        string
	baseCurrency   types.Currency
	annualDiscount decimal.Decimal
	currencies     []CurrencyInfo
	lines          []*LineBuilder
}

// NewTableBuilder creates a builder with INR as base currency and no discount
func NewTableBuilder(version string) *TableBuilder {
	return &TableBuilder{
		version:      version,
		baseCurrency: types.CurrencyINR,
	}
}

// WithBaseCurrency sets the currency every amount is expressed in
func (b *TableBuilder) WithBaseCurrency(c types.Currency) *TableBuilder {
	b.baseCurrency = c
	return b
}

// WithAnnualDiscount sets the annual billing discount (0.15 = 15%)
func (b *TableBuilder) WithAnnualDiscount(d decimal.Decimal) *TableBuilder {
	b.annualDiscount = d
	return b
}

// AddCurrency registers a display currency
func (b *TableBuilder) AddCurrency(code types.Currency, rate decimal.Decimal, symbol string) *TableBuilder {
	b.currencies = append(b.currencies, CurrencyInfo{Code: code, Rate: rate, Symbol: symbol})
	return b
}

// AddLine registers a product line
func (b *TableBuilder) AddLine(l *LineBuilder) *TableBuilder {
	b.lines = append(b.lines, l)
	return b
}

// Build validates the assembled table and seals it
func (b *TableBuilder) Build() (*Table, error) {
	t := &Table{
		version:        b.version,
		baseCurrency:   b.baseCurrency,
		annualDiscount: b.annualDiscount,
		currencies:     append([]CurrencyInfo(nil), b.currencies...),
	}
	for _, lb := range b.lines {
		t.lines = append(t.lines, lb.build())
	}

	if errs := t.Validate(DefaultValidationRules()); len(errs) > 0 {
		return nil, errors.Config("invalid pricing table", joinErrors(errs))
	}

	hash, err := determinism.HashJSON(t.document())
	if err != nil {
		return nil, errors.Internal("fingerprint pricing table", err)
	}
	t.fingerprint = hash
	return t, nil
}

// MustBuild is Build that panics on an invalid table
func (b *TableBuilder) MustBuild() *Table {
	t, err := b.Build()
	if err != nil {
		panic(err.Error())
	}
	return t
}

// LineBuilder assembles one product line
type LineBuilder struct {
	line Line
}

// NewLine starts a product line
func NewLine(id types.ProductLine, name string) *LineBuilder {
	return &LineBuilder{line: Line{ID: id, Name: name}}
}

// Category adds a unit category
func (b *LineBuilder) Category(id types.Category, name string, unitPrice decimal.Decimal, max int) *LineBuilder {
	b.line.categories = append(b.line.categories, Category{ID: id, Name: name, UnitPrice: unitPrice, Max: max})
	return b
}

// AddOn adds a per-quantity extra
func (b *LineBuilder) AddOn(id types.AddOn, name string, unitPrice decimal.Decimal, max int) *LineBuilder {
	b.line.addOns = append(b.line.addOns, AddOn{ID: id, Name: name, UnitPrice: unitPrice, Max: max})
	return b
}

// OptionGroup adds a single-choice upgrade group
func (b *LineBuilder) OptionGroup(id types.OptionGroup, name string, choices ...OptionChoice) *LineBuilder {
	b.line.options = append(b.line.options, OptionGroup{ID: id, Name: name, Choices: append([]OptionChoice(nil), choices...)})
	return b
}

// PlanSpec describes a plan for LineBuilder.Plan
type PlanSpec struct {
	Tier           types.PlanTier
	Name           string
	Description    string
	MonthlyPrice   decimal.Decimal
	Included       map[types.Category]int
	DefaultOptions map[types.OptionGroup]string
}

// Plan adds a tier
func (b *LineBuilder) Plan(spec PlanSpec) *LineBuilder {
	p := Plan{
		Tier:           spec.Tier,
		Name:           spec.Name,
		Description:    spec.Description,
		MonthlyPrice:   spec.MonthlyPrice,
		included:       make(map[types.Category]int, len(spec.Included)),
		defaultOptions: make(map[types.OptionGroup]string, len(spec.DefaultOptions)),
	}
	for k, v := range spec.Included {
		p.included[k] = v
	}
	for k, v := range spec.DefaultOptions {
		p.defaultOptions[k] = v
	}
	b.line.plans = append(b.line.plans, p)
	return b
}

// Maintenance sets the recurring maintenance schedule
func (b *LineBuilder) Maintenance(m MaintenanceSchedule) *LineBuilder {
	b.line.Maintenance = m
	return b
}

func (b *LineBuilder) build() *Line {
	l := b.line
	l.plans = append([]Plan(nil), b.line.plans...)
	l.categories = append([]Category(nil), b.line.categories...)
	l.addOns = append([]AddOn(nil), b.line.addOns...)
	l.options = append([]OptionGroup(nil), b.line.options...)
	return &l
}

// Choice is a convenience constructor for OptionChoice
func Choice(id, name string, price int64) OptionChoice {
	return OptionChoice{ID: id, Name: name, Price: decimal.NewFromInt(price)}
}

// tableDocument is the canonical form hashed into the fingerprint
type tableDocument struct {
	Version        string         `json:"version"`
	BaseCurrency   types.Currency `json:"base_currency"`
	AnnualDiscount string         `json:"annual_discount"`
	Currencies     []CurrencyInfo `json:"currencies"`
	Lines          []lineDocument `json:"lines"`
}

type lineDocument struct {
	ID              types.ProductLine         `json:"id"`
	Name            string                    `json:"name"`
	MaintenanceFlat string                    `json:"maintenance_flat,omitempty"`
	MaintenanceBy   map[types.Category]string `json:"maintenance_by_category,omitempty"`
	Categories      []Category                `json:"categories"`
	AddOns          []AddOn                   `json:"add_ons"`
	Options         []OptionGroup             `json:"options"`
	Plans           []planDocument            `json:"plans"`
}

type planDocument struct {
	Plan
	Included       map[types.Category]int       `json:"included"`
	DefaultOptions map[types.OptionGroup]string `json:"default_options,omitempty"`
}

// MarshalJSON writes the canonical document the fingerprint is computed over
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.document())
}

func (t *Table) document() tableDocument {
	doc := tableDocument{
		Version:        t.version,
		BaseCurrency:   t.baseCurrency,
		AnnualDiscount: t.annualDiscount.String(),
		Currencies:     t.currencies,
	}
	for _, l := range t.lines {
		ld := lineDocument{
			ID:         l.ID,
			Name:       l.Name,
			Categories: l.categories,
			AddOns:     l.addOns,
			Options:    l.options,
		}
		if l.Maintenance.flat != nil {
			ld.MaintenanceFlat = l.Maintenance.flat.String()
		} else {
			ld.MaintenanceBy = make(map[types.Category]string, len(l.Maintenance.perCategory))
			for k, v := range l.Maintenance.perCategory {
				ld.MaintenanceBy[k] = v.String()
			}
		}
		for _, p := range l.plans {
			ld.Plans = append(ld.Plans, planDocument{Plan: p, Included: p.included, DefaultOptions: p.defaultOptions})
		}
		doc.Lines = append(doc.Lines, ld)
	}
	return doc
}
