// Package pricing - HCL table loader
// Alternate, versioned tables are checked in as HCL and decoded here.
package pricing

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"creative-pricing/core/types"
	"creative-pricing/internal/errors"
	"creative-pricing/internal/logging"
)

// Money attributes decode as strings so a literal like 0.012 keeps its exact
// decimal text. Quoted amounts are accepted too.
type tableHCL struct {
	Version        string        `hcl:"version"`
	BaseCurrency   *string       `hcl:"base_currency,optional"`
	AnnualDiscount *string       `hcl:"annual_discount,optional"`
	Currencies     []currencyHCL `hcl:"currency,block"`
	Lines          []lineHCL     `hcl:"product_line,block"`
}

type currencyHCL struct {
	Code   string  `hcl:"code,label"`
	Rate   string `hcl:"rate"`
	Symbol string  `hcl:"symbol"`
}

type lineHCL struct {
	ID          string           `hcl:"id,label"`
	Name        string           `hcl:"name"`
	Maintenance maintenanceHCL   `hcl:"maintenance,block"`
	Categories  []categoryHCL    `hcl:"category,block"`
	AddOns      []addOnHCL       `hcl:"add_on,block"`
	Options     []optionGroupHCL `hcl:"option_group,block"`
	Plans       []planHCL        `hcl:"plan,block"`
}

type maintenanceHCL struct {
	Flat  *string           `hcl:"flat,optional"`
	Rates map[string]string `hcl:"rates,optional"`
}

type categoryHCL struct {
	ID        string `hcl:"id,label"`
	Name      string `hcl:"name"`
	UnitPrice string `hcl:"unit_price"`
	Max       *int   `hcl:"max,optional"`
}

type addOnHCL struct {
	ID        string `hcl:"id,label"`
	Name      string `hcl:"name"`
	UnitPrice string `hcl:"unit_price"`
	Max       int    `hcl:"max"`
}

type optionGroupHCL struct {
	ID      string      `hcl:"id,label"`
	Name    string      `hcl:"name"`
	Choices []choiceHCL `hcl:"choice,block"`
}

type choiceHCL struct {
	ID    string `hcl:"id,label"`
	Name  string `hcl:"name"`
	Price string `hcl:"price"`
}

type planHCL struct {
	Tier           string            `hcl:"tier,label"`
	Name           string            `hcl:"name"`
	Description    *string           `hcl:"description,optional"`
	MonthlyPrice   string            `hcl:"monthly_price"`
	Included       map[string]int    `hcl:"included,optional"`
	DefaultOptions map[string]string `hcl:"default_options,optional"`
}

// LoadFile reads and decodes an HCL pricing table
func LoadFile(path string) (*Table, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Config(fmt.Sprintf("read pricing table %s", path), err)
	}
	return Parse(src, path)
}

// Parse decodes an HCL pricing table. filename is only used in diagnostics.
func Parse(src []byte, filename string) (*Table, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Config("parse pricing table", diags)
	}

	var doc tableHCL
	if diags := gohcl.DecodeBody(file.Body, nil, &doc); diags.HasErrors() {
		return nil, errors.Config("decode pricing table", diags)
	}

	b, err := doc.builder()
	if err != nil {
		return nil, err
	}
	t, err := b.Build()
	if err != nil {
		return nil, err
	}

	logging.Debug("pricing table loaded",
		zap.String("file", filename),
		zap.String("version", t.Version()),
		zap.String("fingerprint", t.Fingerprint().Short()),
	)
	return t, nil
}

func (doc *tableHCL) builder() (*TableBuilder, error) {
	b := NewTableBuilder(doc.Version)
	if doc.BaseCurrency != nil {
		code, err := types.ParseCurrency(*doc.BaseCurrency)
		if err != nil {
			return nil, errors.Config("base_currency", err)
		}
		b.WithBaseCurrency(code)
	}
	if doc.AnnualDiscount != nil {
		d, err := money("annual_discount", *doc.AnnualDiscount)
		if err != nil {
			return nil, err
		}
		b.WithAnnualDiscount(d)
	}

	for _, c := range doc.Currencies {
		code, err := types.ParseCurrency(c.Code)
		if err != nil {
			return nil, errors.Config("currency block", err)
		}
		rate, err := money(fmt.Sprintf("currency %s rate", code), c.Rate)
		if err != nil {
			return nil, err
		}
		b.AddCurrency(code, rate, c.Symbol)
	}

	for _, l := range doc.Lines {
		lb, err := l.builder()
		if err != nil {
			return nil, err
		}
		b.AddLine(lb)
	}
	return b, nil
}

func (l *lineHCL) builder() (*LineBuilder, error) {
	id, err := types.ParseProductLine(l.ID)
	if err != nil {
		return nil, errors.Config("product_line block", err)
	}
	lb := NewLine(id, l.Name)

	for _, c := range l.Categories {
		max := 0
		if c.Max != nil {
			max = *c.Max
		}
		price, err := money(fmt.Sprintf("%s/%s unit_price", id, c.ID), c.UnitPrice)
		if err != nil {
			return nil, err
		}
		lb.Category(types.Category(c.ID), c.Name, price, max)
	}
	for _, a := range l.AddOns {
		price, err := money(fmt.Sprintf("%s/%s unit_price", id, a.ID), a.UnitPrice)
		if err != nil {
			return nil, err
		}
		lb.AddOn(types.AddOn(a.ID), a.Name, price, a.Max)
	}
	for _, g := range l.Options {
		choices := make([]OptionChoice, 0, len(g.Choices))
		for _, c := range g.Choices {
			price, err := money(fmt.Sprintf("%s/%s/%s price", id, g.ID, c.ID), c.Price)
			if err != nil {
				return nil, err
			}
			choices = append(choices, OptionChoice{ID: c.ID, Name: c.Name, Price: price})
		}
		lb.OptionGroup(types.OptionGroup(g.ID), g.Name, choices...)
	}

	switch {
	case l.Maintenance.Flat != nil && len(l.Maintenance.Rates) > 0:
		return nil, errors.Newf(errors.TypeConfig, "%s: maintenance must set either flat or rates, not both", id)
	case l.Maintenance.Flat != nil:
		flat, err := money(fmt.Sprintf("%s maintenance flat", id), *l.Maintenance.Flat)
		if err != nil {
			return nil, err
		}
		lb.Maintenance(FlatMaintenance(flat))
	default:
		rates := make(map[types.Category]decimal.Decimal, len(l.Maintenance.Rates))
		for k, v := range l.Maintenance.Rates {
			rate, err := money(fmt.Sprintf("%s maintenance %s", id, k), v)
			if err != nil {
				return nil, err
			}
			rates[types.Category(k)] = rate
		}
		lb.Maintenance(PerCategoryMaintenance(rates))
	}

	for _, p := range l.Plans {
		tier, err := types.ParsePlanTier(p.Tier)
		if err != nil {
			return nil, errors.Config(fmt.Sprintf("%s plan block", id), err)
		}
		monthly, err := money(fmt.Sprintf("%s/%s monthly_price", id, tier), p.MonthlyPrice)
		if err != nil {
			return nil, err
		}
		spec := PlanSpec{
			Tier:           tier,
			Name:           p.Name,
			MonthlyPrice:   monthly,
			Included:       make(map[types.Category]int, len(p.Included)),
			DefaultOptions: make(map[types.OptionGroup]string, len(p.DefaultOptions)),
		}
		if p.Description != nil {
			spec.Description = *p.Description
		}
		for k, v := range p.Included {
			spec.Included[types.Category(k)] = v
		}
		for k, v := range p.DefaultOptions {
			spec.DefaultOptions[types.OptionGroup(k)] = v
		}
		lb.Plan(spec)
	}
	return lb, nil
}

func money(field, text string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return decimal.Zero, errors.Config(fmt.Sprintf("%s: not a decimal amount %q", field, text), err)
	}
	return d, nil
}
