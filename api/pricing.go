package api

import (
	"github.com/shopspring/decimal"

	"creative-pricing/core/cost"
	"creative-pricing/core/pricing"
	"creative-pricing/core/types"
	"creative-pricing/internal/errors"
)

// summarize renders the whole table in one display currency
func summarize(table *pricing.Table, code types.Currency) (*PricingResponse, error) {
	info, err := table.Currency(code)
	if err != nil {
		return nil, err
	}

	amount := func(v decimal.Decimal) (cost.Amount, error) {
		n, err := table.Convert(v, code)
		if err != nil {
			return cost.Amount{}, errors.Pricing("convert", err)
		}
		return cost.Amount{Value: n, Display: cost.FormatAmount(info.Symbol, n)}, nil
	}

	resp := &PricingResponse{
		Version:        table.Version(),
		Fingerprint:    table.Fingerprint().Short(),
		Currency:       string(code),
		Symbol:         info.Symbol,
		AnnualDiscount: table.AnnualDiscount().String(),
	}
	for _, c := range table.Currencies() {
		resp.Currencies = append(resp.Currencies, CurrencyView{
			Code:   string(c.Code),
			Symbol: c.Symbol,
			Rate:   c.Rate.String(),
		})
	}

	for _, line := range table.Lines() {
		view := LineView{ID: string(line.ID), Name: line.Name}

		for _, p := range line.Plans() {
			monthly, err := amount(p.MonthlyPrice)
			if err != nil {
				return nil, err
			}
			annualBase, err := table.BasePrice(line.ID, p.Tier, types.PeriodAnnual)
			if err != nil {
				return nil, errors.Pricing("annual price", err)
			}
			annual, err := amount(annualBase)
			if err != nil {
				return nil, err
			}

			pv := PlanView{
				Tier:        string(p.Tier),
				Name:        p.Name,
				Description: p.Description,
				Monthly:     monthly,
				Annual:      annual,
				Included:    map[string]int{},
			}
			for cat, n := range p.IncludedUnits() {
				pv.Included[string(cat)] = n
			}
			for _, g := range line.OptionGroups() {
				if choice, ok := p.DefaultOption(g.ID); ok {
					if pv.DefaultOptions == nil {
						pv.DefaultOptions = map[string]string{}
					}
					pv.DefaultOptions[string(g.ID)] = choice
				}
			}
			view.Plans = append(view.Plans, pv)
		}

		for _, c := range line.Categories() {
			unit, err := amount(c.UnitPrice)
			if err != nil {
				return nil, err
			}
			rate, err := line.MaintenanceRate(c.ID)
			if err != nil {
				return nil, errors.Pricing("maintenance rate", err)
			}
			maint, err := amount(rate)
			if err != nil {
				return nil, err
			}
			view.Categories = append(view.Categories, CategoryView{
				ID:              string(c.ID),
				Name:            c.Name,
				UnitPrice:       unit,
				MaintenanceRate: maint,
				Max:             c.Max,
			})
		}

		for _, a := range line.AddOns() {
			unit, err := amount(a.UnitPrice)
			if err != nil {
				return nil, err
			}
			view.AddOns = append(view.AddOns, AddOnView{ID: string(a.ID), Name: a.Name, UnitPrice: unit, Max: a.Max})
		}

		for _, g := range line.OptionGroups() {
			gv := OptionGroupView{ID: string(g.ID), Name: g.Name}
			for _, ch := range g.Choices {
				price, err := amount(ch.Price)
				if err != nil {
					return nil, err
				}
				gv.Choices = append(gv.Choices, ChoiceView{ID: ch.ID, Name: ch.Name, Price: price})
			}
			view.Options = append(view.Options, gv)
		}

		resp.Lines = append(resp.Lines, view)
	}
	return resp, nil
}
