// Package cost turns a Configuration into a structured cost breakdown.
// Compute is a pure function of the configuration and the pricing table.
package cost

import (
	stderrors "errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"creative-pricing/core/configuration"
	"creative-pricing/core/pricing"
	"creative-pricing/internal/errors"
	"creative-pricing/internal/logging"
)

var twelve = decimal.NewFromInt(12)

// Compute prices a configuration against a table.
// A missing table key is a PRICING_ERROR wrapping the lookup error.
func Compute(cfg configuration.Configuration, table *pricing.Table) (*Breakdown, error) {
	if table == nil {
		return nil, errors.New(errors.TypeInternal, "nil pricing table")
	}

	line, err := table.Line(cfg.Line())
	if err != nil {
		return nil, lookupFailed(err)
	}
	plan, err := line.Plan(cfg.Plan())
	if err != nil {
		return nil, lookupFailed(err)
	}
	if !cfg.Period().IsValid() {
		return nil, lookupFailed(errors.NotFound("billing period", string(cfg.Period())))
	}
	if _, err := table.Currency(cfg.Currency()); err != nil {
		return nil, lookupFailed(err)
	}

	b := newBreakdown()
	b.Line = line.ID
	b.Plan = plan.Tier
	b.PlanName = plan.Name
	b.Period = cfg.Period()
	b.Currency = cfg.Currency()
	b.TableVersion = table.Version()
	b.Fingerprint = table.Fingerprint().Hex()

	for _, cat := range line.Categories() {
		rate, err := line.MaintenanceRate(cat.ID)
		if err != nil {
			return nil, lookupFailed(err)
		}

		requested := cfg.Units(cat.ID)
		included := plan.Included(cat.ID)
		additional := requested - included
		if additional < 0 {
			additional = 0
		}

		b.addCategory(CategoryLine{
			Category:        cat.ID,
			Name:            cat.Name,
			Requested:       requested,
			Included:        included,
			Additional:      additional,
			UnitPrice:       cat.UnitPrice,
			AdditionalCost:  cat.UnitPrice.Mul(decimal.NewFromInt(int64(additional))),
			MaintenanceRate: rate,
			Maintenance:     rate.Mul(decimal.NewFromInt(int64(requested))),
		})
	}

	for _, a := range line.AddOns() {
		qty := cfg.AddOnCount(a.ID)
		b.addAddOn(AddOnLine{
			AddOn:     a.ID,
			Name:      a.Name,
			Quantity:  qty,
			UnitPrice: a.UnitPrice,
			Cost:      a.UnitPrice.Mul(decimal.NewFromInt(int64(qty))),
		})
	}

	for _, g := range line.OptionGroups() {
		choice, err := line.OptionChoice(g.ID, cfg.Option(g.ID))
		if err != nil {
			return nil, lookupFailed(err)
		}
		b.addOption(OptionLine{
			Group:      g.ID,
			GroupName:  g.Name,
			Choice:     choice.ID,
			ChoiceName: choice.Name,
			Price:      choice.Price,
		})
	}

	b.PlanPrice, err = table.BasePrice(line.ID, plan.Tier, cfg.Period())
	if err != nil {
		return nil, lookupFailed(err)
	}
	b.FirstPeriodTotal = b.PlanPrice.Add(b.OneTimeTotal())
	b.OngoingTotal = b.MonthlyMaintenance.Mul(decimal.NewFromInt(cfg.Period().Months()))
	if cfg.Period().Months() == 12 {
		b.AnnualSavings = plan.MonthlyPrice.Mul(twelve).Sub(b.PlanPrice)
	}

	if errs := CheckInvariants(b); len(errs) > 0 {
		logging.Error("breakdown invariants violated", zap.Errors("violations", errs))
		return nil, errors.Internal("breakdown invariants", stderrors.Join(errs...))
	}

	logging.Debug("breakdown computed",
		zap.String("line", string(b.Line)),
		zap.String("plan", string(b.Plan)),
		zap.String("period", string(b.Period)),
		zap.String("first", b.FirstPeriodTotal.String()),
		zap.String("ongoing", b.OngoingTotal.String()),
	)
	return b, nil
}

// MustCompute is Compute that panics on a pricing error
func MustCompute(cfg configuration.Configuration, table *pricing.Table) *Breakdown {
	b, err := Compute(cfg, table)
	if err != nil {
		panic(err.Error())
	}
	return b
}

func lookupFailed(err error) error {
	logging.Error("pricing lookup failed", zap.Error(err))
	return errors.Pricing("pricing lookup failed", err)
}
