package cost

import (
	"github.com/shopspring/decimal"

	"creative-pricing/core/determinism"
	"creative-pricing/internal/errors"
)

// Change is one line item that differs between two breakdowns
type Change struct {
	Type   string          `json:"type"` // "added", "removed", "changed"
	Item   string          `json:"item"`
	Before decimal.Decimal `json:"before"`
	After  decimal.Decimal `json:"after"`
	Delta  decimal.Decimal `json:"delta"`
}

// Comparison is head minus base, in the base currency
type Comparison struct {
	FirstPeriodDelta decimal.Decimal `json:"first_period_delta"`
	OngoingDelta     decimal.Decimal `json:"ongoing_delta"`
	Changes          []Change        `json:"changes"`
}

// Compare diffs two breakdowns item by item.
// Both must be priced by the same table.
func Compare(base, head *Breakdown) (*Comparison, error) {
	if base == nil || head == nil {
		return nil, errors.New(errors.TypeInternal, "compare: nil breakdown")
	}
	if base.Fingerprint != head.Fingerprint {
		return nil, errors.Newf(errors.TypeInput, "compare: breakdowns use different pricing tables (%s, %s)", base.TableVersion, head.TableVersion)
	}

	before := base.items()
	after := head.items()

	cmp := &Comparison{
		FirstPeriodDelta: head.FirstPeriodTotal.Sub(base.FirstPeriodTotal),
		OngoingDelta:     head.OngoingTotal.Sub(base.OngoingTotal),
		Changes:          []Change{},
	}

	for _, item := range determinism.SortedKeys(before) {
		b := before[item]
		a, ok := after[item]
		switch {
		case !ok:
			cmp.Changes = append(cmp.Changes, Change{Type: "removed", Item: item, Before: b, After: decimal.Zero, Delta: b.Neg()})
		case !a.Equal(b):
			cmp.Changes = append(cmp.Changes, Change{Type: "changed", Item: item, Before: b, After: a, Delta: a.Sub(b)})
		}
	}
	for _, item := range determinism.SortedKeys(after) {
		if _, ok := before[item]; !ok {
			a := after[item]
			cmp.Changes = append(cmp.Changes, Change{Type: "added", Item: item, Before: decimal.Zero, After: a, Delta: a})
		}
	}
	return cmp, nil
}

// items flattens the non-zero first-period charges of a breakdown
func (b *Breakdown) items() map[string]decimal.Decimal {
	out := map[string]decimal.Decimal{
		"plan/" + string(b.Line) + "/" + string(b.Plan) + "/" + string(b.Period): b.PlanPrice,
	}
	for _, c := range b.Categories {
		if c.AdditionalCost.IsPositive() {
			out["category/"+string(c.Category)] = c.AdditionalCost
		}
	}
	for _, a := range b.AddOns {
		if a.Cost.IsPositive() {
			out["add_on/"+string(a.AddOn)] = a.Cost
		}
	}
	for _, o := range b.Options {
		if o.Price.IsPositive() {
			out["option/"+string(o.Group)+"/"+o.Choice] = o.Price
		}
	}
	return out
}
