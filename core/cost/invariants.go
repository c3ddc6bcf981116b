// Package cost - Breakdown invariants
// Every breakdown leaving Compute is re-derived from its own lines.
// A mismatch is a calculator bug, never a user error.
package cost

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InvariantViolation represents a detected invariant violation
type InvariantViolation struct {
	Invariant string
	Item      string
	Details   string
}

func (v *InvariantViolation) Error() string {
	return fmt.Sprintf("INVARIANT VIOLATED [%s] at %s: %s", v.Invariant, v.Item, v.Details)
}

// CheckInvariants verifies the arithmetic of a breakdown and returns every violation
func CheckInvariants(b *Breakdown) []error {
	if b == nil {
		return []error{&InvariantViolation{Invariant: "BREAKDOWN_EXISTS", Item: "breakdown", Details: "breakdown is nil"}}
	}

	var errs []error
	fail := func(invariant, item string, format string, args ...interface{}) {
		errs = append(errs, &InvariantViolation{Invariant: invariant, Item: item, Details: fmt.Sprintf(format, args...)})
	}

	additional := decimal.Zero
	maintenance := decimal.Zero
	for _, c := range b.Categories {
		item := "category/" + string(c.Category)
		want := c.Requested - c.Included
		if want < 0 {
			want = 0
		}
		if c.Additional != want {
			fail("ADDITIONAL_UNITS", item, "additional %d, want max(0, %d-%d)=%d", c.Additional, c.Requested, c.Included, want)
		}
		if cost := c.UnitPrice.Mul(decimal.NewFromInt(int64(c.Additional))); !cost.Equal(c.AdditionalCost) {
			fail("ADDITIONAL_COST", item, "cost %s, want %s", c.AdditionalCost, cost)
		}
		if m := c.MaintenanceRate.Mul(decimal.NewFromInt(int64(c.Requested))); !m.Equal(c.Maintenance) {
			fail("MAINTENANCE", item, "maintenance %s, want %s", c.Maintenance, m)
		}
		additional = additional.Add(c.AdditionalCost)
		maintenance = maintenance.Add(c.Maintenance)
	}

	addOns := decimal.Zero
	for _, a := range b.AddOns {
		if a.Quantity < 0 {
			fail("ADD_ON_QUANTITY", "add_on/"+string(a.AddOn), "negative quantity %d", a.Quantity)
		}
		addOns = addOns.Add(a.Cost)
	}

	options := decimal.Zero
	for _, o := range b.Options {
		options = options.Add(o.Price)
	}

	checkSum := func(invariant string, got, want decimal.Decimal) {
		if !got.Equal(want) {
			fail(invariant, "totals", "%s, want %s", got, want)
		}
	}
	checkSum("ADDITIONAL_TOTAL", b.AdditionalTotal, additional)
	checkSum("ADD_ON_TOTAL", b.AddOnTotal, addOns)
	checkSum("OPTION_TOTAL", b.OptionTotal, options)
	checkSum("MONTHLY_MAINTENANCE", b.MonthlyMaintenance, maintenance)
	checkSum("FIRST_PERIOD_TOTAL", b.FirstPeriodTotal, b.PlanPrice.Add(additional).Add(addOns).Add(options))
	checkSum("ONGOING_TOTAL", b.OngoingTotal, maintenance.Mul(decimal.NewFromInt(b.Period.Months())))

	if b.PlanPrice.IsNegative() || b.AnnualSavings.IsNegative() {
		fail("NON_NEGATIVE", "plan", "plan price %s, savings %s", b.PlanPrice, b.AnnualSavings)
	}
	return errs
}
