// Package cost - Cost breakdown
// CategoryLine / AddOnLine / OptionLine (atomic) → Breakdown (aggregates).
// Amounts stay in the base currency and are never rounded here.
package cost

import (
	"github.com/shopspring/decimal"

	"creative-pricing/core/types"
)

// CategoryLine is the cost of one category
type CategoryLine struct {
	Category types.Category `json:"category"`
	Name     string         `json:"name"`

	Requested  int `json:"requested"`
	Included   int `json:"included"`
	Additional int `json:"additional"`

	UnitPrice      decimal.Decimal `json:"unit_price"`
	AdditionalCost decimal.Decimal `json:"additional_cost"`

	// Monthly maintenance is charged on every requested unit, included or not
	MaintenanceRate decimal.Decimal `json:"maintenance_rate"`
	Maintenance     decimal.Decimal `json:"maintenance"`
}

// AddOnLine is the cost of one add-on
type AddOnLine struct {
	AddOn     types.AddOn     `json:"add_on"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Cost      decimal.Decimal `json:"cost"`
}

// OptionLine is the selected choice of an option group
type OptionLine struct {
	Group      types.OptionGroup `json:"group"`
	GroupName  string            `json:"group_name"`
	Choice     string            `json:"choice"`
	ChoiceName string            `json:"choice_name"`
	Price      decimal.Decimal   `json:"price"`
}

// Breakdown is the structured cost of a Configuration
type Breakdown struct {
	// Identity
	Line     types.ProductLine   `json:"line"`
	Plan     types.PlanTier      `json:"plan"`
	PlanName string              `json:"plan_name"`
	Period   types.BillingPeriod `json:"period"`
	Currency types.Currency      `json:"currency"`

	// Table that priced it
	TableVersion string `json:"table_version"`
	Fingerprint  string `json:"fingerprint"`

	Categories []CategoryLine `json:"categories"`
	AddOns     []AddOnLine    `json:"add_ons,omitempty"`
	Options    []OptionLine   `json:"options,omitempty"`

	// Aggregates
	PlanPrice          decimal.Decimal `json:"plan_price"`
	AnnualSavings      decimal.Decimal `json:"annual_savings"`
	AdditionalTotal    decimal.Decimal `json:"additional_total"`
	AddOnTotal         decimal.Decimal `json:"add_on_total"`
	OptionTotal        decimal.Decimal `json:"option_total"`
	MonthlyMaintenance decimal.Decimal `json:"monthly_maintenance"`

	// FirstPeriodTotal is due at sign-up: plan price plus every one-time charge
	FirstPeriodTotal decimal.Decimal `json:"first_period_total"`

	// OngoingTotal is the recurring maintenance for one billing period
	OngoingTotal decimal.Decimal `json:"ongoing_total"`
}

func newBreakdown() *Breakdown {
	return &Breakdown{
		Categories:         []CategoryLine{},
		PlanPrice:          decimal.Zero,
		AnnualSavings:      decimal.Zero,
		AdditionalTotal:    decimal.Zero,
		AddOnTotal:         decimal.Zero,
		OptionTotal:        decimal.Zero,
		MonthlyMaintenance: decimal.Zero,
		FirstPeriodTotal:   decimal.Zero,
		OngoingTotal:       decimal.Zero,
	}
}

// addCategory appends a category line and updates aggregates
func (b *Breakdown) addCategory(l CategoryLine) {
	b.Categories = append(b.Categories, l)
	b.AdditionalTotal = b.AdditionalTotal.Add(l.AdditionalCost)
	b.MonthlyMaintenance = b.MonthlyMaintenance.Add(l.Maintenance)
}

// addAddOn appends an add-on line and updates aggregates
func (b *Breakdown) addAddOn(l AddOnLine) {
	b.AddOns = append(b.AddOns, l)
	b.AddOnTotal = b.AddOnTotal.Add(l.Cost)
}

// addOption appends an option line and updates aggregates
func (b *Breakdown) addOption(l OptionLine) {
	b.Options = append(b.Options, l)
	b.OptionTotal = b.OptionTotal.Add(l.Price)
}

// OneTimeTotal is the sum of charges billed once: additional units, add-ons and options
func (b *Breakdown) OneTimeTotal() decimal.Decimal {
	return b.AdditionalTotal.Add(b.AddOnTotal).Add(b.OptionTotal)
}

// Category returns the line of one category
func (b *Breakdown) Category(c types.Category) (CategoryLine, bool) {
	for _, l := range b.Categories {
		if l.Category == c {
			return l, true
		}
	}
	return CategoryLine{}, false
}
