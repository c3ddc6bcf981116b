// Package configuration holds the user's current pricing selection.
//
// A Configuration is an immutable value. Every operation returns a new
// Configuration and leaves the receiver untouched, so a rejected input
// simply keeps the previous value.
package configuration

import (
	stderrors "errors"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"creative-pricing/core/pricing"
	"creative-pricing/core/types"
	"creative-pricing/internal/errors"
	"creative-pricing/internal/logging"
)

// MaxCount caps any count whose table entry is unbounded (max 0)
const MaxCount = 100000

// Configuration is the selected plan, quantities, billing period and currency
type Configuration struct {
	line     *pricing.Line
	plan     types.PlanTier
	units    map[types.Category]int
	addOns   map[types.AddOn]int
	options  map[types.OptionGroup]string
	period   types.BillingPeriod
	currency types.Currency
}

// New returns the first plan of a product line with its defaults,
// monthly billing and the table's base currency.
func New(table *pricing.Table, line types.ProductLine) (Configuration, error) {
	l, err := table.Line(line)
	if err != nil {
		return Configuration{}, err
	}
	plans := l.Plans()
	if len(plans) == 0 {
		return Configuration{}, errors.NotFound("plan", string(line))
	}

	c := Configuration{
		line:     l,
		period:   types.PeriodMonthly,
		currency: table.BaseCurrency(),
	}
	return c.SelectPlan(plans[0].Tier)
}

// Line returns the product line
func (c Configuration) Line() types.ProductLine {
	if c.line == nil {
		return ""
	}
	return c.line.ID
}

// Plan returns the selected tier
func (c Configuration) Plan() types.PlanTier {
	return c.plan
}

// Period returns the billing period
func (c Configuration) Period() types.BillingPeriod {
	return c.period
}

// Currency returns the display currency
func (c Configuration) Currency() types.Currency {
	return c.currency
}

// Units returns the requested count of a category
func (c Configuration) Units(cat types.Category) int {
	return c.units[cat]
}

// AddOnCount returns the requested quantity of an add-on
func (c Configuration) AddOnCount(a types.AddOn) int {
	return c.addOns[a]
}

// Option returns the selected choice of an option group
func (c Configuration) Option(g types.OptionGroup) string {
	return c.options[g]
}

// SelectPlan switches tier and resets every count and option to that plan's defaults
func (c Configuration) SelectPlan(tier types.PlanTier) (Configuration, error) {
	p, err := c.line.Plan(tier)
	if err != nil {
		return c, err
	}

	next := c
	next.plan = tier
	next.units = make(map[types.Category]int)
	for _, cat := range c.line.Categories() {
		next.units[cat.ID] = p.Included(cat.ID)
	}
	next.addOns = make(map[types.AddOn]int)
	for _, a := range c.line.AddOns() {
		next.addOns[a.ID] = 0
	}
	next.options = make(map[types.OptionGroup]string)
	for _, g := range c.line.OptionGroups() {
		choice, ok := p.DefaultOption(g.ID)
		if !ok {
			choice = g.Choices[0].ID
		}
		next.options[g.ID] = choice
	}

	logging.Debug("plan selected",
		zap.String("line", string(c.line.ID)),
		zap.String("plan", string(tier)),
	)
	return next, nil
}

// Included returns the count of a category bundled into the current plan
func (c Configuration) Included(cat types.Category) int {
	p, err := c.line.Plan(c.plan)
	if err != nil {
		return 0
	}
	return p.Included(cat)
}

// SetCategoryCount sets a category count, clamped up to the plan inclusion
// and down to the category maximum when one is configured.
func (c Configuration) SetCategoryCount(cat types.Category, value int) (Configuration, error) {
	spec, err := c.line.Category(cat)
	if err != nil {
		return c, err
	}

	if min := c.Included(cat); value < min {
		value = min
	}
	if spec.Max > 0 && value > spec.Max {
		value = spec.Max
	}
	if value > MaxCount {
		value = MaxCount
	}

	next := c
	next.units = cloneMap(c.units)
	next.units[cat] = value
	return next, nil
}

// SetCategoryText parses raw text input for a category.
// Anything but a base-10 integer is rejected and the receiver is returned unchanged.
func (c Configuration) SetCategoryText(cat types.Category, text string) (Configuration, error) {
	if _, err := c.line.Category(cat); err != nil {
		return c, err
	}
	value, err := parseCount(text)
	if err != nil {
		logging.Debug("category input rejected",
			zap.String("category", string(cat)),
			zap.String("input", text),
		)
		return c, err.WithContext("category", string(cat))
	}
	return c.SetCategoryCount(cat, value)
}

// StepCategory adds delta to a category count (stepper buttons).
// The sum saturates instead of wrapping.
func (c Configuration) StepCategory(cat types.Category, delta int) (Configuration, error) {
	return c.SetCategoryCount(cat, saturatingAdd(c.units[cat], delta))
}

// SetAddOnCount sets an add-on quantity clamped to [0, max]
func (c Configuration) SetAddOnCount(a types.AddOn, value int) (Configuration, error) {
	spec, err := c.line.AddOn(a)
	if err != nil {
		return c, err
	}

	if value < 0 {
		value = 0
	}
	if value > spec.Max {
		value = spec.Max
	}
	if value > MaxCount {
		value = MaxCount
	}

	next := c
	next.addOns = cloneMap(c.addOns)
	next.addOns[a] = value
	return next, nil
}

// SetAddOnText parses raw text input for an add-on, rejecting non-integers
func (c Configuration) SetAddOnText(a types.AddOn, text string) (Configuration, error) {
	if _, err := c.line.AddOn(a); err != nil {
		return c, err
	}
	value, err := parseCount(text)
	if err != nil {
		logging.Debug("add-on input rejected",
			zap.String("add_on", string(a)),
			zap.String("input", text),
		)
		return c, err.WithContext("add_on", string(a))
	}
	return c.SetAddOnCount(a, value)
}

// SetOption selects a choice within an option group
func (c Configuration) SetOption(g types.OptionGroup, choice string) (Configuration, error) {
	if _, err := c.line.OptionChoice(g, choice); err != nil {
		return c, err
	}
	next := c
	next.options = cloneMap(c.options)
	next.options[g] = choice
	return next, nil
}

// SetBillingPeriod reassigns the billing period
func (c Configuration) SetBillingPeriod(p types.BillingPeriod) Configuration {
	next := c
	next.period = p
	return next
}

// SetCurrency reassigns the display currency
func (c Configuration) SetCurrency(code types.Currency) Configuration {
	next := c
	next.currency = code
	return next
}

func parseCount(text string) (int, *errors.Error) {
	trimmed := strings.TrimSpace(text)
	value, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, errors.Inputf("not an integer: %q", text).WithContext("input", text)
	}
	return value, nil
}

// IsRejectedText reports whether err came from typed input that is not an
// integer. Such input leaves the configuration unchanged and is not a fault.
func IsRejectedText(err error) bool {
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Type != errors.TypeInput {
		return false
	}
	_, ok := e.Context["input"]
	return ok
}

func saturatingAdd(a, b int) int {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return math.MaxInt
	case b < 0 && a < math.MinInt-b:
		return math.MinInt
	}
	return a + b
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
