// Package pricing - Table validation
// Ensures table integrity before a table is sealed.
package pricing

import (
	stderrors "errors"
	"fmt"

	"creative-pricing/core/types"
)

// ValidationRule is a table validation rule
type ValidationRule func(*Table) []error

// DefaultValidationRules returns the standard validation rules
func DefaultValidationRules() []ValidationRule {
	return []ValidationRule{
		validateCurrencies,
		validateDiscount,
		validateLines,
		validatePlans,
		validateMaintenance,
		validateOptions,
	}
}

// Validate checks a table against validation rules
func (t *Table) Validate(rules []ValidationRule) []error {
	var errs []error
	for _, rule := range rules {
		errs = append(errs, rule(t)...)
	}
	return errs
}

// MustValidate panics if validation fails
func (t *Table) MustValidate() {
	errs := t.Validate(DefaultValidationRules())
	if len(errs) > 0 {
		panic(fmt.Sprintf("pricing table has %d validation errors: %v", len(errs), joinErrors(errs)))
	}
}

// validateCurrencies ensures every currency converts and displays
func validateCurrencies(t *Table) []error {
	var errs []error
	seen := make(map[types.Currency]bool)
	base := false
	for _, c := range t.currencies {
		if seen[c.Code] {
			errs = append(errs, fmt.Errorf("currency %s: declared twice", c.Code))
		}
		seen[c.Code] = true
		if !c.Rate.IsPositive() {
			errs = append(errs, fmt.Errorf("currency %s: rate must be positive, got %s", c.Code, c.Rate))
		}
		if c.Symbol == "" {
			errs = append(errs, fmt.Errorf("currency %s: missing symbol", c.Code))
		}
		if c.Code == t.baseCurrency {
			base = true
			if !c.Rate.Equal(one) {
				errs = append(errs, fmt.Errorf("base currency %s: rate must be 1, got %s", c.Code, c.Rate))
			}
		}
	}
	if !base {
		errs = append(errs, fmt.Errorf("base currency %s is not listed", t.baseCurrency))
	}
	return errs
}

// validateDiscount keeps the annual discount in [0, 1)
func validateDiscount(t *Table) []error {
	if t.annualDiscount.IsNegative() || t.annualDiscount.GreaterThanOrEqual(one) {
		return []error{fmt.Errorf("annual discount must be in [0, 1), got %s", t.annualDiscount)}
	}
	return nil
}

// validateLines checks prices and bounds of categories and add-ons
func validateLines(t *Table) []error {
	var errs []error
	if len(t.lines) == 0 {
		return []error{fmt.Errorf("table has no product lines")}
	}
	for _, l := range t.lines {
		if len(l.plans) == 0 {
			errs = append(errs, fmt.Errorf("%s: no plans", l.ID))
		}
		if len(l.categories) == 0 {
			errs = append(errs, fmt.Errorf("%s: no categories", l.ID))
		}
		for _, c := range l.categories {
			if c.UnitPrice.IsNegative() {
				errs = append(errs, fmt.Errorf("%s/%s: negative unit price", l.ID, c.ID))
			}
			if c.Max < 0 {
				errs = append(errs, fmt.Errorf("%s/%s: negative max", l.ID, c.ID))
			}
		}
		for _, a := range l.addOns {
			if a.UnitPrice.IsNegative() {
				errs = append(errs, fmt.Errorf("%s/%s: negative add-on price", l.ID, a.ID))
			}
			if a.Max < 0 {
				errs = append(errs, fmt.Errorf("%s/%s: negative add-on max", l.ID, a.ID))
			}
		}
	}
	return errs
}

// validatePlans ensures inclusions only name known categories and fit the bounds
func validatePlans(t *Table) []error {
	var errs []error
	for _, l := range t.lines {
		for _, p := range l.plans {
			if p.MonthlyPrice.IsNegative() {
				errs = append(errs, fmt.Errorf("%s/%s: negative monthly price", l.ID, p.Tier))
			}
			for cat, n := range p.included {
				c, err := l.Category(cat)
				if err != nil {
					errs = append(errs, fmt.Errorf("%s/%s: includes unknown category %s", l.ID, p.Tier, cat))
					continue
				}
				if n < 0 {
					errs = append(errs, fmt.Errorf("%s/%s: negative inclusion for %s", l.ID, p.Tier, cat))
				}
				if c.Max > 0 && n > c.Max {
					errs = append(errs, fmt.Errorf("%s/%s: inclusion %d for %s exceeds max %d", l.ID, p.Tier, n, cat, c.Max))
				}
			}
		}
	}
	return errs
}

// validateMaintenance ensures every category has exactly one maintenance rate source
func validateMaintenance(t *Table) []error {
	var errs []error
	for _, l := range t.lines {
		m := l.Maintenance
		if m.flat != nil && len(m.perCategory) > 0 {
			errs = append(errs, fmt.Errorf("%s: maintenance is both flat and per-category", l.ID))
			continue
		}
		if m.flat != nil {
			if m.flat.IsNegative() {
				errs = append(errs, fmt.Errorf("%s: negative maintenance rate", l.ID))
			}
			continue
		}
		for _, c := range l.categories {
			r, ok := m.perCategory[c.ID]
			if !ok {
				errs = append(errs, fmt.Errorf("%s/%s: no maintenance rate", l.ID, c.ID))
				continue
			}
			if r.IsNegative() {
				errs = append(errs, fmt.Errorf("%s/%s: negative maintenance rate", l.ID, c.ID))
			}
		}
		for cat := range m.perCategory {
			if _, err := l.Category(cat); err != nil {
				errs = append(errs, fmt.Errorf("%s: maintenance rate for unknown category %s", l.ID, cat))
			}
		}
	}
	return errs
}

// validateOptions ensures groups have choices and plan defaults resolve
func validateOptions(t *Table) []error {
	var errs []error
	for _, l := range t.lines {
		for _, g := range l.options {
			if len(g.Choices) == 0 {
				errs = append(errs, fmt.Errorf("%s/%s: option group has no choices", l.ID, g.ID))
			}
			for _, c := range g.Choices {
				if c.Price.IsNegative() {
					errs = append(errs, fmt.Errorf("%s/%s=%s: negative price", l.ID, g.ID, c.ID))
				}
			}
		}
		for _, p := range l.plans {
			for group, choice := range p.defaultOptions {
				if _, err := l.OptionChoice(group, choice); err != nil {
					errs = append(errs, fmt.Errorf("%s/%s: default %s=%s does not exist", l.ID, p.Tier, group, choice))
				}
			}
		}
	}
	return errs
}

func joinErrors(errs []error) error {
	return stderrors.Join(errs...)
}
