package configuration

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"creative-pricing/core/determinism"
	"creative-pricing/core/pricing"
	"creative-pricing/core/types"
	"creative-pricing/internal/errors"
)

// Spec is the serialisable form of a Configuration.
// Counts below the plan inclusion or above a maximum are clamped by Build.
type Spec struct {
	Line     string            `json:"line" mapstructure:"line" validate:"required,oneof=3d vp"`
	Plan     string            `json:"plan" mapstructure:"plan" validate:"required,oneof=starter pro enterprise"`
	Period   string            `json:"period,omitempty" mapstructure:"period" validate:"omitempty,oneof=monthly annual yearly"`
	Currency string            `json:"currency,omitempty" mapstructure:"currency" validate:"omitempty,len=3,alpha"`
	Units    map[string]int    `json:"units,omitempty" mapstructure:"units" validate:"omitempty,dive,keys,required,endkeys,gte=0,lte=100000"`
	AddOns   map[string]int    `json:"add_ons,omitempty" mapstructure:"add_ons" validate:"omitempty,dive,keys,required,endkeys,gte=0,lte=100000"`
	Options  map[string]string `json:"options,omitempty" mapstructure:"options" validate:"omitempty,dive,keys,required,endkeys,required"`
}

// Validate checks the struct tags
func (s *Spec) Validate() error {
	v := validator.New()

	if err := v.Struct(s); err != nil {
		return errors.Wrap(errors.TypeInput, "invalid configuration", err)
	}
	return nil
}

// normalize folds case and whitespace of the enum fields so that "Pro" or
// " 3D " validate the same way the Parse functions read them.
func (s *Spec) normalize() {
	s.Line = strings.ToLower(strings.TrimSpace(s.Line))
	s.Plan = strings.ToLower(strings.TrimSpace(s.Plan))
	s.Period = strings.ToLower(strings.TrimSpace(s.Period))
	s.Currency = strings.ToUpper(strings.TrimSpace(s.Currency))
}

// Build applies a Spec on top of the plan defaults
func Build(table *pricing.Table, s Spec) (Configuration, error) {
	s.normalize()
	if err := s.Validate(); err != nil {
		return Configuration{}, err
	}

	line, err := types.ParseProductLine(s.Line)
	if err != nil {
		return Configuration{}, err
	}
	tier, err := types.ParsePlanTier(s.Plan)
	if err != nil {
		return Configuration{}, err
	}

	c, err := New(table, line)
	if err != nil {
		return Configuration{}, err
	}
	if c, err = c.SelectPlan(tier); err != nil {
		return Configuration{}, err
	}

	if s.Period != "" {
		p, err := types.ParseBillingPeriod(s.Period)
		if err != nil {
			return Configuration{}, err
		}
		c = c.SetBillingPeriod(p)
	}
	if s.Currency != "" {
		code, err := types.ParseCurrency(s.Currency)
		if err != nil {
			return Configuration{}, err
		}
		if _, err := table.Currency(code); err != nil {
			return Configuration{}, err
		}
		c = c.SetCurrency(code)
	}

	for _, k := range determinism.SortedKeys(s.Units) {
		if c, err = c.SetCategoryCount(types.Category(k), s.Units[k]); err != nil {
			return Configuration{}, err
		}
	}
	for _, k := range determinism.SortedKeys(s.AddOns) {
		if c, err = c.SetAddOnCount(types.AddOn(k), s.AddOns[k]); err != nil {
			return Configuration{}, err
		}
	}
	for _, k := range determinism.SortedKeys(s.Options) {
		if c, err = c.SetOption(types.OptionGroup(k), s.Options[k]); err != nil {
			return Configuration{}, err
		}
	}
	return c, nil
}

// Spec returns the serialisable form of the configuration.
// Build(table, c.Spec()) yields an equal Configuration.
func (c Configuration) Spec() Spec {
	s := Spec{
		Line:     string(c.Line()),
		Plan:     string(c.plan),
		Period:   string(c.period),
		Currency: string(c.currency),
		Units:    make(map[string]int, len(c.units)),
	}
	for k, v := range c.units {
		s.Units[string(k)] = v
	}
	if len(c.addOns) > 0 {
		s.AddOns = make(map[string]int, len(c.addOns))
		for k, v := range c.addOns {
			s.AddOns[string(k)] = v
		}
	}
	if len(c.options) > 0 {
		s.Options = make(map[string]string, len(c.options))
		for k, v := range c.options {
			s.Options[string(k)] = v
		}
	}
	return s
}
