package configuration

import (
	"github.com/go-playground/validator/v10"

	"creative-pricing/core/types"
	"creative-pricing/internal/errors"
)

// EventType names a user interaction
type EventType string

const (
	EventSelectPlan       EventType = "select_plan"
	EventSetCategory      EventType = "set_category"
	EventStepCategory     EventType = "step_category"
	EventSetAddOn         EventType = "set_add_on"
	EventSetOption        EventType = "set_option"
	EventSetBillingPeriod EventType = "set_billing_period"
	EventSetCurrency      EventType = "set_currency"
)

// Event is one interaction from a presentation layer.
// Only the fields relevant to Type are read. Count events carry either
// Value (slider) or Text (typed input).
type Event struct {
	Type     EventType `json:"type" validate:"required,oneof=select_plan set_category step_category set_add_on set_option set_billing_period set_currency"`
	Plan     string    `json:"plan,omitempty" validate:"required_if=Type select_plan"`
	Category string    `json:"category,omitempty" validate:"required_if=Type set_category,required_if=Type step_category"`
	AddOn    string    `json:"add_on,omitempty" validate:"required_if=Type set_add_on"`
	Group    string    `json:"group,omitempty" validate:"required_if=Type set_option"`
	Choice   string    `json:"choice,omitempty" validate:"required_if=Type set_option"`
	Value    *int      `json:"value,omitempty"`
	Text     *string   `json:"text,omitempty"`
	Delta    int       `json:"delta,omitempty"`
	Period   string    `json:"period,omitempty" validate:"required_if=Type set_billing_period"`
	Currency string    `json:"currency,omitempty" validate:"required_if=Type set_currency"`
}

// Apply dispatches an event to the matching operation.
// On error the receiver is returned unchanged.
func (c Configuration) Apply(e Event) (Configuration, error) {
	v := validator.New()
	if err := v.Struct(e); err != nil {
		return c, errors.Wrap(errors.TypeInput, "invalid event", err)
	}

	switch e.Type {
	case EventSelectPlan:
		tier, err := types.ParsePlanTier(e.Plan)
		if err != nil {
			return c, err
		}
		return c.SelectPlan(tier)

	case EventSetCategory:
		cat := types.Category(e.Category)
		if e.Text != nil {
			return c.SetCategoryText(cat, *e.Text)
		}
		if e.Value == nil {
			return c, errors.Input("set_category needs value or text")
		}
		return c.SetCategoryCount(cat, *e.Value)

	case EventStepCategory:
		return c.StepCategory(types.Category(e.Category), e.Delta)

	case EventSetAddOn:
		a := types.AddOn(e.AddOn)
		if e.Text != nil {
			return c.SetAddOnText(a, *e.Text)
		}
		if e.Value == nil {
			return c, errors.Input("set_add_on needs value or text")
		}
		return c.SetAddOnCount(a, *e.Value)

	case EventSetOption:
		return c.SetOption(types.OptionGroup(e.Group), e.Choice)

	case EventSetBillingPeriod:
		p, err := types.ParseBillingPeriod(e.Period)
		if err != nil {
			return c, err
		}
		return c.SetBillingPeriod(p), nil

	case EventSetCurrency:
		code, err := types.ParseCurrency(e.Currency)
		if err != nil {
			return c, err
		}
		return c.SetCurrency(code), nil
	}

	return c, errors.NotSupported(string(e.Type))
}
