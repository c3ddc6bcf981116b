package configuration

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creative-pricing/core/pricing"
	"creative-pricing/core/types"
	"creative-pricing/internal/errors"
)

func intp(v int) *int       { return &v }
func strp(s string) *string { return &s }

func TestBuildAppliesSpec(t *testing.T) {
	c, err := Build(pricing.Default(), Spec{
		Line:     "3d",
		Plan:     "pro",
		Period:   "yearly",
		Currency: "usd",
		Units:    map[string]int{"basic": 5, "medium": 0},
		AddOns:   map[string]int{"exploded": 2},
	})
	require.NoError(t, err)

	assert.Equal(t, types.TierPro, c.Plan())
	assert.Equal(t, types.PeriodAnnual, c.Period())
	assert.Equal(t, types.CurrencyUSD, c.Currency())
	assert.Equal(t, 5, c.Units(types.CategoryBasic))
	assert.Equal(t, 3, c.Units(types.CategoryMedium)) // clamped to inclusion
	assert.Equal(t, 2, c.Units(types.CategoryComplex))
	assert.Equal(t, 2, c.AddOnCount(types.AddOnExploded))
}

func TestBuildFoldsEnumCase(t *testing.T) {
	c, err := Build(pricing.Default(), Spec{
		Line:     " 3D ",
		Plan:     "Pro",
		Period:   "Annual",
		Currency: "usd",
	})
	require.NoError(t, err)

	assert.Equal(t, types.Line3D, c.Line())
	assert.Equal(t, types.TierPro, c.Plan())
	assert.Equal(t, types.PeriodAnnual, c.Period())
	assert.Equal(t, types.CurrencyUSD, c.Currency())
}

func TestBuildRejects(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want errors.Type
	}{
		{"missing line", Spec{Plan: "starter"}, errors.TypeInput},
		{"bad plan", Spec{Line: "3d", Plan: "gold"}, errors.TypeInput},
		{"payg is not a period", Spec{Line: "3d", Plan: "starter", Period: "payg"}, errors.TypeInput},
		{"negative units", Spec{Line: "3d", Plan: "starter", Units: map[string]int{"basic": -1}}, errors.TypeInput},
		{"units above ceiling", Spec{Line: "3d", Plan: "starter", Units: map[string]int{"basic": MaxCount + 1}}, errors.TypeInput},
		{"add-ons above ceiling", Spec{Line: "3d", Plan: "starter", AddOns: map[string]int{"exploded": math.MaxInt}}, errors.TypeInput},
		{"vp enterprise", Spec{Line: "vp", Plan: "enterprise"}, errors.TypeNotFound},
		{"unknown currency", Spec{Line: "3d", Plan: "starter", Currency: "JPY"}, errors.TypeNotFound},
		{"unknown category", Spec{Line: "3d", Plan: "starter", Units: map[string]int{"silo": 1}}, errors.TypeNotFound},
		{"unknown option", Spec{Line: "vp", Plan: "starter", Options: map[string]string{"resolution": "16k"}}, errors.TypeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(pricing.Default(), tt.spec)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, tt.want), "expected %s, got %v", tt.want, err)
		})
	}
}

func TestSpecRoundTrip(t *testing.T) {
	table := pricing.Default()
	c, err := Build(table, Spec{
		Line:    "vp",
		Plan:    "pro",
		Period:  "annual",
		Units:   map[string]int{"silo": 20},
		Options: map[string]string{"delivery": "priority"},
	})
	require.NoError(t, err)

	again, err := Build(table, c.Spec())
	require.NoError(t, err)
	assert.Equal(t, c, again)
}

func TestApplyEvents(t *testing.T) {
	c := newStarter(t)

	tests := []struct {
		name  string
		event Event
		check func(t *testing.T, c Configuration)
	}{
		{
			name:  "select plan",
			event: Event{Type: EventSelectPlan, Plan: "pro"},
			check: func(t *testing.T, c Configuration) {
				assert.Equal(t, types.TierPro, c.Plan())
			},
		},
		{
			name:  "slider",
			event: Event{Type: EventSetCategory, Category: "basic", Value: intp(6)},
			check: func(t *testing.T, c Configuration) {
				assert.Equal(t, 6, c.Units(types.CategoryBasic))
			},
		},
		{
			name:  "text",
			event: Event{Type: EventSetCategory, Category: "medium", Text: strp("4")},
			check: func(t *testing.T, c Configuration) {
				assert.Equal(t, 4, c.Units(types.CategoryMedium))
			},
		},
		{
			name:  "stepper",
			event: Event{Type: EventStepCategory, Category: "complex", Delta: 2},
			check: func(t *testing.T, c Configuration) {
				assert.Equal(t, 2, c.Units(types.CategoryComplex))
			},
		},
		{
			name:  "add-on",
			event: Event{Type: EventSetAddOn, AddOn: "animation", Value: intp(3)},
			check: func(t *testing.T, c Configuration) {
				assert.Equal(t, 3, c.AddOnCount(types.AddOnAnimation))
			},
		},
		{
			name:  "period",
			event: Event{Type: EventSetBillingPeriod, Period: "annual"},
			check: func(t *testing.T, c Configuration) {
				assert.Equal(t, types.PeriodAnnual, c.Period())
			},
		},
		{
			name:  "currency",
			event: Event{Type: EventSetCurrency, Currency: "aed"},
			check: func(t *testing.T, c Configuration) {
				assert.Equal(t, types.CurrencyAED, c.Currency())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := c.Apply(tt.event)
			require.NoError(t, err)
			tt.check(t, next)
		})
	}
}

func TestApplyRejectsMalformedEvents(t *testing.T) {
	c := newStarter(t)

	tests := []struct {
		name  string
		event Event
	}{
		{"unknown type", Event{Type: "reset"}},
		{"select plan without plan", Event{Type: EventSelectPlan}},
		{"set category without value", Event{Type: EventSetCategory, Category: "basic"}},
		{"set option without choice", Event{Type: EventSetOption, Group: "resolution"}},
		{"non-numeric text", Event{Type: EventSetCategory, Category: "basic", Text: strp("lots")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := c.Apply(tt.event)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.TypeInput), "got %v", err)
			assert.Equal(t, c, next)
		})
	}
}
