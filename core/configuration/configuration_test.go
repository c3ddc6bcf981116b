package configuration

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"creative-pricing/core/pricing"
	"creative-pricing/core/types"
	"creative-pricing/internal/errors"
	"creative-pricing/internal/logging"
)

func newStarter(t *testing.T) Configuration {
	t.Helper()
	c, err := New(pricing.Default(), types.Line3D)
	require.NoError(t, err)
	return c
}

func TestNewUsesFirstPlanDefaults(t *testing.T) {
	c := newStarter(t)

	assert.Equal(t, types.Line3D, c.Line())
	assert.Equal(t, types.TierStarter, c.Plan())
	assert.Equal(t, types.PeriodMonthly, c.Period())
	assert.Equal(t, types.CurrencyINR, c.Currency())
	assert.Equal(t, 2, c.Units(types.CategoryBasic))
	assert.Equal(t, 2, c.Units(types.CategoryMedium))
	assert.Equal(t, 0, c.Units(types.CategoryComplex))
	assert.Equal(t, 0, c.AddOnCount(types.AddOnExploded))
}

func TestNewUnknownLine(t *testing.T) {
	_, err := New(pricing.Default(), "video")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeNotFound))
}

func TestSelectPlanResetsEverything(t *testing.T) {
	c := newStarter(t)
	c, _ = c.SetCategoryCount(types.CategoryBasic, 10)
	c, _ = c.SetAddOnCount(types.AddOnAnimation, 4)

	c, err := c.SelectPlan(types.TierPro)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Units(types.CategoryBasic))
	assert.Equal(t, 3, c.Units(types.CategoryMedium))
	assert.Equal(t, 2, c.Units(types.CategoryComplex))
	assert.Equal(t, 0, c.AddOnCount(types.AddOnAnimation))

	// enterprise includes nothing
	c, err = c.SelectPlan(types.TierEnterprise)
	require.NoError(t, err)
	for _, cat := range []types.Category{types.CategoryBasic, types.CategoryMedium, types.CategoryComplex} {
		assert.Equal(t, 0, c.Units(cat), cat)
	}
}

func TestSelectPlanAppliesOptionDefaults(t *testing.T) {
	c, err := New(pricing.Default(), types.LineVP)
	require.NoError(t, err)
	assert.Equal(t, "4k", c.Option(types.OptionResolution))
	assert.Equal(t, "standard", c.Option(types.OptionRetouching))

	c, err = c.SetOption(types.OptionDelivery, "priority")
	require.NoError(t, err)

	c, err = c.SelectPlan(types.TierPro)
	require.NoError(t, err)
	assert.Equal(t, "8k", c.Option(types.OptionResolution))
	assert.Equal(t, "advanced", c.Option(types.OptionRetouching))
	assert.Equal(t, "express", c.Option(types.OptionDelivery))
}

func TestSelectPlanNotOffered(t *testing.T) {
	c, err := New(pricing.Default(), types.LineVP)
	require.NoError(t, err)

	next, err := c.SelectPlan(types.TierEnterprise)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeNotFound))
	assert.Equal(t, c, next)
}

func TestSetCategoryCountClamps(t *testing.T) {
	tests := []struct {
		name  string
		line  types.ProductLine
		cat   types.Category
		value int
		want  int
	}{
		{"below inclusion", types.Line3D, types.CategoryBasic, 0, 2},
		{"negative", types.Line3D, types.CategoryMedium, -5, 2},
		{"at inclusion", types.Line3D, types.CategoryBasic, 2, 2},
		{"above inclusion", types.Line3D, types.CategoryBasic, 7, 7},
		{"above 3d max", types.Line3D, types.CategoryComplex, 5000, 1000},
		{"max int", types.Line3D, types.CategoryBasic, math.MaxInt, 1000},
		{"above max", types.LineVP, types.CategorySilo, 250, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(pricing.Default(), tt.line)
			require.NoError(t, err)

			c, err = c.SetCategoryCount(tt.cat, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Units(tt.cat))
			assert.GreaterOrEqual(t, c.Units(tt.cat), c.Included(tt.cat))
		})
	}
}

func TestSetCategoryCountDoesNotMutateReceiver(t *testing.T) {
	c := newStarter(t)
	next, err := c.SetCategoryCount(types.CategoryBasic, 9)
	require.NoError(t, err)

	assert.Equal(t, 2, c.Units(types.CategoryBasic))
	assert.Equal(t, 9, next.Units(types.CategoryBasic))
}

func TestSetCategoryCountUnknownCategory(t *testing.T) {
	c := newStarter(t)
	_, err := c.SetCategoryCount(types.CategorySilo, 3)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeNotFound))
}

func TestSetCategoryTextRejectsNonNumeric(t *testing.T) {
	c := newStarter(t)
	c, err := c.SetCategoryCount(types.CategoryBasic, 5)
	require.NoError(t, err)

	for _, text := range []string{"abc", "", "3.5", "1e3", "5 units"} {
		t.Run(text, func(t *testing.T) {
			next, err := c.SetCategoryText(types.CategoryBasic, text)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.TypeInput))
			assert.True(t, IsRejectedText(err))
			assert.Equal(t, 5, next.Units(types.CategoryBasic))
		})
	}

	next, err := c.SetCategoryText(types.CategoryBasic, " 12 ")
	require.NoError(t, err)
	assert.Equal(t, 12, next.Units(types.CategoryBasic))
}

func TestRejectedTextIsLoggedAtDebug(t *testing.T) {
	c := newStarter(t)

	core, logs := observer.New(zapcore.DebugLevel)
	defer logging.Replace(zap.New(core))()

	_, err := c.SetCategoryText(types.CategoryBasic, "lots")
	require.Error(t, err)
	_, err = c.SetAddOnText(types.AddOnExploded, "1.5")
	require.Error(t, err)

	rejected := logs.FilterLevelExact(zapcore.DebugLevel).All()
	require.Len(t, rejected, 2)
	assert.Equal(t, "category input rejected", rejected[0].Message)
	assert.Equal(t, "lots", rejected[0].ContextMap()["input"])
	assert.Equal(t, "add-on input rejected", rejected[1].Message)
	assert.Equal(t, "1.5", rejected[1].ContextMap()["input"])
}

func TestIsRejectedTextIgnoresOtherInputErrors(t *testing.T) {
	assert.False(t, IsRejectedText(nil))
	assert.False(t, IsRejectedText(errors.Input("bad plan")))
	assert.False(t, IsRejectedText(errors.NotFound("category", "x")))
}

func TestSetCategoryTextUnknownKeyIsNotRejectedText(t *testing.T) {
	c := newStarter(t)

	_, err := c.SetCategoryText(types.CategorySilo, "abc")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeNotFound), "got %v", err)
	assert.False(t, IsRejectedText(err))

	_, err = c.SetAddOnText("wireframe", "abc")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeNotFound), "got %v", err)
	assert.False(t, IsRejectedText(err))
}

// unboundedTable has one category and one add-on whose table max leaves
// the count to the MaxCount ceiling.
func unboundedTable(t *testing.T) *pricing.Table {
	t.Helper()
	table, err := pricing.NewTableBuilder("unbounded").
		AddCurrency(types.CurrencyINR, decimal.NewFromInt(1), "₹").
		AddLine(pricing.NewLine(types.Line3D, "3D").
			Category(types.CategoryBasic, "Basic", decimal.NewFromInt(1999), 0).
			AddOn(types.AddOnExploded, "Exploded", decimal.NewFromInt(2599), math.MaxInt).
			Maintenance(pricing.FlatMaintenance(decimal.NewFromInt(500))).
			Plan(pricing.PlanSpec{
				Tier:         types.TierStarter,
				Name:         "Starter",
				MonthlyPrice: decimal.NewFromInt(11999),
				Included:     map[types.Category]int{types.CategoryBasic: 2},
			})).
		Build()
	require.NoError(t, err)
	return table
}

func TestCountsStopAtMaxCount(t *testing.T) {
	c, err := New(unboundedTable(t), types.Line3D)
	require.NoError(t, err)

	c, err = c.SetCategoryCount(types.CategoryBasic, math.MaxInt)
	require.NoError(t, err)
	assert.Equal(t, MaxCount, c.Units(types.CategoryBasic))

	c, err = c.SetAddOnCount(types.AddOnExploded, math.MaxInt)
	require.NoError(t, err)
	assert.Equal(t, MaxCount, c.AddOnCount(types.AddOnExploded))
}

func TestStepCategorySaturates(t *testing.T) {
	c, err := New(unboundedTable(t), types.Line3D)
	require.NoError(t, err)

	tests := []struct {
		name  string
		start int
		delta int
		want  int
	}{
		{"up from ceiling", MaxCount, math.MaxInt, MaxCount},
		{"up from inclusion", 2, math.MaxInt, MaxCount},
		{"down to inclusion", MaxCount, math.MinInt, 2},
		{"down from inclusion", 2, math.MinInt, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, err := c.SetCategoryCount(types.CategoryBasic, tt.start)
			require.NoError(t, err)

			next, err := start.StepCategory(types.CategoryBasic, tt.delta)
			require.NoError(t, err)
			assert.Equal(t, tt.want, next.Units(types.CategoryBasic))
		})
	}
}

func TestSaturatingAdd(t *testing.T) {
	assert.Equal(t, 5, saturatingAdd(2, 3))
	assert.Equal(t, math.MaxInt, saturatingAdd(math.MaxInt, 1))
	assert.Equal(t, math.MaxInt, saturatingAdd(1, math.MaxInt))
	assert.Equal(t, math.MinInt, saturatingAdd(math.MinInt, -1))
	assert.Equal(t, math.MinInt, saturatingAdd(-2, math.MinInt))
}

func TestStepCategory(t *testing.T) {
	c := newStarter(t)

	c, err := c.StepCategory(types.CategoryBasic, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Units(types.CategoryBasic))

	c, err = c.StepCategory(types.CategoryBasic, -5)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Units(types.CategoryBasic))
}

func TestSetAddOnClamps(t *testing.T) {
	c := newStarter(t)

	tests := []struct {
		value, want int
	}{
		{-1, 0},
		{0, 0},
		{3, 3},
		{100, 100},
		{101, 100},
	}
	for _, tt := range tests {
		next, err := c.SetAddOnCount(types.AddOnTexturing, tt.value)
		require.NoError(t, err)
		assert.Equal(t, tt.want, next.AddOnCount(types.AddOnTexturing), "value %d", tt.value)
	}

	next, err := c.SetAddOnText(types.AddOnTexturing, "x")
	require.Error(t, err)
	assert.Equal(t, 0, next.AddOnCount(types.AddOnTexturing))
}

func TestSetOptionRejectsUnknownChoice(t *testing.T) {
	c, err := New(pricing.Default(), types.LineVP)
	require.NoError(t, err)

	_, err = c.SetOption(types.OptionResolution, "16k")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeNotFound))
}

func TestPeriodAndCurrencyAreReassignment(t *testing.T) {
	c := newStarter(t)
	next := c.SetBillingPeriod(types.PeriodAnnual).SetCurrency(types.CurrencyUSD)

	assert.Equal(t, types.PeriodAnnual, next.Period())
	assert.Equal(t, types.CurrencyUSD, next.Currency())
	assert.Equal(t, c.Units(types.CategoryBasic), next.Units(types.CategoryBasic))
	assert.Equal(t, types.PeriodMonthly, c.Period())
}
