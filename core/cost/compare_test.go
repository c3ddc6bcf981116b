package cost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creative-pricing/core/configuration"
	"creative-pricing/core/pricing"
)

func TestCompareMonthlyWithAnnual(t *testing.T) {
	table := pricing.Default()
	monthly := build(t, table, configuration.Spec{Line: "3d", Plan: "starter", Units: map[string]int{"basic": 3}})
	annual := monthly.SetBillingPeriod("annual")

	cmp, err := Compare(MustCompute(monthly, table), MustCompute(annual, table))
	require.NoError(t, err)

	assertDec(t, "110390.8", cmp.FirstPeriodDelta, "first delta") // 122389.8 - 11999
	assertDec(t, "27500", cmp.OngoingDelta, "ongoing delta")      // 2500 x 11

	require.Len(t, cmp.Changes, 2)
	assert.Equal(t, "removed", cmp.Changes[0].Type)
	assert.Equal(t, "plan/3d/starter/monthly", cmp.Changes[0].Item)
	assert.Equal(t, "added", cmp.Changes[1].Type)
	assert.Equal(t, "plan/3d/starter/annual", cmp.Changes[1].Item)
}

func TestCompareItemChanges(t *testing.T) {
	table := pricing.Default()
	base := build(t, table, configuration.Spec{Line: "3d", Plan: "starter", AddOns: map[string]int{"exploded": 1}})
	head := build(t, table, configuration.Spec{Line: "3d", Plan: "starter", Units: map[string]int{"medium": 3}, AddOns: map[string]int{"exploded": 2}})

	cmp, err := Compare(MustCompute(base, table), MustCompute(head, table))
	require.NoError(t, err)

	assertDec(t, "6598", cmp.FirstPeriodDelta, "first delta") // 3999 + 2599
	require.Len(t, cmp.Changes, 2)
	assert.Equal(t, "changed", cmp.Changes[0].Type)
	assert.Equal(t, "add_on/exploded", cmp.Changes[0].Item)
	assertDec(t, "2599", cmp.Changes[0].Delta, "add-on delta")
	assert.Equal(t, "added", cmp.Changes[1].Type)
	assert.Equal(t, "category/medium", cmp.Changes[1].Item)
}

func TestCompareRejectsDifferentTables(t *testing.T) {
	table := pricing.Default()
	b := MustCompute(build(t, table, configuration.Spec{Line: "3d", Plan: "starter"}), table)
	other := *b
	other.Fingerprint = "different"

	_, err := Compare(b, &other)
	assert.Error(t, err)
}
