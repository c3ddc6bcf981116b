package pricing

import (
	"sync"

	"github.com/shopspring/decimal"

	"creative-pricing/core/types"
)

// DefaultVersion labels the checked-in table
const DefaultVersion = "2025.1"

var one = decimal.NewFromInt(1)

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the checked-in pricing table. Amounts are INR.
func Default() *Table {
	defaultOnce.Do(func() {
		defaultTable = DefaultBuilder().MustBuild()
	})
	return defaultTable
}

func inr(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// DefaultBuilder returns a builder preloaded with the checked-in table, so
// callers can derive variants (tests, alternate maintenance schedules).
func DefaultBuilder() *TableBuilder {
	return NewTableBuilder(DefaultVersion).
		WithBaseCurrency(types.CurrencyINR).
		WithAnnualDiscount(decimal.RequireFromString("0.15")).
		AddCurrency(types.CurrencyINR, one, "₹").
		AddCurrency(types.CurrencyAED, decimal.RequireFromString("0.045"), "د.إ").
		AddCurrency(types.CurrencyCAD, decimal.RequireFromString("0.016"), "$").
		AddCurrency(types.CurrencyUSD, decimal.RequireFromString("0.012"), "$").
		AddLine(Default3DLine()).
		AddLine(DefaultVPLine())
}

// Default3DLine is the 3D / AR configurator line. Maintenance is one flat rate.
func Default3DLine() *LineBuilder {
	return NewLine(types.Line3D, "3D / AR").
		Category(types.CategoryBasic, "Basic SKUs", inr(1999), 1000).
		Category(types.CategoryMedium, "Medium SKUs", inr(3999), 1000).
		Category(types.CategoryComplex, "Complex SKUs", inr(4999), 1000).
		AddOn(types.AddOnExploded, "Exploded Views", inr(2599), 100).
		AddOn(types.AddOnAnimation, "Animation Views", inr(3599), 100).
		AddOn(types.AddOnTexturing, "Advanced Texturing", inr(699), 100).
		Maintenance(FlatMaintenance(inr(500))).
		Plan(PlanSpec{
			Tier:         types.TierStarter,
			Name:         "Starter",
			Description:  "Ideal for small startups & pilot projects",
			MonthlyPrice: inr(11999),
			Included: map[types.Category]int{
				types.CategoryBasic:  2,
				types.CategoryMedium: 2,
			},
		}).
		Plan(PlanSpec{
			Tier:         types.TierPro,
			Name:         "Pro",
			Description:  "For growing D2C brands with moderate volume",
			MonthlyPrice: inr(29999),
			Included: map[types.Category]int{
				types.CategoryBasic:   3,
				types.CategoryMedium:  3,
				types.CategoryComplex: 2,
			},
		}).
		Plan(PlanSpec{
			Tier:         types.TierEnterprise,
			Name:         "Enterprise",
			Description:  "Fully customizable based on your needs",
			MonthlyPrice: decimal.Zero,
		})
}

// DefaultVPLine is the Virtual Photography line. Maintenance differs per category.
func DefaultVPLine() *LineBuilder {
	return NewLine(types.LineVP, "Virtual Photography").
		Category(types.CategorySilo, "Silo Shots", inr(300), 100).
		Category(types.CategoryLifestyle, "Lifestyle Scenes", inr(500), 100).
		Category(types.CategoryArtistic, "3D Artistic Renders", inr(1750), 100).
		Maintenance(PerCategoryMaintenance(map[types.Category]decimal.Decimal{
			types.CategorySilo:      inr(100),
			types.CategoryLifestyle: inr(250),
			types.CategoryArtistic:  inr(1750),
		})).
		OptionGroup(types.OptionResolution, "Resolution",
			Choice("1080", "Full HD (1080p)", 0),
			Choice("4k", "4K Ultra HD", 200),
			Choice("8k", "8K Ultra HD", 500),
		).
		OptionGroup(types.OptionRetouching, "Retouching",
			Choice("none", "None", 0),
			Choice("basic", "Basic", 300),
			Choice("standard", "Standard", 600),
			Choice("advanced", "Advanced", 1000),
		).
		OptionGroup(types.OptionDelivery, "Delivery",
			Choice("standard", "Standard (48-Hour)", 0),
			Choice("express", "Express (24-Hour)", 500),
			Choice("priority", "Priority (12-Hour)", 1000),
		).
		Plan(PlanSpec{
			Tier:         types.TierStarter,
			Name:         "VP Starter",
			Description:  "Perfect for small businesses",
			MonthlyPrice: inr(1999),
			Included: map[types.Category]int{
				types.CategorySilo:      5,
				types.CategoryLifestyle: 2,
			},
			DefaultOptions: map[types.OptionGroup]string{
				types.OptionResolution: "4k",
				types.OptionRetouching: "standard",
				types.OptionDelivery:   "standard",
			},
		}).
		Plan(PlanSpec{
			Tier:         types.TierPro,
			Name:         "VP Professional",
			Description:  "For growing e-commerce stores",
			MonthlyPrice: inr(2999),
			Included: map[types.Category]int{
				types.CategorySilo:      8,
				types.CategoryLifestyle: 4,
				types.CategoryArtistic:  2,
			},
			DefaultOptions: map[types.OptionGroup]string{
				types.OptionResolution: "8k",
				types.OptionRetouching: "advanced",
				types.OptionDelivery:   "express",
			},
		})
}
