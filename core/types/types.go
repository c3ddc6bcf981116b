// Package types defines core domain types shared across all layers.
// This package contains NO business logic - only type definitions.
package types

import (
	"strings"

	"creative-pricing/internal/errors"
)

// ProductLine identifies a priced product family
type ProductLine string

const (
	// Line3D is the 3D / AR product configurator family
	Line3D ProductLine = "3d"

	// LineVP is the Virtual Photography family
	LineVP ProductLine = "vp"
)

// String returns the string representation of the product line
func (l ProductLine) String() string {
	return string(l)
}

// ParseProductLine normalises user input into a ProductLine
func ParseProductLine(s string) (ProductLine, error) {
	switch ProductLine(strings.ToLower(strings.TrimSpace(s))) {
	case Line3D:
		return Line3D, nil
	case LineVP:
		return LineVP, nil
	default:
		return "", errors.Inputf("unknown product line %q (want 3d or vp)", s)
	}
}

// PlanTier is a subscription tier within a product line
type PlanTier string

const (
	TierStarter    PlanTier = "starter"
	TierPro        PlanTier = "pro"
	TierEnterprise PlanTier = "enterprise"
)

// String returns the string representation of the tier
func (t PlanTier) String() string {
	return string(t)
}

// ParsePlanTier normalises user input into a PlanTier.
// Whether a line offers the tier is decided by the pricing table.
func ParsePlanTier(s string) (PlanTier, error) {
	switch PlanTier(strings.ToLower(strings.TrimSpace(s))) {
	case TierStarter:
		return TierStarter, nil
	case TierPro:
		return TierPro, nil
	case TierEnterprise:
		return TierEnterprise, nil
	default:
		return "", errors.Inputf("unknown plan %q", s)
	}
}

// Category is a unit category within a product line (basic/medium/complex SKUs,
// silo shots, lifestyle scenes ...)
type Category string

// String returns the string representation of the category
func (c Category) String() string {
	return string(c)
}

// 3D SKU categories
const (
	CategoryBasic   Category = "basic"
	CategoryMedium  Category = "medium"
	CategoryComplex Category = "complex"
)

// Virtual Photography categories
const (
	CategorySilo      Category = "silo"
	CategoryLifestyle Category = "lifestyle"
	CategoryArtistic  Category = "artistic"
)

// AddOn is a per-quantity extra billed once
type AddOn string

// String returns the string representation of the add-on
func (a AddOn) String() string {
	return string(a)
}

const (
	AddOnExploded  AddOn = "exploded"
	AddOnAnimation AddOn = "animation"
	AddOnTexturing AddOn = "texturing"
)

// OptionGroup is a single-choice upgrade group (resolution, retouching, delivery)
type OptionGroup string

// String returns the string representation of the group
func (g OptionGroup) String() string {
	return string(g)
}

const (
	OptionResolution OptionGroup = "resolution"
	OptionRetouching OptionGroup = "retouching"
	OptionDelivery   OptionGroup = "delivery"
)
