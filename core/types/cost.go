// Package types - Currency and billing period types
package types

import (
	"strings"

	"creative-pricing/internal/errors"
)

// Currency represents a currency code
type Currency string

const (
	CurrencyINR Currency = "INR"
	CurrencyAED Currency = "AED"
	CurrencyCAD Currency = "CAD"
	CurrencyUSD Currency = "USD"
)

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}

// ParseCurrency upper-cases and trims a currency code.
// Membership is checked against the pricing table, not here.
func ParseCurrency(s string) (Currency, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	if len(code) != 3 {
		return "", errors.Inputf("invalid currency code %q", s)
	}
	return Currency(code), nil
}

// BillingPeriod selects how the subscription is billed
type BillingPeriod string

const (
	PeriodMonthly BillingPeriod = "monthly"
	PeriodAnnual  BillingPeriod = "annual"
)

// String returns the string representation
func (p BillingPeriod) String() string {
	return string(p)
}

// IsValid checks if the period is a known period
func (p BillingPeriod) IsValid() bool {
	switch p {
	case PeriodMonthly, PeriodAnnual:
		return true
	default:
		return false
	}
}

// Months is the number of months one period covers
func (p BillingPeriod) Months() int64 {
	if p == PeriodAnnual {
		return 12
	}
	return 1
}

// ParseBillingPeriod normalises user input into a BillingPeriod
func ParseBillingPeriod(s string) (BillingPeriod, error) {
	p := BillingPeriod(strings.ToLower(strings.TrimSpace(s)))
	if p == "yearly" {
		p = PeriodAnnual
	}
	if !p.IsValid() {
		return "", errors.Inputf("unknown billing period %q (want monthly or annual)", s)
	}
	return p, nil
}
