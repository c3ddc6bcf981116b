// Package api - API types for pricing estimates
// These types define the contract for the /v1 endpoints.
// The API is stateless: every request carries the full configuration.
package api

import (
	"creative-pricing/core/configuration"
	"creative-pricing/core/cost"
	"creative-pricing/core/output"
)

// EstimateRequest is the input to POST /v1/estimate
type EstimateRequest = configuration.Spec

// ConfigureRequest is the input to POST /v1/configure
type ConfigureRequest struct {
	// Configuration is the current state held by the client
	Configuration configuration.Spec `json:"configuration"`

	// Event is the user interaction to apply
	Event configuration.Event `json:"event"`
}

// CompareRequest is the input to POST /v1/compare
type CompareRequest struct {
	Base configuration.Spec `json:"base"`
	Head configuration.Spec `json:"head"`
}

// EstimateResponse is returned by estimate and configure
type EstimateResponse struct {
	*output.Result

	// InputHash identifies the priced configuration
	InputHash string `json:"input_hash"`

	// Rejected explains why the event was ignored; the configuration is unchanged
	Rejected string `json:"rejected,omitempty"`
}

// CompareResponse is returned by POST /v1/compare
type CompareResponse struct {
	Base       *cost.Quote      `json:"base"`
	Head       *cost.Quote      `json:"head"`
	Comparison *cost.Comparison `json:"comparison"`

	// Deltas in the head currency
	FirstPeriodDelta cost.Amount `json:"first_period_delta"`
	OngoingDelta     cost.Amount `json:"ongoing_delta"`
}

// ErrorResponse is the body of every error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// PricingResponse summarises the pricing table in one currency
type PricingResponse struct {
	Version        string         `json:"version"`
	Fingerprint    string         `json:"fingerprint"`
	Currency       string         `json:"currency"`
	Symbol         string         `json:"symbol"`
	AnnualDiscount string         `json:"annual_discount"`
	Currencies     []CurrencyView `json:"currencies"`
	Lines          []LineView     `json:"lines"`
}

// CurrencyView is one supported display currency
type CurrencyView struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Rate   string `json:"rate"`
}

// LineView is one product line
type LineView struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Plans      []PlanView        `json:"plans"`
	Categories []CategoryView    `json:"categories"`
	AddOns     []AddOnView       `json:"add_ons,omitempty"`
	Options    []OptionGroupView `json:"options,omitempty"`
}

// PlanView is one plan with prices for both billing periods
type PlanView struct {
	Tier           string            `json:"tier"`
	Name           string            `json:"name"`
	Description    string            `json:"description,omitempty"`
	Monthly        cost.Amount       `json:"monthly"`
	Annual         cost.Amount       `json:"annual"`
	Included       map[string]int    `json:"included"`
	DefaultOptions map[string]string `json:"default_options,omitempty"`
}

// CategoryView is one unit category
type CategoryView struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	UnitPrice       cost.Amount `json:"unit_price"`
	MaintenanceRate cost.Amount `json:"maintenance_rate"`
	Max             int         `json:"max,omitempty"`
}

// AddOnView is one add-on
type AddOnView struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	UnitPrice cost.Amount `json:"unit_price"`
	Max       int         `json:"max"`
}

// OptionGroupView is one option group
type OptionGroupView struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Choices []ChoiceView `json:"choices"`
}

// ChoiceView is one option choice
type ChoiceView struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Price cost.Amount `json:"price"`
}
