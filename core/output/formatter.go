// Package output provides output formatting for estimates.
// This package produces human and machine-readable outputs.
package output

import (
	"io"
	"sort"
	"strings"
	"sync"

	"creative-pricing/core/configuration"
	"creative-pricing/core/cost"
	"creative-pricing/core/pricing"
	"creative-pricing/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable CLI table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatMarkdown is a markdown quote
	FormatMarkdown Format = "markdown"

	// FormatXLSX is a spreadsheet quote
	FormatXLSX Format = "xlsx"
)

// ParseFormat normalises a format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCLI, FormatJSON, FormatMarkdown, FormatXLSX:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "table", "":
		return FormatCLI, nil
	default:
		return "", errors.Inputf("unknown output format %q", s)
	}
}

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given result
	Render(w io.Writer, result *Result) error
}

// Result contains the complete estimate output
type Result struct {
	// ID identifies one estimate response; empty for CLI runs
	ID string `json:"id,omitempty"`

	// Configuration is the input that was priced
	Configuration configuration.Spec `json:"configuration"`

	// Breakdown is the exact base-currency breakdown
	Breakdown *cost.Breakdown `json:"breakdown"`

	// Quote is the breakdown in display currency
	Quote *cost.Quote `json:"quote"`

	// Metadata contains execution context
	Metadata Metadata `json:"metadata"`
}

// Metadata contains execution context
type Metadata struct {
	// Timestamp is when the estimate was produced
	Timestamp string `json:"timestamp,omitempty"`

	// Version is the tool version
	Version string `json:"version,omitempty"`

	// TableVersion labels the pricing table
	TableVersion string `json:"table_version"`

	// Fingerprint is the pricing table content hash
	Fingerprint string `json:"fingerprint"`
}

// NewResult computes and presents a configuration
func NewResult(cfg configuration.Configuration, table *pricing.Table) (*Result, error) {
	b, err := cost.Compute(cfg, table)
	if err != nil {
		return nil, err
	}
	q, err := cost.Present(b, table)
	if err != nil {
		return nil, err
	}
	return &Result{
		Configuration: cfg.Spec(),
		Breakdown:     b,
		Quote:         q,
		Metadata: Metadata{
			TableVersion: table.Version(),
			Fingerprint:  table.Fingerprint().Short(),
		},
	}, nil
}

// Registry manages formatter registration
type Registry struct {
	mu         sync.RWMutex
	formatters map[Format]Formatter
}

// NewRegistry returns a registry holding every built-in formatter
func NewRegistry(noColor bool) *Registry {
	r := &Registry{formatters: make(map[Format]Formatter)}
	_ = r.Register(NewCLIFormatter(noColor))
	_ = r.Register(NewJSONFormatter(true))
	_ = r.Register(NewMarkdownFormatter())
	_ = r.Register(NewXLSXFormatter())
	return r
}

// Register adds a formatter to the registry
func (r *Registry) Register(f Formatter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.formatters[f.Format()]; exists {
		return errors.Newf(errors.TypeConfig, "formatter %s already registered", f.Format())
	}
	r.formatters[f.Format()] = f
	return nil
}

// Get returns a formatter for a format type
func (r *Registry) Get(format Format) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.formatters[format]
	if !ok {
		return nil, errors.NotFound("formatter", string(format))
	}
	return f, nil
}

// GetAll returns all registered formatters, sorted by format
func (r *Registry) GetAll() []Formatter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Formatter, 0, len(r.formatters))
	for _, f := range r.formatters {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Format() < out[j].Format() })
	return out
}
