// Package indicator computes technical indicator overlays from candle series.
//
// Each indicator is a Definition: a named, parameterized pure calculator that
// declares its output channels (figures) and produces one Record per input
// candle. Definitions hold no state; Calculate is a deterministic function of
// (series, params) and may run concurrently for different calls.
package indicator

import (
	"strconv"

	"chartengine/internal/model"
)

// Definition is a named, parameterized indicator calculator.
type Definition interface {
	// Name returns the registry name, e.g. "MACD". Case-sensitive.
	Name() string

	// DefaultParams returns the documented default parameter set.
	// Callers must not mutate the returned slice.
	DefaultParams() []int

	// ValidateParams checks parameter arity and positivity.
	// Returns a *ParamError on failure.
	ValidateParams(params []int) error

	// Figures regenerates the output channel descriptors for a parameter
	// set. Keys are stable and match the keys Calculate uses for the same
	// params. Callers changing periods interactively call this before
	// recalculating.
	Figures(params []int) []model.Figure

	// Calculate produces one Record per input candle, positionally aligned
	// with series. Channels are absent from a record while warming up.
	// params must already satisfy ValidateParams.
	Calculate(series []model.Candle, params []int) []model.Record
}

// meta carries the invariant part of a Definition: name, defaults and
// expected arity (0 means any positive number of periods).
type meta struct {
	name     string
	defaults []int
	arity    int
}

func (m meta) Name() string { return m.name }

func (m meta) DefaultParams() []int { return m.defaults }

func (m meta) ValidateParams(params []int) error {
	if len(params) == 0 {
		return &ParamError{Indicator: m.name, Params: params, Reason: "no periods given"}
	}
	if m.arity > 0 && len(params) != m.arity {
		return &ParamError{Indicator: m.name, Params: params,
			Reason: "expected " + strconv.Itoa(m.arity) + " parameters, got " + strconv.Itoa(len(params))}
	}
	for _, p := range params {
		if p <= 0 {
			return &ParamError{Indicator: m.name, Params: params,
				Reason: "period " + strconv.Itoa(p) + " is not positive"}
		}
	}
	return nil
}

// newRecords allocates one empty Record per candle.
func newRecords(n int) []model.Record {
	out := make([]model.Record, n)
	for i := range out {
		out[i] = make(model.Record, 4)
	}
	return out
}

// periodKey builds a channel key like "ma5" or "rsi14".
func periodKey(prefix string, period int) string {
	return prefix + strconv.Itoa(period)
}

// periodTitle builds a display title like "MA5" or "RSI14".
func periodTitle(prefix string, period int) string {
	return prefix + strconv.Itoa(period)
}
