package indicator

import "chartengine/internal/model"

// Calculate runs a Definition against a candle series and enforces the shape
// contract: one Record per input candle, positionally aligned, input order
// untouched.
//
// nil or empty params fall back to the definition's defaults. Malformed
// params abort the call with a *ParamError before any per-candle work.
// An empty series yields an empty (non-nil) result, not an error.
func Calculate(def Definition, series []model.Candle, params []int) ([]model.Record, error) {
	if len(params) == 0 {
		params = def.DefaultParams()
	}
	if err := def.ValidateParams(params); err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return []model.Record{}, nil
	}
	return def.Calculate(series, params), nil
}

// CalculateByName resolves name in the registry and calculates in one step.
// This is the invocation surface the chart uses.
func CalculateByName(reg *Registry, name string, series []model.Candle, params []int) ([]model.Record, error) {
	def, err := reg.Lookup(name)
	if err != nil {
		return nil, err
	}
	return Calculate(def, series, params)
}

// Figures resolves name and regenerates its channel descriptors for params,
// falling back to the definition's defaults when params is empty.
func Figures(reg *Registry, name string, params []int) ([]model.Figure, error) {
	def, err := reg.Lookup(name)
	if err != nil {
		return nil, err
	}
	if len(params) == 0 {
		params = def.DefaultParams()
	}
	if err := def.ValidateParams(params); err != nil {
		return nil, err
	}
	return def.Figures(params), nil
}
