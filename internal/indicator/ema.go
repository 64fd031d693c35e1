package indicator

import "chartengine/internal/model"

// EMA is the exponential moving average family with smoothing factor
// 2/(period+1). The first value is seeded with the simple average of the
// first period closes rather than the first close; the seed choice shifts
// every subsequent value, so it is part of the contract.
type EMA struct {
	meta
}

// NewEMA creates the EMA definition with default periods 5/20/30/60/99.
func NewEMA() *EMA {
	return &EMA{meta{name: "EMA", defaults: []int{5, 20, 30, 60, 99}}}
}

func (*EMA) Figures(params []int) []model.Figure {
	figs := make([]model.Figure, 0, len(params))
	for _, p := range params {
		figs = append(figs, model.Figure{
			Key:   periodKey("ema", p),
			Title: periodTitle("EMA", p),
			Type:  model.FigureLine,
		})
	}
	return figs
}

func (*EMA) Calculate(series []model.Candle, params []int) []model.Record {
	out := newRecords(len(series))
	closes := make([]float64, len(series))
	for i := range series {
		closes[i] = series[i].Close
	}
	for _, p := range params {
		key := periodKey("ema", p)
		vals, from := emaSeries(closes, p)
		for i := from; i < len(vals); i++ {
			out[i][key] = vals[i]
		}
	}
	return out
}

// emaSeries computes an SMA-seeded EMA over values. The result is aligned
// with values and defined for indices >= from (= period-1). Entries before
// from are meaningless.
func emaSeries(values []float64, period int) (vals []float64, from int) {
	vals = make([]float64, len(values))
	alpha := 2.0 / float64(period+1)
	sum := 0.0
	for i, v := range values {
		switch {
		case i < period-1:
			sum += v
		case i == period-1:
			sum += v
			vals[i] = sum / float64(period)
		default:
			vals[i] = v*alpha + vals[i-1]*(1-alpha)
		}
	}
	return vals, period - 1
}
