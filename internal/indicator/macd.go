package indicator

import "chartengine/internal/model"

// MACD channels: dif = fast EMA − slow EMA, dea = signal-period EMA of dif,
// and the macd histogram bar = (dif − dea) × 2. Both underlying EMAs use the
// SMA-seeded rule, as does the dea EMA over the dif series.
type MACD struct {
	meta
}

// NewMACD creates the MACD definition with the default (12, 26, 9) setup.
func NewMACD() *MACD {
	return &MACD{meta{name: "MACD", defaults: []int{12, 26, 9}, arity: 3}}
}

func (*MACD) Figures(params []int) []model.Figure {
	return []model.Figure{
		{Key: "dif", Title: "DIF", Type: model.FigureLine},
		{Key: "dea", Title: "DEA", Type: model.FigureLine},
		{Key: "macd", Title: "MACD", Type: model.FigureBar},
	}
}

func (*MACD) Calculate(series []model.Candle, params []int) []model.Record {
	fast, slow, signal := params[0], params[1], params[2]
	n := len(series)
	out := newRecords(n)

	closes := make([]float64, n)
	for i := range series {
		closes[i] = series[i].Close
	}

	fastVals, fastFrom := emaSeries(closes, fast)
	slowVals, slowFrom := emaSeries(closes, slow)

	// dif is defined once both EMAs are.
	difFrom := fastFrom
	if slowFrom > difFrom {
		difFrom = slowFrom
	}
	if difFrom >= n {
		return out
	}

	dif := make([]float64, n-difFrom)
	for i := difFrom; i < n; i++ {
		dif[i-difFrom] = fastVals[i] - slowVals[i]
		out[i]["dif"] = dif[i-difFrom]
	}

	// dea smooths the dif series itself, seeded the same way.
	deaVals, deaRel := emaSeries(dif, signal)
	for i := deaRel; i < len(deaVals); i++ {
		idx := difFrom + i
		out[idx]["dea"] = deaVals[i]
		out[idx]["macd"] = (dif[i] - deaVals[i]) * 2
	}
	return out
}
