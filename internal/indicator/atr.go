package indicator

import (
	"math"
	"strconv"

	"chartengine/internal/model"
)

// ATR is the average true range, one channel per configured period using
// Wilder's RMA smoothing seeded with the simple average of the first period
// true ranges. Channels are keyed by position (atr1, atr2, ...) rather than
// by period.
type ATR struct {
	meta
}

// NewATR creates the ATR definition with default periods 7/14/21.
func NewATR() *ATR {
	return &ATR{meta{name: "ATR", defaults: []int{7, 14, 21}}}
}

func (*ATR) Figures(params []int) []model.Figure {
	figs := make([]model.Figure, 0, len(params))
	for i, p := range params {
		figs = append(figs, model.Figure{
			Key:   "atr" + strconv.Itoa(i+1),
			Title: periodTitle("ATR", p),
			Type:  model.FigureLine,
		})
	}
	return figs
}

func (*ATR) Calculate(series []model.Candle, params []int) []model.Record {
	n := len(series)
	out := newRecords(n)

	trs := make([]float64, n)
	for i := range series {
		prevClose := series[i].Close
		if i > 0 {
			prevClose = series[i-1].Close
		}
		trs[i] = trueRange(series[i].High, series[i].Low, prevClose)
	}

	for idx, p := range params {
		key := "atr" + strconv.Itoa(idx+1)
		fp := float64(p)
		atr := 0.0
		for i, tr := range trs {
			switch {
			case i < p-1:
				atr += tr
			case i == p-1:
				atr = (atr + tr) / fp
				out[i][key] = atr
			default:
				atr = (atr*(fp-1) + tr) / fp
				out[i][key] = atr
			}
		}
	}
	return out
}

// trueRange is the greatest of high−low, |high−prevClose|, |low−prevClose|.
func trueRange(high, low, prevClose float64) float64 {
	tr := high - low
	if v := math.Abs(high - prevClose); v > tr {
		tr = v
	}
	if v := math.Abs(low - prevClose); v > tr {
		tr = v
	}
	return tr
}
