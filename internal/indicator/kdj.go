package indicator

import "chartengine/internal/model"

// KDJ is the stochastic oscillator with the J extension. The raw stochastic
// value (RSV) normalizes close within the rolling high/low range, then K and
// D apply two stages of simple-average smoothing and J = 3K − 2D. J is
// unbounded and may leave [0, 100].
type KDJ struct {
	meta
}

// NewKDJ creates the KDJ definition with the default (9, 3, 3) setup.
func NewKDJ() *KDJ {
	return &KDJ{meta{name: "KDJ", defaults: []int{9, 3, 3}, arity: 3}}
}

func (*KDJ) Figures(params []int) []model.Figure {
	return []model.Figure{
		{Key: "k", Title: "K", Type: model.FigureLine},
		{Key: "d", Title: "D", Type: model.FigureLine},
		{Key: "j", Title: "J", Type: model.FigureLine},
	}
}

func (*KDJ) Calculate(series []model.Candle, params []int) []model.Record {
	rsvPeriod, smoothK, smoothD := params[0], params[1], params[2]
	n := len(series)
	out := newRecords(n)

	rsvFrom := rsvPeriod - 1
	if rsvFrom >= n {
		return out
	}

	// Stage 1: RSV over the rolling high/low window. Flat windows pin RSV
	// at 50 instead of dividing by zero.
	rsv := make([]float64, n-rsvFrom)
	for i := rsvFrom; i < n; i++ {
		hh, ll := series[i].High, series[i].Low
		for w := i - rsvPeriod + 1; w < i; w++ {
			if series[w].High > hh {
				hh = series[w].High
			}
			if series[w].Low < ll {
				ll = series[w].Low
			}
		}
		if hh == ll {
			rsv[i-rsvFrom] = 50
		} else {
			rsv[i-rsvFrom] = 100 * (series[i].Close - ll) / (hh - ll)
		}
	}

	// Stage 2: K smooths RSV, stage 3: D smooths K.
	kVals, kRel := smaSeries(rsv, smoothK)
	kFrom := rsvFrom + kRel
	for i := kRel; i < len(kVals); i++ {
		out[rsvFrom+i]["k"] = kVals[i]
	}

	dVals, dRel := smaSeries(kVals[kRel:], smoothD)
	for i := dRel; i < len(dVals); i++ {
		idx := kFrom + i
		k := kVals[kRel+i]
		d := dVals[i]
		out[idx]["d"] = d
		out[idx]["j"] = 3*k - 2*d
	}
	return out
}

// smaSeries computes a rolling simple average over values. The result is
// aligned with values and defined for indices >= from (= period-1).
func smaSeries(values []float64, period int) (vals []float64, from int) {
	vals = make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			vals[i] = sum / float64(period)
		}
	}
	return vals, period - 1
}
