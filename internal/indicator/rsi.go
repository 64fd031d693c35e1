package indicator

import "chartengine/internal/model"

// RSI is the relative strength index using Wilder's smoothing. Values are
// always in [0, 100] once defined: 100 when losses vanish with gains present,
// 50 when the window is perfectly flat.
type RSI struct {
	meta
}

// NewRSI creates the RSI definition with default periods 6 and 9.
func NewRSI() *RSI {
	return &RSI{meta{name: "RSI", defaults: []int{6, 9}}}
}

func (*RSI) Figures(params []int) []model.Figure {
	figs := make([]model.Figure, 0, len(params))
	for _, p := range params {
		figs = append(figs, model.Figure{
			Key:   periodKey("rsi", p),
			Title: periodTitle("RSI", p),
			Type:  model.FigureLine,
		})
	}
	return figs
}

func (*RSI) Calculate(series []model.Candle, params []int) []model.Record {
	out := newRecords(len(series))
	for _, p := range params {
		key := periodKey("rsi", p)
		fp := float64(p)
		var avgGain, avgLoss float64

		// The first price change appears at index 1, so the seed averages
		// complete at index p and the channel is defined from there on.
		for i := 1; i < len(series); i++ {
			delta := series[i].Close - series[i-1].Close
			gain, loss := 0.0, 0.0
			if delta > 0 {
				gain = delta
			} else {
				loss = -delta
			}

			if i <= p {
				avgGain += gain
				avgLoss += loss
				if i == p {
					avgGain /= fp
					avgLoss /= fp
					out[i][key] = rsiValue(avgGain, avgLoss)
				}
				continue
			}

			avgGain = (avgGain*(fp-1) + gain) / fp
			avgLoss = (avgLoss*(fp-1) + loss) / fp
			out[i][key] = rsiValue(avgGain, avgLoss)
		}
	}
	return out
}

// rsiValue maps smoothed averages to the bounded oscillator, with explicit
// fallbacks so no division by zero can leak NaN/Inf to callers.
func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
