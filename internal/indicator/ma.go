package indicator

import "chartengine/internal/model"

// MA is the simple moving average family: one line per configured period,
// arithmetic mean of close over a rolling window.
type MA struct {
	meta
}

// NewMA creates the MA definition with default periods 5/20/60/99.
func NewMA() *MA {
	return &MA{meta{name: "MA", defaults: []int{5, 20, 60, 99}}}
}

func (*MA) Figures(params []int) []model.Figure {
	figs := make([]model.Figure, 0, len(params))
	for _, p := range params {
		figs = append(figs, model.Figure{
			Key:   periodKey("ma", p),
			Title: periodTitle("MA", p),
			Type:  model.FigureLine,
		})
	}
	return figs
}

func (*MA) Calculate(series []model.Candle, params []int) []model.Record {
	out := newRecords(len(series))
	for _, p := range params {
		key := periodKey("ma", p)
		sum := 0.0
		for i := range series {
			sum += series[i].Close
			if i >= p {
				// Window full — drop the close leaving the window.
				sum -= series[i-p].Close
			}
			if i >= p-1 {
				out[i][key] = sum / float64(p)
			}
		}
	}
	return out
}
