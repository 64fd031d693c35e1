package indicator

import "chartengine/internal/model"

// VOL is the volume overlay: the raw per-candle volume as a bar channel
// (always defined) plus a simple moving average of volume per configured
// period. Up/down bar coloring is left to the renderer via Candle.Rising.
type VOL struct {
	meta
}

// NewVOL creates the VOL definition with default periods 5 and 10.
func NewVOL() *VOL {
	return &VOL{meta{name: "VOL", defaults: []int{5, 10}}}
}

func (*VOL) Figures(params []int) []model.Figure {
	figs := make([]model.Figure, 0, len(params)+1)
	figs = append(figs, model.Figure{Key: "volume", Title: "VOLUME", Type: model.FigureBar})
	for _, p := range params {
		figs = append(figs, model.Figure{
			Key:   periodKey("ma", p),
			Title: periodTitle("MA", p),
			Type:  model.FigureLine,
		})
	}
	return figs
}

func (*VOL) Calculate(series []model.Candle, params []int) []model.Record {
	out := newRecords(len(series))
	for i := range series {
		out[i]["volume"] = series[i].Volume
	}
	for _, p := range params {
		key := periodKey("ma", p)
		sum := 0.0
		for i := range series {
			sum += series[i].Volume
			if i >= p {
				sum -= series[i-p].Volume
			}
			if i >= p-1 {
				out[i][key] = sum / float64(p)
			}
		}
	}
	return out
}
