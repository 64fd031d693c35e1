package stream

import (
	"math"
	"testing"

	"chartengine/internal/indicator"
	"chartengine/internal/model"
)

// syntheticSeries builds a deterministic, non-trivial OHLCV series.
func syntheticSeries(n int) []model.Candle {
	series := make([]model.Candle, n)
	for i := range series {
		c := 100 + 12*math.Sin(float64(i)/5) + float64((i*7)%9)
		series[i] = model.Candle{
			TS:     int64(i+1) * 60_000,
			Open:   c - 0.5,
			High:   c + 2 + float64(i%3),
			Low:    c - 2 - float64(i%2),
			Close:  c,
			Volume: 1000 + float64((i*31)%400),
		}
	}
	return series
}

// Feeding a series candle-by-candle must produce exactly the values a single
// batch calculation does, with identical warm-up boundaries.
func TestStream_MatchesBatch(t *testing.T) {
	reg := indicator.NewRegistry()
	series := syntheticSeries(160)

	cases := []struct {
		name   string
		params []int
	}{
		{"MA", nil},
		{"MA", []int{3, 7}},
		{"EMA", nil},
		{"MACD", nil},
		{"MACD", []int{5, 34, 5}},
		{"RSI", nil},
		{"RSI", []int{14}},
		{"KDJ", nil},
		{"KDJ", []int{60, 20, 5}},
		{"ATR", nil},
		{"VOL", nil},
	}

	for _, tc := range cases {
		def, err := reg.Lookup(tc.name)
		if err != nil {
			t.Fatalf("lookup %s: %v", tc.name, err)
		}
		batch, err := indicator.Calculate(def, series, tc.params)
		if err != nil {
			t.Fatalf("%s batch: %v", tc.name, err)
		}
		calc, err := New(def, tc.params)
		if err != nil {
			t.Fatalf("%s stream: %v", tc.name, err)
		}

		for i, candle := range series {
			got := calc.Update(candle)
			want := batch[i]
			if len(got) != len(want) {
				t.Fatalf("%s %v index %d: stream has %d channels, batch has %d",
					tc.name, tc.params, i, len(got), len(want))
			}
			for key, wv := range want {
				gv, ok := got[key]
				if !ok {
					t.Fatalf("%s %v index %d: channel %s missing from stream record",
						tc.name, tc.params, i, key)
				}
				if math.Abs(gv-wv) > 1e-9 {
					t.Errorf("%s %v index %d channel %s: stream %.12f, batch %.12f",
						tc.name, tc.params, i, key, gv, wv)
				}
			}
		}
	}
}

func TestStream_WarmupMatchesFirstFullRecord(t *testing.T) {
	reg := indicator.NewRegistry()
	series := syntheticSeries(200)

	for _, name := range reg.Names() {
		def, err := reg.Lookup(name)
		if err != nil {
			t.Fatalf("lookup %s: %v", name, err)
		}
		calc, err := New(def, nil)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		figures := def.Figures(def.DefaultParams())
		warmup := calc.Warmup()

		for i, candle := range series {
			rec := calc.Update(candle)
			full := len(rec) == len(figures)
			if i+1 >= warmup && !full {
				t.Errorf("%s: candle %d (warmup=%d): record has %d of %d channels",
					name, i+1, warmup, len(rec), len(figures))
			}
			if i+1 < warmup && full {
				t.Errorf("%s: candle %d before warmup=%d already has all channels",
					name, i+1, warmup)
			}
		}
	}
}
