package indicator

import (
	"math"
	"testing"

	"chartengine/internal/model"
)

func TestRegistry_BuiltinsPresent(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"MA", "EMA", "MACD", "RSI", "KDJ", "ATR", "VOL"} {
		def, err := reg.Lookup(name)
		if err != nil {
			t.Fatalf("lookup %s: %v", name, err)
		}
		if def.Name() != name {
			t.Errorf("lookup %s returned definition named %s", name, def.Name())
		}
		if err := def.ValidateParams(def.DefaultParams()); err != nil {
			t.Errorf("%s: default params fail their own validation: %v", name, err)
		}
	}
}

func TestRegistry_DuplicateRejected(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(NewMA()); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
}

func TestFigures_RegenerationCounts(t *testing.T) {
	reg := NewRegistry()

	cases := []struct {
		name   string
		params []int
		count  int
	}{
		{"MA", []int{7, 25}, 2},
		{"MA", []int{5, 10, 20, 30, 60}, 5},
		{"EMA", []int{12}, 1},
		{"MACD", []int{5, 34, 5}, 3},
		{"RSI", []int{14}, 1},
		{"KDJ", []int{60, 20, 5}, 3},
		{"ATR", []int{14}, 1},
		{"VOL", []int{5, 10, 20}, 4}, // raw volume bar + one MA per period
	}
	for _, tc := range cases {
		figs, err := Figures(reg, tc.name, tc.params)
		if err != nil {
			t.Fatalf("%s figures: %v", tc.name, err)
		}
		if len(figs) != tc.count {
			t.Errorf("%s %v: got %d figures, want %d", tc.name, tc.params, len(figs), tc.count)
		}
	}
}

// Every key a calculation can emit must be declared by Figures for the same
// params, and regenerating twice gives identical descriptors.
func TestFigures_KeysMatchCalculate(t *testing.T) {
	reg := NewRegistry()
	closes := make([]float64, 150)
	for i := range closes {
		closes[i] = 100 + 9*math.Sin(float64(i)/7) + float64(i%5)
	}
	series := make([]model.Candle, len(closes))
	for i, c := range closes {
		series[i] = model.Candle{
			TS: int64(i) * 60_000, Open: c - 1, High: c + 2, Low: c - 2, Close: c, Volume: 100,
		}
	}

	for _, name := range reg.Names() {
		figs, err := Figures(reg, name, nil)
		if err != nil {
			t.Fatalf("%s figures: %v", name, err)
		}
		declared := make(map[string]bool, len(figs))
		for _, f := range figs {
			if f.Type != model.FigureLine && f.Type != model.FigureBar {
				t.Errorf("%s: figure %s has unknown type %q", name, f.Key, f.Type)
			}
			if declared[f.Key] {
				t.Errorf("%s: duplicate figure key %s", name, f.Key)
			}
			declared[f.Key] = true
		}

		recs, err := CalculateByName(reg, name, series, nil)
		if err != nil {
			t.Fatalf("%s calculate: %v", name, err)
		}
		emitted := make(map[string]bool)
		for i, rec := range recs {
			for key := range rec {
				if !declared[key] {
					t.Errorf("%s: index %d emitted undeclared key %s", name, i, key)
				}
				emitted[key] = true
			}
		}
		// With 150 candles every declared channel should have warmed up.
		for key := range declared {
			if !emitted[key] {
				t.Errorf("%s: declared key %s never emitted over a long series", name, key)
			}
		}
	}
}
