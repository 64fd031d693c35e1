package stream

import (
	"errors"
	"testing"

	"chartengine/internal/indicator"
)

func TestEngine_KeyedBySymbolAndParams(t *testing.T) {
	reg := indicator.NewRegistry()
	eng := NewEngine(reg)
	series := syntheticSeries(10)

	for _, c := range series {
		if _, err := eng.Process("ETHUSDT", "MA", []int{5}, c); err != nil {
			t.Fatal(err)
		}
		if _, err := eng.Process("ETHUSDT", "MA", []int{7}, c); err != nil {
			t.Fatal(err)
		}
		if _, err := eng.Process("BTCUSDT", "MA", []int{5}, c); err != nil {
			t.Fatal(err)
		}
	}
	if eng.Size() != 3 {
		t.Fatalf("size = %d, want 3 distinct calculators", eng.Size())
	}
}

func TestEngine_SkipsStaleCandles(t *testing.T) {
	reg := indicator.NewRegistry()
	eng := NewEngine(reg)
	series := syntheticSeries(12)

	for _, c := range series {
		if _, err := eng.Process("ETHUSDT", "MA", []int{3}, c); err != nil {
			t.Fatal(err)
		}
	}

	// Replaying an already-applied candle must be a no-op.
	rec, err := eng.Process("ETHUSDT", "MA", []int{3}, series[4])
	if err != nil {
		t.Fatal(err)
	}
	if rec != nil {
		t.Fatalf("stale candle produced a record: %v", rec)
	}

	// The rolling state must be unaffected by the replay attempt.
	next := series[len(series)-1]
	next.TS += 60_000
	rec, err = eng.Process("ETHUSDT", "MA", []int{3}, next)
	if err != nil {
		t.Fatal(err)
	}
	if !rec.Has("ma3") {
		t.Fatal("fresh candle after replay attempt lost the ma3 channel")
	}
}

func TestEngine_LastTS(t *testing.T) {
	reg := indicator.NewRegistry()
	eng := NewEngine(reg)
	series := syntheticSeries(8)

	if ts := eng.LastTS("ETHUSDT"); ts != 0 {
		t.Fatalf("empty engine LastTS = %d, want 0", ts)
	}

	for _, c := range series {
		if _, err := eng.Process("ETHUSDT", "MA", []int{3}, c); err != nil {
			t.Fatal(err)
		}
	}
	for _, c := range series[:5] {
		if _, err := eng.Process("ETHUSDT", "RSI", []int{6}, c); err != nil {
			t.Fatal(err)
		}
	}

	// RSI lags behind MA, so the symbol's replay point is RSI's.
	if ts := eng.LastTS("ETHUSDT"); ts != series[4].TS {
		t.Fatalf("LastTS = %d, want %d", ts, series[4].TS)
	}
}

func TestEngine_UnknownIndicator(t *testing.T) {
	reg := indicator.NewRegistry()
	eng := NewEngine(reg)
	_, err := eng.Process("ETHUSDT", "BOLL", nil, syntheticSeries(1)[0])
	if !errors.Is(err, indicator.ErrUnknownIndicator) {
		t.Fatalf("expected ErrUnknownIndicator, got %v", err)
	}
}

func TestEngine_InvalidParams(t *testing.T) {
	reg := indicator.NewRegistry()
	eng := NewEngine(reg)
	_, err := eng.Process("ETHUSDT", "MACD", []int{12, 26}, syntheticSeries(1)[0])
	if !indicator.IsParamError(err) {
		t.Fatalf("expected ParamError, got %v", err)
	}
}

func TestEngine_WarmupLookup(t *testing.T) {
	reg := indicator.NewRegistry()
	eng := NewEngine(reg)

	cases := []struct {
		name   string
		params []int
		want   int
	}{
		{"MA", []int{5, 20}, 20},
		{"EMA", []int{9}, 9},
		{"MACD", []int{12, 26, 9}, 34},
		{"RSI", []int{14}, 15},
		{"KDJ", []int{9, 3, 3}, 13},
		{"ATR", []int{7, 14, 21}, 21},
		{"VOL", []int{5, 10}, 10},
	}
	for _, tc := range cases {
		got, err := eng.Warmup(tc.name, tc.params)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got != tc.want {
			t.Errorf("%s %v: warmup = %d, want %d", tc.name, tc.params, got, tc.want)
		}
	}
}
