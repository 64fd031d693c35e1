package stream

import (
	"encoding/json"
	"math"
	"testing"

	"chartengine/internal/indicator"
)

// Checkpoint a calculator mid-series, restore it into a fresh instance and
// keep feeding: the resumed instance must match one that never stopped.
func TestSnapshot_ResumeMatchesContinuous(t *testing.T) {
	reg := indicator.NewRegistry()
	series := syntheticSeries(120)
	cut := 70

	for _, name := range reg.Names() {
		def, err := reg.Lookup(name)
		if err != nil {
			t.Fatalf("lookup %s: %v", name, err)
		}

		continuous, err := New(def, nil)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		interrupted, err := New(def, nil)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}

		for _, c := range series[:cut] {
			continuous.Update(c)
			interrupted.Update(c)
		}

		// Round-trip through JSON, as the snapshot stores do.
		raw, err := json.Marshal(interrupted.Snapshot())
		if err != nil {
			t.Fatalf("%s marshal: %v", name, err)
		}
		var snap Snapshot
		if err := json.Unmarshal(raw, &snap); err != nil {
			t.Fatalf("%s unmarshal: %v", name, err)
		}
		resumed, err := New(def, nil)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if err := resumed.Restore(snap); err != nil {
			t.Fatalf("%s restore: %v", name, err)
		}

		for i, c := range series[cut:] {
			want := continuous.Update(c)
			got := resumed.Update(c)
			if len(got) != len(want) {
				t.Fatalf("%s candle %d: resumed has %d channels, continuous %d",
					name, cut+i, len(got), len(want))
			}
			for key, wv := range want {
				gv, ok := got[key]
				if !ok {
					t.Fatalf("%s candle %d: channel %s missing after restore", name, cut+i, key)
				}
				if math.Abs(gv-wv) > 1e-12 {
					t.Errorf("%s candle %d channel %s: resumed %.15f, continuous %.15f",
						name, cut+i, key, gv, wv)
				}
			}
		}
	}
}

func TestSnapshot_RejectsWrongIdentity(t *testing.T) {
	reg := indicator.NewRegistry()
	maDef, _ := reg.Lookup("MA")
	rsiDef, _ := reg.Lookup("RSI")

	ma, err := New(maDef, []int{5, 10})
	if err != nil {
		t.Fatal(err)
	}
	snap := ma.Snapshot()

	rsi, err := New(rsiDef, []int{6, 9})
	if err != nil {
		t.Fatal(err)
	}
	if err := rsi.Restore(snap); err == nil {
		t.Error("restoring an MA snapshot into RSI must fail")
	}

	other, err := New(maDef, []int{5, 20})
	if err != nil {
		t.Fatal(err)
	}
	if err := other.Restore(snap); err == nil {
		t.Error("restoring across different params must fail")
	}
}

func TestEngineSnapshot_RoundTrip(t *testing.T) {
	reg := indicator.NewRegistry()
	series := syntheticSeries(80)

	eng := NewEngine(reg)
	for _, c := range series[:60] {
		if _, err := eng.Process("ETHUSDT", "MACD", nil, c); err != nil {
			t.Fatal(err)
		}
		if _, err := eng.Process("ETHUSDT", "RSI", nil, c); err != nil {
			t.Fatal(err)
		}
		if _, err := eng.Process("BTCUSDT", "KDJ", nil, c); err != nil {
			t.Fatal(err)
		}
	}

	raw, err := json.Marshal(eng.Snapshot(999))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var snap EngineSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if snap.Version != snapshotVersion || snap.SavedAt != 999 {
		t.Fatalf("header lost in round-trip: %+v", snap)
	}

	restored, skipped := RestoreEngine(reg, &snap)
	if skipped != 0 {
		t.Fatalf("unexpected skips: %d", skipped)
	}
	if restored.Size() != eng.Size() {
		t.Fatalf("restored %d entries, want %d", restored.Size(), eng.Size())
	}

	// Both engines must agree on everything after the checkpoint.
	for _, c := range series[60:] {
		want, err := eng.Process("ETHUSDT", "MACD", nil, c)
		if err != nil {
			t.Fatal(err)
		}
		got, err := restored.Process("ETHUSDT", "MACD", nil, c)
		if err != nil {
			t.Fatal(err)
		}
		for key, wv := range want {
			if gv, ok := got[key]; !ok || math.Abs(gv-wv) > 1e-12 {
				t.Errorf("channel %s: restored %v, continuous %v", key, got[key], wv)
			}
		}
	}
}

func TestRestoreEngine_SkipsUnknownIndicators(t *testing.T) {
	reg := indicator.NewRegistry()
	eng := NewEngine(reg)
	for _, c := range syntheticSeries(30) {
		if _, err := eng.Process("ETHUSDT", "MA", nil, c); err != nil {
			t.Fatal(err)
		}
	}
	snap := eng.Snapshot(0)
	snap.Entries = append(snap.Entries, EntrySnapshot{
		Symbol: "ETHUSDT",
		Calc:   Snapshot{Name: "BOLL", Params: []int{20}},
	})

	restored, skipped := RestoreEngine(reg, snap)
	if skipped != 1 {
		t.Fatalf("skipped = %d, want 1", skipped)
	}
	if restored.Size() != 1 {
		t.Fatalf("size = %d, want 1", restored.Size())
	}
}

func TestRestoreEngine_NilSnapshotColdStarts(t *testing.T) {
	reg := indicator.NewRegistry()
	eng, skipped := RestoreEngine(reg, nil)
	if skipped != 0 || eng.Size() != 0 {
		t.Fatalf("cold start: size=%d skipped=%d", eng.Size(), skipped)
	}
}
