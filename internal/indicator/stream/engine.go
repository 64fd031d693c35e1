package stream

import (
	"sort"
	"strconv"
	"strings"

	"chartengine/internal/indicator"
	"chartengine/internal/model"
)

// Engine is an arena of live calculators keyed by (symbol, indicator,
// params). Designed for single-goroutine usage — no locks needed; run it
// from one processing loop and snapshot from the same goroutine.
type Engine struct {
	reg    *indicator.Registry
	states map[string]*entry
}

type entry struct {
	symbol string
	calc   Calculator
	lastTS int64 // timestamp of the last candle applied, milliseconds
}

// NewEngine creates an empty arena backed by the given registry.
func NewEngine(reg *indicator.Registry) *Engine {
	return &Engine{
		reg:    reg,
		states: make(map[string]*entry, 64),
	}
}

// Process feeds one closed candle into the calculator for (symbol, name,
// params), creating it on first touch. Candles at or before the entry's last
// applied timestamp are skipped (nil record, no error), which makes replay
// after a snapshot restore idempotent.
func (e *Engine) Process(symbol, name string, params []int, c model.Candle) (model.Record, error) {
	def, err := e.reg.Lookup(name)
	if err != nil {
		return nil, err
	}
	if len(params) == 0 {
		params = def.DefaultParams()
	}

	key := stateKey(symbol, name, params)
	ent, exists := e.states[key]
	if !exists {
		calc, err := New(def, params)
		if err != nil {
			return nil, err
		}
		ent = &entry{symbol: symbol, calc: calc}
		e.states[key] = ent
	}

	if c.TS <= ent.lastTS {
		return nil, nil // stale or replayed candle
	}
	ent.lastTS = c.TS
	return ent.calc.Update(c), nil
}

// Warmup reports the candle count needed before every channel of (name,
// params) is defined. Used to size cold-start backfills.
func (e *Engine) Warmup(name string, params []int) (int, error) {
	def, err := e.reg.Lookup(name)
	if err != nil {
		return 0, err
	}
	calc, err := New(def, params)
	if err != nil {
		return 0, err
	}
	return calc.Warmup(), nil
}

// LastTS returns the smallest last-applied timestamp across a symbol's
// entries, or 0 if the symbol has a cold (or no) calculator. Replaying
// candles after this timestamp brings every calculator up to date.
func (e *Engine) LastTS(symbol string) int64 {
	var min int64 = -1
	for _, ent := range e.states {
		if ent.symbol != symbol {
			continue
		}
		if min == -1 || ent.lastTS < min {
			min = ent.lastTS
		}
	}
	if min == -1 {
		return 0
	}
	return min
}

// Size returns the number of live calculators.
func (e *Engine) Size() int {
	return len(e.states)
}

func stateKey(symbol, name string, params []int) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, strconv.Itoa(p))
	}
	return symbol + "|" + name + "|" + strings.Join(parts, ",")
}

// EngineSnapshot holds the full serialized state of an Engine.
type EngineSnapshot struct {
	Version int             `json:"version"` // schema version for forward compat
	SavedAt int64           `json:"saved_at"` // wall time of the checkpoint, milliseconds
	Entries []EntrySnapshot `json:"entries"`
}

// EntrySnapshot is one (symbol, calculator) pair inside an EngineSnapshot.
type EntrySnapshot struct {
	Symbol string   `json:"symbol"`
	LastTS int64    `json:"last_ts"`
	Calc   Snapshot `json:"calc"`
}

const snapshotVersion = 1

// Snapshot captures the full arena state. Entries are sorted by key so
// repeated snapshots of the same state are byte-identical after encoding.
func (e *Engine) Snapshot(savedAt int64) *EngineSnapshot {
	keys := make([]string, 0, len(e.states))
	for k := range e.states {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	snap := &EngineSnapshot{Version: snapshotVersion, SavedAt: savedAt}
	for _, k := range keys {
		ent := e.states[k]
		snap.Entries = append(snap.Entries, EntrySnapshot{
			Symbol: ent.symbol,
			LastTS: ent.lastTS,
			Calc:   ent.calc.Snapshot(),
		})
	}
	return snap
}

// RestoreEngine rebuilds an arena from a snapshot. It is tolerant of config
// drift: entries whose indicator is no longer registered, whose params no
// longer validate, or whose state fails to restore are skipped and will
// cold-start on first Process. Returns the restored engine and how many
// entries were skipped.
func RestoreEngine(reg *indicator.Registry, snap *EngineSnapshot) (*Engine, int) {
	e := NewEngine(reg)
	if snap == nil {
		return e, 0
	}

	skipped := 0
	for _, es := range snap.Entries {
		def, err := reg.Lookup(es.Calc.Name)
		if err != nil {
			skipped++
			continue
		}
		calc, err := New(def, es.Calc.Params)
		if err != nil {
			skipped++
			continue
		}
		if err := calc.Restore(es.Calc); err != nil {
			skipped++
			continue
		}
		key := stateKey(es.Symbol, es.Calc.Name, es.Calc.Params)
		e.states[key] = &entry{symbol: es.Symbol, calc: calc, lastTS: es.LastTS}
	}
	return e, skipped
}
