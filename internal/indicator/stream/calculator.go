// Package stream provides the incremental counterpart of the batch indicator
// engine: per-indicator rolling state fed one closed candle at a time.
//
// The batch form recomputes from scratch on every call; a Calculator carries
// the smoothing state (last EMA/RMA values, running sums, window buffers)
// forward between calls instead, and can serialize that state for checkpoint
// persistence. Feeding a series candle-by-candle yields exactly the values a
// single batch Calculate produces.
package stream

import (
	"fmt"
	"strconv"

	"chartengine/internal/indicator"
	"chartengine/internal/model"
)

// Calculator consumes closed candles for one (indicator, params) pair and
// emits the indicator record for each. Not safe for concurrent use; the
// engine arena drives each instance from a single goroutine.
type Calculator interface {
	// Name returns the indicator name, e.g. "MACD".
	Name() string

	// Params returns the parameter set this instance was built with.
	Params() []int

	// Warmup returns how many candles are needed before every channel of
	// this indicator produces defined values.
	Warmup() int

	// Update consumes the next closed candle and returns the record for
	// it. Channels still warming up are absent from the record.
	Update(c model.Candle) model.Record

	// Snapshot serializes the rolling state for checkpoint persistence.
	Snapshot() Snapshot

	// Restore replaces the rolling state from a snapshot taken from an
	// instance with the same name and params.
	Restore(snap Snapshot) error
}

// Snapshot holds the serialized state of a single Calculator.
type Snapshot struct {
	Name   string      `json:"name"`
	Params []int       `json:"params"`
	States []primState `json:"states"`
}

// checkHeader validates that a snapshot belongs to a calculator with the
// given identity and carries the expected number of primitive states.
func (s *Snapshot) checkHeader(name string, params []int, nStates int) error {
	if s.Name != name {
		return fmt.Errorf("snapshot for %q, calculator is %q", s.Name, name)
	}
	if len(s.Params) != len(params) {
		return fmt.Errorf("snapshot params %v, calculator has %v", s.Params, params)
	}
	for i := range params {
		if s.Params[i] != params[i] {
			return fmt.Errorf("snapshot params %v, calculator has %v", s.Params, params)
		}
	}
	if len(s.States) != nStates {
		return fmt.Errorf("snapshot has %d states, calculator needs %d", len(s.States), nStates)
	}
	return nil
}

// New builds a streaming calculator for a registered indicator definition.
// nil params fall back to the definition's defaults; malformed params return
// the same *ParamError the batch engine produces.
func New(def indicator.Definition, params []int) (Calculator, error) {
	if len(params) == 0 {
		params = def.DefaultParams()
	}
	if err := def.ValidateParams(params); err != nil {
		return nil, err
	}
	cp := make([]int, len(params))
	copy(cp, params)

	switch def.Name() {
	case "MA":
		return newMACalc(cp), nil
	case "EMA":
		return newEMACalc(cp), nil
	case "MACD":
		return newMACDCalc(cp), nil
	case "RSI":
		return newRSICalc(cp), nil
	case "KDJ":
		return newKDJCalc(cp), nil
	case "ATR":
		return newATRCalc(cp), nil
	case "VOL":
		return newVOLCalc(cp), nil
	default:
		return nil, fmt.Errorf("indicator %q has no streaming form", def.Name())
	}
}

func periodKey(prefix string, period int) string {
	return prefix + strconv.Itoa(period)
}

func maxPeriod(params []int) int {
	m := 0
	for _, p := range params {
		if p > m {
			m = p
		}
	}
	return m
}
