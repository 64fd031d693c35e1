package stream

import "chartengine/internal/model"

// rsiCalc streams Wilder RSI, one independent state per period.
type rsiCalc struct {
	params []int
	keys   []string
	rsis   []*wilderRSI
}

func newRSICalc(params []int) *rsiCalc {
	c := &rsiCalc{params: params}
	for _, p := range params {
		c.keys = append(c.keys, periodKey("rsi", p))
		c.rsis = append(c.rsis, newWilderRSI(p))
	}
	return c
}

func (c *rsiCalc) Name() string  { return "RSI" }
func (c *rsiCalc) Params() []int { return c.params }
func (c *rsiCalc) Warmup() int   { return maxPeriod(c.params) + 1 }

func (c *rsiCalc) Update(candle model.Candle) model.Record {
	rec := make(model.Record, len(c.rsis))
	for i, r := range c.rsis {
		if v, ok := r.update(candle.Close); ok {
			rec[c.keys[i]] = v
		}
	}
	return rec
}

func (c *rsiCalc) Snapshot() Snapshot {
	snap := Snapshot{Name: c.Name(), Params: c.params}
	for _, r := range c.rsis {
		snap.States = append(snap.States, r.state())
	}
	return snap
}

func (c *rsiCalc) Restore(snap Snapshot) error {
	if err := snap.checkHeader(c.Name(), c.params, len(c.rsis)); err != nil {
		return err
	}
	for i, r := range c.rsis {
		if err := r.restore(snap.States[i]); err != nil {
			return err
		}
	}
	return nil
}
