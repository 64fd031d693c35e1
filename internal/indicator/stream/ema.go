package stream

import "chartengine/internal/model"

// emaCalc streams the exponential moving average family.
type emaCalc struct {
	params []int
	keys   []string
	emas   []*seededEMA
}

func newEMACalc(params []int) *emaCalc {
	c := &emaCalc{params: params}
	for _, p := range params {
		c.keys = append(c.keys, periodKey("ema", p))
		c.emas = append(c.emas, newSeededEMA(p))
	}
	return c
}

func (c *emaCalc) Name() string  { return "EMA" }
func (c *emaCalc) Params() []int { return c.params }
func (c *emaCalc) Warmup() int   { return maxPeriod(c.params) }

func (c *emaCalc) Update(candle model.Candle) model.Record {
	rec := make(model.Record, len(c.emas))
	for i, e := range c.emas {
		if v, ok := e.update(candle.Close); ok {
			rec[c.keys[i]] = v
		}
	}
	return rec
}

func (c *emaCalc) Snapshot() Snapshot {
	snap := Snapshot{Name: c.Name(), Params: c.params}
	for _, e := range c.emas {
		snap.States = append(snap.States, e.state())
	}
	return snap
}

func (c *emaCalc) Restore(snap Snapshot) error {
	if err := snap.checkHeader(c.Name(), c.params, len(c.emas)); err != nil {
		return err
	}
	for i, e := range c.emas {
		if err := e.restore(snap.States[i]); err != nil {
			return err
		}
	}
	return nil
}
