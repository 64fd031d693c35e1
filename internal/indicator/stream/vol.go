package stream

import "chartengine/internal/model"

// volCalc streams the volume overlay: raw volume passthrough plus volume
// moving averages.
type volCalc struct {
	params []int
	keys   []string
	smas   []*rollingSMA
}

func newVOLCalc(params []int) *volCalc {
	c := &volCalc{params: params}
	for _, p := range params {
		c.keys = append(c.keys, periodKey("ma", p))
		c.smas = append(c.smas, newRollingSMA(p))
	}
	return c
}

func (c *volCalc) Name() string  { return "VOL" }
func (c *volCalc) Params() []int { return c.params }
func (c *volCalc) Warmup() int   { return maxPeriod(c.params) }

func (c *volCalc) Update(candle model.Candle) model.Record {
	rec := make(model.Record, len(c.smas)+1)
	rec["volume"] = candle.Volume
	for i, s := range c.smas {
		if v, ok := s.update(candle.Volume); ok {
			rec[c.keys[i]] = v
		}
	}
	return rec
}

func (c *volCalc) Snapshot() Snapshot {
	snap := Snapshot{Name: c.Name(), Params: c.params}
	for _, s := range c.smas {
		snap.States = append(snap.States, s.state())
	}
	return snap
}

func (c *volCalc) Restore(snap Snapshot) error {
	if err := snap.checkHeader(c.Name(), c.params, len(c.smas)); err != nil {
		return err
	}
	for i, s := range c.smas {
		if err := s.restore(snap.States[i]); err != nil {
			return err
		}
	}
	return nil
}
