package stream

import "chartengine/internal/model"

// maCalc streams the simple moving average family: one rollingSMA per period.
type maCalc struct {
	params []int
	keys   []string
	smas   []*rollingSMA
}

func newMACalc(params []int) *maCalc {
	c := &maCalc{params: params}
	for _, p := range params {
		c.keys = append(c.keys, periodKey("ma", p))
		c.smas = append(c.smas, newRollingSMA(p))
	}
	return c
}

func (c *maCalc) Name() string   { return "MA" }
func (c *maCalc) Params() []int  { return c.params }
func (c *maCalc) Warmup() int    { return maxPeriod(c.params) }

func (c *maCalc) Update(candle model.Candle) model.Record {
	rec := make(model.Record, len(c.smas))
	for i, s := range c.smas {
		if v, ok := s.update(candle.Close); ok {
			rec[c.keys[i]] = v
		}
	}
	return rec
}

func (c *maCalc) Snapshot() Snapshot {
	snap := Snapshot{Name: c.Name(), Params: c.params}
	for _, s := range c.smas {
		snap.States = append(snap.States, s.state())
	}
	return snap
}

func (c *maCalc) Restore(snap Snapshot) error {
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
