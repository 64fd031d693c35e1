package stream

import "chartengine/internal/model"

// macdCalc streams MACD: two close EMAs plus a signal EMA fed with the dif
// values, in the same order the batch form produces them.
type macdCalc struct {
	params []int
	fast   *seededEMA
	slow   *seededEMA
	dea    *seededEMA
}

func newMACDCalc(params []int) *macdCalc {
	return &macdCalc{
		params: params,
		fast:   newSeededEMA(params[0]),
		slow:   newSeededEMA(params[1]),
		dea:    newSeededEMA(params[2]),
	}
}

func (c *macdCalc) Name() string  { return "MACD" }
func (c *macdCalc) Params() []int { return c.params }

func (c *macdCalc) Warmup() int {
	slow := c.params[0]
	if c.params[1] > slow {
		slow = c.params[1]
	}
	return slow + c.params[2] - 1
}

func (c *macdCalc) Update(candle model.Candle) model.Record {
	rec := make(model.Record, 3)
	fv, fok := c.fast.update(candle.Close)
	sv, sok := c.slow.update(candle.Close)
	if !fok || !sok {
		return rec
	}
	dif := fv - sv
	rec["dif"] = dif
	if dv, ok := c.dea.update(dif); ok {
		rec["dea"] = dv
		rec["macd"] = (dif - dv) * 2
	}
	return rec
}

func (c *macdCalc) Snapshot() Snapshot {
	return Snapshot{
		Name:   c.Name(),
		Params: c.params,
		States: []primState{c.fast.state(), c.slow.state(), c.dea.state()},
	}
}

func (c *macdCalc) Restore(snap Snapshot) error {
	if err := snap.checkHeader(c.Name(), c.params, 3); err != nil {
		return err
	}
	if err := c.fast.restore(snap.States[0]); err != nil {
		return err
	}
	if err := c.slow.restore(snap.States[1]); err != nil {
		return err
	}
	return c.dea.restore(snap.States[2])
}
