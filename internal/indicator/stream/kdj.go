package stream

import "chartengine/internal/model"

// kdjCalc streams the stochastic chain: rolling high/low windows produce RSV,
// then two rollingSMA stages smooth it into K and D; J is derived.
type kdjCalc struct {
	params []int
	highs  *rollingWindow
	lows   *rollingWindow
	kSMA   *rollingSMA
	dSMA   *rollingSMA
}

func newKDJCalc(params []int) *kdjCalc {
	return &kdjCalc{
		params: params,
		highs:  newRollingWindow(params[0]),
		lows:   newRollingWindow(params[0]),
		kSMA:   newRollingSMA(params[1]),
		dSMA:   newRollingSMA(params[2]),
	}
}

func (c *kdjCalc) Name() string  { return "KDJ" }
func (c *kdjCalc) Params() []int { return c.params }
func (c *kdjCalc) Warmup() int   { return c.params[0] + c.params[1] + c.params[2] - 2 }

func (c *kdjCalc) Update(candle model.Candle) model.Record {
	rec := make(model.Record, 3)
	c.highs.push(candle.High)
	c.lows.push(candle.Low)
	if !c.highs.full() {
		return rec
	}

	hh, ll := c.highs.max(), c.lows.min()
	rsv := 50.0
	if hh != ll {
		rsv = 100 * (candle.Close - ll) / (hh - ll)
	}

	k, ok := c.kSMA.update(rsv)
	if !ok {
		return rec
	}
	rec["k"] = k
	if d, ok := c.dSMA.update(k); ok {
		rec["d"] = d
		rec["j"] = 3*k - 2*d
	}
	return rec
}

func (c *kdjCalc) Snapshot() Snapshot {
	return Snapshot{
		Name:   c.Name(),
		Params: c.params,
		States: []primState{c.highs.state(), c.lows.state(), c.kSMA.state(), c.dSMA.state()},
	}
}

func (c *kdjCalc) Restore(snap Snapshot) error {
	if err := snap.checkHeader(c.Name(), c.params, 4); err != nil {
		return err
	}
	if err := c.highs.restore(snap.States[0]); err != nil {
		return err
	}
	if err := c.lows.restore(snap.States[1]); err != nil {
		return err
	}
	if err := c.kSMA.restore(snap.States[2]); err != nil {
		return err
	}
	return c.dSMA.restore(snap.States[3])
}
