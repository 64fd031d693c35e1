package stream

import (
	"strconv"

	"chartengine/internal/model"
)

// atrCalc streams average true range: one shared true-range state feeding a
// wilderRMA per period. Channels are positional (atr1, atr2, ...), matching
// the batch form.
type atrCalc struct {
	params    []int
	keys      []string
	rmas      []*wilderRMA
	prevClose float64
	seen      bool
}

func newATRCalc(params []int) *atrCalc {
	c := &atrCalc{params: params}
	for i, p := range params {
		c.keys = append(c.keys, "atr"+strconv.Itoa(i+1))
		c.rmas = append(c.rmas, newWilderRMA(p))
	}
	return c
}

func (c *atrCalc) Name() string  { return "ATR" }
func (c *atrCalc) Params() []int { return c.params }
func (c *atrCalc) Warmup() int   { return maxPeriod(c.params) }

func (c *atrCalc) Update(candle model.Candle) model.Record {
	prev := candle.Close
	if c.seen {
		prev = c.prevClose
	}
	c.prevClose = candle.Close
	c.seen = true

	tr := candle.High - candle.Low
	if v := candle.High - prev; v > tr {
		tr = v
	} else if v := prev - candle.High; v > tr {
		tr = v
	}
	if v := candle.Low - prev; v > tr {
		tr = v
	} else if v := prev - candle.Low; v > tr {
		tr = v
	}

	rec := make(model.Record, len(c.rmas))
	for i, r := range c.rmas {
		if v, ok := r.update(tr); ok {
			rec[c.keys[i]] = v
		}
	}
	return rec
}

func (c *atrCalc) Snapshot() Snapshot {
	snap := Snapshot{Name: c.Name(), Params: c.params}
	snap.States = append(snap.States, primState{Kind: "tr", PrevClose: c.prevClose, Seen: c.seen})
	for _, r := range c.rmas {
		snap.States = append(snap.States, r.state())
	}
	return snap
}

func (c *atrCalc) Restore(snap Snapshot) error {
	if err := snap.checkHeader(c.Name(), c.params, len(c.rmas)+1); err != nil {
		return err
	}
	if err := snap.States[0].check("tr", 0); err != nil {
		return err
	}
	c.prevClose = snap.States[0].PrevClose
	c.seen = snap.States[0].Seen
	for i, r := range c.rmas {
		if err := r.restore(snap.States[i+1]); err != nil {
			return err
		}
	}
	return nil
}
