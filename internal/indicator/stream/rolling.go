package stream

import "fmt"

// Rolling smoothing primitives shared by the streaming calculators. Each
// updates in O(1) (the extrema window scans its fixed-size buffer) and
// serializes to a primState for checkpointing.

// primState serializes one smoothing primitive. A single flat struct with
// omitempty covers all primitive kinds; Kind discriminates on restore.
type primState struct {
	Kind      string    `json:"kind"`
	Period    int       `json:"period"`
	Count     int       `json:"count"`
	Sum       float64   `json:"sum,omitempty"`
	Cur       float64   `json:"cur,omitempty"`
	Buf       []float64 `json:"buf,omitempty"`
	Idx       int       `json:"idx,omitempty"`
	AvgGain   float64   `json:"avg_gain,omitempty"`
	AvgLoss   float64   `json:"avg_loss,omitempty"`
	PrevClose float64   `json:"prev_close,omitempty"`
	Seen      bool      `json:"seen,omitempty"`
}

func (s primState) check(kind string, period int) error {
	if s.Kind != kind {
		return fmt.Errorf("state kind mismatch: have %q, want %q", s.Kind, kind)
	}
	if s.Period != period {
		return fmt.Errorf("state period mismatch: have %d, want %d", s.Period, period)
	}
	return nil
}

// rollingSMA is a simple moving average over a preallocated circular buffer.
type rollingSMA struct {
	period int
	buf    []float64
	idx    int
	count  int
	sum    float64
}

func newRollingSMA(period int) *rollingSMA {
	return &rollingSMA{period: period, buf: make([]float64, period)}
}

func (s *rollingSMA) update(v float64) (float64, bool) {
	if s.count >= s.period {
		s.sum -= s.buf[s.idx]
	}
	s.buf[s.idx] = v
	s.sum += v
	s.idx = (s.idx + 1) % s.period
	s.count++
	if s.count >= s.period {
		return s.sum / float64(s.period), true
	}
	return 0, false
}

func (s *rollingSMA) state() primState {
	buf := make([]float64, len(s.buf))
	copy(buf, s.buf)
	return primState{Kind: "sma", Period: s.period, Count: s.count, Sum: s.sum, Buf: buf, Idx: s.idx}
}

func (s *rollingSMA) restore(st primState) error {
	if err := st.check("sma", s.period); err != nil {
		return err
	}
	if len(st.Buf) != s.period {
		return fmt.Errorf("sma buffer length %d, want %d", len(st.Buf), s.period)
	}
	copy(s.buf, st.Buf)
	s.idx = st.Idx
	s.count = st.Count
	s.sum = st.Sum
	return nil
}

// seededEMA is an exponential moving average with factor 2/(period+1),
// seeded by the simple average of the first period values.
type seededEMA struct {
	period int
	alpha  float64
	count  int
	sum    float64
	cur    float64
}

func newSeededEMA(period int) *seededEMA {
	return &seededEMA{period: period, alpha: 2.0 / float64(period+1)}
}

func (e *seededEMA) update(v float64) (float64, bool) {
	e.count++
	if e.count <= e.period {
		e.sum += v
		if e.count == e.period {
			e.cur = e.sum / float64(e.period)
			return e.cur, true
		}
		return 0, false
	}
	e.cur = v*e.alpha + e.cur*(1-e.alpha)
	return e.cur, true
}

func (e *seededEMA) state() primState {
	return primState{Kind: "ema", Period: e.period, Count: e.count, Sum: e.sum, Cur: e.cur}
}

func (e *seededEMA) restore(st primState) error {
	if err := st.check("ema", e.period); err != nil {
		return err
	}
	e.count = st.Count
	e.sum = st.Sum
	e.cur = st.Cur
	return nil
}

// wilderRMA is Wilder's smoothing: factor 1/period, SMA-seeded.
type wilderRMA struct {
	period int
	count  int
	sum    float64
	cur    float64
}

func newWilderRMA(period int) *wilderRMA {
	return &wilderRMA{period: period}
}

func (r *wilderRMA) update(v float64) (float64, bool) {
	r.count++
	if r.count <= r.period {
		r.sum += v
		if r.count == r.period {
			r.cur = r.sum / float64(r.period)
			return r.cur, true
		}
		return 0, false
	}
	r.cur = (r.cur*float64(r.period-1) + v) / float64(r.period)
	return r.cur, true
}

func (r *wilderRMA) state() primState {
	return primState{Kind: "rma", Period: r.period, Count: r.count, Sum: r.sum, Cur: r.cur}
}

func (r *wilderRMA) restore(st primState) error {
	if err := st.check("rma", r.period); err != nil {
		return err
	}
	r.count = st.Count
	r.sum = st.Sum
	r.cur = st.Cur
	return nil
}

// rollingWindow keeps the last period values for extrema queries.
type rollingWindow struct {
	period int
	buf    []float64
	idx    int
	count  int
}

func newRollingWindow(period int) *rollingWindow {
	return &rollingWindow{period: period, buf: make([]float64, period)}
}

func (w *rollingWindow) push(v float64) {
	w.buf[w.idx] = v
	w.idx = (w.idx + 1) % w.period
	w.count++
}

func (w *rollingWindow) full() bool {
	return w.count >= w.period
}

// max scans the occupied part of the buffer. Windows are small (indicator
// periods), so the scan is cheaper than a monotonic deque would be.
func (w *rollingWindow) max() float64 {
	n := w.count
	if n > w.period {
		n = w.period
	}
	m := w.buf[0]
	for i := 1; i < n; i++ {
		if w.buf[i] > m {
			m = w.buf[i]
		}
	}
	return m
}

func (w *rollingWindow) min() float64 {
	n := w.count
	if n > w.period {
		n = w.period
	}
	m := w.buf[0]
	for i := 1; i < n; i++ {
		if w.buf[i] < m {
			m = w.buf[i]
		}
	}
	return m
}

func (w *rollingWindow) state() primState {
	buf := make([]float64, len(w.buf))
	copy(buf, w.buf)
	return primState{Kind: "win", Period: w.period, Count: w.count, Buf: buf, Idx: w.idx}
}

func (w *rollingWindow) restore(st primState) error {
	if err := st.check("win", w.period); err != nil {
		return err
	}
	if len(st.Buf) != w.period {
		return fmt.Errorf("window buffer length %d, want %d", len(st.Buf), w.period)
	}
	copy(w.buf, st.Buf)
	w.idx = st.Idx
	w.count = st.Count
	return nil
}

// wilderRSI tracks one RSI period end to end: previous close, seed sums and
// the smoothed gain/loss averages.
type wilderRSI struct {
	period    int
	count     int
	prevClose float64
	avgGain   float64
	avgLoss   float64
}

func newWilderRSI(period int) *wilderRSI {
	return &wilderRSI{period: period}
}

func (r *wilderRSI) update(close float64) (float64, bool) {
	r.count++
	if r.count == 1 {
		r.prevClose = close
		return 0, false
	}

	delta := close - r.prevClose
	r.prevClose = close
	gain, loss := 0.0, 0.0
	if delta > 0 {
		gain = delta
	} else {
		loss = -delta
	}

	p := float64(r.period)
	if r.count <= r.period+1 {
		r.avgGain += gain
		r.avgLoss += loss
		if r.count == r.period+1 {
			r.avgGain /= p
			r.avgLoss /= p
			return rsiValue(r.avgGain, r.avgLoss), true
		}
		return 0, false
	}

	r.avgGain = (r.avgGain*(p-1) + gain) / p
	r.avgLoss = (r.avgLoss*(p-1) + loss) / p
	return rsiValue(r.avgGain, r.avgLoss), true
}

func (r *wilderRSI) state() primState {
	return primState{
		Kind: "rsi", Period: r.period, Count: r.count,
		PrevClose: r.prevClose, AvgGain: r.avgGain, AvgLoss: r.avgLoss,
	}
}

func (r *wilderRSI) restore(st primState) error {
	if err := st.check("rsi", r.period); err != nil {
		return err
	}
	r.count = st.Count
	r.prevClose = st.PrevClose
	r.avgGain = st.AvgGain
	r.avgLoss = st.AvgLoss
	return nil
}

// rsiValue must stay in lockstep with the batch RSI fallbacks; the parity
// tests hold both forms to the same outputs.
func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	return 100 - 100/(1+avgGain/avgLoss)
}
