package model

import "encoding/json"

// Candle represents one OHLCV sample of a chart series.
// TS is the bucket open time in milliseconds since epoch. Series handed to
// the indicator engine must be ordered ascending by TS with no duplicates.
type Candle struct {
	TS     int64   `json:"ts"` // milliseconds
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// Rising reports whether the candle closed at or above its open.
// Used for bar coloring only, never for calculation.
func (c *Candle) Rising() bool {
	return c.Close >= c.Open
}

// JSON returns the JSON-encoded candle (ignoring errors for hot-path usage).
func (c *Candle) JSON() []byte {
	b, _ := json.Marshal(c)
	return b
}
