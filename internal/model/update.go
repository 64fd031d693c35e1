package model

import "encoding/json"

// IndicatorUpdate is the envelope pushed to chart consumers whenever the
// streaming engine processes a closed candle.
type IndicatorUpdate struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"` // indicator name, e.g. "MACD"
	Params []int  `json:"params"`
	TS     int64  `json:"ts"` // candle timestamp, milliseconds
	Values Record `json:"values"`
}

// Channel returns the pub/sub channel this update is published on:
// "ind:{name}:{symbol}".
func (u *IndicatorUpdate) Channel() string {
	return "ind:" + u.Name + ":" + u.Symbol
}

// JSON returns the JSON-encoded update.
func (u *IndicatorUpdate) JSON() []byte {
	b, _ := json.Marshal(u)
	return b
}

// SymbolCandle pairs a closed candle with the symbol it belongs to, as
// delivered by the market-data feed.
type SymbolCandle struct {
	Symbol string `json:"symbol"`
	Candle Candle `json:"candle"`
}

// CandleChannel returns the pub/sub channel closed candles for a symbol
// arrive on: "candle:{symbol}".
func CandleChannel(symbol string) string {
	return "candle:" + symbol
}
