package model

// Figure rendering hints. Calculation correctness never depends on these,
// but they must round-trip to chart consumers unchanged.
const (
	FigureLine = "line"
	FigureBar  = "bar"
)

// Figure describes one named output channel of an indicator, e.g. the "dif"
// line of MACD. Key is stable across calls with the same parameters and is
// the lookup key into each Record.
type Figure struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Type  string `json:"type"` // FigureLine or FigureBar
}

// Record holds the computed channel values for a single candle.
// A missing key means the channel is still warming up at that index.
type Record map[string]float64

// Has reports whether the channel has a defined value in this record.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}
