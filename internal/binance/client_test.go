package binance

import (
	"testing"

	"github.com/adshao/go-binance/v2/futures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateKline(t *testing.T) {
	k := &futures.Kline{
		OpenTime: 1700000000000,
		Open:     "42000.50",
		High:     "42150.00",
		Low:      "41900.25",
		Close:    "42100.75",
		Volume:   "123.456",
	}

	c, err := translateKline(k)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000000), c.TS)
	assert.Equal(t, 42000.50, c.Open)
	assert.Equal(t, 42150.00, c.High)
	assert.Equal(t, 41900.25, c.Low)
	assert.Equal(t, 42100.75, c.Close)
	assert.Equal(t, 123.456, c.Volume)
}

func TestTranslateKlineBadNumber(t *testing.T) {
	k := &futures.Kline{Open: "not-a-number", High: "1", Low: "1", Close: "1", Volume: "1"}
	_, err := translateKline(k)
	require.Error(t, err)
}
