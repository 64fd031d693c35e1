package sqlite

import (
	"log/slog"
	"path/filepath"
	"testing"

	"chartengine/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openPair(t *testing.T) (*Writer, *Reader) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	log := slog.Default()

	w, err := NewWriter(path, log)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	r, err := NewReader(path, log)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })

	return w, r
}

func candles(n int) []model.Candle {
	out := make([]model.Candle, n)
	for i := range out {
		c := 100 + float64(i)
		out[i] = model.Candle{
			TS: int64(i+1) * 60_000, Open: c - 1, High: c + 2, Low: c - 2, Close: c,
			Volume: float64(1000 + i),
		}
	}
	return out
}

func TestWriteReadCandles(t *testing.T) {
	w, r := openPair(t)

	written := candles(20)
	require.NoError(t, w.WriteCandles("ETHUSDT", "1m", written))

	got, err := r.ReadCandles("ETHUSDT", "1m", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, written, got)

	// afterTS filter and limit
	got, err = r.ReadCandles("ETHUSDT", "1m", written[9].TS, 5)
	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.Equal(t, written[10], got[0])

	// other symbol/interval stays isolated
	got, err = r.ReadCandles("BTCUSDT", "1m", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWriteCandles_UpsertIsIdempotent(t *testing.T) {
	w, r := openPair(t)

	written := candles(5)
	require.NoError(t, w.WriteCandles("ETHUSDT", "1m", written))
	require.NoError(t, w.WriteCandles("ETHUSDT", "1m", written))

	got, err := r.ReadCandles("ETHUSDT", "1m", 0, 0)
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestReadRecentCandles(t *testing.T) {
	w, r := openPair(t)

	written := candles(30)
	require.NoError(t, w.WriteCandles("ETHUSDT", "1m", written))

	got, err := r.ReadRecentCandles("ETHUSDT", "1m", 10)
	require.NoError(t, err)
	require.Len(t, got, 10)
	// Ascending order, ending at the newest candle.
	assert.Equal(t, written[20], got[0])
	assert.Equal(t, written[29], got[9])
}

func TestSnapshotRoundTrip(t *testing.T) {
	w, r := openPair(t)

	// No snapshot yet
	data, err := r.ReadLatestSnapshot()
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, w.SaveSnapshot([]byte(`{"version":1,"entries":[]}`)))
	require.NoError(t, w.SaveSnapshot([]byte(`{"version":1,"entries":["newer"]}`)))

	data, err = r.ReadLatestSnapshot()
	require.NoError(t, err)
	assert.Contains(t, string(data), "newer")
}
