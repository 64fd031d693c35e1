package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"

	"chartengine/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

// Reader provides read-only access for warm-up backfill and snapshot restore.
type Reader struct {
	db *sql.DB
}

// NewReader opens a SQLite connection for reading.
func NewReader(dbPath string, log *slog.Logger) (*Reader, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open reader: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(2)

	log.Debug("sqlite reader opened", slog.String("path", dbPath))
	return &Reader{db: db}, nil
}

// ReadCandles returns candles for a symbol/interval with ts > afterTS,
// ordered ascending. limit <= 0 means no limit.
func (r *Reader) ReadCandles(symbol, interval string, afterTS int64, limit int) ([]model.Candle, error) {
	q := `
		SELECT ts, open, high, low, close, volume
		FROM candles
		WHERE symbol = ? AND interval = ? AND ts > ?
		ORDER BY ts ASC
	`
	args := []interface{}{symbol, interval, afterTS}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite query candles: %w", err)
	}
	defer rows.Close()

	var candles []model.Candle
	for rows.Next() {
		var c model.Candle
		if err := rows.Scan(&c.TS, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, fmt.Errorf("sqlite scan candle: %w", err)
		}
		candles = append(candles, c)
	}
	return candles, rows.Err()
}

// ReadRecentCandles returns the most recent n candles in ascending order.
// Used to warm up cold calculators without replaying full history.
func (r *Reader) ReadRecentCandles(symbol, interval string, n int) ([]model.Candle, error) {
	rows, err := r.db.Query(`
		SELECT ts, open, high, low, close, volume FROM (
			SELECT ts, open, high, low, close, volume
			FROM candles
			WHERE symbol = ? AND interval = ?
			ORDER BY ts DESC
			LIMIT ?
		) ORDER BY ts ASC
	`, symbol, interval, n)
	if err != nil {
		return nil, fmt.Errorf("sqlite query recent candles: %w", err)
	}
	defer rows.Close()

	var candles []model.Candle
	for rows.Next() {
		var c model.Candle
		if err := rows.Scan(&c.TS, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, fmt.Errorf("sqlite scan candle: %w", err)
		}
		candles = append(candles, c)
	}
	return candles, rows.Err()
}

// ReadLatestSnapshot loads the most recent engine snapshot bytes, or nil
// when none has been saved yet.
func (r *Reader) ReadLatestSnapshot() ([]byte, error) {
	var data string
	err := r.db.QueryRow(`
		SELECT data FROM engine_snapshots
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("sqlite read snapshot: %w", err)
	}
	return []byte(data), nil
}

// Close closes the reader.
func (r *Reader) Close() error { return r.db.Close() }
