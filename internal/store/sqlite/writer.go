// Package sqlite persists candle history and engine snapshots. Candle rows
// back cold-start warm-up of the streaming engine and on-demand batch
// recalculation; snapshot rows are the durable fallback when Redis is gone.
package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"chartengine/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

// Writer is a single-connection SQLite writer with transaction batching.
type Writer struct {
	db  *sql.DB
	log *slog.Logger
}

// NewWriter opens (or creates) the database with WAL mode and the schema.
func NewWriter(dbPath string, log *slog.Logger) (*Writer, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	// Single-writer discipline
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	log.Info("sqlite database opened", slog.String("path", dbPath))
	return &Writer{db: db, log: log}, nil
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS candles (
			symbol   TEXT    NOT NULL,
			interval TEXT    NOT NULL,
			ts       INTEGER NOT NULL,
			open     REAL    NOT NULL,
			high     REAL    NOT NULL,
			low      REAL    NOT NULL,
			close    REAL    NOT NULL,
			volume   REAL    NOT NULL DEFAULT 0,
			PRIMARY KEY (symbol, interval, ts)
		);

		CREATE TABLE IF NOT EXISTS engine_snapshots (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			data       TEXT    NOT NULL,
			created_at INTEGER NOT NULL
		);
	`)
	return err
}

// WriteCandles upserts a batch of candles in one transaction.
func (w *Writer) WriteCandles(symbol, interval string, candles []model.Candle) error {
	if len(candles) == 0 {
		return nil
	}
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("sqlite begin: %w", err)
	}
	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO candles (symbol, interval, ts, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("sqlite prepare: %w", err)
	}
	defer stmt.Close()

	for _, c := range candles {
		if _, err := stmt.Exec(symbol, interval, c.TS, c.Open, c.High, c.Low, c.Close, c.Volume); err != nil {
			tx.Rollback()
			return fmt.Errorf("sqlite insert candle: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite commit: %w", err)
	}
	w.log.Debug("candles committed",
		slog.String("symbol", symbol), slog.Int("count", len(candles)))
	return nil
}

// SaveSnapshot stores a serialized engine snapshot, keeping only the most
// recent few rows.
func (w *Writer) SaveSnapshot(data []byte) error {
	now := time.Now().UnixMilli()
	if _, err := w.db.Exec(
		`INSERT INTO engine_snapshots (data, created_at) VALUES (?, ?)`, string(data), now); err != nil {
		return fmt.Errorf("sqlite save snapshot: %w", err)
	}
	// Trim history; five generations are plenty for rollback.
	_, err := w.db.Exec(`
		DELETE FROM engine_snapshots WHERE id NOT IN (
			SELECT id FROM engine_snapshots ORDER BY created_at DESC, id DESC LIMIT 5
		)
	`)
	if err != nil {
		return fmt.Errorf("sqlite trim snapshots: %w", err)
	}
	return nil
}

// DB returns the underlying handle for health checks.
func (w *Writer) DB() *sql.DB { return w.db }

// Close closes the writer.
func (w *Writer) Close() error { return w.db.Close() }
