// Command fetchklines downloads historical klines from Binance futures and
// stores them in the local SQLite candle store, so the engine has history
// to warm up from on first start.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"chartengine/config"
	"chartengine/internal/binance"
	"chartengine/internal/logger"
	sqlitestore "chartengine/internal/store/sqlite"
)

func main() {
	var (
		symbol   = flag.String("symbol", "BTCUSDT", "trading pair symbol")
		interval = flag.String("interval", "1m", "candle interval")
		days     = flag.Int("days", 7, "how many days of history to fetch")
	)
	flag.Parse()

	cfg := config.Load()
	log := logger.Init("fetchklines", logger.ParseLevel(cfg.LogLevel))

	client := binance.New(cfg.BinanceAPIKey, cfg.BinanceSecretKey, cfg.BinanceTestnet, log)

	end := time.Now()
	start := end.AddDate(0, 0, -*days)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	log.Info("fetching klines", "symbol", *symbol, "interval", *interval, "from", start, "to", end)
	candles, err := client.FetchKlines(ctx, *symbol, *interval, start, end)
	if err != nil {
		log.Error("fetch failed", "err", err)
		os.Exit(1)
	}
	if len(candles) == 0 {
		log.Warn("no klines returned for range")
		return
	}

	if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
		log.Error("data dir", "err", err)
		os.Exit(1)
	}
	writer, err := sqlitestore.NewWriter(cfg.SQLitePath, log)
	if err != nil {
		log.Error("sqlite open failed", "err", err)
		os.Exit(1)
	}
	defer writer.Close()

	if err := writer.WriteCandles(*symbol, *interval, candles); err != nil {
		log.Error("sqlite write failed", "err", err)
		os.Exit(1)
	}
	log.Info("saved candles", "count", len(candles), "db", cfg.SQLitePath)
}
