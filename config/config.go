package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Binance API (only the kline fetcher needs credentials)
	BinanceAPIKey    string
	BinanceSecretKey string
	BinanceTestnet   bool

	// Infrastructure
	RedisAddr     string
	RedisPassword string
	SQLitePath    string
	ListenAddr    string
	MetricsAddr   string

	// Streaming setup
	Symbols    string // comma-separated, e.g. "BTCUSDT,ETHUSDT"
	Indicators string // comma-separated indicator names, e.g. "MA,MACD,RSI"
	Interval   string // candle interval label used in the store, e.g. "1m"

	SnapshotIntervalS int
	LogLevel          string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is honored when present.
func Load() *Config {
	_ = godotenv.Load() // missing .env is fine, plain env vars still apply

	return &Config{
		BinanceAPIKey:    getEnv("BINANCE_API_KEY", ""),
		BinanceSecretKey: getEnv("BINANCE_SECRET_KEY", ""),
		BinanceTestnet:   getEnvBool("BINANCE_TESTNET", false),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		SQLitePath:    getEnv("SQLITE_PATH", "data/chartengine.db"),
		ListenAddr:    getEnv("LISTEN_ADDR", ":8080"),
		MetricsAddr:   getEnv("METRICS_ADDR", ":9090"),

		Symbols:    getEnv("SYMBOLS", "BTCUSDT,ETHUSDT"),
		Indicators: getEnv("INDICATORS", "MA,EMA,MACD,RSI,KDJ,ATR,VOL"),
		Interval:   getEnv("INTERVAL", "1m"),

		SnapshotIntervalS: getEnvInt("SNAPSHOT_INTERVAL_S", 60),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}
}

// ParseSymbols returns the configured symbols as a clean slice.
func (c *Config) ParseSymbols() []string {
	return splitList(c.Symbols)
}

// ParseIndicators returns the configured indicator names as a clean slice.
func (c *Config) ParseIndicators() []string {
	return splitList(c.Indicators)
}

// Validate checks the parts every service needs.
func (c *Config) Validate() error {
	if len(c.ParseSymbols()) == 0 {
		return fmt.Errorf("config: SYMBOLS is empty")
	}
	if len(c.ParseIndicators()) == 0 {
		return fmt.Errorf("config: INDICATORS is empty")
	}
	if c.SnapshotIntervalS <= 0 {
		return fmt.Errorf("config: SNAPSHOT_INTERVAL_S must be positive, got %d", c.SnapshotIntervalS)
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return b
}
