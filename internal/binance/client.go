// Package binance is a thin adapter over the Binance futures REST API,
// translating klines into the engine's candle model.
package binance

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2/futures"

	"chartengine/internal/model"
)

const (
	baseURLProduction = "https://fapi.binance.com"
	baseURLTestnet    = "https://testnet.binancefuture.com"

	// maxLimit is the largest page the futures klines endpoint serves.
	maxLimit = 1500
)

// Client fetches historical klines from Binance.
type Client struct {
	futures *futures.Client
	log     *slog.Logger
}

// New creates a Binance client. Empty credentials are fine for the
// public kline endpoints.
func New(apiKey, secretKey string, testnet bool, log *slog.Logger) *Client {
	c := futures.NewClient(apiKey, secretKey)
	if testnet {
		c.BaseURL = baseURLTestnet
	} else {
		c.BaseURL = baseURLProduction
	}
	log.Info("binance client configured", "base_url", c.BaseURL, "testnet", testnet)
	return &Client{futures: c, log: log}
}

// FetchKlines retrieves all klines for symbol/interval between start and end,
// paging through the API until the range is covered. Candles come back in
// ascending open-time order.
func (c *Client) FetchKlines(ctx context.Context, symbol, interval string, start, end time.Time) ([]model.Candle, error) {
	var all []model.Candle
	from := start

	for {
		klines, err := c.futures.NewKlinesService().
			Symbol(symbol).
			Interval(interval).
			StartTime(from.UnixMilli()).
			EndTime(end.UnixMilli()).
			Limit(maxLimit).
			Do(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch klines %s %s: %w", symbol, interval, err)
		}
		if len(klines) == 0 {
			break
		}
		for _, k := range klines {
			candle, err := translateKline(k)
			if err != nil {
				return nil, fmt.Errorf("translate kline %s: %w", symbol, err)
			}
			all = append(all, candle)
		}
		last := klines[len(klines)-1]
		from = time.UnixMilli(last.CloseTime)
		if from.After(end) || len(klines) < maxLimit {
			break
		}
	}

	c.log.Info("fetched klines", "symbol", symbol, "interval", interval, "count", len(all))
	return all, nil
}

func translateKline(k *futures.Kline) (model.Candle, error) {
	open, err := strconv.ParseFloat(k.Open, 64)
	if err != nil {
		return model.Candle{}, fmt.Errorf("parse open %q: %w", k.Open, err)
	}
	high, err := strconv.ParseFloat(k.High, 64)
	if err != nil {
		return model.Candle{}, fmt.Errorf("parse high %q: %w", k.High, err)
	}
	low, err := strconv.ParseFloat(k.Low, 64)
	if err != nil {
		return model.Candle{}, fmt.Errorf("parse low %q: %w", k.Low, err)
	}
	cls, err := strconv.ParseFloat(k.Close, 64)
	if err != nil {
		return model.Candle{}, fmt.Errorf("parse close %q: %w", k.Close, err)
	}
	vol, err := strconv.ParseFloat(k.Volume, 64)
	if err != nil {
		return model.Candle{}, fmt.Errorf("parse volume %q: %w", k.Volume, err)
	}
	return model.Candle{
		TS:     k.OpenTime,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  cls,
		Volume: vol,
	}, nil
}
