package redis

import (
	"context"
	"encoding/json"
	"log/slog"

	"chartengine/internal/model"
)

// SubscribeCandles listens on the per-symbol candle channels and forwards
// decoded closed candles to out. Blocks until ctx is cancelled. Malformed
// payloads are logged and skipped, never fatal.
func (c *Client) SubscribeCandles(ctx context.Context, symbols []string, out chan<- model.SymbolCandle) error {
	channels := make([]string, 0, len(symbols))
	bySymbol := make(map[string]string, len(symbols))
	for _, s := range symbols {
		ch := model.CandleChannel(s)
		channels = append(channels, ch)
		bySymbol[ch] = s
	}

	sub := c.rdb.Subscribe(ctx, channels...)
	defer sub.Close()

	c.log.Info("subscribed to candle channels", slog.Int("count", len(channels)))

	msgCh := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgCh:
			if !ok {
				return nil
			}
			symbol, known := bySymbol[msg.Channel]
			if !known {
				continue
			}
			var candle model.Candle
			if err := json.Unmarshal([]byte(msg.Payload), &candle); err != nil {
				c.log.Warn("dropping malformed candle payload",
					slog.String("channel", msg.Channel), slog.String("err", err.Error()))
				continue
			}
			select {
			case out <- model.SymbolCandle{Symbol: symbol, Candle: candle}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// PublishUpdate pushes one indicator update onto its pub/sub channel for
// downstream chart consumers.
func (c *Client) PublishUpdate(ctx context.Context, u *model.IndicatorUpdate) error {
	return c.rdb.Publish(ctx, u.Channel(), u.JSON()).Err()
}
