// Package metrics exposes Prometheus instrumentation for the indicator
// service: calculation throughput and latency, stream arena size, snapshot
// persistence timings and gateway fan-out.
package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the indicator service.
type Metrics struct {
	CandlesTotal    prometheus.Counter
	StaleCandles    prometheus.Counter
	CalcTotal       *prometheus.CounterVec // labels: indicator
	CalcDuration    *prometheus.HistogramVec
	StreamEntries   prometheus.Gauge
	SnapshotDur     prometheus.Histogram
	SnapshotErrors  prometheus.Counter
	UpdatesPublished prometheus.Counter
	WSClients       prometheus.Gauge
	WSDropped       prometheus.Counter
}

// NewMetrics registers and returns all metrics on the default registerer.
func NewMetrics() *Metrics {
	m := &Metrics{
		CandlesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chartengine_candles_total",
			Help: "Closed candles consumed from the market-data feed",
		}),
		StaleCandles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chartengine_stale_candles_total",
			Help: "Candles skipped because their timestamp was already applied",
		}),
		CalcTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chartengine_calculations_total",
			Help: "Indicator calculations performed",
		}, []string{"indicator"}),
		CalcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chartengine_calculation_duration_seconds",
			Help:    "Time spent per indicator calculation",
			Buckets: prometheus.ExponentialBuckets(0.000001, 4, 10),
		}, []string{"indicator"}),
		StreamEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chartengine_stream_calculators",
			Help: "Live streaming calculators in the arena",
		}),
		SnapshotDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "chartengine_snapshot_duration_seconds",
			Help:    "Time spent persisting engine snapshots",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		SnapshotErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chartengine_snapshot_errors_total",
			Help: "Failed snapshot persistence attempts",
		}),
		UpdatesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chartengine_updates_published_total",
			Help: "Indicator updates published to Redis and the gateway",
		}),
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chartengine_ws_clients",
			Help: "Connected WebSocket clients",
		}),
		WSDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chartengine_ws_dropped_total",
			Help: "Messages dropped on slow WebSocket clients",
		}),
	}

	prometheus.MustRegister(
		m.CandlesTotal, m.StaleCandles, m.CalcTotal, m.CalcDuration,
		m.StreamEntries, m.SnapshotDur, m.SnapshotErrors,
		m.UpdatesPublished, m.WSClients, m.WSDropped,
	)
	return m
}

// ObserveCalc records one calculation for an indicator.
func (m *Metrics) ObserveCalc(indicator string, d time.Duration) {
	m.CalcTotal.WithLabelValues(indicator).Inc()
	m.CalcDuration.WithLabelValues(indicator).Observe(d.Seconds())
}

// Serve starts the /metrics endpoint and blocks until ctx is cancelled.
func Serve(ctx context.Context, addr string, log *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info("metrics endpoint listening", slog.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
