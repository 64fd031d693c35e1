// Package chartsvc is the top-level orchestrator for the chart engine
// service. It wires configuration, stores, the indicator registry, the
// streaming engine, and the gateway, and owns the processing loop.
package chartsvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"chartengine/config"
	"chartengine/internal/gateway"
	"chartengine/internal/indicator"
	"chartengine/internal/indicator/stream"
	"chartengine/internal/metrics"
	"chartengine/internal/model"
	redisstore "chartengine/internal/store/redis"
	sqlitestore "chartengine/internal/store/sqlite"
)

// backfillPageSize bounds a single SQLite replay query.
const backfillPageSize = 10000

// indicatorSpec is one (indicator, params) pair the service keeps live
// for every configured symbol.
type indicatorSpec struct {
	Name   string
	Params []int
}

// Service wires all subsystems and coordinates their lifecycle.
type Service struct {
	cfg *config.Config
	log *slog.Logger

	reg    *indicator.Registry
	engine *stream.Engine
	prom   *metrics.Metrics
	hub    *gateway.Hub

	redis     *redisstore.Client
	sqlReader *sqlitestore.Reader
	sqlWriter *sqlitestore.Writer

	symbols  []string
	specs    []indicatorSpec
	candleCh chan model.SymbolCandle
}

// New creates a Service from the given config. It connects to Redis and
// opens SQLite; the engine itself is restored later in Run.
func New(cfg *config.Config, log *slog.Logger) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	svc := &Service{
		cfg:      cfg,
		log:      log,
		reg:      indicator.NewRegistry(),
		prom:     metrics.NewMetrics(),
		symbols:  cfg.ParseSymbols(),
		candleCh: make(chan model.SymbolCandle, 5000),
	}
	svc.hub = gateway.NewHub(log, svc.prom)

	var err error
	svc.specs, err = resolveSpecs(svc.reg, cfg.ParseIndicators())
	if err != nil {
		return nil, err
	}

	svc.redis, err = redisstore.New(redisstore.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}, log)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
		log.Warn("sqlite data dir", "err", err)
	}
	svc.sqlWriter, err = sqlitestore.NewWriter(cfg.SQLitePath, log)
	if err != nil {
		log.Warn("sqlite writer init failed, continuing without persistence", "err", err)
	}
	svc.sqlReader, err = sqlitestore.NewReader(cfg.SQLitePath, log)
	if err != nil {
		log.Warn("sqlite reader init failed, continuing without backfill", "err", err)
	}

	return svc, nil
}

// resolveSpecs maps configured indicator names to their registered
// definitions with default parameters.
func resolveSpecs(reg *indicator.Registry, names []string) ([]indicatorSpec, error) {
	specs := make([]indicatorSpec, 0, len(names))
	for _, name := range names {
		def, err := reg.Lookup(name)
		if err != nil {
			return nil, fmt.Errorf("configured indicator %q: %w", name, err)
		}
		specs = append(specs, indicatorSpec{Name: def.Name(), Params: def.DefaultParams()})
	}
	return specs, nil
}

// Run starts all subsystems and blocks until ctx is cancelled.
func (svc *Service) Run(ctx context.Context) error {
	svc.log.Info("starting chart engine",
		"symbols", svc.symbols,
		"indicators", len(svc.specs),
		"snapshot_interval_s", svc.cfg.SnapshotIntervalS)

	svc.restoreEngine(ctx)
	svc.backfillFromStore()

	go func() {
		if err := svc.redis.SubscribeCandles(ctx, svc.symbols, svc.candleCh); err != nil && !errors.Is(err, context.Canceled) {
			svc.log.Error("candle subscription ended", "err", err)
		}
	}()

	go func() {
		if err := metrics.Serve(ctx, svc.cfg.MetricsAddr, svc.log); err != nil {
			svc.log.Error("metrics server", "err", err)
		}
	}()

	gw := gateway.NewServer(svc.reg, svc.hub, svc.log)
	httpSrv := &http.Server{Addr: svc.cfg.ListenAddr, Handler: gw.Routes()}
	go func() {
		svc.log.Info("http gateway listening", "addr", svc.cfg.ListenAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			svc.log.Error("http gateway", "err", err)
		}
	}()

	// The processing loop owns the engine: candles, periodic snapshots, and
	// the final shutdown snapshot all happen on this one goroutine.
	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.processLoop(ctx)
	}()

	<-ctx.Done()
	<-done

	shutCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	httpSrv.Shutdown(shutCtx)
	svc.close()
	svc.log.Info("shutdown complete")
	return nil
}

func (svc *Service) close() {
	if svc.sqlReader != nil {
		svc.sqlReader.Close()
	}
	if svc.sqlWriter != nil {
		svc.sqlWriter.Close()
	}
	svc.redis.Close()
}

// restoreEngine rebuilds the streaming engine from the newest snapshot,
// trying Redis first and SQLite second. Any failure falls through to a
// cold start.
func (svc *Service) restoreEngine(ctx context.Context) {
	data, err := svc.redis.LoadSnapshot(ctx)
	if err != nil {
		svc.log.Warn("redis snapshot read", "err", err)
	}
	if data == nil && svc.sqlReader != nil {
		data, err = svc.sqlReader.ReadLatestSnapshot()
		if err != nil {
			svc.log.Warn("sqlite snapshot read", "err", err)
		}
	}

	var snap *stream.EngineSnapshot
	if data != nil {
		snap = &stream.EngineSnapshot{}
		if err := json.Unmarshal(data, snap); err != nil {
			svc.log.Warn("snapshot decode failed, cold starting", "err", err)
			snap = nil
		}
	}

	engine, skipped := stream.RestoreEngine(svc.reg, snap)
	svc.engine = engine
	if snap != nil {
		svc.log.Info("engine restored from snapshot",
			"entries", svc.engine.Size(),
			"skipped", skipped,
			"saved_at", snap.SavedAt)
	} else {
		svc.log.Info("engine cold start")
	}
}

// backfillFromStore replays persisted candles through the engine so that
// calculators are warm before live processing starts. Restored symbols
// replay only the delta past their snapshot; cold symbols replay enough
// recent history to cover the longest warm-up.
func (svc *Service) backfillFromStore() {
	if svc.sqlReader == nil {
		return
	}

	warm := svc.maxWarmup()
	total := 0
	for _, symbol := range svc.symbols {
		var (
			candles []model.Candle
			err     error
		)
		if lastTS := svc.engine.LastTS(symbol); lastTS > 0 {
			candles, err = svc.sqlReader.ReadCandles(symbol, svc.cfg.Interval, lastTS, backfillPageSize)
		} else {
			candles, err = svc.sqlReader.ReadRecentCandles(symbol, svc.cfg.Interval, warm)
		}
		if err != nil {
			svc.log.Warn("backfill read", "symbol", symbol, "err", err)
			continue
		}
		for _, c := range candles {
			svc.applyCandle(symbol, c, false)
		}
		total += len(candles)
	}
	if total > 0 {
		svc.log.Info("backfilled candles from sqlite", "count", total)
	}
}

// maxWarmup returns the largest warm-up requirement across configured
// indicators, used to size cold-start backfills.
func (svc *Service) maxWarmup() int {
	max := 0
	for _, spec := range svc.specs {
		w, err := svc.engine.Warmup(spec.Name, spec.Params)
		if err != nil {
			continue
		}
		if w > max {
			max = w
		}
	}
	return max
}

// processLoop consumes live candles and ticks the snapshot checkpoint.
// It is the only goroutine that touches the engine after Run starts.
func (svc *Service) processLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(svc.cfg.SnapshotIntervalS) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			svc.saveSnapshot()
			return
		case <-ticker.C:
			svc.saveSnapshot()
		case sc := <-svc.candleCh:
			svc.prom.CandlesTotal.Inc()
			if svc.sqlWriter != nil {
				if err := svc.sqlWriter.WriteCandles(sc.Symbol, svc.cfg.Interval, []model.Candle{sc.Candle}); err != nil {
					svc.log.Warn("persist candle", "symbol", sc.Symbol, "err", err)
				}
			}
			svc.applyCandle(sc.Symbol, sc.Candle, true)
		}
	}
}

// applyCandle runs every configured indicator over one closed candle.
// When publish is set, defined records go out to Redis pub/sub and the
// websocket hub.
func (svc *Service) applyCandle(symbol string, c model.Candle, publish bool) {
	applied := false
	for _, spec := range svc.specs {
		start := time.Now()
		rec, err := svc.engine.Process(symbol, spec.Name, spec.Params, c)
		if err != nil {
			svc.log.Warn("process candle", "symbol", symbol, "indicator", spec.Name, "err", err)
			continue
		}
		if rec == nil {
			continue // stale for this calculator
		}
		applied = true
		svc.prom.ObserveCalc(spec.Name, time.Since(start))

		if publish && len(rec) > 0 {
			svc.publishUpdate(symbol, spec, c.TS, rec)
		}
	}
	if !applied {
		svc.prom.StaleCandles.Inc()
	}
	svc.prom.StreamEntries.Set(float64(svc.engine.Size()))
}

func (svc *Service) publishUpdate(symbol string, spec indicatorSpec, ts int64, rec model.Record) {
	u := &model.IndicatorUpdate{
		Symbol: symbol,
		Name:   spec.Name,
		Params: spec.Params,
		TS:     ts,
		Values: rec,
	}
	pubCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := svc.redis.PublishUpdate(pubCtx, u); err != nil {
		svc.log.Warn("publish update", "channel", u.Channel(), "err", err)
	}
	svc.hub.Broadcast(u)
	svc.prom.UpdatesPublished.Inc()
}

// saveSnapshot checkpoints the engine to Redis and SQLite.
func (svc *Service) saveSnapshot() {
	start := time.Now()
	snap := svc.engine.Snapshot(time.Now().UnixMilli())
	data, err := json.Marshal(snap)
	if err != nil {
		svc.prom.SnapshotErrors.Inc()
		svc.log.Error("snapshot encode", "err", err)
		return
	}

	saveCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := svc.redis.SaveSnapshot(saveCtx, data); err != nil {
		svc.prom.SnapshotErrors.Inc()
		svc.log.Warn("snapshot to redis", "err", err)
	}
	if svc.sqlWriter != nil {
		if err := svc.sqlWriter.SaveSnapshot(data); err != nil {
			svc.prom.SnapshotErrors.Inc()
			svc.log.Warn("snapshot to sqlite", "err", err)
		}
	}

	svc.prom.SnapshotDur.Observe(time.Since(start).Seconds())
	svc.log.Info("snapshot saved", "entries", len(snap.Entries), "bytes", len(data))
}
