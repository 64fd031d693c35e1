package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"chartengine/config"
	"chartengine/internal/chartsvc"
	"chartengine/internal/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init("chartengine", logger.ParseLevel(cfg.LogLevel))

	svc, err := chartsvc.New(cfg, log)
	if err != nil {
		log.Error("init failed", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := svc.Run(ctx); err != nil {
		log.Error("fatal", "err", err)
		os.Exit(1)
	}
}
