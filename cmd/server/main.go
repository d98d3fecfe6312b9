package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"pulse/internal/collector"
	"pulse/internal/config"
	"pulse/internal/logger"
	"pulse/internal/scheduler"
	"pulse/internal/screener"
	"pulse/internal/server"
	"pulse/internal/store"
)

func main() {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		boot := logger.New(logger.Config{})
		boot.Fatal().Err(err).Msg("load config failed")
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	log.Info().Msg("pulse starting")

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation failed")
	}

	// Store
	var st store.Store
	if cfg.Database.SQLitePath != "" {
		sq, err := store.NewSQLite(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Fatal().Err(err).Msg("open store failed")
		}
		st = sq
	} else {
		log.Warn().Msg("no sqlite path configured, using in-memory store")
		st = store.NewMemory()
	}
	defer st.Close()

	// Market data fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.Provider == "mock" {
		fetcher = collector.NewMockFetcher()
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Info().Str("provider", fetcher.Name()).Msg("data source ready")

	svc := screener.New(st, fetcher, log)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Background refresh
	sched := scheduler.New(ctx, svc, log)
	if err := sched.Register(cfg.Schedule.RefreshCron); err != nil {
		log.Fatal().Err(err).Msg("register cron tasks failed")
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, refreshing now")
		go sched.RunNow()
	}

	// HTTP server
	srv := server.New(server.Config{
		Port:     cfg.Server.Port,
		Log:      log,
		Store:    st,
		Screener: svc,
	})
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	log.Info().Int("port", cfg.Server.Port).Msg("pulse is running")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	log.Info().Msg("pulse stopped")
}
