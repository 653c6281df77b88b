package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/TimurManjosov/rulesetweekly/internal/config"
	"github.com/TimurManjosov/rulesetweekly/internal/logging"
	"github.com/TimurManjosov/rulesetweekly/internal/publisher"
	"github.com/TimurManjosov/rulesetweekly/internal/ruleset"
	"github.com/TimurManjosov/rulesetweekly/internal/store"
	"github.com/TimurManjosov/rulesetweekly/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger().Fatal().Err(err).Msg("config")
	}
	if err := cfg.Validate(); err != nil {
		bootLogger().Fatal().Err(err).Msg("config")
	}

	log := logging.New(cfg.LogLevel, cfg.AppEnv, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.NewStore(ctx, cfg.StoreType, cfg.StoreDSN())
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.StoreType).Msg("open store")
	}
	defer st.Close()

	bases, err := ruleset.DefaultBases()
	if err != nil {
		log.Fatal().Err(err).Msg("base rulesets")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := telemetry.NewMetrics(reg)

	svc, err := publisher.New(publisher.Options{
		Store:     st,
		Bases:     bases,
		WeekStart: cfg.WeekStartDay(),
		Metrics:   metrics,
		Logger:    log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("publisher")
	}

	updates, unsubscribe := svc.Current().Subscribe()
	defer unsubscribe()
	go func() {
		for s := range updates {
			log.Info().Str("id", s.ID).Str("week", s.DisplayName).Str("etag", s.ETag).Msg("current week changed")
		}
	}()

	srv := &http.Server{
		Addr:         cfg.MetricsAddr,
		Handler:      telemetry.NewRouter(metrics, reg, svc.Current()),
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.MetricsAddr).Msg("listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server")
			stop()
		}
	}()

	log.Info().Str("store", cfg.StoreType).Str("week_start", cfg.WeekStartDay().String()).
		Dur("interval", cfg.PublishInterval).Msg("publisher started")
	if err := svc.Run(ctx, cfg.PublishInterval); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("publisher stopped")
	}

	// graceful shutdown
	ctxShut, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShut)
	log.Info().Msg("stopped")
}

func bootLogger() *zerolog.Logger {
	l := logging.New("info", "", os.Stderr)
	return &l
}
