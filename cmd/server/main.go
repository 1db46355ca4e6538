package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"provenio/internal/entity"
	"provenio/internal/entity/store/link"
	"provenio/internal/masterdata/events"
	mdhandler "provenio/internal/masterdata/handler"
	mdmetrics "provenio/internal/masterdata/metrics"
	"provenio/internal/masterdata/service"
	"provenio/internal/masterdata/store/history"
	"provenio/internal/masterdata/store/record"
	"provenio/internal/platform/config"
	"provenio/internal/platform/httpserver"
	"provenio/internal/platform/logger"
	"provenio/internal/platform/metrics"
	"provenio/internal/platform/middleware"
	"provenio/internal/platform/postgres"
	platformredis "provenio/internal/platform/redis"
	"provenio/internal/provenance"
	"provenio/internal/questionnaire"
	"provenio/internal/registry"
	"provenio/internal/workbench"
	wbhandler "provenio/internal/workbench/handler"
	wbmetrics "provenio/internal/workbench/metrics"
)

// main wires the dependency graph explicitly and keeps the server lifecycle
// small. Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	reg, err := registry.Seed()
	if err != nil {
		log.Error("field registry failed to load", "error", err)
		os.Exit(1)
	}

	var (
		records service.RecordStore
		hist    service.HistoryStore
		links   entity.LinkStore
	)
	if cfg.PostgresURL != "" {
		db, err := postgres.Open(ctx, cfg.PostgresURL)
		if err != nil {
			log.Error("postgres unavailable", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Error("schema migration failed", "error", err)
			os.Exit(1)
		}
		records = record.NewPostgres(db)
		hist = history.NewPostgres(db)
		links = link.NewPostgres(db)
		log.Info("using postgres stores")
	} else {
		records = record.NewMemory()
		hist = history.NewMemory()
		links = link.NewMemory()
		log.Warn("no PROVENIO_POSTGRES_URL set, using in-memory stores")
	}

	if cfg.Redis.URL != "" {
		redisClient, err := platformredis.New(cfg.Redis)
		if err != nil {
			log.Error("redis unavailable", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		links = link.NewCached(links, redisClient.Client, config.LinkCacheTTL)
		log.Info("entity link cache enabled")
	}

	var publisher events.Publisher = events.Noop{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafka, err := events.NewKafka(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Error("kafka unavailable", "error", err)
			os.Exit(1)
		}
		defer kafka.Close()
		publisher = kafka
		log.Info("event publishing enabled", "topic", cfg.Kafka.Topic)
	}

	mdMetrics := mdmetrics.New()
	wbMetrics := wbmetrics.New()

	// The questionnaire subsystem is an external collaborator; until its
	// remote client lands, a process-local implementation stands in.
	questions := questionnaire.NewInMemory()

	resolver := entity.NewResolver(links, log)
	loader := service.NewLoader(reg, records, resolver,
		service.WithLoaderLogger(log),
		service.WithLoaderMetrics(mdMetrics),
	)
	writer := service.NewWriter(reg, provenance.NewValidator(reg), records, hist,
		service.WithWriterLogger(log),
		service.WithWriterMetrics(mdMetrics),
		service.WithPublisher(publisher),
	)
	resolution := service.NewResolution(reg, loader, hist)
	aggregator := workbench.NewAggregator(reg, loader, questions,
		workbench.WithAggregatorLogger(log),
		workbench.WithAggregatorMetrics(wbMetrics),
	)
	propagator := workbench.NewPropagator(questions,
		workbench.WithPropagatorLogger(log),
		workbench.WithPropagatorMetrics(wbMetrics),
	)

	router := chi.NewRouter()
	router.Use(middleware.Latency(metrics.New()))
	mdhandler.New(resolution, writer, log).Register(router)
	wbhandler.New(aggregator, propagator, log).Register(router)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting provenio", slog.String("addr", cfg.Addr))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("stopped")
}
