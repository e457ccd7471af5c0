package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/card-swap/internal/catalog"
	"github.com/mauv0809/card-swap/internal/config"
	"github.com/mauv0809/card-swap/internal/database"
	server "github.com/mauv0809/card-swap/internal/http"
	"github.com/mauv0809/card-swap/internal/metrics"
	"github.com/mauv0809/card-swap/internal/notifier/slack"
	"github.com/mauv0809/card-swap/internal/processor"
	"github.com/mauv0809/card-swap/internal/pubsub"
	"github.com/mauv0809/card-swap/internal/store/mongodb"
	"github.com/mauv0809/card-swap/internal/store/sqlite"
	"github.com/mauv0809/card-swap/internal/trade"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()

	store, err := openStore(cfg)
	storeInitDuration := time.Since(startTime)
	log.Info("Store initialization time recorded", "backend", cfg.StoreBackend, "duration_ms", storeInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize store: %s", err)
	}
	defer func() {
		log.Info("Closing store connection")
		if err := store.Close(); err != nil {
			log.Error("Failed to close store", "error", err)
		}
	}()

	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	notifier := slack.NewNotifier(cfg.Slack.Token, metricsSvc)

	// Without a project the notifications are delivered inline.
	var queue pubsub.PubSubClient
	if cfg.ProjectID != "" {
		queue, err = pubsub.New(context.Background(), cfg.ProjectID)
		if err != nil {
			log.Fatalf("Failed to initialize pubsub: %s", err)
		}
		defer queue.Close()
	} else {
		log.Warn("GCP_PROJECT not set, match notifications are delivered inline")
	}
	processor := processor.New(notifier, metricsSvc, queue)

	cat, err := catalog.New(store, cfg.CatalogCache)
	if err != nil {
		log.Fatalf("Failed to initialize catalog: %s", err)
	}

	s := server.NewServer(
		trade.NewService(store, metricsSvc),
		cat,
		metricsSvc,
		metricsHandler,
		cfg,
		notifier,
		processor,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}

// openStore connects to the configured record store backend.
func openStore(cfg config.Config) (trade.Store, error) {
	if cfg.StoreBackend == config.BackendMongo {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	}

	db, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	if err != nil {
		return nil, err
	}
	return sqlite.New(db), nil
}
