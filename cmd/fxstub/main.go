package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/damon-houk/fx-rate-client/internal/application/service"
	"github.com/damon-houk/fx-rate-client/internal/infrastructure/config"
	"github.com/damon-houk/fx-rate-client/internal/infrastructure/db"
	"github.com/damon-houk/fx-rate-client/internal/infrastructure/handler"
	"github.com/damon-houk/fx-rate-client/internal/infrastructure/logger"
	"github.com/dgraph-io/badger/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", map[string]interface{}{"error": err.Error()})
	}

	log := logger.NewJSONLogger(os.Stdout, logger.ParseLevel(cfg.Log.Level)).
		WithField("service", "fxstub")
	logger.SetDefaultLogger(log)

	log.Info("Starting exchange rate stub API", map[string]interface{}{
		"port":    cfg.Stub.Port,
		"db_path": cfg.Stub.DBPath,
	})

	// Setup BadgerDB
	if err := os.MkdirAll(cfg.Stub.DBPath, 0755); err != nil {
		log.Fatal("Failed to create database directory", map[string]interface{}{"error": err.Error()})
	}

	badgerOpts := badger.DefaultOptions(cfg.Stub.DBPath)
	badgerOpts.Logger = nil // Disable Badger's default logger

	badgerDB, err := badger.Open(badgerOpts)
	if err != nil {
		log.Fatal("Failed to open database", map[string]interface{}{"error": err.Error()})
	}

	defer func() {
		if err := badgerDB.Close(); err != nil {
			log.Error("Error closing BadgerDB", map[string]interface{}{"error": err.Error()})
		}
	}()

	// Initialize repositories, services and handlers
	rateRepo := db.NewBadgerRateRepository(badgerDB)
	lookupService := service.NewRateLookupService(rateRepo, log)
	rateHandler := handler.NewRateHandler(lookupService, log)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router, err := handler.NewRouter(rateHandler, log, registry)
	if err != nil {
		log.Fatal("Failed to build router", map[string]interface{}{"error": err.Error()})
	}

	server := &http.Server{
		Addr:    ":" + cfg.Stub.Port,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server listening", map[string]interface{}{"addr": server.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Error("HTTP server error", map[string]interface{}{"error": err.Error()})
		}
	case <-ctx.Done():
		log.Info("Gracefully shutting down", nil)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Stub.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to stop server", map[string]interface{}{"error": err.Error()})
	}
	log.Info("Server stopped", nil)
}
