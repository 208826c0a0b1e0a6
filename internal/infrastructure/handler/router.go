package handler

import (
	"fmt"

	"github.com/damon-houk/fx-rate-client/internal/infrastructure/logger"
	"github.com/damon-houk/fx-rate-client/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the stub API router: request IDs, logging and request
// metrics around the rate routes, plus /metrics served from registry
func NewRouter(rates *RateHandler, log logger.Logger, registry *prometheus.Registry) (*mux.Router, error) {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fxstub_requests_total",
		Help: "Requests served by the exchange-rate stub.",
	}, []string{"route", "method", "status"})
	if err := registry.Register(requests); err != nil {
		return nil, fmt.Errorf("failed to register stub metrics: %w", err)
	}

	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.LoggingMiddleware(log))
	router.Use(middleware.MetricsMiddleware(requests))

	rates.RegisterRoutes(router)
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods("GET")

	return router, nil
}
