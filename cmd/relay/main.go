package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/adapters/messaging"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/adapters/outbox"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/config"
)

func main() {
	cfg, err := config.LoadRelayConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("relay: invalid configuration")
	}
	logger := config.NewLogger(cfg.LogLevel, "outbox-relay", os.Stdout)
	logger.Info().Msg("starting outbox relay service")

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()
	logger.Info().Msg("database connection initialized, circuit breaker will validate on first operation")

	broker, err := messaging.NewRabbitMQBroker(cfg.RabbitMQURL, cfg.AppointmentQueueName)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer broker.Close()
	logger.Info().Str("queue", cfg.AppointmentQueueName).Msg("connected to RabbitMQ")

	reg := prometheus.NewRegistry()
	relay := outbox.NewRelay(db, cfg.DatabaseURL, broker, reg, logger)

	healthMux := newHealthMux(relay, broker, reg)

	healthServer := &http.Server{
		Addr:              ":" + cfg.HealthPort,
		Handler:           healthMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.HealthPort).Msg("starting health check server")
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("health server error")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		logger.Info().Msg("starting event processing worker")
		if err := relay.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("received shutdown signal")
	case err := <-errChan:
		logger.Error().Err(err).Msg("fatal relay error, shutting down")
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error shutting down health server")
	}

	logger.Info().Msg("shutdown complete")
}

type relayState interface {
	IsHealthy() bool
	IsReady() bool
}

type brokerState interface {
	IsConnected() bool
}

// newHealthMux serves liveness, readiness and the relay's metrics registry.
func newHealthMux(relay relayState, broker brokerState, reg *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		status := "UP"
		httpStatus := http.StatusOK

		if !relay.IsHealthy() || !broker.IsConnected() {
			status = "DOWN"
			httpStatus = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(httpStatus)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":    status,
			"component": "outbox-relay",
		})
	})
	mux.HandleFunc("GET /health/ready", func(w http.ResponseWriter, r *http.Request) {
		if !relay.IsReady() {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return mux
}
