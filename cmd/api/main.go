package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/adapters/cache"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/adapters/handler"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/adapters/middleware"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/adapters/repository"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/config"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/services"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/migrations"
)

const shutdownTimeout = 15 * time.Second

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-api",
		Short: "Clinic scheduling API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(adminCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer db.Close()

			return migrations.Apply(cmd.Context(), db, logger)
		},
	}
}

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage administrator accounts",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an administrator",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")
			if username == "" || password == "" {
				return errors.New("--username and --password are required")
			}

			_, logger, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer db.Close()

			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			admin := &domain.Admin{Username: username, Password: string(hash)}
			if err := repository.NewSQLRepository(db).CreateAdmin(cmd.Context(), admin); err != nil {
				if errors.Is(err, domain.ErrConflict) {
					return fmt.Errorf("admin %q already exists", username)
				}
				return err
			}

			logger.Info().Int64("admin_id", admin.ID).Str("username", username).Msg("admin created")
			return nil
		},
	}
	createCmd.Flags().String("username", "", "Admin username")
	createCmd.Flags().String("password", "", "Admin password")
	cmd.AddCommand(createCmd)

	return cmd
}

func bootstrap() (*config.Config, zerolog.Logger, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}
	logger := config.NewLogger(cfg.LogLevel, "clinic-api", os.Stdout)

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, logger, nil, fmt.Errorf("open database: %w", err)
	}
	return cfg, logger, db, nil
}

func runServer() error {
	cfg, logger, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Warn().Err(err).Msg("redis unreachable, slot locks will fail open until it recovers")
	} else {
		logger.Info().Str("addr", cfg.RedisAddress).Msg("connected to redis")
	}
	locker := cache.NewRedisSlotLocker(redisClient, cache.DefaultLockTTL, logger)

	repo := repository.NewSQLRepository(db)

	tokens, err := services.NewTokenService(cfg.JWTSecret, repo, logger)
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(reg)

	limiter := middleware.NewRateLimiter(cfg.LoginRateLimitRPS, cfg.LoginRateLimitBurst)
	go limiter.Run(ctx)

	router := handler.Router{
		Auth:     handler.NewAuthHandler(services.NewAuthService(repo, tokens, logger), logger),
		Patients: handler.NewPatientHandler(services.NewPatientService(repo, repo, repo, logger), logger),
		Doctors: handler.NewDoctorHandler(
			services.NewDoctorService(repo, repo, logger),
			services.NewAvailabilityService(repo, repo),
			logger,
		),
		Appointments: handler.NewAppointmentHandler(
			services.NewBookingService(repo, repo, repo, repo, locker, logger),
			services.NewStatusService(repo, logger),
			logger,
		),
		Health:  handler.NewHealthHandler(db, redisClient, cfg.AppVersion),
		Gate:    middleware.NewAuthMiddleware(services.NewAuthorizationService(tokens), logger),
		Limiter: limiter,
		Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	}

	// Instrument must wrap the mux directly so r.Pattern is visible to it.
	var root http.Handler = metrics.Instrument(router.Mux())
	root = middleware.CORSMiddleware(cfg.CORSOrigins)(root)
	root = middleware.Logger(logger)(root)
	root = middleware.Recovery(logger)(root)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           root,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Str("version", cfg.AppVersion).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
