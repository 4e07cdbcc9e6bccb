package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/tournament-league/brackets"
	"github.com/Dosada05/tournament-league/config"
	"github.com/Dosada05/tournament-league/db"
	"github.com/Dosada05/tournament-league/handlers"
	"github.com/Dosada05/tournament-league/metrics"
	"github.com/Dosada05/tournament-league/notify"
	"github.com/Dosada05/tournament-league/repositories"
	api "github.com/Dosada05/tournament-league/routes"
	"github.com/Dosada05/tournament-league/services"
	"github.com/Dosada05/tournament-league/storage"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	driver, dsn := cfg.Database()
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("storage", driver))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		tournamentRepo repositories.TournamentRepository
		rosterRepo     repositories.RosterRepository
	)
	if driver == config.DriverMemory {
		store := repositories.NewMemoryStore()
		tournamentRepo, rosterRepo = store, store
		logger.Warn("no database configured, state is kept in memory only")
	} else {
		dbConn, err := openDatabase(ctx, driver, dsn, logger)
		if err != nil {
			logger.Error("failed to open database", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := dbConn.Close(); err != nil {
				logger.Error("failed to close database connection", slog.Any("error", err))
			} else {
				logger.Info("database connection closed")
			}
		}()
		dialect := repositories.Dialect(driver)
		tournamentRepo = repositories.NewSQLTournamentRepository(dbConn, dialect, logger)
		rosterRepo = repositories.NewSQLRosterRepository(dbConn, dialect)
	}
	logger.Info("repositories initialized")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	wsHub := notify.NewHub(logger)
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		wsHub.Run(ctx)
	}()
	logger.Info("WebSocket hub started")

	publisher := notify.Multi{wsHub}
	if r2 := cfg.R2(); r2.Enabled() {
		store, err := storage.NewCloudflareR2Store(ctx, r2, logger)
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 store", slog.Any("error", err))
			os.Exit(1)
		}
		publisher = append(publisher, notify.NewArchive(store))
		logger.Info("event archive enabled", slog.String("bucket", r2.BucketName))
	}

	tournamentService := services.NewTournamentService(tournamentRepo, rosterRepo, brackets.NewRoundRobinGenerator(), m, logger)
	matchService := services.NewMatchService(tournamentRepo, publisher, m, logger)
	rosterService := services.NewRosterService(rosterRepo, logger)
	logger.Info("services initialized")

	if cfg.SchedulerInterval > 0 {
		go runStatusScheduler(ctx, tournamentService, cfg.SchedulerInterval, logger)
	} else {
		logger.Info("tournament status scheduler disabled")
	}

	tournamentHandler := handlers.NewTournamentHandler(tournamentService, logger)
	matchHandler := handlers.NewMatchHandler(matchService, logger)
	teamHandler := handlers.NewTeamHandler(rosterService, logger)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, tournamentService, cfg.CORSAllowedOrigins, logger)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		api.Options{
			JWTSecret:      []byte(cfg.JWTSecretKey),
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Metrics:        promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
			Logger:         logger,
		},
		tournamentHandler,
		matchHandler,
		teamHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			stop()
			<-hubDone
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
		} else {
			logger.Info("server shutdown complete")
		}
	}
	stop()
	<-hubDone
	logger.Info("application exited")
}

func openDatabase(ctx context.Context, driver, dsn string, logger *slog.Logger) (*sql.DB, error) {
	dbConn, err := db.Connect(driver, dsn, 5*time.Second, logger)
	if err != nil {
		return nil, err
	}
	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.Migrate(migrateCtx, dbConn, driver); err != nil {
		_ = dbConn.Close()
		return nil, err
	}
	logger.Info("database ready", slog.String("driver", driver))
	return dbConn, nil
}

// runStatusScheduler moves tournaments along by their dates once at startup and then on every tick.
func runStatusScheduler(ctx context.Context, ts services.TournamentService, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	logger.Info("tournament status update scheduler started", slog.Duration("interval", interval))

	if err := ts.AutoUpdateTournamentStatusesByDates(ctx); err != nil {
		logger.Error("scheduler: initial run failed", slog.Any("error", err))
	}

	for {
		select {
		case <-ticker.C:
			logger.Debug("scheduler: triggering automatic tournament status update")
			if err := ts.AutoUpdateTournamentStatusesByDates(ctx); err != nil {
				logger.Error("scheduler: periodic run failed", slog.Any("error", err))
			}
		case <-ctx.Done():
			logger.Info("tournament status update scheduler stopped")
			return
		}
	}
}
