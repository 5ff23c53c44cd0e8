package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/MAminn/andrino-academy-sub002/internal/app"
	"github.com/MAminn/andrino-academy-sub002/internal/config"
	"github.com/MAminn/andrino-academy-sub002/internal/controller/httpapi"
	"github.com/MAminn/andrino-academy-sub002/internal/repository"
	"github.com/MAminn/andrino-academy-sub002/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	if version, err := migrator.Version(ctx); err == nil {
		logger.Info("Migrations applied", zap.Int64("version", version))
	}
	if err := migrator.Close(); err != nil {
		logger.Warn("Failed to close migrator", zap.Error(err))
	}

	repo := repository.NewRepository(pool)

	attendanceSvc := service.NewAttendanceService(repo.Attendance, repo.Sessions, repo.Tracks, logger)
	availabilitySvc := service.NewAvailabilityService(
		repo.Availability, repo.Bookings, repo.Tracks, logger,
		cfg.WeekStartDay, cfg.ClassHourMin, cfg.ClassHourMax,
	)
	bookingSvc := service.NewBookingService(repo.Availability, repo.Bookings, repo.Tracks, logger)
	sessionSvc := service.NewSessionService(
		repo.Sessions, repo.Bookings, repo.Availability, repo.Tracks, repo.Users,
		attendanceSvc, logger,
	)

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:       logger,
		Pool:         pool,
		Repo:         repo,
		Availability: availabilitySvc,
		Bookings:     bookingSvc,
		Sessions:     sessionSvc,
		Attendance:   attendanceSvc,
		Environment:  cfg.Environment,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("environment", cfg.Environment),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}
