package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gymroster/internal/activity"
	"gymroster/internal/client"
	"gymroster/internal/config"
	"gymroster/internal/db"
	"gymroster/internal/email"
	"gymroster/internal/enrollment"
	"gymroster/internal/events"
	"gymroster/internal/logger"
	"gymroster/internal/server"
	"gymroster/internal/stats"
	"gymroster/internal/tracing"
	"gymroster/internal/trainer"
)

// @title GymRoster API
// @version 1.0
// @description Roster of clients, trainers and activities of a gym, with enrollments and per-activity statistics.
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logger.Init()
	logger.Info("Starting GymRoster", "db_driver", cfg.DBDriver)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.InitTracerProvider(ctx, "gymroster", cfg.OTLPEndpoint)
	if err != nil {
		logger.Fatalf("Failed to init tracing: %v", err)
	}

	database, err := db.Connect(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	tx := db.NewTxManager(database)
	clientRepo := client.NewRepository(database)
	trainerRepo := trainer.NewRepository(database)
	activityRepo := activity.NewRepository(database)
	enrollmentRepo := enrollment.NewRepository(database)

	var notifiers enrollment.Notifiers
	if cfg.NotificationsEnabled && cfg.RedisAddr != "" {
		emailService := email.New(email.Config{
			From:      cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
			SMTPHost:  cfg.SMTPHost,
			SMTPPort:  cfg.SMTPPort,
			SMTPUser:  cfg.SMTPUser,
			SMTPPass:  cfg.SMTPPass,
			RedisAddr: cfg.RedisAddr,
		})
		defer emailService.Close()
		go emailService.Start(ctx)
		notifiers = append(notifiers, emailService)
		logger.Info("Email notifications enabled", "redis", cfg.RedisAddr)
	}
	if cfg.NATSURL != "" {
		publisher, nc, err := events.NewNatsPublisher(cfg.NATSURL)
		if err != nil {
			logger.Fatalf("Failed to connect to NATS: %v", err)
		}
		defer nc.Drain()
		notifiers = append(notifiers, publisher)
		logger.Info("Publishing enrollment events", "nats", cfg.NATSURL)
	}

	enrollments := enrollment.NewService(enrollmentRepo, clientRepo, activityRepo, tx, notifiers)

	srv := server.New(cfg, server.Handlers{
		Clients:     client.NewHandler(client.NewService(clientRepo, tx)),
		Trainers:    trainer.NewHandler(trainer.NewService(trainerRepo, tx)),
		Activities:  activity.NewHandler(activity.NewService(activityRepo, trainerRepo, tx), activity.NewScheduleChecker(activityRepo, trainerRepo, tx)),
		Enrollments: enrollment.NewHandler(enrollments),
		Stats:       stats.NewHandler(stats.NewAggregator(activityRepo, enrollmentRepo, tx)),
	})

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Errorf("Error flushing traces: %v", err)
	}

	logger.Info("Server stopped")
}
