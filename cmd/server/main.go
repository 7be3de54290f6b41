// Package main is the application entry point. It wires configuration,
// storage, services, and the HTTP router, and runs the completion sweep.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"campusevents/config"
	_ "campusevents/docs"
	"campusevents/internal/adapters/auth"
	"campusevents/internal/adapters/email"
	delivery "campusevents/internal/delivery/http"
	"campusevents/internal/delivery/http/controllers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/domain"
	"campusevents/internal/repository/postgres"
	"campusevents/internal/services"
)

const (
	contextTimeout = 10 * time.Second
	bcryptCost     = 12
)

// @title Campus Events API
// @version 1.0
// @description Event scheduling backend: room booking, event moderation, and admission control.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	store := postgres.NewStore(db)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.MailProvider,
		FromAddress: cfg.MailFromAddress,
		FromName:    cfg.MailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretKey,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "error", err)
		os.Exit(1)
	}

	tokens := auth.NewJWTManager(cfg.JWTSecret)
	hasher := auth.NewBcryptHasher(bcryptCost)

	userSvc := services.NewUserService(store, hasher, tokens, cfg.TokenExpiry, contextTimeout)
	roomSvc := services.NewRoomService(store, contextTimeout)
	eventSvc := services.NewEventService(store, store, contextTimeout)
	admissionSvc := services.NewAdmissionService(store, store, contextTimeout)
	moderationSvc := services.NewModerationService(store, contextTimeout)
	notificationSvc := services.NewNotificationService(store, mailer, contextTimeout)

	mux := delivery.NewRouter(delivery.Controllers{
		Auth:         controllers.NewAuthController(logger, userSvc),
		Room:         controllers.NewRoomController(logger, roomSvc),
		Event:        controllers.NewEventController(logger, eventSvc, notificationSvc),
		Application:  controllers.NewApplicationController(logger, admissionSvc, notificationSvc),
		Moderation:   controllers.NewModerationController(logger, moderationSvc),
		Notification: controllers.NewNotificationController(logger, notificationSvc),
	}, tokens)

	handler := middleware.CORS(cfg.CORSAllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go runCompletionSweep(sweepCtx, logger, eventSvc, notificationSvc, cfg.CompletionSweepInterval)

	go func() {
		logger.Info("server listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	stopSweep()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// runCompletionSweep periodically promotes elapsed approved events to
// completed and dispatches the resulting notifications.
func runCompletionSweep(ctx context.Context, logger *slog.Logger, events domain.EventService, sink domain.NotificationService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			completed, intents, err := events.CompleteElapsedEvents(ctx, time.Now())
			if err != nil {
				logger.Error("completion sweep failed", "error", err)
				continue
			}
			if completed > 0 {
				logger.Info("completion sweep", "completed", completed)
			}
			if err := sink.Dispatch(ctx, intents); err != nil {
				logger.Error("completion sweep dispatch failed", "error", err)
			}
		}
	}
}
