package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/tutoring_api/internal/app"
	"github.com/Freeeeeet/tutoring_api/internal/config"
	"github.com/Freeeeeet/tutoring_api/internal/notify"
	"github.com/Freeeeeet/tutoring_api/internal/repository"
	"github.com/Freeeeeet/tutoring_api/internal/repository/base"
	"github.com/Freeeeeet/tutoring_api/internal/service"
	"github.com/Freeeeeet/tutoring_api/internal/transport/httpapi"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
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

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	userRepo := repository.NewUserRepository(pool)
	teacherRepo := repository.NewTeacherRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	subjectRepo := repository.NewSubjectRepository(pool)
	availabilityRepo := repository.NewAvailabilityRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	recurringRepo := repository.NewRecurringGroupRepository(pool)
	txManager := base.NewTxManager(pool)

	var notifier service.Notifier = notify.Noop{}
	var telegramNotifier *notify.TelegramNotifier
	if cfg.TelegramToken != "" {
		tgBot, err := bot.New(cfg.TelegramToken)
		if err != nil {
			logger.Fatal("Failed to create telegram bot", zap.Error(err))
		}
		telegramNotifier = notify.NewTelegramNotifier(tgBot, teacherRepo, studentRepo, userRepo, logger)
		notifier = telegramNotifier
	} else {
		logger.Info("TELEGRAM_TOKEN is not set, notifications disabled")
	}

	userService := service.NewUserService(userRepo, cfg.JWTSecret, logger)
	rosterService := service.NewRosterService(teacherRepo, studentRepo, subjectRepo, userRepo, logger)
	availabilityService := service.NewAvailabilityService(availabilityRepo, teacherRepo, logger)
	bookingService := service.NewBookingService(
		teacherRepo,
		studentRepo,
		subjectRepo,
		bookingRepo,
		recurringRepo,
		availabilityService,
		txManager,
		notifier,
		logger,
	)

	if telegramNotifier != nil {
		scheduler := app.NewScheduler(bookingRepo, telegramNotifier, logger)
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	server := httpapi.NewServer(
		cfg.HTTPAddr,
		cfg.JWTSecret,
		userService,
		rosterService,
		availabilityService,
		bookingService,
		logger,
	)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shut down server gracefully", zap.Error(err))
		}
	}
}
