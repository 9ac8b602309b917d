package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aegean-stays/service-bookings/internal/application"
	"github.com/aegean-stays/service-bookings/internal/config"
	"github.com/aegean-stays/service-bookings/internal/database"
	"github.com/aegean-stays/service-bookings/internal/domain/booking"
	"github.com/aegean-stays/service-bookings/internal/kafka"
	"github.com/aegean-stays/service-bookings/internal/logger"
	"github.com/aegean-stays/service-bookings/internal/notification"
	"github.com/aegean-stays/service-bookings/internal/repository"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// The reminder binary runs the daily check-in reminder job and the
// consumer that turns reminder events into outbound email.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewNamed(cfg.AppEnv, "service-bookings-reminder")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting reminder worker",
		zap.String("cron", cfg.Reminder.CronSpec),
		zap.Int("lead_days", cfg.Reminder.LeadDays),
		zap.String("storage", cfg.StorageBackend),
	)

	var store booking.Store
	switch cfg.StorageBackend {
	case config.StorageRedis:
		redisStore := repository.NewRedisBookingStore(cfg.Redis)
		defer func() { _ = redisStore.Close() }()
		store = redisStore

	default:
		db, err := database.Connect(cfg.DB.DSN(), log)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}
		store = repository.NewGormBookingStore(db)
	}

	producer := kafka.NewProducer(cfg.Kafka.Brokers, log)
	defer func() { _ = producer.Close() }()

	dispatcher := notification.NewKafkaDispatcher(producer, cfg.Kafka.NotificationsTopic)
	reminderService := application.NewReminderService(store, dispatcher, cfg.Reminder.LeadDays, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Consume reminder events and send email
	sender := notification.NewEmailSender(cfg.SMTP, cfg.Reminder.LeadDays)
	consumer := notification.NewReminderConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.GroupID,
		cfg.Kafka.NotificationsTopic,
		sender,
		log,
	)
	go func() {
		if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
			log.Error("reminder consumer stopped", zap.Error(err))
		}
	}()

	// Schedule the daily reminder run
	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.Reminder.CronSpec, func() {
		runCtx, runCancel := context.WithTimeout(ctx, 2*time.Minute)
		defer runCancel()

		today := booking.DateOf(time.Now())
		due, err := reminderService.Run(runCtx, today)
		if err != nil {
			log.Error("reminder run finished with errors",
				zap.String("date", today.String()),
				zap.Int("due", due),
				zap.Error(err),
			)
			return
		}
		log.Info("reminder run completed",
			zap.String("date", today.String()),
			zap.Int("due", due),
		)
	})
	if err != nil {
		log.Fatal("invalid reminder cron spec", zap.Error(err))
	}
	scheduler.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down reminder worker...")
	cancel()

	stopCtx := scheduler.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(10 * time.Second):
		log.Warn("timed out waiting for running jobs")
	}

	if err := consumer.Close(); err != nil {
		log.Error("failed to close consumer", zap.Error(err))
	}

	log.Info("reminder worker stopped")
}
