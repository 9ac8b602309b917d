package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aegean-stays/service-bookings/internal/application"
	"github.com/aegean-stays/service-bookings/internal/config"
	"github.com/aegean-stays/service-bookings/internal/database"
	"github.com/aegean-stays/service-bookings/internal/domain/booking"
	"github.com/aegean-stays/service-bookings/internal/handler"
	"github.com/aegean-stays/service-bookings/internal/health"
	"github.com/aegean-stays/service-bookings/internal/kafka"
	"github.com/aegean-stays/service-bookings/internal/logger"
	"github.com/aegean-stays/service-bookings/internal/middleware"
	"github.com/aegean-stays/service-bookings/internal/notification"
	"github.com/aegean-stays/service-bookings/internal/repository"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-bookings")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-bookings",
		zap.String("port", cfg.Port),
		zap.String("storage", cfg.StorageBackend),
	)

	// Wire the configured storage backend
	var (
		store  booking.Store
		pinger health.Pinger
	)
	switch cfg.StorageBackend {
	case config.StorageRedis:
		redisStore := repository.NewRedisBookingStore(cfg.Redis)
		defer func() { _ = redisStore.Close() }()
		store, pinger = redisStore, redisStore

	default:
		db, err := database.Connect(cfg.DB.DSN(), log)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}

		if cfg.AppEnv == "development" {
			if err := db.AutoMigrate(&repository.BookingModel{}); err != nil {
				log.Fatal("failed to run auto-migration", zap.Error(err))
			}
			log.Info("database migration completed (dev auto-migrate)")
		} else {
			if err := database.RunMigrations(cfg.DB.URL(), "migrations", log); err != nil {
				log.Fatal("failed to run migrations", zap.Error(err))
			}
		}

		pgStore := repository.NewGormBookingStore(db)
		store, pinger = pgStore, pgStore
	}

	// Initialize Kafka producer
	producer := kafka.NewProducer(cfg.Kafka.Brokers, log)
	defer func() { _ = producer.Close() }()

	// Initialize application services
	bookingService := application.NewBookingService(store, producer, cfg.Kafka.BookingTopic, log)
	dispatcher := notification.NewKafkaDispatcher(producer, cfg.Kafka.NotificationsTopic)
	reminderService := application.NewReminderService(store, dispatcher, cfg.Reminder.LeadDays, log)

	// Initialize HTTP handlers
	bookingHandler := handler.NewBookingHandler(bookingService)
	notificationHandler := handler.NewNotificationHandler(reminderService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())

	// Register health check routes
	healthHandler := health.NewHandler(pinger, "service-bookings")
	healthHandler.RegisterRoutes(router)

	// Register routes
	bookingHandler.RegisterRoutes(&router.RouterGroup)
	notificationHandler.RegisterRoutes(&router.RouterGroup)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-bookings...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-bookings stopped")
}
