package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Meridian-Car-Rental/service-backoffice/internal/application"
	"github.com/Meridian-Car-Rental/service-backoffice/internal/config"
	"github.com/Meridian-Car-Rental/service-backoffice/internal/handler"
	"github.com/Meridian-Car-Rental/service-backoffice/internal/repository"
	"github.com/Meridian-Car-Rental/service-backoffice/internal/worker"
	"github.com/Meridian-Car-Rental/service-backoffice/pkg/database"
	"github.com/Meridian-Car-Rental/service-backoffice/pkg/health"
	"github.com/Meridian-Car-Rental/service-backoffice/pkg/kafka"
	"github.com/Meridian-Car-Rental/service-backoffice/pkg/logger"
	"github.com/Meridian-Car-Rental/service-backoffice/pkg/metrics"
	"github.com/Meridian-Car-Rental/service-backoffice/pkg/middleware"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-backoffice")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-backoffice",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	db, err := database.Connect(cfg.DB.DSN(), log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(
			&repository.BookingModel{},
			&repository.CarModel{},
			&repository.CategoryModel{},
			&repository.InvestorModel{},
		); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.DB.URL(), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.Kafka.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize repositories
	bookingRepo := repository.NewGormBookingRepository(db)
	carRepo := repository.NewGormCarRepository(db)
	categoryRepo := repository.NewGormCategoryRepository(db)
	investorRepo := repository.NewGormInvestorRepository(db)
	uow := repository.NewGormUnitOfWork(db)

	// Initialize metrics
	m := metrics.NewMetrics("backoffice")

	// Initialize application services
	bookingService := application.NewBookingService(
		bookingRepo,
		carRepo,
		uow,
		kafkaProducer,
		m,
		log,
	)
	carService := application.NewCarService(carRepo, log)
	categoryService := application.NewCategoryService(categoryRepo, log)
	investorService := application.NewInvestorService(investorRepo, carRepo, log)

	// Initialize and start fleet event consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	groupID := cfg.Kafka.GroupPrefix + "backoffice-service"
	fleetConsumer := worker.NewFleetEventConsumer(
		cfg.Kafka.Brokers,
		groupID,
		bookingService,
		log,
	)
	defer func() { _ = fleetConsumer.Close() }()

	go func() {
		log.Info("starting fleet event consumer")
		if err := fleetConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("fleet event consumer error", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	bookingHandler := handler.NewBookingHandler(bookingService)
	carHandler := handler.NewCarHandler(carService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	investorHandler := handler.NewInvestorHandler(investorService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, "service-backoffice")
	healthHandler.RegisterRoutes(router)

	// Expose Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Register routes
	bookingHandler.RegisterRoutes(&router.RouterGroup)
	carHandler.RegisterRoutes(&router.RouterGroup)
	categoryHandler.RegisterRoutes(&router.RouterGroup)
	investorHandler.RegisterRoutes(&router.RouterGroup)

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-backoffice...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-backoffice stopped")
}
