package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"toda-flag-service/internal/infrastructure/config"
	"toda-flag-service/internal/infrastructure/persistence"
	httpadapter "toda-flag-service/internal/interface/http"
	mongoRepo "toda-flag-service/internal/interface/repository"
	"toda-flag-service/internal/usecase"
	"toda-flag-service/pkg/logger"
	"toda-flag-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting TODA Flag Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection
	log.Info("Connecting to MongoDB")
	mongoClient, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	// Set up PostgreSQL for the detection run history
	gormDB, err := gorm.Open(postgres.Open(cfg.PostgresURI), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}

	// Set up repositories
	driverRepo := mongoRepo.NewMongoDriverRepository(db)
	passengerRepo := mongoRepo.NewMongoPassengerRepository(db)
	bookingRepo := mongoRepo.NewMongoBookingRepository(db)
	contributionRepo := mongoRepo.NewMongoContributionRepository(db)
	flagRepo := mongoRepo.NewMongoFlagRepository(db)
	runRepo, err := mongoRepo.NewGormDetectionRunRepository(gormDB)
	if err != nil {
		log.Fatal("Failed to migrate detection run history", "error", err)
	}

	// Set up the flag engine
	m := metrics.NewMetrics("toda_flags")
	aggregator := usecase.NewScoreAggregator(flagRepo, driverRepo, passengerRepo, log)
	orchestrator := usecase.NewDetectionOrchestrator(
		driverRepo, passengerRepo, bookingRepo, contributionRepo,
		flagRepo, runRepo, aggregator, cfg.Detection, m, log,
	)
	lifecycle := usecase.NewFlagLifecycle(flagRepo, aggregator, m, log)
	views := usecase.NewAccountViewBuilder(driverRepo, passengerRepo, flagRepo, cfg.PageSize, log)

	// Set up HTTP server
	api := httpadapter.New(orchestrator, lifecycle, views, runRepo, log)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", api.Routes())

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel()

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(ctx); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("TODA Flag Service stopped")
}
