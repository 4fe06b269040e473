package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OldStager01/sepsis-watcher/api"
	"github.com/OldStager01/sepsis-watcher/internal/events"
	"github.com/OldStager01/sepsis-watcher/internal/forecast"
	"github.com/OldStager01/sepsis-watcher/internal/imputation"
	"github.com/OldStager01/sepsis-watcher/internal/logger"
	"github.com/OldStager01/sepsis-watcher/internal/model"
	"github.com/OldStager01/sepsis-watcher/internal/risk"
	"github.com/OldStager01/sepsis-watcher/internal/staging"
	"github.com/OldStager01/sepsis-watcher/internal/watcher"
	"github.com/OldStager01/sepsis-watcher/pkg/config"
	"github.com/OldStager01/sepsis-watcher/pkg/database"
	"github.com/OldStager01/sepsis-watcher/pkg/database/queries"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file")
	migrate := flag.Bool("migrate", false, "run database migrations")
	testPipeline := flag.Bool("test-pipeline", false, "run one poll cycle and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.Setup(cfg.App.LogLevel, cfg.App.Mode)
	logger.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Mode)

	db, err := database.New(cfg.Database.ToDBConfig())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	logger.Info("Database connection established")

	if *migrate {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		logger.Info("Running database migrations")
		migrator := database.NewMigrator(db)
		if err := migrator.Run(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		logger.Info("Migrations completed successfully")
		return nil
	}

	// Repositories
	repos := api.Repositories{
		Vitals:      queries.NewVitalsRepository(db),
		Assessments: queries.NewAssessmentRepository(db),
		Predictions: queries.NewPredictionRepository(db),
		Alerts:      queries.NewAlertRepository(db),
		Users:       queries.NewUserRepository(db),
	}

	// Core pipeline components
	bundle := model.Load(cfg.Models)
	imputer := imputation.New(cfg.Clinical.Defaults)
	stagingEngine := staging.NewEngine(cfg.Clinical.Thresholds)
	assessor := risk.NewAssessor(bundle.Classifier, stagingEngine)
	simulator := forecast.NewSimulator(bundle.Forecaster, assessor, cfg.Clinical.Defaults, cfg.Watcher.SimulationSteps)

	// Event plumbing
	bus := events.NewEventBus(cfg.Events.BufferSize)
	publisher := events.NewPublisher(bus)
	eventLogger := events.NewEventLogger(repos.Alerts, bus.SubscribeAll())
	eventLogger.Start()
	defer eventLogger.Stop()

	pipeline := watcher.NewPipeline(imputer, assessor, simulator, repos.Assessments, repos.Predictions, publisher)
	w := watcher.New(cfg.Watcher, repos.Vitals, pipeline, publisher)

	if *testPipeline {
		logger.Info("Running single poll cycle")
		if err := w.PollOnce(); err != nil {
			return fmt.Errorf("poll failed: %w", err)
		}
		logger.Info("Poll cycle completed")
		return nil
	}

	w.Start()
	defer w.Stop()

	server := api.NewServer(cfg, db, repos, w, bus)

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Infof("API server listening on port %d", cfg.API.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdownChan:
		logger.Infof("Received signal %v, shutting down", sig)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	bus.Close()

	logger.Info("Server stopped gracefully")
	return nil
}
