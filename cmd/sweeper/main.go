package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	firebase "firebase.google.com/go/v4"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"

	"equiprent-backend/internal/config"
	"equiprent-backend/internal/jobs"
	"equiprent-backend/internal/logger"
	"equiprent-backend/internal/repository"
	fsrepo "equiprent-backend/internal/repository/firestore"
	"equiprent-backend/internal/repository/memory"
	"equiprent-backend/internal/scheduler"
	"equiprent-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'expire-rentals')")
	flag.Parse()

	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting EquipRent Sweeper...", "log_level", cfg.Log.Level)

	ctx := context.Background()

	// Initialize Repositories
	var (
		equipmentRepo repository.EquipmentRepository
		rentalRepo    repository.RentalRepository
		closeStore    func() error
	)
	switch cfg.Store.Type {
	case "memory":
		logger.Info("Using in-memory store")
		store := memory.NewStore()
		equipmentRepo = store.Equipment()
		rentalRepo = store.Rentals()
		closeStore = func() error { return nil }
	default:
		fbConfig := &firebase.Config{
			ProjectID:   cfg.Firebase.ProjectID,
			DatabaseURL: cfg.Firebase.DatabaseURL,
		}
		var app *firebase.App
		if cfg.Firebase.CredentialsFile != "" {
			app, err = firebase.NewApp(ctx, fbConfig, option.WithCredentialsFile(cfg.Firebase.CredentialsFile))
		} else {
			app, err = firebase.NewApp(ctx, fbConfig)
		}
		if err != nil {
			logger.Error("Failed to initialize Firebase", "error", err)
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		store, err := fsrepo.NewStore(ctx, app)
		if err != nil {
			logger.Error("Failed to connect to Firestore", "error", err)
			log.Fatalf("Failed to connect to Firestore: %v", err)
		}
		equipmentRepo = store.Equipment()
		rentalRepo = store.Rentals()
		closeStore = store.Close
		logger.Info("Firestore connection established")
	}
	defer closeStore()

	// Initialize Services
	rentalSvc := service.NewRentalService(rentalRepo, equipmentRepo, service.NewLogNotifier(), cfg.Rental.Flow)

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(rentalSvc, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Sweeper scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down sweeper scheduler...")
	cronScheduler.Stop()
	logger.Info("Sweeper scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "expire-rentals":
		jobRunner.ExpireActiveRentals()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - expire-rentals\n")
		os.Exit(1)
	}
}
