package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"

	httpapi "equiprent-backend/internal/api/http"
	"equiprent-backend/internal/config"
	"equiprent-backend/internal/jobs"
	"equiprent-backend/internal/logger"
	"equiprent-backend/internal/repository"
	fsrepo "equiprent-backend/internal/repository/firestore"
	"equiprent-backend/internal/repository/memory"
	"equiprent-backend/internal/scheduler"
	"equiprent-backend/internal/security"
	"equiprent-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load .env before the config reads the environment
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting EquipRent Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Store configuration", "type", cfg.Store.Type, "project_id", cfg.Firebase.ProjectID)
	logger.Info("Rental configuration", "flow", cfg.Rental.Flow)

	ctx := context.Background()

	// Initialize Firebase when either the store or the verifier needs it
	var app *firebase.App
	if cfg.Store.Type == "firestore" || cfg.Auth.Provider == "firebase" {
		app, err = newFirebaseApp(ctx, cfg)
		if err != nil {
			logger.Error("Failed to initialize Firebase", "error", err)
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		logger.Info("Firebase initialized", "project_id", cfg.Firebase.ProjectID)
	}

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

	// Initialize Security
	var verifier security.TokenVerifier
	if cfg.Auth.Provider == "jwt" {
		logger.Info("Using local JWT token verification")
		verifier = security.NewTokenManager(cfg.Auth.JWTSecret)
	} else {
		verifier, err = security.NewFirebaseVerifier(ctx, app)
		if err != nil {
			logger.Error("Failed to initialize Firebase auth", "error", err)
			log.Fatalf("Failed to initialize Firebase auth: %v", err)
		}
	}

	// Initialize Services
	notifier := service.NewLogNotifier()
	equipmentSvc := service.NewEquipmentService(equipmentRepo)
	rentalSvc := service.NewRentalService(rentalRepo, equipmentRepo, notifier, cfg.Rental.Flow)

	// Initialize the expiry sweeper owned by this process
	jobRunner := jobs.NewJobRunner(rentalSvc, cfg)
	cronScheduler := scheduler.NewScheduler(jobRunner)
	cronScheduler.Start()

	// Set up HTTP server
	router := httpapi.NewRouter(equipmentSvc, rentalSvc, verifier)
	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down...")
	cronScheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}

// newFirebaseApp initializes the Firebase app from the configured
// credentials file, falling back to application default credentials.
func newFirebaseApp(ctx context.Context, cfg *config.Config) (*firebase.App, error) {
	fbConfig := &firebase.Config{
		ProjectID:   cfg.Firebase.ProjectID,
		DatabaseURL: cfg.Firebase.DatabaseURL,
	}
	if cfg.Firebase.CredentialsFile != "" {
		return firebase.NewApp(ctx, fbConfig, option.WithCredentialsFile(cfg.Firebase.CredentialsFile))
	}
	return firebase.NewApp(ctx, fbConfig)
}
