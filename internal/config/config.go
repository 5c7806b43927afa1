package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// RentalFlow selects which lifecycle variant the state machine runs.
const (
	// FlowStaged is the full request/approve/ship/activate/return cycle.
	FlowStaged = "staged"
	// FlowInstant creates rentals directly in active status with the
	// stock decremented at creation.
	FlowInstant = "instant"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Firebase  FirebaseConfig  `yaml:"firebase"`
	Store     StoreConfig     `yaml:"store"`
	Auth      AuthConfig      `yaml:"auth"`
	Rental    RentalConfig    `yaml:"rental"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// FirebaseConfig contains Firebase project settings
type FirebaseConfig struct {
	ProjectID       string `yaml:"project_id"`
	CredentialsFile string `yaml:"credentials_file"`
	DatabaseURL     string `yaml:"database_url"`
}

// StoreConfig selects the document store backend
type StoreConfig struct {
	Type string `yaml:"type"` // "firestore" or "memory"
}

// AuthConfig selects the bearer-token verifier
type AuthConfig struct {
	Provider  string `yaml:"provider"` // "firebase" or "jwt"
	JWTSecret string `yaml:"jwt_secret"`
}

// RentalConfig contains rental lifecycle settings
type RentalConfig struct {
	Flow string `yaml:"flow"` // "staged" or "instant"
}

// SchedulerConfig contains the expiry sweep schedule
type SchedulerConfig struct {
	ExpireRentals       string `yaml:"expire_rentals"`        // cron spec, e.g. "@every 24h"
	InitialDelaySeconds int    `yaml:"initial_delay_seconds"` // first sweep after startup
}

// InitialDelay returns the delay before the first sweep after startup.
func (s SchedulerConfig) InitialDelay() time.Duration {
	return time.Duration(s.InitialDelaySeconds) * time.Second
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables if present
	cfg.overrideWithEnv()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Firebase
	if val := os.Getenv("FIREBASE_PROJECT_ID"); val != "" {
		c.Firebase.ProjectID = val
	}
	if val := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); val != "" {
		c.Firebase.CredentialsFile = val
	}
	if val := os.Getenv("FIREBASE_DATABASE_URL"); val != "" {
		c.Firebase.DatabaseURL = val
	}

	// Store
	if val := os.Getenv("STORE_TYPE"); val != "" {
		c.Store.Type = val
	}

	// Auth
	if val := os.Getenv("AUTH_PROVIDER"); val != "" {
		c.Auth.Provider = val
	}
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.Auth.JWTSecret = val
	}

	// Rental
	if val := os.Getenv("RENTAL_FLOW"); val != "" {
		c.Rental.Flow = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}
}

// Validate checks if the configuration is valid and fills defaults
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Store defaults
	if c.Store.Type == "" {
		c.Store.Type = "firestore"
	}
	if c.Store.Type != "firestore" && c.Store.Type != "memory" {
		return fmt.Errorf("unknown store type: %s", c.Store.Type)
	}
	if c.Store.Type == "firestore" && c.Firebase.ProjectID == "" {
		return fmt.Errorf("firebase project id is required for the firestore store")
	}

	// Auth defaults
	if c.Auth.Provider == "" {
		c.Auth.Provider = "firebase"
	}
	switch c.Auth.Provider {
	case "firebase":
	case "jwt":
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("jwt secret is required for the jwt auth provider")
		}
		if len(c.Auth.JWTSecret) < 32 {
			return fmt.Errorf("jwt secret must be at least 32 characters")
		}
	default:
		return fmt.Errorf("unknown auth provider: %s", c.Auth.Provider)
	}

	// Rental defaults
	if c.Rental.Flow == "" {
		c.Rental.Flow = FlowStaged
	}
	if c.Rental.Flow != FlowStaged && c.Rental.Flow != FlowInstant {
		return fmt.Errorf("unknown rental flow: %s", c.Rental.Flow)
	}

	// Scheduler defaults
	if c.Scheduler.ExpireRentals == "" {
		c.Scheduler.ExpireRentals = "@every 24h"
	}
	if c.Scheduler.InitialDelaySeconds == 0 {
		c.Scheduler.InitialDelaySeconds = 30
	}

	// Log defaults
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	return nil
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
