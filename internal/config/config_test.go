package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
store:
  type: memory
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Store.Type)
	assert.Equal(t, "firebase", cfg.Auth.Provider)
	assert.Equal(t, FlowStaged, cfg.Rental.Flow)
	assert.Equal(t, "@every 24h", cfg.Scheduler.ExpireRentals)
	assert.Equal(t, 30*time.Second, cfg.Scheduler.InitialDelay())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, ":3000", cfg.GetServerAddress())
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 127.0.0.1
  port: 8080
store:
  type: firestore
firebase:
  project_id: equiprent-test
rental:
  flow: instant
scheduler:
  expire_rentals: "@every 1h"
  initial_delay_seconds: 5
log:
  level: debug
  format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.GetServerAddress())
	assert.Equal(t, "equiprent-test", cfg.Firebase.ProjectID)
	assert.Equal(t, FlowInstant, cfg.Rental.Flow)
	assert.Equal(t, "@every 1h", cfg.Scheduler.ExpireRentals)
	assert.Equal(t, 5*time.Second, cfg.Scheduler.InitialDelay())
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
store:
  type: memory
`)
	t.Setenv("PORT", "9090")
	t.Setenv("RENTAL_FLOW", "instant")
	t.Setenv("AUTH_PROVIDER", "jwt")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, FlowInstant, cfg.Rental.Flow)
	assert.Equal(t, "jwt", cfg.Auth.Provider)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"UnknownStore", "store:\n  type: postgres\n"},
		{"FirestoreWithoutProject", "store:\n  type: firestore\n"},
		{"UnknownAuthProvider", "store:\n  type: memory\nauth:\n  provider: ldap\n"},
		{"JWTWithoutSecret", "store:\n  type: memory\nauth:\n  provider: jwt\n"},
		{"ShortJWTSecret", "store:\n  type: memory\nauth:\n  provider: jwt\n  jwt_secret: tooshort\n"},
		{"UnknownFlow", "store:\n  type: memory\nrental:\n  flow: hourly\n"},
		{"NegativePort", "store:\n  type: memory\nserver:\n  port: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.yaml)
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
