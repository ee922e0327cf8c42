package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 1.0, cfg.Latency.Scale)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "./files", cfg.Files.RootDir)
	assert.False(t, cfg.AuthEnabled())
	assert.False(t, cfg.EmailEnabled())
}

func TestLoadConfigFromYAML(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
storage:
  driver: redis
  redis:
    addr: cache:6379
    db: 2
latency:
  enabled: true
  scale: 0.5
auth:
  jwt_secret: s3cret
  users:
    - username: ana
      password_hash: "$2a$10$abc"
    - username: audit
      password_hash: "$2a$10$def"
      role: viewer
telegram:
  bot_token: tok
  chat_id: 42
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Storage.Driver)
	assert.Equal(t, "cache:6379", cfg.Storage.Redis.Addr)
	assert.Equal(t, 2, cfg.Storage.Redis.DB)
	assert.True(t, cfg.Latency.Enabled)
	assert.Equal(t, 0.5, cfg.Latency.Scale)
	require.Len(t, cfg.Auth.Users, 2)
	assert.Equal(t, "editor", cfg.Auth.Users[0].Role)
	assert.Equal(t, "viewer", cfg.Auth.Users[1].Role)
	assert.True(t, cfg.TelegramEnabled())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n")
	t.Setenv("LEADFORGE_PORT", "7070")
	t.Setenv("LEADFORGE_STORAGE_DRIVER", "postgres")
	t.Setenv("LEADFORGE_DATABASE_URL", "postgres://localhost/leads")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, "postgres://localhost/leads", cfg.Storage.DSN)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown driver", "storage:\n  driver: sqlite\n"},
		{"postgres without dsn", "storage:\n  driver: postgres\n"},
		{"unknown role", "auth:\n  users:\n    - username: x\n      role: root\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigEmptyFile(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}
