package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("PORT", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("CLIENT_URL", "")
	t.Setenv("ADMIN_REGISTRATION_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "0.0.0.0:5000", cfg.App.Addr())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.Empty(t, cfg.Auth.AdminRegistrationKeys)
	assert.Equal(t, int64(5<<20), cfg.Storage.MaxFileSize())
	assert.Equal(t, time.Minute, cfg.Analytics.CacheTTL())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Mongo")
	t.Setenv("PORT", "9090")
	t.Setenv("CLIENT_URL", "https://campus.example.com")
	t.Setenv("STAFF_REGISTRATION_KEY", " alpha, ,beta ")
	t.Setenv("ATTACHMENT_MAX_FILE_SIZE_MB", "2")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverMongo, cfg.Store.Driver)
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Contains(t, cfg.CORS.AllowedOrigins, "https://campus.example.com")
	assert.Equal(t, []string{"alpha", "beta"}, cfg.Auth.StaffRegistrationKeys)
	assert.Equal(t, int64(2<<20), cfg.Storage.MaxFileSize())
	assert.Zero(t, cfg.App.RequestTimeout())
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("REDIS_DB", "one")

	_, err := Load()
	assert.Error(t, err)
}
