package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SESSION_TTL_HOURS", "")
	t.Setenv("SESSION_COOKIE_SECURE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, StorageDriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "citylinker.sid", cfg.Session.CookieName)
	assert.False(t, cfg.Session.Secure)
	assert.Equal(t, 10, cfg.Security.BcryptCost)
}

func TestLoad_ProductionCookieIsSecure(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_COOKIE_SECURE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.Session.Secure)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mysql")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_AllowedOrigins(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://citylinker.ci, https://admin.citylinker.ci,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://citylinker.ci", "https://admin.citylinker.ci"}, cfg.Server.AllowedOrigins)
}

func TestDatabaseConfig_URLAndDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "city",
		Password: "p@ss",
		Database: "citylinker",
		SSLMode:  "disable",
	}

	assert.Equal(t, "host=db port=5432 user=city password=p@ss dbname=citylinker sslmode=disable", cfg.DatabaseDSN())
	assert.Equal(t, "postgres://city:p%40ss@db:5432/citylinker?sslmode=disable", cfg.DatabaseURL())

	cfg.URL = "postgres://u:p@host/db"
	assert.Equal(t, "postgres://u:p@host/db", cfg.DatabaseDSN())
	assert.Equal(t, "postgres://u:p@host/db", cfg.DatabaseURL())
}
