package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalConfig = `
[database]
host = "db"
user = "postgres"
dbname = "smc_availability"

[catalog_service]
url = "http://catalog"

[booking_service]
url = "http://bookings"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 300, cfg.Cache.TTL)
	assert.Equal(t, 3, cfg.Engine.MaxRetries)
	assert.Equal(t, "0 2 * * *", cfg.Seeder.Cron)
	assert.Equal(t, 30, cfg.Seeder.WindowDays)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_EnvOverridesSecrets(t *testing.T) {
	t.Setenv("DB_PASSWORD", "s3cret")
	t.Setenv("REDIS_ADDR", "redis:6380")

	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "redis:6380", cfg.Redis.Addr)
	assert.Contains(t, cfg.Database.DSN(), "password=s3cret")
	assert.Contains(t, cfg.Database.DSN(), "dbname=smc_availability")
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writeConfig(t, `
[database]
host = "db"
user = "postgres"
dbname = "x"
`))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Load(writeConfig(t, "not = [valid"))
	assert.ErrorIs(t, err, ErrLoadConfig)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, ErrLoadConfig)
}

func TestValidate_SeederWindow(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	cfg.Seeder.WindowDays = MaxSeederWindowDays + 1
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}
