package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_NAME", "capability-sync")
	t.Setenv("APP_ENV", "test")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
}

func TestLoad_MemoryDefaults(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STORE_DRIVER", "Memory")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.True(t, cfg.Store.SeedOnStart)
	assert.Equal(t, 3, cfg.Matching.PersonRoleMin)
	assert.Equal(t, 0, cfg.Matching.RolePeopleMin)
	assert.Equal(t, 500, cfg.Batch.ChunkSize)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiresIn)
	assert.Equal(t, 600*time.Second, cfg.Redis.TTL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_PostgresRequiresDatabase(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("DB_USER", "")

	_, err := Load()
	require.ErrorIs(t, err, errMissingRequiredEnv)
	assert.ErrorContains(t, err, "DB_HOST")
	assert.ErrorContains(t, err, "DB_USER")
}

func TestLoad_Invalid(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("MATCH_WORKERS", "-2")
	t.Setenv("JWT_ACCESS_EXPIRES_IN", "soon")

	_, err := Load()
	require.ErrorIs(t, err, errInvalidEnv)
	assert.ErrorContains(t, err, "STORE_DRIVER")
	assert.ErrorContains(t, err, "MATCH_WORKERS")
	assert.ErrorContains(t, err, "JWT_ACCESS_EXPIRES_IN")
}

func TestLoad_MissingRequired(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("JWT_ACCESS_SECRET", "")

	_, err := Load()
	require.ErrorIs(t, err, errMissingRequiredEnv)
	assert.ErrorContains(t, err, "JWT_ACCESS_SECRET")
}
