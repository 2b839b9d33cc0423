package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultEngineBinary, cfg.Engine.Binary)
	assert.Equal(t, DefaultPrepTool, cfg.Engine.PrepTool)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, int64(DefaultMaxUploadBytes), cfg.Server.MaxUploadBytes)

	// Disabled subsystems stay untouched.
	assert.Zero(t, cfg.Database.Port)
	assert.Zero(t, cfg.Storage.PresignExpiry)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9999
	cfg.Engine.Binary = "qvina"
	ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "qvina", cfg.Engine.Binary)
}

func TestApplyDefaultsEnablesDatabaseDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Host = "localhost"
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultDBPort, cfg.Database.Port)
	assert.Equal(t, DefaultDBSSLMode, cfg.Database.SSLMode)
	assert.Equal(t, DefaultMigrationsPath, cfg.Database.MigrationsPath)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		ApplyDefaults(cfg)
		return cfg
	}

	t.Run("defaults are valid", func(t *testing.T) {
		require.NoError(t, base().Validate())
	})

	t.Run("bad port", func(t *testing.T) {
		cfg := base()
		cfg.Server.Port = -1
		assert.Error(t, cfg.Validate())
	})

	t.Run("storage without bucket", func(t *testing.T) {
		cfg := base()
		cfg.Storage.Endpoint = "localhost:9000"
		cfg.Storage.AccessKey = "k"
		cfg.Storage.SecretKey = "s"
		assert.Error(t, cfg.Validate())

		cfg.Storage.Bucket = "dockprep"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("database without user", func(t *testing.T) {
		cfg := base()
		cfg.Database.Host = "localhost"
		assert.Error(t, cfg.Validate())

		cfg.Database.User = "dock"
		cfg.Database.DBName = "dockprep"
		assert.NoError(t, cfg.Validate())
	})
}

func TestDatabaseDSN(t *testing.T) {
	c := DatabaseConfig{
		Host: "db", Port: 5432, User: "u", Password: "p",
		DBName: "jobs", SSLMode: "disable",
	}
	assert.Equal(t, "postgres://u:p@db:5432/jobs?sslmode=disable", c.DSN())
}
