// Package config defines all configuration structures for the dockprep
// service. No I/O or parsing logic lives here — only plain data types and
// validation. Loading is handled by loader.go.
package config

import (
	"fmt"
	"time"

	"github.com/anhth20011/dockprep/internal/infrastructure/monitoring/logging"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// MaxUploadBytes bounds a single molecule or result-log upload.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
}

// EngineConfig describes the external docking engine a generated package
// targets. The service never runs the engine itself; these values are only
// embedded into generated artifacts.
type EngineConfig struct {
	// Binary is the bare command name assumed to be on the execution host's
	// search path when no explicit path is configured per job.
	Binary string `mapstructure:"binary"`

	// PrepTool is the chemistry-toolkit command used by generated preparation
	// scripts to convert raw structures into engine-ready files.
	PrepTool string `mapstructure:"prep_tool"`
}

// StorageConfig holds object-storage parameters for archiving generated job
// packages. Leaving Endpoint empty disables the artifact store entirely.
type StorageConfig struct {
	Endpoint      string        `mapstructure:"endpoint"`
	AccessKey     string        `mapstructure:"access_key"`
	SecretKey     string        `mapstructure:"secret_key"`
	Bucket        string        `mapstructure:"bucket"`
	UseSSL        bool          `mapstructure:"use_ssl"`
	PresignExpiry time.Duration `mapstructure:"presign_expiry"`
}

// Enabled reports whether an artifact store has been configured.
func (c StorageConfig) Enabled() bool { return c.Endpoint != "" }

// DatabaseConfig holds PostgreSQL parameters for the job-history store.
// Leaving Host empty disables job history entirely.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsPath  string        `mapstructure:"migrations_path"`
}

// Enabled reports whether a job-history database has been configured.
func (c DatabaseConfig) Enabled() bool { return c.Host != "" }

// DSN renders the config as a postgres connection URL.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// ─────────────────────────────────────────────────────────────────────────────
// Top-level Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the complete dockprep service configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      logging.Config `mapstructure:"log"`
}

// Validate checks cross-field consistency. It assumes ApplyDefaults has run,
// so defaulted fields are never reported as missing.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Engine.Binary == "" {
		return fmt.Errorf("engine.binary must not be empty")
	}
	if c.Engine.PrepTool == "" {
		return fmt.Errorf("engine.prep_tool must not be empty")
	}
	if c.Storage.Enabled() {
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required when storage.endpoint is set")
		}
		if c.Storage.AccessKey == "" || c.Storage.SecretKey == "" {
			return fmt.Errorf("storage credentials are required when storage.endpoint is set")
		}
	}
	if c.Database.Enabled() {
		if c.Database.User == "" || c.Database.DBName == "" {
			return fmt.Errorf("database.user and database.db_name are required when database.host is set")
		}
	}
	return nil
}
