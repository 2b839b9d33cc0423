package config

import "time"

// Default value constants. Exported so tests and CLI help text can reference
// the canonical values.
const (
	DefaultServerHost      = "0.0.0.0"
	DefaultServerPort      = 8080
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultMaxUploadBytes  = 32 << 20 // 32 MiB

	DefaultEngineBinary = "vina"
	DefaultPrepTool     = "obabel"

	DefaultDBPort          = 5432
	DefaultDBSSLMode       = "disable"
	DefaultDBMaxOpenConns  = 10
	DefaultDBMaxIdleConns  = 5
	DefaultConnMaxLifetime = 30 * time.Minute
	DefaultMigrationsPath  = "file://migrations"

	DefaultPresignExpiry = 24 * time.Hour

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// ApplyDefaults fills every zero-value field in cfg with the service default.
// Fields already set by the caller are left unchanged so that explicit
// configuration always wins. It must be called after unmarshalling and before
// Validate so optional-but-defaulted fields are never seen as missing.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxUploadBytes == 0 {
		cfg.Server.MaxUploadBytes = DefaultMaxUploadBytes
	}

	if cfg.Engine.Binary == "" {
		cfg.Engine.Binary = DefaultEngineBinary
	}
	if cfg.Engine.PrepTool == "" {
		cfg.Engine.PrepTool = DefaultPrepTool
	}

	if cfg.Storage.Enabled() && cfg.Storage.PresignExpiry == 0 {
		cfg.Storage.PresignExpiry = DefaultPresignExpiry
	}

	if cfg.Database.Enabled() {
		if cfg.Database.Port == 0 {
			cfg.Database.Port = DefaultDBPort
		}
		if cfg.Database.SSLMode == "" {
			cfg.Database.SSLMode = DefaultDBSSLMode
		}
		if cfg.Database.MaxOpenConns == 0 {
			cfg.Database.MaxOpenConns = DefaultDBMaxOpenConns
		}
		if cfg.Database.MaxIdleConns == 0 {
			cfg.Database.MaxIdleConns = DefaultDBMaxIdleConns
		}
		if cfg.Database.ConnMaxLifetime == 0 {
			cfg.Database.ConnMaxLifetime = DefaultConnMaxLifetime
		}
		if cfg.Database.MigrationsPath == "" {
			cfg.Database.MigrationsPath = DefaultMigrationsPath
		}
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
