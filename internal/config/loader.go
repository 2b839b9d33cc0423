package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for all service settings.
const envPrefix = "DOCKPREP"

// newViper builds a pre-configured viper instance: YAML file type, DOCKPREP_
// env prefix, automatic env binding, and a key replacer mapping "." → "_" so
// nested keys like "database.host" resolve to "DOCKPREP_DATABASE_HOST".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// viper only consults the environment for keys it already knows about, so
	// every configurable key is registered here with an empty default.
	for _, key := range []string{
		"server.host", "server.port", "server.read_timeout", "server.write_timeout",
		"server.shutdown_timeout", "server.max_upload_bytes",
		"engine.binary", "engine.prep_tool",
		"storage.endpoint", "storage.access_key", "storage.secret_key",
		"storage.bucket", "storage.use_ssl", "storage.presign_expiry",
		"database.host", "database.port", "database.user", "database.password",
		"database.db_name", "database.ssl_mode", "database.max_open_conns",
		"database.max_idle_conns", "database.conn_max_lifetime", "database.migrations_path",
		"log.level", "log.format", "log.output_paths",
	} {
		v.SetDefault(key, nil)
	}
	return v
}

// Load reads the YAML file at configPath, merges DOCKPREP_* environment
// overrides, applies defaults for unset fields, and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: reading config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from DOCKPREP_* environment variables,
// with no config file required. Preferred for containerised deployments.
//
// Naming convention: DOCKPREP_<SECTION>_<FIELD>, e.g. DOCKPREP_SERVER_PORT.
func LoadFromEnv() (*Config, error) {
	v := newViper()
	return unmarshalAndFinalize(v)
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshalling configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath for changes and invokes onChange with the newly
// parsed Config whenever the file is modified on disk. Intended for
// hot-reloading non-critical settings such as the log level; callers are
// responsible for applying only the safe subset at runtime.
//
// Watch is non-blocking; viper manages the background goroutine. When the
// changed file fails to parse or validate, onChange is not called and the
// previous configuration remains in effect.
func Watch(configPath string, onChange func(*Config)) error {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: reading config file %q: %w", configPath, err)
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()

	return nil
}
