package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the loader reads.
const EnvPrefix = "RATINGS"

// Defaults applied before any file or environment value.
const (
	DefaultPort            = 8080
	DefaultLogLevel        = "info"
	DefaultCORSOrigin      = "http://localhost:5173"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultMaxOpenConns    = 10
	DefaultMaxIdleConns    = 5
	DefaultConnMaxLifetime = 5 * time.Minute
	DefaultTokenLifetime   = 7 * 24 * time.Hour
	DefaultBCryptCost      = 10
)

// legacyEnv maps the variable names the original deployment used onto config keys.
// They are consulted only when the prefixed variable is not set.
var legacyEnv = map[string]string{
	"server.port":     "PORT",
	"database.url":    "DATABASE_URL",
	"auth.jwt_secret": "JWT_SECRET",
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	// A missing .env file is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.Server.CORSAllowedOrigins = splitOrigins(cfg.Server.CORSAllowedOrigins)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.log_level", DefaultLogLevel)
	v.SetDefault("server.cors_allowed_origins", []string{DefaultCORSOrigin})
	v.SetDefault("server.shutdown_timeout", DefaultShutdownTimeout)

	v.SetDefault("database.max_open_conns", DefaultMaxOpenConns)
	v.SetDefault("database.max_idle_conns", DefaultMaxIdleConns)
	v.SetDefault("database.conn_max_lifetime", DefaultConnMaxLifetime)

	v.SetDefault("auth.token_lifetime", DefaultTokenLifetime)
	v.SetDefault("auth.bcrypt_cost", DefaultBCryptCost)
}

// bindEnv registers every key explicitly so Unmarshal sees environment values
// even for keys that have no default, and wires the legacy fallbacks.
func bindEnv(v *viper.Viper) {
	keys := []string{
		"server.port",
		"server.log_level",
		"server.cors_allowed_origins",
		"server.shutdown_timeout",
		"database.url",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"auth.jwt_secret",
		"auth.token_lifetime",
		"auth.bcrypt_cost",
	}
	for _, key := range keys {
		envName := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if legacy, ok := legacyEnv[key]; ok {
			_ = v.BindEnv(key, envName, legacy)
			continue
		}
		_ = v.BindEnv(key, envName)
	}
}

// splitOrigins accepts either a list or a single comma-separated value,
// as environment variables can only carry the latter.
func splitOrigins(raw []string) []string {
	var origins []string
	for _, entry := range raw {
		for _, origin := range strings.Split(entry, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
	}
	return origins
}
