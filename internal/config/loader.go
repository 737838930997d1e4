// Package config loads server configuration from config.yaml with
// environment variable overrides.
package config

import (
	"time"

	"github.com/spf13/viper"

	"circlegov/internal/db"
)

// Config is the full server configuration.
type Config struct {
	Server   ServerConfig
	Database db.Config
	Redis    RedisConfig
	NATS     NATSConfig
	Log      LogConfig
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
	RateRPS        float64
	RateBurst      int
	SessionTTL     time.Duration
}

// RedisConfig controls the session store. An empty Addr selects the
// in-memory store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NATSConfig controls the event publisher. An empty URL disables
// publishing.
type NATSConfig struct {
	URL string
}

// LogConfig controls log output.
type LogConfig struct {
	Level  string
	Pretty bool
}

// Default returns the development defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:3000"},
			RateRPS:        50,
			RateBurst:      100,
			SessionTTL:     24 * time.Hour,
		},
		Database: db.DefaultConfig(),
		Log:      LogConfig{Level: "info"},
	}
}

// Load reads config.yaml from configPath, falling back to defaults
// plus environment overrides (CIRCLEGOV_DATABASE_HOST etc.).
func Load(configPath string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()
	v.SetEnvPrefix("CIRCLEGOV")

	v.BindEnv("server.addr")
	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")
	v.BindEnv("redis.addr")
	v.BindEnv("redis.password")
	v.BindEnv("nats.url")
	v.BindEnv("log.level")

	// Config file is optional; defaults plus env cover development.
	_ = v.ReadInConfig()

	if v.IsSet("server.addr") {
		cfg.Server.Addr = v.GetString("server.addr")
	}
	if v.IsSet("server.allowed_origins") {
		cfg.Server.AllowedOrigins = v.GetStringSlice("server.allowed_origins")
	}
	if v.IsSet("server.rate_rps") {
		cfg.Server.RateRPS = v.GetFloat64("server.rate_rps")
	}
	if v.IsSet("server.rate_burst") {
		cfg.Server.RateBurst = v.GetInt("server.rate_burst")
	}
	if v.IsSet("server.session_ttl") {
		cfg.Server.SessionTTL = v.GetDuration("server.session_ttl")
	}

	if v.IsSet("database.host") {
		cfg.Database.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.Database.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.Database.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.Database.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.Database.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.Database.SSLMode = v.GetString("database.sslmode")
	}

	if v.IsSet("redis.addr") {
		cfg.Redis.Addr = v.GetString("redis.addr")
	}
	if v.IsSet("redis.password") {
		cfg.Redis.Password = v.GetString("redis.password")
	}
	if v.IsSet("redis.db") {
		cfg.Redis.DB = v.GetInt("redis.db")
	}

	if v.IsSet("nats.url") {
		cfg.NATS.URL = v.GetString("nats.url")
	}

	if v.IsSet("log.level") {
		cfg.Log.Level = v.GetString("log.level")
	}
	if v.IsSet("log.pretty") {
		cfg.Log.Pretty = v.GetBool("log.pretty")
	}

	return cfg, nil
}
