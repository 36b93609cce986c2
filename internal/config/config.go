// Package config loads process configuration from the environment.
//
// Everything is read once in main and handed to constructors as plain
// values; no package-level state. cleanenv maps env vars onto the struct
// tags and applies defaults.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	HTTP   HTTPConfig
	DB     DBConfig
	Auth   AuthConfig
	GitHub GitHubConfig
	Redis  RedisConfig
}

type HTTPConfig struct {
	Port         int           `env:"PORT" env-default:"8080"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"15s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type DBConfig struct {
	// Path is the SQLite database file; ":memory:" gives an ephemeral DB.
	Path string `env:"DB_PATH" env-default:"data/devconnect.db"`
}

type AuthConfig struct {
	// JWTSecret signs every session token. There is no default: starting
	// without one is a misconfiguration, not a degraded mode.
	JWTSecret string `env:"JWT_SECRET" env-required:"true"`
}

type GitHubConfig struct {
	// Token is the server-held access token used for the repos proxy.
	// Optional — without it the proxy calls the API unauthenticated and
	// runs into the lower rate limit.
	Token string `env:"GITHUB_TOKEN" env-default:""`
	// APIBase is overridable for tests.
	APIBase string `env:"GITHUB_API_URL" env-default:"https://api.github.com"`
	// FallbackUser is queried when a proxy request carries an empty
	// username segment.
	FallbackUser string `env:"GITHUB_FALLBACK_USER" env-default:""`
}

type RedisConfig struct {
	// Addr is "host:port". Empty disables the profile-list cache entirely;
	// the API works without Redis.
	Addr     string        `env:"REDIS_ADDR" env-default:""`
	Password string        `env:"REDIS_PASSWORD" env-default:""`
	DB       int           `env:"REDIS_DB" env-default:"0"`
	CacheTTL time.Duration `env:"CACHE_TTL" env-default:"60s"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: read env: %w", err)
	}
	return cfg, nil
}
