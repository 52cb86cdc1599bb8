package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "gamelounge/libs/config"
)

// HTTPConfig holds listener settings.
type HTTPConfig struct {
	Port string `yaml:"port" env:"LOUNGE_HTTP_PORT"`
}

// DatabaseConfig holds Postgres settings.
type DatabaseConfig struct {
	DSN string `yaml:"dsn" env:"LOUNGE_POSTGRES_DSN"`
}

// RedisConfig holds occupancy cache settings.
type RedisConfig struct {
	Addr     string        `yaml:"addr" env:"LOUNGE_REDIS_ADDR"`
	Password string        `yaml:"password" env:"LOUNGE_REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"LOUNGE_REDIS_DB"`
	TTL      time.Duration `yaml:"ttl" env:"LOUNGE_REDIS_TTL"`
}

// Config defines lounge service configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
}

// Load reads configuration via the shared helper and applies defaults.
func Load() (*Config, error) {
	cfg := &Config{
		HTTP: HTTPConfig{
			Port: "8080",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
			TTL:  24 * time.Hour,
		},
	}

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	if strings.TrimSpace(cfg.Redis.Addr) == "" {
		return nil, errors.New("config: redis addr required")
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// OccupancyTTL returns the active rental cache TTL.
func (c *Config) OccupancyTTL() time.Duration {
	if c.Redis.TTL <= 0 {
		return 24 * time.Hour
	}
	return c.Redis.TTL
}
