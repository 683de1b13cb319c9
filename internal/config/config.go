package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Snapshot store backends.
const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Cache    CacheConfig    `toml:"cache"`
	Database DatabaseConfig `toml:"database"`
	Redis    RedisConfig    `toml:"redis"`
	Kafka    KafkaConfig    `toml:"kafka"`
	Feeds    FeedsConfig    `toml:"feeds"`
	Logging  LoggingConfig  `toml:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `toml:"port"`
	Host string `toml:"host"`
}

// CacheConfig selects the snapshot store backend and the scheduled refresh.
type CacheConfig struct {
	Backend string `toml:"backend"`
	// RefreshSchedule is a cron expression; empty disables the scheduled
	// refresh.
	RefreshSchedule string `toml:"refresh_schedule"`
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host           string `toml:"host"`
	Port           string `toml:"port"`
	User           string `toml:"user"`
	Password       string `toml:"password"`
	DBName         string `toml:"dbname"`
	SSLMode        string `toml:"sslmode"`
	MigrationsPath string `toml:"migrations_path"`
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// KafkaConfig holds Kafka configuration. An empty broker list disables
// event publishing.
type KafkaConfig struct {
	Brokers []string `toml:"brokers"`
	Topic   string   `toml:"topic"`
}

// FeedsConfig lists the remote feed endpoints in priority order.
type FeedsConfig struct {
	EquitySources  []string `toml:"equity_sources"`
	FundSources    []string `toml:"fund_sources"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

// Timeout returns the per-source fetch timeout.
func (f FeedsConfig) Timeout() time.Duration {
	if f.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(f.TimeoutSeconds) * time.Second
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// Load builds configuration with priority: defaults -> TOML file -> env.
// An empty path skips the file layer.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if cfg.Cache.Backend != BackendPostgres && cfg.Cache.Backend != BackendRedis {
		return nil, fmt.Errorf("unknown cache backend: %q", cfg.Cache.Backend)
	}
	return cfg, nil
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
			Host: "0.0.0.0",
		},
		Cache: CacheConfig{
			Backend: BackendPostgres,
			// Weekday evenings after market close.
			RefreshSchedule: "30 18 * * 1-5",
		},
		Database: DatabaseConfig{
			Host:           "localhost",
			Port:           "5432",
			User:           "postgres",
			Password:       "postgres",
			DBName:         "marketdata",
			SSLMode:        "disable",
			MigrationsPath: "db/migrations",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Kafka: KafkaConfig{
			Topic: "marketdata.cache",
		},
		Feeds: FeedsConfig{
			TimeoutSeconds: 10,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func (c *Config) applyEnv() {
	setEnv(&c.Server.Port, "SERVER_PORT")
	setEnv(&c.Server.Host, "SERVER_HOST")

	setEnv(&c.Cache.Backend, "CACHE_BACKEND")
	setEnv(&c.Cache.RefreshSchedule, "CACHE_REFRESH_SCHEDULE")

	setEnv(&c.Database.Host, "DB_HOST")
	setEnv(&c.Database.Port, "DB_PORT")
	setEnv(&c.Database.User, "DB_USER")
	setEnv(&c.Database.Password, "DB_PASSWORD")
	setEnv(&c.Database.DBName, "DB_NAME")
	setEnv(&c.Database.SSLMode, "DB_SSLMODE")
	setEnv(&c.Database.MigrationsPath, "DB_MIGRATIONS_PATH")

	setEnv(&c.Redis.Addr, "REDIS_ADDR")
	setEnv(&c.Redis.Password, "REDIS_PASSWORD")
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Redis.DB = n
		}
	}

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = splitList(v)
	}
	setEnv(&c.Kafka.Topic, "KAFKA_TOPIC")

	if v := os.Getenv("FEED_EQUITY_SOURCES"); v != "" {
		c.Feeds.EquitySources = splitList(v)
	}
	if v := os.Getenv("FEED_FUND_SOURCES"); v != "" {
		c.Feeds.FundSources = splitList(v)
	}
	if v := os.Getenv("FEED_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Feeds.TimeoutSeconds = n
		}
	}

	setEnv(&c.Logging.Level, "LOG_LEVEL")
}

// ConnectionString returns the PostgreSQL connection string.
func (d *DatabaseConfig) ConnectionString() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.DBName + "?sslmode=" + d.SSLMode
}

func setEnv(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
