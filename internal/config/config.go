package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"infinite-experiment/engagesync/internal/constants"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Log      LogConfig
	Dispatch DispatchConfig
	Delivery DeliveryConfig
	Cache    CacheConfig
	Auth     AuthConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns the postgres connection URL shared by GORM and sqlx
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string // debug, info, warn, error
}

// DispatchConfig controls how batches are handed to background workers
type DispatchConfig struct {
	Backend   string // local or redis
	Workers   int
	QueueSize int
	// BlockTime is how long a Redis consumer waits for a new batch
	BlockTime time.Duration
}

// DeliveryConfig holds outbound platform client settings
type DeliveryConfig struct {
	Timeout time.Duration
}

// CacheConfig holds the sync configuration cache settings
type CacheConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

// AuthConfig holds the secret used to sign change-capture hook tokens
type AuthConfig struct {
	HookSecret string
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with ENGAGESYNC_ prefix (e.g., ENGAGESYNC_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("ENGAGESYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("database.host"),
			Port:     v.GetInt("database.port"),
			User:     v.GetString("database.user"),
			Password: v.GetString("database.password"),
			DBName:   v.GetString("database.dbname"),
			SSLMode:  v.GetString("database.sslmode"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
		},
		Dispatch: DispatchConfig{
			Backend:   v.GetString("dispatch.backend"),
			Workers:   v.GetInt("dispatch.workers"),
			QueueSize: v.GetInt("dispatch.queue_size"),
			BlockTime: v.GetDuration("dispatch.block_time"),
		},
		Delivery: DeliveryConfig{
			Timeout: v.GetDuration("delivery.timeout"),
		},
		Cache: CacheConfig{
			TTL:             v.GetDuration("cache.ttl"),
			CleanupInterval: v.GetDuration("cache.cleanup_interval"),
		},
		Auth: AuthConfig{
			HookSecret: v.GetString("auth.hook_secret"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "engagesync"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "engagesync"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Dispatch.Backend == "" {
		cfg.Dispatch.Backend = constants.DispatchBackendLocal
	}
	if cfg.Dispatch.Workers == 0 {
		cfg.Dispatch.Workers = 4
	}
	if cfg.Dispatch.QueueSize == 0 {
		cfg.Dispatch.QueueSize = 256
	}
	if cfg.Dispatch.BlockTime == 0 {
		cfg.Dispatch.BlockTime = 5 * time.Second
	}
	if cfg.Delivery.Timeout == 0 {
		cfg.Delivery.Timeout = 120 * time.Second
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 5 * time.Minute
	}
	if cfg.Cache.CleanupInterval == 0 {
		cfg.Cache.CleanupInterval = 10 * time.Minute
	}
}

func (c *Config) validate() error {
	switch c.Dispatch.Backend {
	case constants.DispatchBackendLocal, constants.DispatchBackendRedis:
	default:
		return fmt.Errorf("dispatch.backend must be %q or %q, got %q",
			constants.DispatchBackendLocal, constants.DispatchBackendRedis, c.Dispatch.Backend)
	}
	if c.Dispatch.Workers < 1 {
		return fmt.Errorf("dispatch.workers must be at least 1")
	}
	if c.Delivery.Timeout < 0 {
		return fmt.Errorf("delivery.timeout must not be negative")
	}
	if c.App.Env == "production" && c.Auth.HookSecret == "" {
		return fmt.Errorf("auth.hook_secret is required in production")
	}
	return nil
}

// IsProduction reports whether the app runs with production settings
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
