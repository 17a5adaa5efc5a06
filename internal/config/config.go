package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
	StoreDriverMemory   = "memory"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Approval  ApprovalConfig
	SMTP      SMTPConfig
	Leave     LeaveConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Notify    NotifyConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int    `env:"APP_PORT" envDefault:"8080"`
	Env         string `env:"APP_ENV" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`
}

type DatabaseConfig struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     int    `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME" envDefault:"employee_portal"`
	SSLMode  string `env:"DB_SSL_MODE" envDefault:"disable"`
}

type MongoConfig struct {
	URI        string `env:"MONGO_URI"`
	Database   string `env:"MONGO_DB_NAME" envDefault:"loginApp"`
	Collection string `env:"MONGO_COLLECTION" envDefault:"users"`
}

// RedisConfig is optional; an empty Addr keeps locking in-process.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	LockTTL  time.Duration `env:"REDIS_LOCK_TTL" envDefault:"10s"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string `env:"JWT_SECRET_KEY"`
}

// ApprovalConfig configures the emailed approve/reject capability tokens.
type ApprovalConfig struct {
	Secret string        `env:"APPROVAL_TOKEN_SECRET"`
	TTL    time.Duration `env:"APPROVAL_TOKEN_TTL" envDefault:"168h"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM"`
	FromName string `env:"SMTP_FROM_NAME" envDefault:"CrewConnect"`
}

type LeaveConfig struct {
	ApproverEmail string `env:"LEAVE_APPROVER_EMAIL"`
	DefaultTotal  int    `env:"LEAVE_DEFAULT_TOTAL" envDefault:"25"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
}

// RateLimitConfig applies to the unauthenticated approval link endpoint.
type RateLimitConfig struct {
	RequestsPerSecond float64 `env:"RATE_LIMIT_RPS" envDefault:"5"`
	Burst             int     `env:"RATE_LIMIT_BURST" envDefault:"10"`
}

type NotifyConfig struct {
	Workers     int           `env:"NOTIFY_WORKERS" envDefault:"2"`
	QueueSize   int           `env:"NOTIFY_QUEUE_SIZE" envDefault:"100"`
	TaskTimeout time.Duration `env:"NOTIFY_TASK_TIMEOUT" envDefault:"30s"`
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env file: %w", err)
	}
	return Parse()
}

// Parse builds a Config from the process environment only.
func Parse() (*Config, error) {
	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	config.App.StoreDriver = strings.ToLower(strings.TrimSpace(config.App.StoreDriver))
	config.App.FrontendURL = strings.TrimRight(config.App.FrontendURL, "/")
	if config.Approval.Secret == "" {
		config.Approval.Secret = config.JWT.Secret
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.App.StoreDriver {
	case StoreDriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StoreDriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.App.StoreDriver)
	}
	if c.Approval.Secret == "" {
		return fmt.Errorf("APPROVAL_TOKEN_SECRET or JWT_SECRET_KEY is required")
	}
	if c.Approval.TTL <= 0 {
		return fmt.Errorf("APPROVAL_TOKEN_TTL must be positive")
	}
	if c.Leave.ApproverEmail == "" {
		return fmt.Errorf("LEAVE_APPROVER_EMAIL is required")
	}
	if c.Leave.DefaultTotal < 0 {
		return fmt.Errorf("LEAVE_DEFAULT_TOTAL must not be negative")
	}
	if c.Notify.Workers <= 0 {
		return fmt.Errorf("NOTIFY_WORKERS must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// LogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
