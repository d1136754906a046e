package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Database     DatabaseConfig
	JWT          JWTConfig
	App          AppConfig
	Redis        RedisConfig
	OAuth2Google OAuth2GoogleConfig
	Assistant    AssistantConfig
}

type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD"`
	Name     string `envconfig:"DB_NAME" default:"backoffice"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string        `envconfig:"JWT_SECRET_KEY"`
	AccessExpiration  time.Duration `envconfig:"JWT_ACCESS_EXPIRATION_TIME" default:"1h"`
	RefreshExpiration time.Duration `envconfig:"JWT_REFRESH_EXPIRATION_TIME" default:"168h"`
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int      `envconfig:"APP_PORT" default:"8080"`
	Env         string   `envconfig:"APP_ENV" default:"development"`
	LogLevel    string   `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat   string   `envconfig:"LOG_FORMAT" default:"json"`
	FrontendURL string   `envconfig:"FRONTEND_URL" default:"http://localhost:3000"`
	CORSOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	// Requests per minute per IP on /auth. Zero disables the limit.
	AuthRateLimit int `envconfig:"AUTH_RATE_LIMIT" default:"20"`
}

// RedisConfig is optional. Without an address snapshots are assembled on
// every read and settlement locks are skipped.
type RedisConfig struct {
	Addr        string        `envconfig:"REDIS_ADDR"`
	SnapshotTTL time.Duration `envconfig:"REDIS_SNAPSHOT_TTL" default:"10m"`
	LockTTL     time.Duration `envconfig:"REDIS_LOCK_TTL" default:"30s"`
}

type OAuth2GoogleConfig struct {
	ClientID     string   `envconfig:"CLIENT_ID"`
	ClientSecret string   `envconfig:"CLIENT_SECRET"`
	RedirectURL  string   `envconfig:"REDIRECT_URL"`
	Scopes       []string `envconfig:"SCOPES" default:"openid,email,profile"`
	StateKey     string   `envconfig:"OAUTH_STATE_KEY"`
}

func (c OAuth2GoogleConfig) Enabled() bool {
	return c.ClientID != ""
}

type AssistantConfig struct {
	APIKey string `envconfig:"GEMINI_API_KEY"`
	Model  string `envconfig:"ASSISTANT_MODEL" default:"gemini-2.5-flash"`
}

func (c AssistantConfig) Enabled() bool {
	return c.APIKey != ""
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	config := &Config{}
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.JWT.AccessExpiration <= 0 || c.JWT.RefreshExpiration <= 0 {
		return fmt.Errorf("JWT expiration times must be positive")
	}
	if c.OAuth2Google.Enabled() {
		if c.OAuth2Google.ClientSecret == "" {
			return fmt.Errorf("CLIENT_SECRET is required when CLIENT_ID is set")
		}
		if c.OAuth2Google.RedirectURL == "" {
			return fmt.Errorf("REDIRECT_URL is required when CLIENT_ID is set")
		}
	}
	switch strings.ToLower(c.App.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.App.LogFormat)
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

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
