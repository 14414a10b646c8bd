package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/Whitenz/next-train-telegram-bot/internal/domain"
)

// DefaultEnvFiles are read before the environment, first file wins, so
// .env.dev overrides .env.prod. Variables already present in the environment
// are never overridden.
var DefaultEnvFiles = []string{".env.dev", ".env.prod"}

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken    string `envconfig:"BOT_TOKEN" required:"true"`
	DeveloperID int64  `envconfig:"DEVELOPER_TG_ID"` // receives handler errors, 0 disables
	DatabaseURL string `envconfig:"DATABASE_URL" default:"./data/metro.db"` // postgres://... or SQLite path
	TZ          string `envconfig:"TZ_NAME" default:"Asia/Yekaterinburg"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"` // healthz + metrics
	Workers     int    `envconfig:"WORKERS" default:"8"`       // concurrent updates

	OpenTime            domain.Clock  `envconfig:"OPEN_TIME_METRO" default:"05:30"`
	CloseTime           domain.Clock  `envconfig:"CLOSE_TIME_METRO" default:"00:30"`
	MaxWait             time.Duration `envconfig:"MAX_WAITING_TIME" default:"60m"`
	LimitRow            int           `envconfig:"LIMIT_ROW" default:"2"`
	LimitFavorites      int           `envconfig:"LIMIT_FAVORITES" default:"2"`
	ConversationTimeout time.Duration `envconfig:"CONVERSATION_TIMEOUT" default:"3m"`

	loc *time.Location
}

// LoadEnvFiles exports variables from the env files that exist.
func LoadEnvFiles(envFiles ...string) error {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("env file %s: %w", f, err)
		}
	}
	return nil
}

// Load reads optional env files, then environment variables into Config, and validates it.
func Load(envFiles ...string) (Config, error) {
	if err := LoadEnvFiles(envFiles...); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks value ranges and resolves the time zone.
func (c *Config) Validate() error {
	var errs []error
	if c.BotToken == "" {
		errs = append(errs, errors.New("BOT_TOKEN is empty"))
	}
	if c.MaxWait < 15*time.Minute || c.MaxWait > time.Hour {
		errs = append(errs, fmt.Errorf("MAX_WAITING_TIME %s out of range 15m..60m", c.MaxWait))
	}
	if c.LimitRow < 1 {
		errs = append(errs, fmt.Errorf("LIMIT_ROW must be >= 1, got %d", c.LimitRow))
	}
	if c.LimitFavorites < 1 {
		errs = append(errs, fmt.Errorf("LIMIT_FAVORITES must be >= 1, got %d", c.LimitFavorites))
	}
	if c.ConversationTimeout < time.Minute || c.ConversationTimeout > time.Hour {
		errs = append(errs, fmt.Errorf("CONVERSATION_TIMEOUT %s out of range 1m..1h", c.ConversationTimeout))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("WORKERS must be >= 1, got %d", c.Workers))
	}
	loc, err := time.LoadLocation(c.TZ)
	if err != nil {
		errs = append(errs, fmt.Errorf("TZ_NAME: %w", err))
	}
	c.loc = loc
	return errors.Join(errs...)
}

// Location returns the metro time zone. Valid after Validate.
func (c Config) Location() *time.Location {
	if c.loc == nil {
		return time.Local
	}
	return c.loc
}

// Hours returns the metro operating window.
func (c Config) Hours() domain.Hours {
	return domain.Hours{Open: c.OpenTime, Close: c.CloseTime}
}
