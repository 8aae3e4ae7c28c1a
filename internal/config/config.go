// Package config loads settings from an optional YAML file, REVIEWS_* env vars
// and .env, in that order of increasing precedence for env.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/idilsaglam/reviews/internal/model"
)

// Config is the effective configuration.
type Config struct {
	BaseURL        string        `mapstructure:"base_url" validate:"required,url"`
	DefaultApp     string        `mapstructure:"default_app" validate:"required,catalog_app"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gt=0s"`
	Theme          string        `mapstructure:"theme" validate:"oneof=classic neon mono"`

	Log    LogConfig    `mapstructure:"log"`
	Server ServerConfig `mapstructure:"server"`
	Poller PollerConfig `mapstructure:"poller"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	File  string `mapstructure:"file"`
}

type ServerConfig struct {
	Addr     string        `mapstructure:"addr" validate:"required"`
	DBPath   string        `mapstructure:"db_path" validate:"required"`
	Lookback time.Duration `mapstructure:"lookback" validate:"gt=0s"`
}

type PollerConfig struct {
	Interval time.Duration `mapstructure:"interval" validate:"gt=0s"`
	Lookback time.Duration `mapstructure:"lookback" validate:"gt=0s"`
	MaxPages int           `mapstructure:"max_pages" validate:"min=1"`
	Rate     float64       `mapstructure:"rate" validate:"gt=0"`
	FeedURL  string        `mapstructure:"feed_url" validate:"required,contains={id}"`
}

// DefaultFeedURL is the public App Store customer review feed.
const DefaultFeedURL = "https://itunes.apple.com/us/rss/customerreviews/id={id}/sortBy=mostRecent/page={page}/json"

// dirFunc returns the config directory, replaceable in tests.
var dirFunc = defaultDir

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "reviews"), nil
}

// Dir is the directory holding config.yaml, the database and the log file.
func Dir() string {
	dir, err := dirFunc()
	if err != nil {
		return "."
	}
	return dir
}

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterValidation("catalog_app", func(fl validator.FieldLevel) bool {
		_, ok := model.IndexOf(model.Apps, fl.Field().String())
		return ok
	})
}

func setDefaults(v *viper.Viper) {
	dir := Dir()
	v.SetDefault("base_url", "http://localhost:8000")
	v.SetDefault("default_app", model.DefaultAppID)
	v.SetDefault("request_timeout", "10s")
	v.SetDefault("theme", "classic")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(dir, "reviews.log"))

	v.SetDefault("server.addr", "localhost:8000")
	v.SetDefault("server.db_path", filepath.Join(dir, "reviews.db"))
	v.SetDefault("server.lookback", "48h")

	v.SetDefault("poller.interval", "5m")
	v.SetDefault("poller.lookback", "48h")
	v.SetDefault("poller.max_pages", 10)
	v.SetDefault("poller.rate", 1.0)
	v.SetDefault("poller.feed_url", DefaultFeedURL)
}

// Load reads the configuration. An explicit path must exist; the default
// config file is optional.
func Load(path string) (*Config, error) {
	// .env is optional and never overrides variables already set.
	_ = godotenv.Load()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(Dir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix("REVIEWS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Server.DBPath = expandHome(cfg.Server.DBPath)
	cfg.Log.File = expandHome(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	// default_app may be given by name; keep the id from here on.
	cfg.DefaultApp = model.Apps[cfg.DefaultIndex()].ID
	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DefaultIndex is the catalog position of DefaultApp, or 0.
func (c *Config) DefaultIndex() int {
	if i, ok := model.IndexOf(model.Apps, c.DefaultApp); ok {
		return i
	}
	return 0
}

// Settings is the configuration as nested maps with durations spelled out.
func (c *Config) Settings() map[string]any {
	return map[string]any{
		"base_url":        c.BaseURL,
		"default_app":     c.DefaultApp,
		"request_timeout": c.RequestTimeout.String(),
		"theme":           c.Theme,
		"log": map[string]any{
			"level": c.Log.Level,
			"file":  c.Log.File,
		},
		"server": map[string]any{
			"addr":     c.Server.Addr,
			"db_path":  c.Server.DBPath,
			"lookback": c.Server.Lookback.String(),
		},
		"poller": map[string]any{
			"interval":  c.Poller.Interval.String(),
			"lookback":  c.Poller.Lookback.String(),
			"max_pages": c.Poller.MaxPages,
			"rate":      c.Poller.Rate,
			"feed_url":  c.Poller.FeedURL,
		},
	}
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
