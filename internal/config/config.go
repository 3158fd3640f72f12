// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token           string  `yaml:"token"`
	Workers         int     `yaml:"workers"` // polling workers; same-user events always share one
	AdminIDs        []int64 `yaml:"admin_ids"`
	ReviewChannelID int64   `yaml:"review_channel_id"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // trace|debug|info|warn|error
	Format string `yaml:"format"` // json|console
}

type StoreConfig struct {
	Backend string `yaml:"backend"` // firebase | postgres
	BaseURL string `yaml:"base_url"`
	Auth    string `yaml:"auth"` // optional ?auth= token for the REST store
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"` // empty disables redis (in-memory sessions, no lock)
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type ImageHostConfig struct {
	Key      string        `yaml:"key"` // empty means no external host: ephemeral URLs pass through
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

type WebConfig struct {
	Port       int           `yaml:"port"`
	APIKey     string        `yaml:"api_key"`
	JWTSecret  string        `yaml:"jwt_secret"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

type Config struct {
	Bot       BotConfig       `yaml:"bot"`
	Log       LogConfig       `yaml:"log"`
	Store     StoreConfig     `yaml:"store"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	ImageHost ImageHostConfig `yaml:"image_host"`
	Web       WebConfig       `yaml:"web"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "firebase"
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = time.Hour
	}
	if cfg.ImageHost.Endpoint == "" {
		cfg.ImageHost.Endpoint = "https://api.imgbb.com/1/upload"
	}
	if cfg.ImageHost.Timeout <= 0 {
		cfg.ImageHost.Timeout = 10 * time.Second
	}
	if cfg.Web.Port == 0 {
		cfg.Web.Port = 8081
	}
	if cfg.Web.SessionTTL <= 0 {
		cfg.Web.SessionTTL = 30 * time.Minute
	}

	// env fallbacks for secrets
	if cfg.Bot.Token == "" {
		cfg.Bot.Token = os.Getenv("TELEGRAM_BOT_TOKEN")
	}
	if cfg.ImageHost.Key == "" {
		cfg.ImageHost.Key = os.Getenv("IMGBB_API_KEY")
	}

	// Minimal validation
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is required")
	}
	switch cfg.Store.Backend {
	case "firebase":
		if cfg.Store.BaseURL == "" {
			return nil, errors.New("store.base_url is required for the firebase backend")
		}
	case "postgres":
		if cfg.Database.URL == "" {
			return nil, errors.New("database.url is required for the postgres backend")
		}
	default:
		return nil, fmt.Errorf("unknown store.backend %q", cfg.Store.Backend)
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
