// Package config loads zoo settings from an optional YAML file with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"zootopia/internal/storage"
)

type Config struct {
	// OwnerID overrides the generated owner id kept in the local database.
	OwnerID string `yaml:"owner_id" env:"ZOO_OWNER_ID" env-default:""`
	// Debug makes growth contract violations fail instead of being clamped.
	Debug bool `yaml:"debug" env:"ZOO_DEBUG" env-default:"false"`

	Local  LocalConfig  `yaml:"local"`
	Remote RemoteConfig `yaml:"remote"`
	LLM    LLMConfig    `yaml:"llm"`
	Log    LogConfig    `yaml:"log"`
}

type LocalConfig struct {
	// Path of the SQLite file. Empty means ~/.zootopia.db.
	Path string `yaml:"path" env:"ZOO_DB_PATH" env-default:""`
}

// RemoteConfig describes the optional PostgreSQL backend. An empty URL keeps the
// process on the local store.
type RemoteConfig struct {
	URL            string        `yaml:"url" env:"ZOO_REMOTE_URL" env-default:""`
	MaxConnections int32         `yaml:"max_connections" env:"ZOO_REMOTE_MAX_CONNECTIONS" env-default:"4"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"ZOO_REMOTE_CONNECT_TIMEOUT" env-default:"5s"`
}

// LLMConfig seeds the stored API config when none has been saved yet.
type LLMConfig struct {
	Endpoint string `yaml:"endpoint" env:"ZOO_LLM_ENDPOINT" env-default:""`
	Model    string `yaml:"model" env:"ZOO_LLM_MODEL" env-default:"gpt-3.5-turbo"`
	APIKey   string `yaml:"-" env:"ZOO_LLM_API_KEY"`
}

type LogConfig struct {
	Level       string `yaml:"level" env:"ZOO_LOG_LEVEL" env-default:"warn"`
	Development bool   `yaml:"development" env:"ZOO_LOG_DEVELOPMENT" env-default:"false"`
}

// ResolvePath returns the config file location: $ZOO_CONFIG, else
// $XDG_CONFIG_HOME/zootopia/config.yaml, else ~/.config/zootopia/config.yaml.
func ResolvePath() (string, error) {
	if p := strings.TrimSpace(os.Getenv("ZOO_CONFIG")); p != "" {
		return p, nil
	}
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, "zootopia", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config path: %w", err)
	}
	return filepath.Join(home, ".config", "zootopia", "config.yaml"), nil
}

// Load reads path when it exists, otherwise the environment alone. Environment
// variables always override YAML values.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, cfg); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
			return cfg.finish()
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat config %s: %w", path, err)
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read config env: %w", err)
	}
	return cfg.finish()
}

func (c *Config) finish() (*Config, error) {
	if c.Local.Path == "" {
		p, err := storage.DefaultDBPath()
		if err != nil {
			return nil, err
		}
		c.Local.Path = p
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.Remote.URL != "" {
		u, err := url.Parse(c.Remote.URL)
		if err != nil {
			return fmt.Errorf("invalid remote.url: %w", err)
		}
		if u.Scheme != "postgres" && u.Scheme != "postgresql" {
			return fmt.Errorf("invalid remote.url: scheme %q is not postgres", u.Scheme)
		}
	}
	if c.Remote.MaxConnections <= 0 {
		return fmt.Errorf("remote.max_connections must be positive, got %d", c.Remote.MaxConnections)
	}
	if c.LLM.Endpoint != "" {
		if _, err := url.ParseRequestURI(c.LLM.Endpoint); err != nil {
			return fmt.Errorf("invalid llm.endpoint: %w", err)
		}
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level %q", c.Log.Level)
	}
	return nil
}

// StorageOptions maps the config onto storage.Open options.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		LocalPath: c.Local.Path,
		Remote: storage.RemoteConfig{
			URL:            c.Remote.URL,
			MaxConnections: c.Remote.MaxConnections,
			ConnectTimeout: c.Remote.ConnectTimeout,
		},
	}
}
