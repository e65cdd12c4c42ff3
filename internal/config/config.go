// Package config loads backend and client settings through viper.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Server holds the backend settings. Every field can be set through the
// environment variable named in its mapstructure tag.
type Server struct {
	Port           string `mapstructure:"APP_PORT"`
	DatabaseDriver string `mapstructure:"DATABASE_DRIVER"`
	DatabaseDSN    string `mapstructure:"DATABASE_DSN"`
	JWTSecret      string `mapstructure:"JWT_SECRET"`
	RabbitMQURL    string `mapstructure:"RABBITMQ_URL"`
	RestaurantName string `mapstructure:"RESTAURANT_NAME"`
	MenuSeedFile   string `mapstructure:"MENU_SEED_FILE"`
	LogFormat      string `mapstructure:"LOG_FORMAT"`
	LogLevel       string `mapstructure:"LOG_LEVEL"`
}

var serverDefaults = map[string]interface{}{
	"APP_PORT":        ":8080",
	"DATABASE_DRIVER": "sqlite",
	"DATABASE_DSN":    "menucart.db",
	"JWT_SECRET":      "change_me_in_production",
	"RABBITMQ_URL":    "",
	"RESTAURANT_NAME": "MenuCart Bistro",
	"MENU_SEED_FILE":  "configs/menu.yaml",
	"LOG_FORMAT":      "text",
	"LOG_LEVEL":       "info",
}

// LoadServer reads backend settings from the environment.
func LoadServer() (*Server, error) {
	v := viper.New()
	for key, value := range serverDefaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Server
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling server config: %w", err)
	}
	cfg.DatabaseDriver = strings.ToLower(cfg.DatabaseDriver)
	switch cfg.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q (want sqlite or postgres)", cfg.DatabaseDriver)
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must not be empty")
	}
	return &cfg, nil
}

// Client holds the customer and staff CLI settings.
type Client struct {
	APIURL  string        `mapstructure:"api_url"`
	Timeout time.Duration `mapstructure:"timeout"`

	// Store selects where device state lives: badger, redis or memory.
	Store     string `mapstructure:"store"`
	DataDir   string `mapstructure:"data_dir"`
	RedisURL  string `mapstructure:"redis_url"`
	RedisKeys string `mapstructure:"redis_prefix"`

	// MenuFile serves the menu from a local YAML file instead of the backend.
	MenuFile string `mapstructure:"menu_file"`

	PollInterval time.Duration `mapstructure:"poll_interval"`
	LogFormat    string        `mapstructure:"log_format"`
	LogLevel     string        `mapstructure:"log_level"`
}

// ClientViper returns a viper instance with client defaults, reading
// MENUCART_* environment variables and the optional config file. An empty
// path searches for menucart.yaml in the working directory and ~/.menucart.
func ClientViper(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault("api_url", "http://localhost:8080/api")
	v.SetDefault("timeout", 10*time.Second)
	v.SetDefault("store", "badger")
	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("redis_url", "redis://localhost:6379/0")
	v.SetDefault("redis_prefix", "menucart")
	v.SetDefault("menu_file", "")
	v.SetDefault("poll_interval", 30*time.Second)
	v.SetDefault("log_format", "text")
	v.SetDefault("log_level", "warn")

	v.SetEnvPrefix("MENUCART")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
		return v, nil
	}

	v.SetConfigName("menucart")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".menucart"))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return v, nil
}

// LoadClient decodes client settings from v.
func LoadClient(v *viper.Viper) (*Client, error) {
	var cfg Client
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling client config: %w", err)
	}
	cfg.Store = strings.ToLower(cfg.Store)
	switch cfg.Store {
	case "badger", "redis", "memory":
	default:
		return nil, fmt.Errorf("unsupported store %q (want badger, redis or memory)", cfg.Store)
	}
	if cfg.APIURL == "" && cfg.MenuFile == "" {
		return nil, errors.New("api_url must not be empty")
	}
	return &cfg, nil
}

func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".menucart", "data")
	}
	return ".menucart-data"
}

// NewLogger builds the process logger. format is "text" or "json"; level is
// one of debug, info, warn, error.
func NewLogger(w io.Writer, format, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
