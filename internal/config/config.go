package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	APIBase          string        `mapstructure:"api_base"`
	WSBase           string        `mapstructure:"ws_base"`
	ReconnectDelay   time.Duration `mapstructure:"reconnect_delay"`
	DedupWindow      time.Duration `mapstructure:"dedup_window"`
	HandshakeTimeout time.Duration `mapstructure:"handshake_timeout"`
	FetchTimeout     time.Duration `mapstructure:"fetch_timeout"`
	LogLevel         string        `mapstructure:"log_level"`
}

// Load reads the yaml config at path; with an empty path it falls back
// to config/config.{CONFIG_ENV}.yaml.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	fileName := path
	if fileName == "" {
		env := os.Getenv("CONFIG_ENV")
		if env == "" {
			env = "dev"
		}
		fileName = fmt.Sprintf("config/config.%s.yaml", env)
	}

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("api_base", "http://localhost:8000")
	v.SetDefault("ws_base", "ws://localhost:8000")
	v.SetDefault("reconnect_delay", "3s")
	v.SetDefault("dedup_window", "1s")
	v.SetDefault("handshake_timeout", "10s")
	v.SetDefault("fetch_timeout", "5s")
	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		// Missing config file is fine, defaults cover a local server.
		// A file that exists but will not parse must not pass silently.
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			log.Warn().Err(err).Str("file", fileName).Msg("config file unreadable, using defaults")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
