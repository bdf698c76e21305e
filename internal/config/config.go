package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port          string `env:"PORT" envDefault:"8080"`
	Environment   string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevelName  string `env:"LOG_LEVEL" envDefault:"info"`
	DataDir       string `env:"ROK_DATA_DIR" envDefault:"./data"`
	StoryFile     string `env:"ROK_STORY" envDefault:"story.json"`
	ContentRating string `env:"ROK_CONTENT_RATING"`
	Plain         bool   `env:"ROK_PLAIN"`

	LogLevel slog.Level
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.LogLevel = parseLogLevel(cfg.LogLevelName)
	return &cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
