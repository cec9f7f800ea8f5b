package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ParserScan   = "scan"
	ParserGofeed = "gofeed"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName            string        `mapstructure:"app_name"`
	Env                string        `mapstructure:"app_env"`
	LogLevel           string        `mapstructure:"log_level"`
	LogFormat          string        `mapstructure:"log_format"`
	FeedID             string        `mapstructure:"feed_id"`
	FeedURL            string        `mapstructure:"feed_url"`
	FeedsFile          string        `mapstructure:"feeds_file"`
	PublishersFile     string        `mapstructure:"publishers_file"`
	FeedParser         string        `mapstructure:"feed_parser"`
	UserAgent          string        `mapstructure:"user_agent"`
	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`
	EnrichDelayMs      int64         `mapstructure:"enrich_delay_ms"`
	EnrichDelay        time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "newsreader")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "console")
	v.SetDefault("feed_id", "nyt")
	v.SetDefault("feed_url", "")
	v.SetDefault("feeds_file", "")
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("feed_parser", ParserScan)
	v.SetDefault("user_agent", "NewsReader/1.0.1")
	v.SetDefault("http_timeout_seconds", 30)
	v.SetDefault("enrich_delay_ms", 250)

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) normalize() error {
	if cfg.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	if cfg.EnrichDelayMs < 0 {
		return fmt.Errorf("invalid enrich_delay_ms (must not be negative)")
	}
	cfg.EnrichDelay = time.Duration(cfg.EnrichDelayMs) * time.Millisecond

	cfg.FeedParser = strings.ToLower(strings.TrimSpace(cfg.FeedParser))
	switch cfg.FeedParser {
	case "":
		cfg.FeedParser = ParserScan
	case ParserScan, ParserGofeed:
	default:
		return fmt.Errorf("invalid feed_parser %q (expected %s or %s)", cfg.FeedParser, ParserScan, ParserGofeed)
	}

	cfg.FeedID = strings.ToLower(strings.TrimSpace(cfg.FeedID))
	cfg.FeedURL = strings.TrimSpace(cfg.FeedURL)
	return nil
}
