package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	AnalyticsEnabled bool   `mapstructure:"ANALYTICS_ENABLED"`
	MeasurementID    string `mapstructure:"GA_MEASUREMENT_ID"`
	APISecret        string `mapstructure:"GA_API_SECRET"`
	CollectEndpoint  string `mapstructure:"GA_ENDPOINT"`
	ClientID         string `mapstructure:"GA_CLIENT_ID"`
	SiteURL          string `mapstructure:"SITE_URL"`

	QueueBackend  string `mapstructure:"QUEUE_BACKEND"` // "memory" or "redis"
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	RedisQueueKey string `mapstructure:"REDIS_QUEUE_KEY"`

	RenderTimeout   int    `mapstructure:"RENDER_TIMEOUT"` // in seconds
	WatchDebounceMS int    `mapstructure:"WATCH_DEBOUNCE_MS"`
	MetricsAddr     string `mapstructure:"METRICS_ADDR"`
}

// IsProduction reports whether development-only console output should be suppressed.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// LoadFile reads configuration from the given env file, falling back to the
// process environment when the file is absent.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Attempt to read the .env file, but don't fail if it's not present
	_ = v.ReadInConfig()

	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ANALYTICS_ENABLED", false)
	v.SetDefault("GA_MEASUREMENT_ID", "")
	v.SetDefault("GA_API_SECRET", "")
	v.SetDefault("GA_ENDPOINT", "https://www.google-analytics.com/mp/collect")
	v.SetDefault("GA_CLIENT_ID", "")
	v.SetDefault("SITE_URL", "")
	v.SetDefault("QUEUE_BACKEND", "memory")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_QUEUE_KEY", "sitekit:datalayer")
	v.SetDefault("RENDER_TIMEOUT", 30)
	v.SetDefault("WATCH_DEBOUNCE_MS", 500)
	v.SetDefault("METRICS_ADDR", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
