package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/status-im/market-dashboard/cache"
)

var log = logrus.WithField("component", "config")

type Config struct {
	LogLevel       string               `yaml:"log_level"`
	Server         ServerConfig         `yaml:"server"`
	CoinGecko      CoinGeckoConfig      `yaml:"coingecko"`
	Query          QueryConfig          `yaml:"query"`
	Cache          cache.Config         `yaml:"cache"`
	RecentlyViewed RecentlyViewedConfig `yaml:"recently_viewed"`
}

// ServerConfig configures the HTTP boundary
type ServerConfig struct {
	Port string `yaml:"port"`
	// DefaultCurrency is pre-warmed and observed for the whole process lifetime
	DefaultCurrency string `yaml:"default_currency"`
}

// DefaultConfig returns a configuration usable without any config file
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Server: ServerConfig{
			Port:            "8080",
			DefaultCurrency: "usd",
		},
		CoinGecko:      GetDefaultCoinGeckoConfig(),
		Query:          GetDefaultQueryConfig(),
		Cache:          cache.DefaultCacheConfig(),
		RecentlyViewed: GetDefaultRecentlyViewedConfig(),
	}
}

// LoadConfig reads the YAML file at path on top of the defaults, then applies .env and
// environment overrides. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		log.Warnf("Config file %s not found, using defaults", path)
	default:
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnf("Error loading .env file: %v", err)
	}
	cfg.applyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyEnv overrides settings that are usually deployment specific
func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("COINGECKO_API_KEY"); v != "" {
		c.CoinGecko.APIKey = v
	}
	if v := getenv("COINGECKO_API_KEY_TYPE"); v != "" {
		c.CoinGecko.APIKeyType = strings.ToLower(v)
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.RecentlyViewed.Backend = BackendRedis
		c.RecentlyViewed.Redis.Addr = v
	}
	if v := getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.RecentlyViewed.Redis.DB = db
		} else {
			log.Warnf("Ignoring invalid REDIS_DB %q", v)
		}
	}
}

// Validate checks the whole configuration
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.Server.DefaultCurrency == "" {
		return errors.New("server.default_currency must not be empty")
	}
	if err := c.CoinGecko.Validate(); err != nil {
		return fmt.Errorf("coingecko: %w", err)
	}
	if err := c.Query.Validate(); err != nil {
		return fmt.Errorf("query: %w", err)
	}
	if err := c.RecentlyViewed.Validate(); err != nil {
		return fmt.Errorf("recently_viewed: %w", err)
	}
	return nil
}
