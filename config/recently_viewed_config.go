package config

import "fmt"

const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// RecentlyViewedConfig configures where the recently viewed list is persisted
type RecentlyViewedConfig struct {
	Backend  string      `yaml:"backend"`
	FilePath string      `yaml:"file_path"`
	MaxItems int         `yaml:"max_items"`
	Redis    RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GetDefaultRecentlyViewedConfig returns a file backed list of 10 items
func GetDefaultRecentlyViewedConfig() RecentlyViewedConfig {
	return RecentlyViewedConfig{
		Backend:  BackendFile,
		FilePath: "data/local_storage.json",
		MaxItems: 10,
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
	}
}

// Validate checks the storage settings
func (c *RecentlyViewedConfig) Validate() error {
	switch c.Backend {
	case BackendFile:
		if c.FilePath == "" {
			return fmt.Errorf("file_path is required for the file backend")
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}

	if c.MaxItems <= 0 {
		return fmt.Errorf("max_items must be positive, got %d", c.MaxItems)
	}
	return nil
}
