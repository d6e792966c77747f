package reconcile

import (
	"fmt"
	"time"
)

// Config holds the reconciliation settings of the application.
type Config struct {
	// RulesFile is an optional YAML/JSON/TOML rules file; empty uses the built-in rules.
	RulesFile string `mapstructure:"rules_file" default:""`
	// Cache selects the result cache (memory, redis, none).
	Cache string `mapstructure:"cache" default:"memory"`
	// CacheTTLSeconds is the lifetime of cached results.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"300"`
	// RedisAddr is the host:port of the redis result cache.
	RedisAddr string `mapstructure:"redis_addr" default:"127.0.0.1:6379"`
	// RedisPassword authenticates against redis.
	RedisPassword string `mapstructure:"redis_password" default:""`
	// RedisDB selects the redis database.
	RedisDB int `mapstructure:"redis_db" default:"0"`
	// RedisPrefix is prepended to every cache key.
	RedisPrefix string `mapstructure:"redis_prefix" default:"georecon:recon:"`
}

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// NewCache builds the configured result cache.
func (c Config) NewCache() (ResultCache, error) {
	ttl := time.Duration(c.CacheTTLSeconds) * time.Second
	switch c.Cache {
	case CacheMemory, "":
		return NewMemoryCache(ttl), nil
	case CacheNone:
		return NewMemoryCache(0), nil
	case CacheRedis:
		client := OpenRedis(c.RedisAddr, c.RedisPassword, c.RedisDB)
		if client == nil {
			return nil, fmt.Errorf("redis cache needs recon.redis_addr")
		}
		return NewRedisCache(client, c.RedisPrefix, ttl), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", c.Cache)
	}
}
