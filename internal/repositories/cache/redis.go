package cache

import (
	"fmt"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func NewRedisClient(cfg *RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// StatsKey is the cache key for a salesperson's dashboard counters.
func StatsKey(salespersonID uint) string {
	return fmt.Sprintf("stats:salesperson:%d", salespersonID)
}
