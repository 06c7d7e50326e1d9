package config

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// InitRedis connects when addr is set. An empty addr leaves RedisClient nil,
// callers then fall back to in-process cache and rate limiting.
func InitRedis(ctx context.Context, addr string) error {
	if addr == "" {
		return nil
	}

	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		opt, err := redis.ParseURL(addr)
		if err != nil {
			return err
		}
		RedisClient = redis.NewClient(opt)
	} else {
		RedisClient = redis.NewClient(&redis.Options{Addr: addr})
	}

	_, err := RedisClient.Ping(ctx).Result()
	return err
}
