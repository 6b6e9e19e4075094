package config

import (
	"context"
	"os"

	"github.com/redis/go-redis/v9"
)

// RedisClient is shared by the push-token store. It stays nil when REDIS_ADDR
// is unset; callers fall back to the file-backed store in that case.
var RedisClient *redis.Client

func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		RedisClient = nil
		return
	}
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASS"),
		DB:       0,
	})
}

func RedisCtx() context.Context {
	return context.Background()
}
