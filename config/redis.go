package config

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisClient is nil when REDIS_ADDR is not configured; callers must treat
// the cache as optional.
var RedisClient *redis.Client

// InitRedis connects the analytics cache. A missing REDIS_ADDR disables
// caching entirely, a failed ping only logs a warning.
func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Println("REDIS_ADDR not set, analytics cache disabled")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis ping failed, analytics cache disabled: %v", err)
		return
	}

	RedisClient = client
	log.Println("Connected to Redis")
}
