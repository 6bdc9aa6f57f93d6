package events

import (
	"github.com/redis/go-redis/v9"

	"github.com/mathscrusader/paygo-sub001/internal/logger"
)

// NewRedis creates the Redis client the publisher writes to.
func NewRedis(addr, password string) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	logger.Log.Info("Redis client created (addr: " + addr + ")")
	return rdb
}
