// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"edunest/config"

	"github.com/go-redis/redis/v8"
)

// StateClient is the Redis client backing the durable client state store.
var StateClient *redis.Client

// InitStateStore initializes the Redis client for durable client state.
func InitStateStore() {
	StateClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisStateDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := StateClient.Ping(ctx).Result(); err != nil {
		// Storage unavailability is survivable: the store layer degrades
		// to silent no-ops for the session.
		log.Printf("WARNING: failed to connect to Redis (state store): %v", err)
	}
}

// GetStateClient returns the durable state client.
func GetStateClient() *redis.Client {
	if StateClient == nil {
		InitStateStore()
	}
	return StateClient
}
