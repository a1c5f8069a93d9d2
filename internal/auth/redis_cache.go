package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"cooplog/internal/logger"
)

// InitializeVerificationCache connects to Redis and proves the connection
// works before the middleware starts relying on it.
func InitializeVerificationCache(redisAddr string, customLogger *logger.Logger) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: "", // no password
		DB:       0,  // use default DB
		PoolSize: 10, // connection pool size
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		if customLogger != nil {
			customLogger.Error("AUTH", fmt.Sprintf("Failed to connect to Redis at %s: %v", redisAddr, err))
		}
		return nil, err
	}

	// Prove we can write before the middleware depends on it
	testKey := verifiedTokenPrefix + "test"
	if err := redisClient.Set(ctx, testKey, "test", 5*time.Second).Err(); err != nil {
		if customLogger != nil {
			customLogger.Error("AUTH", fmt.Sprintf("Failed to write test value to Redis: %v", err))
		}
		return nil, err
	}

	if customLogger != nil {
		customLogger.Info("AUTH", fmt.Sprintf("Redis verification cache ready at %s", redisAddr))
	}
	return redisClient, nil
}
