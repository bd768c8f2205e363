// File: utils/cache.go
package utils

import (
	"context"
	"time"

	"stationcal/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CacheClient is the redis client backing the station list cache.
var CacheClient *redis.Client

// InitCache connects the cache client using the configured cache DB.
func InitCache() error {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := CacheClient.Ping(ctx).Err(); err != nil {
		GetLogger().Error("Failed to connect to Redis (Cache)", zap.String("addr", config.AppConfig.RedisAddr), zap.Error(err))
		return err
	}
	return nil
}
