package refcache

import (
	"context"
	"fmt"

	"brew-recipe-generator/internal/infrastructure/config"

	"github.com/go-redis/redis/v8"
)

// keyPrefix 避免和同一個 Redis 上的其他服務撞鍵
const keyPrefix = "brewgen:ref:"

// RedisCache Redis 後端的參考資料快取
// 與 Manager 介面相同，供多副本部署時共用快取
type RedisCache struct {
	client *redis.Client
	config *config.Config
}

// NewRedisCache 創建 Redis 快取，連不上時回傳錯誤讓呼叫端退回行程內快取
func NewRedisCache(cfg *config.Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Cache.RedisAddr,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{
		client: client,
		config: cfg,
	}, nil
}

// Get 獲取快取值，不存在時回傳 ErrMiss
func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrMiss
		}
		return "", fmt.Errorf("failed to get cache: %w", err)
	}
	return val, nil
}

// Set 設置快取值
func (c *RedisCache) Set(ctx context.Context, key, value string) error {
	if err := c.client.Set(ctx, keyPrefix+key, value, c.config.Cache.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Close 關閉 Redis 連接
func (c *RedisCache) Close() error {
	return c.client.Close()
}
