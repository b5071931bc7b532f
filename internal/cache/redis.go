package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// pingableClient 在 Cache 之上加上連線檢查，便於測試時替換
type pingableClient interface {
	Cache
	Ping(ctx context.Context) *redis.StatusCmd
}

// 可於測試覆寫
var redisNewClient = func(opt *redis.Options) pingableClient {
	return redis.NewClient(opt)
}

// NewRedisClient 建立 redis client 並以 Ping 驗證連線，
// 回傳值直接實作 Cache，refresh token 與健康檢查共用
func NewRedisClient(addr string, password string, db int) (Cache, error) {
	client := redisNewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("NewRedisClient: %w", err)
	}
	return client, nil
}
