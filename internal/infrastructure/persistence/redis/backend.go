package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Backend 读穿缓存的Redis后端
// 设计说明：
// 1. 载荷原样存取（JSON字节），编解码在cache包完成
// 2. key由cache.KeyDeriver生成，已包含命名空间和站点信息
// 3. redis.Nil 表示未命中，不是错误
type Backend struct {
	client redis.UniversalClient
}

// NewBackend 创建Redis缓存后端
func NewBackend(client redis.UniversalClient) *Backend {
	return &Backend{client: client}
}

// Get 读取载荷
func (b *Backend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := b.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

// SetWithTTL 写入载荷，ttl<=0 表示不过期
func (b *Backend) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return b.client.Set(ctx, key, value, ttl).Err()
}
