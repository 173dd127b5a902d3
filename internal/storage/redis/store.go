package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store 基于Redis的键值存储（多实例共享同一个"已见版本"）
type Store struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

// NewStore 根据 redis URL 创建存储并测试连接
func NewStore(redisURL, prefix string, timeout time.Duration) (*Store, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis url is empty")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	// 单键读写，连接池保持很小
	opts.PoolSize = 4
	opts.MinIdleConns = 1
	opts.ConnMaxLifetime = 5 * time.Minute
	opts.DialTimeout = 3 * time.Second
	opts.ReadTimeout = timeout
	opts.WriteTimeout = timeout

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewStoreWithClient(client, prefix, timeout), nil
}

// NewStoreWithClient 使用现有客户端创建存储（测试注入 miniredis 等）
func NewStoreWithClient(client *redis.Client, prefix string, timeout time.Duration) *Store {
	return &Store{client: client, prefix: prefix, timeout: timeout}
}

// GetItem 读取键值
func (s *Store) GetItem(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get failed: %w", err)
	}
	return val, true, nil
}

// SetItem 写入键值（不过期，与 localStorage 语义一致）
func (s *Store) SetItem(ctx context.Context, key, value string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Close 关闭Redis连接
func (s *Store) Close() error {
	return s.client.Close()
}
