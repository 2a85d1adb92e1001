package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix はRedisキーの名前空間。
const keyPrefix = "session:"

// liveValue はレコードの値。存在確認のみに使うため固定文字列でよい。
const liveValue = "valid"

// RedisStore はRedisをバックエンドとするセッションストア。
type RedisStore struct {
	// client はRedis接続クライアント。
	client *redis.Client
}

// インターフェース実装の検査。
var _ Store = (*RedisStore)(nil)

// NewRedis はRedisバックエンドのセッションストアを生成する。
// 起動時の設定不備を早期に検出するため、接続確認（PING）を行う。
func NewRedis(addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redisへの接続確認に失敗: %w", err)
	}
	return &RedisStore{client: client}, nil
}

// key はトークンからRedisキーを組み立てる。
func (s *RedisStore) key(token string) string {
	return keyPrefix + token
}

// Register はセッションレコードをTTL付きで書き込む。
func (s *RedisStore) Register(ctx context.Context, token string, ttl time.Duration) error {
	if token == "" {
		return fmt.Errorf("空のトークンは登録できない")
	}
	if ttl <= 0 {
		return fmt.Errorf("TTLは正の値でなければならない: %v", ttl)
	}
	if err := s.client.Set(ctx, s.key(token), liveValue, ttl).Err(); err != nil {
		return fmt.Errorf("セッションレコードの書き込みに失敗: %w", err)
	}
	return nil
}

// IsLive はセッションレコードの存在を確認する。
func (s *RedisStore) IsLive(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("セッションレコードの確認に失敗: %w", err)
	}
	return n > 0, nil
}

// Revoke はセッションレコードを削除する。
// レコードが既に存在しない場合もエラーとしない。
func (s *RedisStore) Revoke(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("セッションレコードの削除に失敗: %w", err)
	}
	return nil
}

// Close はRedis接続を閉じる。
func (s *RedisStore) Close() error {
	return s.client.Close()
}
