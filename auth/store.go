package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore 不透明令牌存储，保存 令牌 -> 主题 的映射.
//
// ttl <= 0 表示永不过期.
type TokenStore interface {
	Save(ctx context.Context, token, subject string, ttl time.Duration) error
	Load(ctx context.Context, token string) (subject string, ok bool, err error)
	Delete(ctx context.Context, token string) error
}

// MemoryTokenStore 内存令牌存储，过期项在读取时清理.
type MemoryTokenStore struct {
	mu    sync.RWMutex
	items map[string]storedToken
	now   func() time.Time
}

type storedToken struct {
	subject  string
	expireAt time.Time
}

func (t storedToken) expired(now time.Time) bool {
	return !t.expireAt.IsZero() && !now.Before(t.expireAt)
}

// NewMemoryTokenStore 创建内存令牌存储.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{
		items: make(map[string]storedToken),
		now:   time.Now,
	}
}

// Save 保存令牌.
func (s *MemoryTokenStore) Save(_ context.Context, token, subject string, ttl time.Duration) error {
	item := storedToken{subject: subject}
	if ttl > 0 {
		item.expireAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.items[token] = item
	s.mu.Unlock()
	return nil
}

// Load 读取令牌对应的主题.
func (s *MemoryTokenStore) Load(_ context.Context, token string) (string, bool, error) {
	s.mu.RLock()
	item, ok := s.items[token]
	s.mu.RUnlock()
	if !ok {
		return "", false, nil
	}

	if item.expired(s.now()) {
		s.mu.Lock()
		if cur, ok := s.items[token]; ok && cur.expired(s.now()) {
			delete(s.items, token)
		}
		s.mu.Unlock()
		return "", false, nil
	}
	return item.subject, true, nil
}

// Delete 删除令牌.
func (s *MemoryTokenStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.items, token)
	s.mu.Unlock()
	return nil
}

// Len 返回当前保存的令牌数量，包含尚未清理的过期项.
func (s *MemoryTokenStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// RedisTokenStore Redis 令牌存储.
type RedisTokenStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// RedisTokenStoreOption Redis 令牌存储配置选项.
type RedisTokenStoreOption func(*RedisTokenStore)

// WithKeyPrefix 设置 Redis key 前缀.
func WithKeyPrefix(prefix string) RedisTokenStoreOption {
	return func(s *RedisTokenStore) {
		s.keyPrefix = prefix
	}
}

// NewRedisTokenStore 创建 Redis 令牌存储.
//
// Key 格式: {prefix}:{token}，默认前缀 auth:token.
func NewRedisTokenStore(client redis.UniversalClient, opts ...RedisTokenStoreOption) *RedisTokenStore {
	if client == nil {
		panic("auth: redis 客户端不能为空")
	}
	s := &RedisTokenStore{
		client:    client,
		keyPrefix: "auth:token",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisTokenStore) key(token string) string {
	return s.keyPrefix + ":" + token
}

// Save 保存令牌.
func (s *RedisTokenStore) Save(ctx context.Context, token, subject string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return s.client.Set(ctx, s.key(token), subject, ttl).Err()
}

// Load 读取令牌对应的主题.
func (s *RedisTokenStore) Load(ctx context.Context, token string) (string, bool, error) {
	subject, err := s.client.Get(ctx, s.key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return subject, true, nil
}

// Delete 删除令牌.
func (s *RedisTokenStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.key(token)).Err()
}

// StoreUserFinder 通过 TokenStore 查找不透明令牌对应的用户.
type StoreUserFinder[U any] struct {
	store TokenStore
	load  func(ctx context.Context, subject string) (U, bool, error)
}

// NewStoreUserFinder 创建基于令牌存储的用户查找器.
//
// load 根据主题加载用户，用户不存在时返回 ok=false.
func NewStoreUserFinder[U any](store TokenStore, load func(ctx context.Context, subject string) (U, bool, error)) *StoreUserFinder[U] {
	if store == nil {
		panic("auth: 令牌存储不能为空")
	}
	if load == nil {
		panic("auth: 用户加载函数不能为空")
	}
	return &StoreUserFinder[U]{store: store, load: load}
}

// FindUser 实现 UserFinder 接口.
func (f *StoreUserFinder[U]) FindUser(ctx context.Context, token string) (U, bool, error) {
	var zero U

	subject, ok, err := f.store.Load(ctx, token)
	if err != nil || !ok {
		return zero, false, err
	}
	return f.load(ctx, subject)
}
