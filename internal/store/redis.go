package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carcare/carcarebot/internal"
	apperrors "github.com/carcare/carcarebot/internal/errors"
)

// KeyPrefix namespaces session keys.
const KeyPrefix = "carcarebot:session:"

// RedisStore keeps each session as a JSON value with a TTL that is refreshed
// on every save.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient builds a client with the pool settings used in production.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Ping tests the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, id string) (internal.Session, error) {
	raw, err := s.client.Get(ctx, KeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return internal.NewSession(id), nil
	}
	if err != nil {
		return internal.Session{}, apperrors.New(apperrors.KindSessionStore, "store.redis.load", err)
	}

	var sess internal.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return internal.Session{}, apperrors.New(apperrors.KindSessionStore, "store.redis.load", fmt.Errorf("decode %s: %w", id, err))
	}
	if sess.Messages == nil {
		sess.Messages = []internal.Message{}
	}
	return sess, nil
}

func (s *RedisStore) Save(ctx context.Context, sess internal.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return apperrors.New(apperrors.KindSessionStore, "store.redis.save", err)
	}
	if err := s.client.Set(ctx, KeyPrefix+sess.ID, raw, s.ttl).Err(); err != nil {
		return apperrors.New(apperrors.KindSessionStore, "store.redis.save", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, KeyPrefix+id).Err(); err != nil {
		return apperrors.New(apperrors.KindSessionStore, "store.redis.delete", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
