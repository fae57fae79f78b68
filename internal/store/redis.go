package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortlink/internal/shortener"
)

// RedisStore is a Redis implementation of shortener.Repository.
// Each link is a JSON value under "link:<code>" written with SETNX.
type RedisStore struct {
	client *redis.Client
	prefix string
}

type redisLink struct {
	Code      string    `json:"code"`
	LongURL   string    `json:"long_url"`
	Custom    bool      `json:"custom"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRedisStore creates a new Redis-backed link store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "link:",
	}
}

func (r *RedisStore) Save(ctx context.Context, link *shortener.ShortLink) error {
	payload, err := json.Marshal(redisLink{
		Code:      string(link.Code),
		LongURL:   link.LongURL,
		Custom:    link.Custom,
		CreatedAt: link.CreatedAt,
	})
	if err != nil {
		return err
	}

	ok, err := r.client.SetNX(ctx, r.prefix+string(link.Code), payload, 0).Result()
	if err != nil {
		return err
	}

	if !ok {
		return shortener.ErrCodeExists
	}

	return nil
}

func (r *RedisStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.ShortLink, error) {
	payload, err := r.client.Get(ctx, r.prefix+string(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	var stored redisLink
	if err := json.Unmarshal(payload, &stored); err != nil {
		return nil, fmt.Errorf("decode link %q: %w", code, err)
	}

	return &shortener.ShortLink{
		Code:      shortener.Code(stored.Code),
		LongURL:   stored.LongURL,
		Custom:    stored.Custom,
		CreatedAt: stored.CreatedAt,
	}, nil
}

func (r *RedisStore) Exists(ctx context.Context, code shortener.Code) (bool, error) {
	n, err := r.client.Exists(ctx, r.prefix+string(code)).Result()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

// Compile-time check.
var _ shortener.Repository = (*RedisStore)(nil)
