package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortlink/internal/shortener"
	"go.uber.org/zap"
)

// RedisCacheRepository wraps a Repository with Redis caching for reads.
// Cache failures are logged and fall through to the underlying store.
type RedisCacheRepository struct {
	store  shortener.Repository
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCacheRepository creates a new Redis-cached repository decorator.
func NewRedisCacheRepository(
	store shortener.Repository, client *redis.Client, ttl time.Duration, logger *zap.Logger,
) *RedisCacheRepository {
	return &RedisCacheRepository{
		store:  store,
		client: client,
		prefix: "cache:link:",
		ttl:    ttl,
		logger: logger,
	}
}

// Save stores a link in the underlying store and updates the cache.
func (r *RedisCacheRepository) Save(ctx context.Context, link *shortener.ShortLink) error {
	if err := r.store.Save(ctx, link); err != nil {
		return err
	}

	// Write-through: update cache after successful save
	r.cacheLink(ctx, link)

	return nil
}

// GetByCode retrieves a link by its code, checking cache first.
func (r *RedisCacheRepository) GetByCode(ctx context.Context, code shortener.Code) (*shortener.ShortLink, error) {
	if link, ok := r.getFromCache(ctx, code); ok {
		return link, nil
	}

	link, err := r.store.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	r.cacheLink(ctx, link)

	return link, nil
}

// Exists answers from the cache when the code is cached, otherwise from the store.
func (r *RedisCacheRepository) Exists(ctx context.Context, code shortener.Code) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(code)).Result()
	if err == nil && n > 0 {
		return true, nil
	}

	return r.store.Exists(ctx, code)
}

func (r *RedisCacheRepository) key(code shortener.Code) string {
	return r.prefix + string(code)
}

func (r *RedisCacheRepository) getFromCache(ctx context.Context, code shortener.Code) (*shortener.ShortLink, bool) {
	result, err := r.client.HGetAll(ctx, r.key(code)).Result()
	if err != nil {
		r.logger.Warn("cache read failed", zap.String("code", string(code)), zap.Error(err))

		return nil, false
	}

	if len(result) == 0 {
		return nil, false
	}

	var createdAt time.Time

	if ts, ok := result["created_at"]; ok {
		if nanos, err := strconv.ParseInt(ts, 10, 64); err == nil {
			createdAt = time.Unix(0, nanos).UTC()
		}
	}

	return &shortener.ShortLink{
		Code:      shortener.Code(result["code"]),
		LongURL:   result["long_url"],
		Custom:    result["custom"] == "1",
		CreatedAt: createdAt,
	}, true
}

func (r *RedisCacheRepository) cacheLink(ctx context.Context, link *shortener.ShortLink) {
	pipe := r.client.Pipeline()
	key := r.key(link.Code)

	pipe.HSet(ctx, key, map[string]interface{}{
		"code":       string(link.Code),
		"long_url":   link.LongURL,
		"custom":     link.Custom,
		"created_at": link.CreatedAt.UnixNano(),
	})

	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Warn("cache write failed", zap.String("code", string(link.Code)), zap.Error(err))
	}
}

// Compile-time check.
var _ shortener.Repository = (*RedisCacheRepository)(nil)
