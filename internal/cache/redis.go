package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/example/blog-web/internal/config"
	"github.com/example/blog-web/internal/models"
)

// PostCache is a cache-aside store of single posts keyed by id.
type PostCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPostCache(cfg *config.Config) (*PostCache, error) {
	c := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return &PostCache{client: c, ttl: time.Duration(cfg.CacheTTLSec) * time.Second}, nil
}

func (p *PostCache) Close() error { return p.client.Close() }

func key(id uint) string { return fmt.Sprintf("post:%d", id) }

// Get returns the cached post and whether it was present. A redis miss is
// not an error.
func (p *PostCache) Get(ctx context.Context, id uint) (*models.Post, bool, error) {
	val, err := p.client.Get(ctx, key(id)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var post models.Post
	if err := json.Unmarshal([]byte(val), &post); err != nil {
		return nil, false, err
	}
	return &post, true, nil
}

func (p *PostCache) Set(ctx context.Context, post *models.Post) error {
	b, err := json.Marshal(post)
	if err != nil {
		return err
	}
	return p.client.Set(ctx, key(post.ID), b, p.ttl).Err()
}

func (p *PostCache) Invalidate(ctx context.Context, id uint) error {
	return p.client.Del(ctx, key(id)).Err()
}
