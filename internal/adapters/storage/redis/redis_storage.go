// Package redis disponibiliza a implementação do storage baseada em Redis.
package redis

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/Ball1992/project-management-with-nextjs-sub002/internal/core/domain"
	"github.com/Ball1992/project-management-with-nextjs-sub002/internal/core/ports"
)

const keyPrefix = "ratelimit:"

type Storage struct {
	client *redis.Client
}

var _ ports.Storage = (*Storage)(nil)

type Config struct {
	Addr     string
	Password string
	DB       int
}

func New(cfg Config) (*Storage, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Storage{client: client}, nil
}

func (s *Storage) Close() error {
	return s.client.Close()
}

// Increment usa INCR + PTTL na mesma transação. A expiração só é definida
// quando a janela é aberta, para que o reset continue fixo.
func (s *Storage) Increment(ctx context.Context, key string, window time.Duration, now time.Time) (domain.Counter, error) {
	key = keyPrefix + key

	pipe := s.client.TxPipeline()
	counter := pipe.Incr(ctx, key)
	ttl := pipe.PTTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return domain.Counter{}, err
	}

	count := counter.Val()
	remaining := ttl.Val()
	if count == 1 || remaining < 0 {
		if err := s.client.PExpire(ctx, key, window).Err(); err != nil {
			return domain.Counter{}, err
		}
		remaining = window
	}

	return domain.Counter{Count: count, ResetAt: now.Add(remaining)}, nil
}

// Sweep não faz nada: o Redis expira as chaves sozinho.
func (s *Storage) Sweep(context.Context, time.Time) (int, error) {
	return 0, nil
}
