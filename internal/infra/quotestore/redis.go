// Package quotestore keeps cancellation quotes between the moment the
// cancellation dialog opens and the moment the user submits.
package quotestore

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"booking-lifecycle/internal/domain/refund"
	"booking-lifecycle/internal/infra"
	"booking-lifecycle/internal/pkg/clock"
	"booking-lifecycle/internal/pkg/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const pingTimeout = 2 * time.Second

// Connect dials Redis and pings it once. Callers fall back to the memory
// store when it fails.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

type RedisStore struct {
	client *redis.Client
	prefix string
	clock  clock.Clock
	logger *slog.Logger
}

func NewRedisStore(client *redis.Client, prefix string, clk clock.Clock, logger *slog.Logger) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, clock: clk, logger: logger}
}

func (s *RedisStore) key(id uuid.UUID) string {
	return s.prefix + ":quote:" + id.String()
}

// Save stores q until its ExpiresAt; an already expired quote is not stored.
func (s *RedisStore) Save(ctx context.Context, q refund.Quote) error {
	ttl := q.ExpiresAt.Sub(s.clock.Now())
	if ttl <= 0 {
		return nil
	}
	raw, err := encode(q)
	if err != nil {
		return infra.WrapErr(s.logger, infra.KindStoreFailure, "encode quote", err)
	}
	if err := s.client.Set(ctx, s.key(q.ID), raw, ttl).Err(); err != nil {
		return infra.WrapErr(s.logger, infra.KindStoreFailure, "save quote", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id uuid.UUID) (refund.Quote, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return refund.Quote{}, infra.WrapErr(s.logger, infra.KindNotFound, "quote not found", nil)
	}
	if err != nil {
		return refund.Quote{}, infra.WrapErr(s.logger, infra.KindStoreFailure, "get quote", err)
	}
	q, err := decode(raw)
	if err != nil {
		return refund.Quote{}, infra.WrapErr(s.logger, infra.KindDecode, "decode quote", err)
	}
	return q, nil
}

func (s *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return infra.WrapErr(s.logger, infra.KindStoreFailure, "delete quote", err)
	}
	return nil
}
