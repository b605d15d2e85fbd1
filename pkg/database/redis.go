package database

import (
	"context"
	"log/slog"

	"github.com/go-redis/redis/v8"
)

// NewRedisClient connects to Redis. It returns nil when addr is empty or the
// server does not answer, and the ledger then runs without a balance cache.
func NewRedisClient(ctx context.Context, addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Warn("Redis connection failed, continuing without balance cache", slog.String("addr", addr), slog.String("error", err.Error()))
		_ = rdb.Close()
		return nil
	}
	slog.Info("Redis connection established", slog.String("addr", addr))
	return rdb
}
