package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/erp_ledger/internal/middleware"
	"github.com/go-redis/redis/v8"
)

const keyPrefix = "ledger"

// RedisBalanceCache stores derived balances as JSON under keys that embed the
// ledger id and version. Entries of older versions are never read again and expire
// through the TTL. A nil client turns every call into a miss.
type RedisBalanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisBalanceCache creates a cache on client with the given entry TTL.
func NewRedisBalanceCache(client *redis.Client, ttl time.Duration) *RedisBalanceCache {
	return &RedisBalanceCache{client: client, ttl: ttl}
}

var _ portsrepo.BalanceCache = (*RedisBalanceCache)(nil)

func asOfKey(asOf *time.Time) string {
	if asOf == nil {
		return "all"
	}
	return asOf.Format(time.DateOnly)
}

func generation(ledger domain.LedgerState) string {
	return fmt.Sprintf("%s:%s:v%d", keyPrefix, ledger.LedgerID, ledger.Version)
}

// BalanceKey is the key of one account balance.
func BalanceKey(ledger domain.LedgerState, accountID string, asOf *time.Time) string {
	return fmt.Sprintf("%s:balance:%s:%s", generation(ledger), accountID, asOfKey(asOf))
}

// TrialBalanceKey is the key of a trial balance.
func TrialBalanceKey(ledger domain.LedgerState, asOf *time.Time) string {
	return fmt.Sprintf("%s:trial:%s", generation(ledger), asOfKey(asOf))
}

// get reports a hit only when the key exists and decodes. Redis failures
// degrade to misses so reports keep working without the cache.
func (c *RedisBalanceCache) get(ctx context.Context, key string, out any) bool {
	if c == nil || c.client == nil {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			middleware.GetLoggerFromCtx(ctx).Warn("Balance cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Discarding undecodable balance cache entry", slog.String("key", key), slog.String("error", err.Error()))
		return false
	}
	return true
}

func (c *RedisBalanceCache) set(ctx context.Context, key string, v any) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to encode balance cache entry", slog.String("key", key), slog.String("error", err.Error()))
		return
	}
	if err := c.client.Set(ctx, key, string(data), c.ttl).Err(); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Balance cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

func (c *RedisBalanceCache) GetAccountBalance(ctx context.Context, ledger domain.LedgerState, accountID string, asOf *time.Time) (*domain.AccountBalance, bool) {
	var b domain.AccountBalance
	if !c.get(ctx, BalanceKey(ledger, accountID, asOf), &b) {
		return nil, false
	}
	return &b, true
}

func (c *RedisBalanceCache) SetAccountBalance(ctx context.Context, ledger domain.LedgerState, balance domain.AccountBalance) {
	c.set(ctx, BalanceKey(ledger, balance.AccountID, balance.AsOf), balance)
}

func (c *RedisBalanceCache) GetTrialBalance(ctx context.Context, ledger domain.LedgerState, asOf *time.Time) (*domain.TrialBalance, bool) {
	var tb domain.TrialBalance
	if !c.get(ctx, TrialBalanceKey(ledger, asOf), &tb) {
		return nil, false
	}
	return &tb, true
}

func (c *RedisBalanceCache) SetTrialBalance(ctx context.Context, ledger domain.LedgerState, tb domain.TrialBalance) {
	c.set(ctx, TrialBalanceKey(ledger, tb.AsOf), tb)
}
