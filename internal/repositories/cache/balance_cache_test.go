package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/go-redis/redismock/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(version int64) domain.LedgerState {
	return domain.LedgerState{LedgerID: "l-1", Version: version}
}

func TestKeys(t *testing.T) {
	asOf := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "ledger:l-1:v7:balance:acc-1:all", BalanceKey(at(7), "acc-1", nil))
	assert.Equal(t, "ledger:l-1:v7:balance:acc-1:2024-06-30", BalanceKey(at(7), "acc-1", &asOf))
	assert.Equal(t, "ledger:l-1:v8:trial:2024-06-30", TrialBalanceKey(at(8), &asOf))
}

func TestKeysSeparateLedgersAtSameVersion(t *testing.T) {
	first := domain.LedgerState{LedgerID: "l-1", Version: 1}
	second := domain.LedgerState{LedgerID: "l-2", Version: 1}
	assert.NotEqual(t, TrialBalanceKey(first, nil), TrialBalanceKey(second, nil))
	assert.NotEqual(t, BalanceKey(first, "acc-1", nil), BalanceKey(second, "acc-1", nil))
}

func TestAccountBalance_RoundTrip(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	c := NewRedisBalanceCache(client, 5*time.Minute)

	balance := domain.AccountBalance{
		AccountID: "acc-1",
		Code:      "1000",
		Category:  domain.Asset,
		Debit:     decimal.RequireFromString("150.25"),
		Credit:    decimal.RequireFromString("50"),
		Balance:   decimal.RequireFromString("100.25"),
	}
	data, err := json.Marshal(balance)
	require.NoError(t, err)

	key := BalanceKey(at(3), "acc-1", nil)
	mock.ExpectSet(key, string(data), 5*time.Minute).SetVal("OK")
	c.SetAccountBalance(ctx, at(3), balance)

	mock.ExpectGet(key).SetVal(string(data))
	got, ok := c.GetAccountBalance(ctx, at(3), "acc-1", nil)
	require.True(t, ok)
	assert.True(t, balance.Balance.Equal(got.Balance))
	assert.Equal(t, domain.Asset, got.Category)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMissesDegradeQuietly(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	c := NewRedisBalanceCache(client, time.Minute)

	mock.ExpectGet(TrialBalanceKey(at(1), nil)).RedisNil()
	_, ok := c.GetTrialBalance(ctx, at(1), nil)
	assert.False(t, ok)

	mock.ExpectGet(TrialBalanceKey(at(2), nil)).SetErr(errors.New("connection refused"))
	_, ok = c.GetTrialBalance(ctx, at(2), nil)
	assert.False(t, ok)

	mock.ExpectGet(TrialBalanceKey(at(3), nil)).SetVal("{not json")
	_, ok = c.GetTrialBalance(ctx, at(3), nil)
	assert.False(t, ok)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNilClientIsNoop(t *testing.T) {
	c := NewRedisBalanceCache(nil, time.Minute)
	c.SetTrialBalance(context.Background(), at(1), domain.TrialBalance{})
	_, ok := c.GetTrialBalance(context.Background(), at(1), nil)
	assert.False(t, ok)
}
