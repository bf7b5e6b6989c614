package utils

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bsm/redislock"
	"github.com/shopspring/decimal"

	"github.com/bluetecpy/storefront_backend/config"
)

func NewTrue() *bool {
	b := true
	return &b
}

func NewFalse() *bool {
	b := false
	return &b
}

// DereferencePtr returns the pointed-to value, or the zero value for nil.
func DereferencePtr[T any](ptr *T, def ...T) T {
	if ptr != nil {
		return *ptr
	}
	if len(def) > 0 {
		return def[0]
	}
	var zero T
	return zero
}

// ParseDecimal converts a string to a decimal.Decimal value.
func ParseDecimal(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, errors.New("empty decimal string")
	}

	dec, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, err
	}

	return dec, nil
}

// RateUpdateLock serializes exchange-rate writers for a currency. Two
// simultaneous updates interleaving would leave the ledger with two active
// rows, so writers must hold the lock for the whole deactivate-and-insert
// transaction. Readers never take it.
func RateUpdateLock(ctx context.Context, currency string, moduleName string, functionName string) (*redislock.Lock, error) {
	logger := config.GetLogger()
	locker := config.GetRedisLock()
	if locker == nil {
		// Single-process deployments without redis fall back to the
		// database transaction alone.
		return nil, nil
	}
	lockKey := fmt.Sprintf("exchange-rate-update:%s", currency)
	lock, err := locker.Obtain(ctx, lockKey, 30*time.Second, nil)
	if err == redislock.ErrNotObtained {
		config.LogError(logger, moduleName, functionName, "Could not obtain rate update lock", currency, err)
		return nil, errors.New("another exchange rate update is in progress")
	} else if err != nil {
		config.LogError(logger, moduleName, functionName, "Error obtaining rate update lock", currency, err)
		return nil, err
	}
	return lock, nil
}

func ReleaseLock(ctx context.Context, lock *redislock.Lock) {
	if lock == nil {
		return
	}
	_ = lock.Release(ctx)
}
