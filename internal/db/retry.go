package db

import (
	"context"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/balzampsilo-sys/tg-bot-10-02/internal/config"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/httperr"
)

// RetryPolicy bounds how long a caller waits out transient storage errors
// before surfacing a definitive failure.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	Multiplier float64
}

func PolicyFromConfig(cfg *config.Config) RetryPolicy {
	return RetryPolicy{
		MaxRetries: cfg.DBMaxRetries,
		BaseDelay:  cfg.DBRetryDelay,
		Multiplier: cfg.DBRetryBackoff,
	}
}

// WithRetry runs op, retrying with exponential backoff on transient
// storage errors (lock contention, timeouts). Business outcomes pass
// through untouched on the first attempt.
func WithRetry(ctx context.Context, policy RetryPolicy, op func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = policy.BaseDelay
	bo.Multiplier = policy.Multiplier

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		if err := op(); err != nil {
			if IsRetryable(err) {
				return struct{}{}, err
			}
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, nil
	},
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(uint(policy.MaxRetries+1)),
	)
	return err
}

// IsRetryable classifies storage errors. Business errors are never
// retryable; SQLite lock contention and timeouts are.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if httperr.BusinessCode(err) != "" {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "busy") ||
		strings.Contains(msg, "timeout")
}
