package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/balzampsilo-sys/tg-bot-10-02/internal/httperr"
)

var testPolicy = RetryPolicy{MaxRetries: 3, BaseDelay: time.Millisecond, Multiplier: 2}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"business outcome", httperr.ErrBusiness(httperr.CodeSlotTaken), false},
		{"locked database", errors.New("database is locked (5) (SQLITE_BUSY)"), true},
		{"locked table", errors.New("database table is locked"), true},
		{"timeout", errors.New("context deadline exceeded: timeout"), true},
		{"constraint violation", errors.New("UNIQUE constraint failed: bookings.date"), false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Fatalf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestWithRetry_TransientThenSuccess(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), testPolicy, func() error {
		calls++
		if calls < 3 {
			return errors.New("database is locked")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithRetry: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestWithRetry_BusinessErrorNotRetried(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), testPolicy, func() error {
		calls++
		return httperr.ErrBusiness(httperr.CodeSlotTaken)
	})
	if !httperr.IsBusiness(err, httperr.CodeSlotTaken) {
		t.Fatalf("expected SLOT_TAKEN passthrough, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("business error retried %d times", calls)
	}
}

func TestWithRetry_ExhaustsBudget(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), testPolicy, func() error {
		calls++
		return errors.New("database is locked")
	})
	if err == nil {
		t.Fatal("expected failure after retry budget")
	}
	if calls != testPolicy.MaxRetries+1 {
		t.Fatalf("expected %d attempts, got %d", testPolicy.MaxRetries+1, calls)
	}
}
