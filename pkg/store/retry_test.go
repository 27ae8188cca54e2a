package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastRetries(t *testing.T) {
	t.Helper()
	old := retryDelay
	retryDelay = time.Millisecond
	t.Cleanup(func() { retryDelay = old })
}

func TestRetryWithBackoff(t *testing.T) {
	fastRetries(t)
	transient := errors.New("connection reset")

	tests := []struct {
		name      string
		failures  int
		wrap      func(error) error
		wantCalls int
		wantErr   bool
	}{
		{"success first try", 0, Retryable, 1, false},
		{"recovers after two", 2, Retryable, 3, false},
		{"gives up after three", 5, Retryable, 3, true},
		{"permanent error", 5, func(err error) error { return err }, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(context.Background(), func() error {
				calls++
				if calls <= tt.failures {
					return tt.wrap(transient)
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("got %d calls, want %d", calls, tt.wantCalls)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("got error %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, transient) {
				t.Errorf("error %v does not wrap the cause", err)
			}
		})
	}
}

func TestRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RetryWithBackoff(ctx, func() error { return Retryable(errors.New("boom")) })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
	base := errors.New("x")
	err := Retryable(base)
	if !IsRetryable(err) || !errors.Is(err, base) || err.Error() != "x" {
		t.Errorf("Retryable wrapper broken: %v", err)
	}
	if IsRetryable(base) {
		t.Error("plain error reported retryable")
	}
}
