// ABOUTME: Tests for backoff calculation and the bounded retry helper
// ABOUTME: Verifies jitter bounds, the 30s cap, and context cancellation
package util

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCalculateBackoff(t *testing.T) {
	base := 100 * time.Millisecond

	if got := CalculateBackoff(base, 0); got != 0 {
		t.Errorf("attempt 0 backoff = %v, want 0", got)
	}

	// Attempt n doubles the base n times, with ±25% jitter
	for attempt := 1; attempt <= 5; attempt++ {
		expected := base * time.Duration(1<<uint(attempt))
		got := CalculateBackoff(base, attempt)
		min := expected - expected/4
		max := expected + expected/4
		if got < min || got > max {
			t.Errorf("attempt %d backoff = %v, want within [%v, %v]", attempt, got, min, max)
		}
	}
}

func TestCalculateBackoff_ZeroBaseDelay(t *testing.T) {
	for _, base := range []time.Duration{0, -time.Second} {
		if got := CalculateBackoff(base, 1); got != 0 {
			t.Errorf("base %v backoff = %v, want 0", base, got)
		}
	}
}

func TestCalculateBackoff_Capped(t *testing.T) {
	got := CalculateBackoff(time.Second, 20)
	limit := 30 * time.Second
	if got > limit+limit/4 {
		t.Errorf("backoff = %v, want at most %v plus jitter", got, limit+limit/4)
	}
}

func TestCalculateBackoff_OverflowSafe(t *testing.T) {
	if got := CalculateBackoff(time.Second, 1000); got <= 0 {
		t.Errorf("large attempt produced %v", got)
	}
}

func TestDo_SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Do(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDo_RetriesThenSucceeds(t *testing.T) {
	calls := 0
	err := Do(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDo_ZeroBaseDelayRetries(t *testing.T) {
	calls := 0
	err := Do(context.Background(), 2, 0, func() error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	sentinel := errors.New("always fails")
	calls := 0
	err := Do(context.Background(), 2, time.Millisecond, func() error {
		calls++
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("err = %v, want wrapped sentinel", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestDo_CancelledBetweenAttempts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := Do(ctx, 5, time.Hour, func() error {
		calls++
		cancel()
		return errors.New("fail")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
