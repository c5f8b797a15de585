package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestBreaker(cfg Config) (*CircuitBreaker, *time.Time) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := New(cfg)
	cb.now = func() time.Time { return now }
	cb.lastResetTime = now
	return cb, &now
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb, _ := newTestBreaker(Config{FailureThreshold: 2, SuccessThreshold: 1, Timeout: time.Second, ResetTimeout: time.Minute})
	ctx := context.Background()
	fail := func() error { return errors.New("boom") }

	_ = cb.Execute(ctx, fail)
	if cb.GetState() != StateClosed {
		t.Fatalf("state = %v after 1 failure, want closed", cb.GetState())
	}
	_ = cb.Execute(ctx, fail)
	if cb.GetState() != StateOpen {
		t.Fatalf("state = %v after 2 failures, want open", cb.GetState())
	}

	called := false
	err := cb.Execute(ctx, func() error { called = true; return nil })
	if !errors.Is(err, ErrOpen) || called {
		t.Errorf("Execute() while open = %v, called = %v", err, called)
	}
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	cb, now := newTestBreaker(Config{FailureThreshold: 1, SuccessThreshold: 2, Timeout: time.Second, ResetTimeout: time.Minute})
	ctx := context.Background()

	_ = cb.Execute(ctx, func() error { return errors.New("boom") })
	if cb.GetState() != StateOpen {
		t.Fatalf("state = %v, want open", cb.GetState())
	}

	*now = now.Add(2 * time.Second)
	ok := func() error { return nil }

	if err := cb.Execute(ctx, ok); err != nil {
		t.Fatalf("half-open trial call error = %v", err)
	}
	if cb.GetState() != StateHalfOpen {
		t.Fatalf("state = %v after 1 success, want half-open", cb.GetState())
	}
	_ = cb.Execute(ctx, ok)
	if cb.GetState() != StateClosed {
		t.Errorf("state = %v after 2 successes, want closed", cb.GetState())
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb, now := newTestBreaker(Config{FailureThreshold: 1, SuccessThreshold: 2, Timeout: time.Second, ResetTimeout: time.Minute})
	ctx := context.Background()

	_ = cb.Execute(ctx, func() error { return errors.New("boom") })
	*now = now.Add(2 * time.Second)
	_ = cb.Execute(ctx, func() error { return errors.New("still down") })

	if cb.GetState() != StateOpen {
		t.Errorf("state = %v, want open", cb.GetState())
	}
}

func TestCircuitBreaker_CancelledContextNotCounted(t *testing.T) {
	cb, _ := newTestBreaker(Config{FailureThreshold: 1, SuccessThreshold: 1, Timeout: time.Second, ResetTimeout: time.Minute})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_ = cb.Execute(ctx, func() error { return ctx.Err() })
	if cb.GetState() != StateClosed || cb.Failures() != 0 {
		t.Errorf("state = %v, failures = %d; want closed, 0", cb.GetState(), cb.Failures())
	}
}

func TestState_String(t *testing.T) {
	if StateHalfOpen.String() != "half-open" || StateOpen.String() != "open" || StateClosed.String() != "closed" {
		t.Error("unexpected State.String() values")
	}
}
