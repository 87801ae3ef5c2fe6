package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	if l := NewLimiter(10, 5); l.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", l.defaultBurst)
	}
	if l := NewLimiter(10, -1); l.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "api.openai.com"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	// Separate keys get separate budgets.
	if err := limiter.Wait(ctx, "localhost:11434"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_Allow(t *testing.T) {
	limiter := NewLimiter(1, 1)

	if !limiter.Allow("api.openai.com") {
		t.Error("first request should pass within burst")
	}
	if limiter.Allow("api.openai.com") {
		t.Error("second immediate request should be throttled")
	}
	if !limiter.Allow("localhost:11434") {
		t.Error("a different key should have its own budget")
	}
}

func TestLimiter_SetRate(t *testing.T) {
	limiter := NewLimiter(1, 1)
	limiter.SetRate("localhost:11434", 1000, 10)

	for i := 0; i < 5; i++ {
		if !limiter.Allow("localhost:11434") {
			t.Fatalf("request %d throttled despite raised rate", i)
		}
	}
}

func TestLimiter_WaitHonorsContext(t *testing.T) {
	limiter := NewLimiter(0.1, 1) // one request per 10s
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, "api.openai.com"); err != nil {
		t.Fatalf("burst request should clear: %v", err)
	}
	if err := limiter.Wait(ctx, "api.openai.com"); err == nil {
		t.Error("second request should fail when the context times out first")
	}
}
