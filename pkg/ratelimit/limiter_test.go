// pkg/ratelimit/limiter_test.go
// Unit tests for the probe-launch limiter

package ratelimit

import (
	"context"
	"testing"
)

func TestNew(t *testing.T) {
	l := New(Config{Rate: 100})
	if l == nil {
		t.Fatal("New() returned nil")
	}
	if got := l.Rate(); got != 100 {
		t.Errorf("Rate() = %f, want 100", got)
	}
}

func TestLimiter_Wait(t *testing.T) {
	l := New(Config{Rate: 1000})
	if err := l.Wait(context.Background()); err != nil {
		t.Errorf("Wait() error = %v", err)
	}
}

func TestLimiter_WaitUnlimited(t *testing.T) {
	l := New(Config{Rate: 0})
	for i := 0; i < 100; i++ {
		if err := l.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	}
}

func TestLimiter_ObserveBackoff(t *testing.T) {
	l := New(Config{Rate: 100, Adaptive: true})

	// Heavy timeouts back the rate off.
	l.Observe(80, 100)
	if got := l.Rate(); got >= 100 {
		t.Errorf("Rate() after backoff = %f, want < 100", got)
	}

	// Clean batches recover toward base but never past it.
	for i := 0; i < 50; i++ {
		l.Observe(0, 100)
	}
	if got := l.Rate(); got != 100 {
		t.Errorf("Rate() after recovery = %f, want 100", got)
	}
}

func TestLimiter_ObserveFloor(t *testing.T) {
	l := New(Config{Rate: 100, Adaptive: true})
	for i := 0; i < 100; i++ {
		l.Observe(100, 100)
	}
	if got := l.Rate(); got < 10 {
		t.Errorf("Rate() = %f, want >= 10 (10%% floor)", got)
	}
}

func TestLimiter_ObserveNonAdaptive(t *testing.T) {
	l := New(Config{Rate: 100, Adaptive: false})
	l.Observe(100, 100)
	if got := l.Rate(); got != 100 {
		t.Errorf("Rate() = %f, want 100 (feedback ignored)", got)
	}
}
