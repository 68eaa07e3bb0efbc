package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestWait_AllowsWithinBurst(t *testing.T) {
	hl := NewHostLimiter(10, 5)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 5; i++ {
		if err := hl.Wait(ctx, "https://example.com/page"); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("burst requests should not block, took %v", elapsed)
	}
}

func TestWait_ThrottlesBeyondBurst(t *testing.T) {
	hl := NewHostLimiter(10, 1)
	ctx := context.Background()

	if err := hl.Wait(ctx, "https://example.com/"); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	start := time.Now()
	if err := hl.Wait(ctx, "https://example.com/"); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("second request should wait for a token, took %v", elapsed)
	}
}

func TestWait_HostsAreIndependent(t *testing.T) {
	hl := NewHostLimiter(10, 1)
	ctx := context.Background()

	if err := hl.Wait(ctx, "https://a.example/"); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	start := time.Now()
	if err := hl.Wait(ctx, "https://b.example/"); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("different host should not be throttled, took %v", elapsed)
	}
}

func TestWait_CancelledContext(t *testing.T) {
	hl := NewHostLimiter(1, 1)
	ctx, cancel := context.WithCancel(context.Background())

	if err := hl.Wait(ctx, "https://example.com/"); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	cancel()
	if err := hl.Wait(ctx, "https://example.com/"); err == nil {
		t.Error("Wait should fail on cancelled context")
	}
}

func TestExtractHost(t *testing.T) {
	cases := []struct{ in, want string }{
		{"https://example.com/path", "example.com"},
		{"http://example.com:8080/x", "example.com:8080"},
		{"not a url at all", ""},
	}
	for _, c := range cases {
		if got := extractHost(c.in); got != c.want {
			t.Errorf("extractHost(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
