package ratelimiter

import (
	"context"
	"testing"
	"time"
)

func TestTokenBucket(t *testing.T) {
	capacity := 10
	bucket := NewTokenBucket(capacity, capacity, time.Minute)

	if !bucket.TryConsume(5) {
		t.Error("failed to consume tokens from full bucket")
	}
	if bucket.remaining != 5 {
		t.Errorf("expected 5 remaining tokens, got %d", bucket.remaining)
	}

	if bucket.TryConsume(6) {
		t.Error("should not be able to consume more than remaining")
	}

	// Refill with a short interval so the test doesn't wait a minute.
	fastBucket := NewTokenBucket(capacity, 0, 10*time.Millisecond)

	if fastBucket.TryConsume(capacity) {
		t.Error("should fail to consume from empty bucket")
	}

	time.Sleep(20 * time.Millisecond)

	if !fastBucket.TryConsume(capacity) {
		t.Error("should succeed after refill")
	}
}

func TestRateLimiter_TryConsume(t *testing.T) {
	rl := New(100, 10)

	if !rl.TryConsume(10) {
		t.Error("should be able to proceed with valid request")
	}

	// Test running out of tokens
	smallTokenRL := New(10, 100)
	if !smallTokenRL.TryConsume(10) {
		t.Error("should be able to consume exactly available tokens")
	}
	if smallTokenRL.TryConsume(10) {
		t.Error("should not proceed when tokens exhausted")
	}

	// Test running out of requests
	smallReqRL := New(100, 1)
	if !smallReqRL.TryConsume(1) {
		t.Error("should be able to proceed with 1st request")
	}
	if smallReqRL.TryConsume(1) {
		t.Error("should not proceed when requests exhausted")
	}
}

func TestRateLimiter_TimeUntilAvailable(t *testing.T) {
	rl := New(60, 60) // 1 token per second

	// Consume all tokens
	rl.TokensBucket.TryConsume(60)

	// We need 1 token, refill rate is 1/sec, so the wait is about 1s.
	wait := rl.TimeUntilAvailable(1)
	if wait < 900*time.Millisecond || wait > 1500*time.Millisecond {
		t.Errorf("expected wait around 1s, got %v", wait)
	}
}

func TestRateLimiter_WaitAndConsume(t *testing.T) {
	rl := New(100, 10)

	// Capacity available: should return immediately.
	if err := rl.WaitAndConsume(context.Background(), 10, time.Second); err != nil {
		t.Errorf("unexpected error with capacity available: %v", err)
	}

	// Exhaust tokens, then ask for more than maxWait allows.
	rl.TokensBucket.TryConsume(90)
	err := rl.WaitAndConsume(context.Background(), 50, time.Millisecond)
	if err == nil {
		t.Error("expected error when wait exceeds maxWait")
	}

	// Cancelled context aborts the wait.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = rl.WaitAndConsume(ctx, 50, time.Minute)
	if err == nil {
		t.Error("expected error from cancelled context")
	}
}
