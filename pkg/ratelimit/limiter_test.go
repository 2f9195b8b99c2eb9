package ratelimit

import (
	"sync"
	"testing"
	"time"
)

func newTestLimiter(maxAttempts int, lockDuration time.Duration) *MemoryLimiter {
	return NewMemoryLimiter(maxAttempts, lockDuration, time.Hour)
}

func TestLimiterLocksAfterMaxAttempts(t *testing.T) {
	l := newTestLimiter(3, time.Minute)
	defer l.Close()

	key := "user@example.com"
	for i := 0; i < 2; i++ {
		l.Fail(key)
		if !l.Allow(key) {
			t.Fatalf("key locked after %d failures, limit is 3", i+1)
		}
	}
	l.Fail(key)
	if l.Allow(key) {
		t.Error("key should be locked after reaching the attempt limit")
	}
	if got := l.Remaining(key); got != 0 {
		t.Errorf("Remaining = %d, want 0", got)
	}
}

func TestLimiterResetClearsLock(t *testing.T) {
	l := newTestLimiter(2, time.Minute)
	defer l.Close()

	key := "user@example.com"
	l.Fail(key)
	l.Fail(key)
	if l.Allow(key) {
		t.Fatal("key should be locked")
	}
	l.Reset(key)
	if !l.Allow(key) {
		t.Error("Reset should clear the lock")
	}
	if got := l.Remaining(key); got != 2 {
		t.Errorf("Remaining after reset = %d, want 2", got)
	}
}

func TestLimiterLockExpires(t *testing.T) {
	l := newTestLimiter(1, 50*time.Millisecond)
	defer l.Close()

	key := "user@example.com"
	l.Fail(key)
	if l.Allow(key) {
		t.Fatal("key should be locked")
	}
	time.Sleep(80 * time.Millisecond)
	if !l.Allow(key) {
		t.Error("lock should expire after the lock duration")
	}
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	l := newTestLimiter(1, time.Minute)
	defer l.Close()

	l.Fail("a@example.com")
	if l.Allow("a@example.com") {
		t.Error("a should be locked")
	}
	if !l.Allow("b@example.com") {
		t.Error("b should be unaffected by a's failures")
	}
}

func TestLimiterConcurrentFailures(t *testing.T) {
	l := newTestLimiter(100, time.Minute)
	defer l.Close()

	key := "user@example.com"
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Fail(key)
		}()
	}
	wg.Wait()

	if got := l.Remaining(key); got != 50 {
		t.Errorf("Remaining after 50 concurrent failures = %d, want 50", got)
	}
}

func TestLimiterCloseIsIdempotent(t *testing.T) {
	l := newTestLimiter(1, time.Minute)
	l.Close()
	l.Close()
}
