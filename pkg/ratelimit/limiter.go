// Package ratelimit provides an injected login-attempt limiter. The limiter
// is constructed in main and passed to the auth service as a dependency; no
// package-level singleton exists.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter gates authentication attempts per key (email or IP).
type Limiter interface {
	// Allow reports whether another attempt is permitted for key.
	Allow(key string) bool
	// Fail records a failed attempt for key.
	Fail(key string)
	// Reset clears the attempt record for key, typically after success.
	Reset(key string)
}

type attemptInfo struct {
	count     int
	lastTry   time.Time
	lockUntil time.Time
}

// MemoryLimiter is an in-process Limiter. Counters are mutex-guarded so
// concurrent increments within one process are atomic; no cross-process
// coordination is attempted. A background sweep drops stale entries.
type MemoryLimiter struct {
	mu           sync.RWMutex
	attempts     map[string]*attemptInfo
	maxAttempts  int
	lockDuration time.Duration
	done         chan struct{}
	closeOnce    sync.Once
}

// NewMemoryLimiter creates a limiter allowing maxAttempts failed attempts per
// key before locking the key for lockDuration. Expired records are swept
// every sweepInterval.
func NewMemoryLimiter(maxAttempts int, lockDuration, sweepInterval time.Duration) *MemoryLimiter {
	l := &MemoryLimiter{
		attempts:     make(map[string]*attemptInfo),
		maxAttempts:  maxAttempts,
		lockDuration: lockDuration,
		done:         make(chan struct{}),
	}
	go l.sweepLoop(sweepInterval)
	return l
}

func (l *MemoryLimiter) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.done:
			return
		}
	}
}

func (l *MemoryLimiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for key, attempt := range l.attempts {
		if now.After(attempt.lockUntil) && now.Sub(attempt.lastTry) > 24*time.Hour {
			delete(l.attempts, key)
		}
	}
}

func (l *MemoryLimiter) Allow(key string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	attempt, exists := l.attempts[key]
	if !exists {
		return true
	}
	return !time.Now().Before(attempt.lockUntil)
}

func (l *MemoryLimiter) Fail(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	attempt, exists := l.attempts[key]
	if !exists {
		attempt = &attemptInfo{}
		l.attempts[key] = attempt
	}

	attempt.count++
	attempt.lastTry = now
	if attempt.count >= l.maxAttempts {
		attempt.lockUntil = now.Add(l.lockDuration)
	}
}

func (l *MemoryLimiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.attempts, key)
}

// Remaining returns how many attempts are left before key locks.
func (l *MemoryLimiter) Remaining(key string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	attempt, exists := l.attempts[key]
	if !exists {
		return l.maxAttempts
	}
	remaining := l.maxAttempts - attempt.count
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Close stops the background sweep goroutine.
func (l *MemoryLimiter) Close() {
	l.closeOnce.Do(func() { close(l.done) })
}
